package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/docsift/internal/app"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		inputDir      string
		outputDir     string
		modelDir      string
		threshold     float64
		configPath    string
		recognizerURL string
		embedBase     string
		embedModel    string
		embedKey      string
		embedCache    string
		workers       int
		unitTimeout   time.Duration
		markers       string
		verbose       bool
	)

	flag.StringVar(&inputDir, "input", "", "Directory containing PDF and HTML source documents")
	flag.StringVar(&outputDir, "output", "", "Directory for per-document and batch artifacts")
	flag.StringVar(&modelDir, "models", "", "Directory holding the classifier artifact and vocabulary")
	flag.Float64Var(&threshold, "threshold", app.DefaultThreshold, "Probability threshold below which selections are masked")
	flag.StringVar(&configPath, "config", "", "Optional YAML/JSON config file; explicit flags win")
	flag.StringVar(&recognizerURL, "recognizer.url", os.Getenv("RECOGNIZER_URL"), "OCR recognizer service base URL")
	flag.StringVar(&embedBase, "embed.base", os.Getenv("EMBED_BASE_URL"), "OpenAI-compatible embedding base URL")
	flag.StringVar(&embedModel, "embed.model", os.Getenv("EMBED_MODEL"), "Embedding model name")
	flag.StringVar(&embedKey, "embed.key", os.Getenv("EMBED_API_KEY"), "API key for the embedding endpoint")
	flag.StringVar(&embedCache, "embed.cache", "", "Optional directory for the on-disk embedding vector cache")
	flag.IntVar(&workers, "workers", 0, "Max concurrent documents per stage (0 = default)")
	flag.DurationVar(&unitTimeout, "unit.timeout", 0, "Deadline for one unit of work (page recognition, embedding batch); 0 = 60s")
	flag.StringVar(&markers, "markers", "", "Comma-separated sentence terminal markers (default: double newline, period, question mark, exclamation mark)")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Parse()

	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	cfg := app.Config{
		InputDir:      inputDir,
		OutputDir:     outputDir,
		ModelDir:      modelDir,
		Threshold:     threshold,
		RecognizerURL: recognizerURL,
		EmbedBaseURL:  embedBase,
		EmbedModel:    embedModel,
		EmbedAPIKey:   embedKey,
		EmbedCacheDir: embedCache,
		Workers:       workers,
		UnitTimeout:   unitTimeout,
		Verbose:       verbose,
	}
	if s := strings.TrimSpace(markers); s != "" {
		for _, m := range strings.Split(s, ",") {
			if m != "" {
				cfg.Markers = append(cfg.Markers, m)
			}
		}
	}
	if configPath != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			log.Error().Err(err).Str("path", configPath).Msg("config file unreadable")
			os.Exit(1)
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	if cfg.UnitTimeout == 0 {
		cfg.UnitTimeout = 60 * time.Second
	}

	if err := run(cfg); err != nil {
		log.Error().Err(err).Msg("run failed")
		os.Exit(1)
	}
}

// run builds the app and executes one batch. Model load failures surface
// here as app.ErrModelLoad before any document is processed.
func run(cfg app.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		if errors.Is(err, app.ErrModelLoad) {
			return err
		}
		return fmt.Errorf("init: %w", err)
	}

	sum, err := a.Run(ctx)
	if err != nil {
		return err
	}
	log.Info().
		Int("documents", sum.Documents).
		Int("failed", sum.Failed).
		Int("masked", sum.Masked).
		Msg("done")
	return nil
}
