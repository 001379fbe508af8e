package quality

// DefaultWords is a small built-in English word list used when the model
// directory does not ship a vocabulary file. It is deliberately tiny: the
// quality score is a diagnostic, and a coarse vocabulary still separates
// clean OCR output from garbled output well enough for the histogram.
var DefaultWords = []string{
	"a", "about", "after", "again", "against", "all", "also", "an", "and",
	"any", "are", "as", "at", "back", "be", "because", "been", "before",
	"between", "both", "but", "by", "can", "come", "could", "day", "did",
	"do", "does", "down", "each", "even", "first", "for", "from", "get",
	"give", "go", "good", "had", "has", "have", "he", "her", "here", "him",
	"his", "how", "i", "if", "in", "into", "is", "it", "its", "just",
	"know", "last", "like", "long", "look", "made", "make", "many", "may",
	"me", "more", "most", "much", "must", "my", "new", "no", "not", "now",
	"of", "off", "on", "one", "only", "or", "other", "our", "out", "over",
	"own", "people", "said", "same", "see", "she", "should", "so", "some",
	"such", "take", "than", "that", "the", "their", "them", "then", "there",
	"these", "they", "this", "those", "through", "time", "to", "two", "under",
	"up", "us", "use", "very", "was", "way", "we", "well", "were", "what",
	"when", "where", "which", "while", "who", "will", "with", "word",
	"work", "world", "would", "year", "you", "your",
}
