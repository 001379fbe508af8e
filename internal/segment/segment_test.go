package segment

import "testing"

func TestSplit_TerminalMarkers(t *testing.T) {
	s := New()
	got := s.Split("doc", "First one. Second two? Third three!\n\nFourth four")
	want := []string{"First one", "Second two", "Third three", "Fourth four"}
	if len(got) != len(want) {
		t.Fatalf("expected %d sentences, got %d: %v", len(want), len(got), got)
	}
	for i, sent := range got {
		if sent.Text != want[i] {
			t.Fatalf("sentence %d: expected %q, got %q", i, want[i], sent.Text)
		}
		if sent.Index != i {
			t.Fatalf("sentence %d: expected index %d, got %d", i, i, sent.Index)
		}
		if sent.Doc != "doc" {
			t.Fatalf("sentence %d: wrong doc %q", i, sent.Doc)
		}
	}
}

func TestSplit_NoMarkerYieldsWholeText(t *testing.T) {
	s := New()
	in := "a sentence with no terminal punctuation at all"
	got := s.Split("doc", in)
	if len(got) != 1 {
		t.Fatalf("expected exactly one sentence, got %d", len(got))
	}
	if got[0].Text != in || got[0].Index != 0 {
		t.Fatalf("unexpected sentence: %+v", got[0])
	}
}

func TestSplit_EmptyText(t *testing.T) {
	s := New()
	if got := s.Split("doc", ""); got != nil {
		t.Fatalf("expected nil for empty text, got %v", got)
	}
	if got := s.Split("doc", "   \n\t"); got != nil {
		t.Fatalf("expected nil for whitespace text, got %v", got)
	}
}

func TestSplit_IndicesContiguousWithEmptyFragments(t *testing.T) {
	s := New()
	got := s.Split("doc", "One... Two.. . Three.")
	want := []string{"One", "Two", "Three"}
	if len(got) != len(want) {
		t.Fatalf("expected %d sentences, got %d: %v", len(want), len(got), got)
	}
	for i, sent := range got {
		if sent.Index != i || sent.Text != want[i] {
			t.Fatalf("sentence %d: got %+v", i, sent)
		}
	}
}

func TestSplit_CustomMarkers(t *testing.T) {
	s := New(";")
	got := s.Split("doc", "alpha; beta; gamma")
	if len(got) != 3 || got[2].Text != "gamma" {
		t.Fatalf("unexpected split: %v", got)
	}
}

func TestSplit_OnlyMarkers(t *testing.T) {
	s := New()
	if got := s.Split("doc", "... !!! ??"); got != nil {
		t.Fatalf("expected nil for marker-only text, got %v", got)
	}
}
