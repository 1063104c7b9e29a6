// internal/document/chunker_test.go
package document

import "testing"

func TestBuildChunksCount(t *testing.T) {
	cases := []struct {
		n    int
		want int
	}{
		{0, 0},
		{1, 1},
		{2, 3},
		{3, 6},
		{5, 12},
	}
	for _, tc := range cases {
		sentences := make([]string, tc.n)
		for i := range sentences {
			sentences[i] = "s"
		}
		if got := len(BuildChunks(sentences)); got != tc.want {
			t.Errorf("BuildChunks with %d sentences: got %d chunks, want %d", tc.n, got, tc.want)
		}
	}
}

func TestBuildChunksWindows(t *testing.T) {
	chunks := BuildChunks([]string{"John was arrested.", "Peter was also arrested.", "Both were released."})

	texts := make(map[string]Chunk, len(chunks))
	for _, c := range chunks {
		texts[c.Text] = c
	}

	combined, ok := texts["John was arrested. Peter was also arrested."]
	if !ok {
		t.Fatal("missing two-sentence window")
	}
	if combined.Start != 0 || combined.End != 2 {
		t.Errorf("two-sentence window range = [%d,%d), want [0,2)", combined.Start, combined.End)
	}

	full, ok := texts["John was arrested. Peter was also arrested. Both were released."]
	if !ok {
		t.Fatal("missing three-sentence window")
	}
	if full.Start != 0 || full.End != 3 {
		t.Errorf("three-sentence window range = [%d,%d), want [0,3)", full.Start, full.End)
	}
}

func TestDocumentCachesSplits(t *testing.T) {
	doc := &Document{ID: "d1", Content: "First sentence here. Second sentence here."}
	first := doc.Sentences()
	second := doc.Sentences()
	if len(first) != 2 {
		t.Fatalf("got %d sentences, want 2", len(first))
	}
	if &first[0] != &second[0] {
		t.Error("Sentences() should return the cached slice")
	}
	if got := len(doc.Chunks()); got != 3 {
		t.Errorf("got %d chunks, want 3", got)
	}
}
