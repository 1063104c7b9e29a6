// Package document loads source documents and splits them into
// sentences and overlapping chunks for grounding checks.
package document

import "sync"

// Document is one source text flowing through the pipeline.
type Document struct {
	ID      string `json:"id"`
	Title   string `json:"title,omitempty"`
	Source  string `json:"source,omitempty"`
	Type    string `json:"type,omitempty"`
	Content string `json:"content"`

	once      sync.Once
	sentences []string
	chunks    []Chunk
}

// Sentences returns the document's sentence segmentation, computed once.
func (d *Document) Sentences() []string {
	d.split()
	return d.sentences
}

// Chunks returns the document's sliding-window chunks, computed once.
func (d *Document) Chunks() []Chunk {
	d.split()
	return d.chunks
}

func (d *Document) split() {
	d.once.Do(func() {
		d.sentences = SegmentSentences(d.Content)
		d.chunks = BuildChunks(d.sentences)
	})
}
