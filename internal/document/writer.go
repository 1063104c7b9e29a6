// internal/document/writer.go
package document

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tohyewhong/qagredo-local/internal/util"
)

// Writer persists run artifacts under a provider/model/timestamp tree.
// The timestamp is locked at construction so every file from the same
// run lands in the same folder.
type Writer struct {
	baseDir  string
	provider string
	model    string
	runStamp string
}

// NewWriter creates a Writer rooted at baseDir for one pipeline run.
func NewWriter(baseDir, provider, model string) *Writer {
	return &Writer{
		baseDir:  baseDir,
		provider: util.Slugify(provider),
		model:    util.Slugify(model),
		runStamp: time.Now().Format("2006-01-02_150405"),
	}
}

// Dir returns the run's output directory, e.g.
// output/vllm/qwen-qwen2-5-7b-instruct/2026-02-13_143025.
func (w *Writer) Dir() string {
	return filepath.Join(w.baseDir, w.provider, w.model, w.runStamp)
}

// Save marshals data as indented JSON to <dir>/<outputType>.json and
// returns the written path.
func (w *Writer) Save(outputType string, data any) (string, error) {
	dir := w.Dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory %s: %w", dir, err)
	}

	encoded, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding %s output: %w", outputType, err)
	}

	path := filepath.Join(dir, outputType+".json")
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
