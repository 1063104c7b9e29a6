// internal/document/loader.go
package document

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// documentSchema validates one raw document record before field
// extraction: an object carrying at least one recognizable text field.
const documentSchema = `{
	"type": "object",
	"anyOf": [
		{"required": ["content"]},
		{"required": ["text"]},
		{"required": ["body"]},
		{"required": ["document"]},
		{"required": ["article"]},
		{"required": ["passage"]}
	]
}`

// textFields are tried in order when extracting a document's text.
var textFields = []string{"content", "text", "body", "document", "article", "passage"}

// collectionKeys unwrap JSON files that nest their records under a
// single well-known key.
var collectionKeys = []string{"documents", "data", "items", "articles"}

var schemaLoader = gojsonschema.NewStringLoader(documentSchema)

// LoadFile reads documents from a .json or .jsonl file. JSON files may
// hold a single object, an array of objects, or an object wrapping an
// array under one of the usual collection keys.
func LoadFile(path string) ([]*Document, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".jsonl":
		return loadJSONL(path)
	case ".json":
		return loadJSON(path)
	default:
		return nil, fmt.Errorf("unsupported file format %q (supported: .json, .jsonl)", ext)
	}
}

func loadJSONL(path string) ([]*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var docs []*Document
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var raw map[string]any
		if err := json.Unmarshal([]byte(line), &raw); err != nil {
			return nil, fmt.Errorf("invalid JSON on line %d of %s: %w", lineNum, path, err)
		}
		doc, err := fromRaw(raw, len(docs)+1)
		if err != nil {
			return nil, fmt.Errorf("line %d of %s: %w", lineNum, path, err)
		}
		docs = append(docs, doc)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return docs, nil
}

func loadJSON(path string) ([]*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var top any
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	records, err := flatten(top)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	docs := make([]*Document, 0, len(records))
	for i, raw := range records {
		doc, err := fromRaw(raw, i+1)
		if err != nil {
			return nil, fmt.Errorf("record %d of %s: %w", i+1, path, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// flatten normalizes the top-level JSON shape to a flat record list.
func flatten(top any) ([]map[string]any, error) {
	switch v := top.(type) {
	case []any:
		records := make([]map[string]any, 0, len(v))
		for i, item := range v {
			obj, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("element %d is not an object", i)
			}
			records = append(records, obj)
		}
		return records, nil
	case map[string]any:
		for _, key := range collectionKeys {
			if nested, ok := v[key].([]any); ok {
				return flatten(nested)
			}
		}
		return []map[string]any{v}, nil
	default:
		return nil, fmt.Errorf("unexpected top-level JSON type %T", top)
	}
}

func fromRaw(raw map[string]any, ordinal int) (*Document, error) {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("validating document: %w", err)
	}
	if !result.Valid() {
		content, err := fallbackText(raw)
		if err != nil {
			return nil, err
		}
		return buildDocument(raw, ordinal, content), nil
	}
	return buildDocument(raw, ordinal, extractText(raw)), nil
}

func buildDocument(raw map[string]any, ordinal int, content string) *Document {
	doc := &Document{
		ID:      stringField(raw, "id"),
		Title:   stringField(raw, "title"),
		Source:  stringField(raw, "source"),
		Type:    stringField(raw, "type"),
		Content: content,
	}
	if doc.ID == "" {
		if doc.Title != "" {
			doc.ID = doc.Title
		} else {
			doc.ID = fmt.Sprintf("doc_%d", ordinal)
		}
	}
	return doc
}

func extractText(raw map[string]any) string {
	for _, field := range textFields {
		v, ok := raw[field]
		if !ok || v == nil {
			continue
		}
		if items, ok := v.([]any); ok {
			parts := make([]string, 0, len(items))
			for _, item := range items {
				parts = append(parts, fmt.Sprint(item))
			}
			return strings.Join(parts, " ")
		}
		return fmt.Sprint(v)
	}
	return ""
}

// fallbackText concatenates all string values, in key order, when no
// recognized text field is present.
func fallbackText(raw map[string]any) (string, error) {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var parts []string
	for _, k := range keys {
		if s, ok := raw[k].(string); ok && s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("no text content found in document (keys: %s)", strings.Join(keys, ", "))
	}
	return strings.Join(parts, " "), nil
}

func stringField(raw map[string]any, key string) string {
	if s, ok := raw[key].(string); ok {
		return s
	}
	return ""
}
