// Package dataset reads question/answer pairs from JSON, YAML and CSV files
// and writes scored pairs back out.
package dataset

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/datar-psa/goifd/api"
)

var (
	// ErrUnsupportedFormat is returned for files that are not JSON, YAML or CSV
	ErrUnsupportedFormat = errors.New("unsupported format, use JSON, YAML or CSV")
	// ErrNoPairs is returned when a file holds no usable question/answer pair
	ErrNoPairs = errors.New("no valid Q&A pairs found")
)

// Format is a dataset file format
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
)

// ParseFormat accepts json, yaml, yml and csv in any case
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// FormatOf derives the format from a file extension
func FormatOf(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// columnAliases maps Malay CSV headers to field names
var columnAliases = map[string]string{
	"Soalan":  "question",
	"Jawapan": "answer",
	"Sumber":  "source",
}

// Load reads pairs from path, choosing the decoder by extension.
// Question and answer are trimmed; entries without them are dropped.
func Load(path string) ([]api.Pair, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	pairs, err := Read(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return pairs, nil
}

// Read decodes pairs in the given format
func Read(r io.Reader, format Format) ([]api.Pair, error) {
	var (
		records []map[string]any
		err     error
	)
	switch format {
	case FormatJSON:
		records, err = readJSONRecords(r)
	case FormatYAML:
		records, err = readYAMLRecords(r)
	case FormatCSV:
		records, err = readCSVRecords(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}

	pairs := make([]api.Pair, 0, len(records))
	for _, rec := range records {
		p, ok := pairFromRecord(rec)
		if ok {
			pairs = append(pairs, p)
		}
	}
	if len(pairs) == 0 {
		return nil, ErrNoPairs
	}
	return pairs, nil
}

// readJSONRecords accepts an array of objects or a single object
func readJSONRecords(r io.Reader) ([]map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		data = append(append([]byte{'['}, data...), ']')
	}

	var items []any
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("invalid JSON format: %w", err)
	}
	// non-object entries are skipped, not fatal
	records := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if rec, ok := item.(map[string]any); ok {
			records = append(records, rec)
		}
	}
	return records, nil
}

func readYAMLRecords(r io.Reader) ([]map[string]any, error) {
	var node yaml.Node
	if err := yaml.NewDecoder(r).Decode(&node); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("invalid YAML format: %w", err)
	}

	var records []map[string]any
	doc := &node
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		doc = doc.Content[0]
	}
	if doc.Kind == yaml.MappingNode {
		var rec map[string]any
		if err := doc.Decode(&rec); err != nil {
			return nil, fmt.Errorf("invalid YAML format: %w", err)
		}
		return []map[string]any{rec}, nil
	}
	var items []any
	if err := doc.Decode(&items); err != nil {
		return nil, fmt.Errorf("invalid YAML format: %w", err)
	}
	for _, item := range items {
		if rec, ok := item.(map[string]any); ok {
			records = append(records, rec)
		}
	}
	return records, nil
}

func readCSVRecords(r io.Reader) ([]map[string]any, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("invalid CSV header: %w", err)
	}
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if alias, ok := columnAliases[h]; ok {
			h = alias
		}
		header[i] = h
	}

	var records []map[string]any
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid CSV row: %w", err)
		}
		rec := make(map[string]any, len(header))
		for i, v := range row {
			if i < len(header) {
				rec[header[i]] = v
			}
		}
		// blank cells count as missing in CSV
		if strings.TrimSpace(fmt.Sprint(rec["question"])) == "" || strings.TrimSpace(fmt.Sprint(rec["answer"])) == "" {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func pairFromRecord(rec map[string]any) (api.Pair, bool) {
	q, hasQ := rec["question"]
	a, hasA := rec["answer"]
	if !hasQ || !hasA || q == nil || a == nil {
		return api.Pair{}, false
	}
	p := api.Pair{
		Question: strings.TrimSpace(fmt.Sprint(q)),
		Answer:   strings.TrimSpace(fmt.Sprint(a)),
	}
	if s, ok := rec["source"]; ok && s != nil {
		p.Source = fmt.Sprint(s)
	}
	return p, true
}
