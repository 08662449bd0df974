package dataset

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/datar-psa/goifd/api"
)

// CSVHeader is the column order of scored CSV exports
var CSVHeader = []string{
	"Question", "Answer", "Source",
	"IFD Score", "Difficulty Tier", "Value Category",
	"Conditioned Score", "Direct Score",
	"Recommendation",
}

// ScoredFileName returns "<base>_scored.<format>" for an input file name
func ScoredFileName(name string, format Format) string {
	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." {
		base = "scored_pairs"
	}
	return base + "_scored." + string(format)
}

// Save writes scored pairs to path in format
func Save(path string, format Format, pairs []api.ScoredPair) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return Write(f, format, pairs)
}

// Write encodes scored pairs in format
func Write(w io.Writer, format Format, pairs []api.ScoredPair) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, pairs)
	case FormatYAML:
		return WriteYAML(w, pairs)
	case FormatCSV:
		return WriteCSV(w, pairs)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// WriteCSV writes a header row and one row per pair, scores rounded to 3 decimals
func WriteCSV(w io.Writer, pairs []api.ScoredPair) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, p := range pairs {
		row := []string{
			p.Question,
			p.Answer,
			p.Source,
			formatScore(p.IFDScore),
			string(p.Tier),
			string(p.ValueCategory),
			formatScore(p.ConditionedScore),
			formatScore(p.DirectScore),
			p.Recommendation,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes pairs as an indented JSON array
func WriteJSON(w io.Writer, pairs []api.ScoredPair) error {
	if pairs == nil {
		pairs = []api.ScoredPair{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(pairs)
}

// WriteYAML writes pairs as a YAML sequence
func WriteYAML(w io.Writer, pairs []api.ScoredPair) error {
	if pairs == nil {
		pairs = []api.ScoredPair{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(pairs); err != nil {
		return err
	}
	return enc.Close()
}

// LoadScored reads a file written by Save
func LoadScored(path string) ([]api.ScoredPair, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scored dataset: %w", err)
	}
	defer f.Close()

	pairs, err := ReadScored(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return pairs, nil
}

// ReadScored decodes scored pairs in format
func ReadScored(r io.Reader, format Format) ([]api.ScoredPair, error) {
	var pairs []api.ScoredPair
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&pairs); err != nil {
			return nil, fmt.Errorf("invalid JSON format: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&pairs); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("invalid YAML format: %w", err)
		}
	case FormatCSV:
		return readScoredCSV(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return pairs, nil
}

func readScoredCSV(r io.Reader) ([]api.ScoredPair, error) {
	rows, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("invalid CSV format: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	if len(rows[0]) != len(CSVHeader) || strings.TrimPrefix(rows[0][0], "\ufeff") != CSVHeader[0] {
		return nil, fmt.Errorf("invalid CSV format: expected header %s", strings.Join(CSVHeader, ","))
	}

	pairs := make([]api.ScoredPair, 0, len(rows)-1)
	for i, row := range rows[1:] {
		var scores [3]float64
		for j, col := range []int{3, 6, 7} {
			v, err := strconv.ParseFloat(strings.TrimSpace(row[col]), 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: invalid %s: %w", i+2, CSVHeader[col], err)
			}
			scores[j] = v
		}
		pairs = append(pairs, api.ScoredPair{
			Pair:             api.Pair{Question: row[0], Answer: row[1], Source: row[2]},
			IFDScore:         scores[0],
			Tier:             api.Tier(row[4]),
			ValueCategory:    api.ValueCategory(row[5]),
			ConditionedScore: scores[1],
			DirectScore:      scores[2],
			Recommendation:   row[8],
		})
	}
	return pairs, nil
}

func formatScore(v float64) string {
	return strconv.FormatFloat(math.Round(v*1000)/1000, 'f', -1, 64)
}
