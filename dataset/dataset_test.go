package dataset

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/datar-psa/goifd/api"
)

func TestRead(t *testing.T) {
	tests := []struct {
		name    string
		format  Format
		input   string
		want    []api.Pair
		wantErr error
	}{
		{
			name:   "json array",
			format: FormatJSON,
			input:  `[{"question":" What is leave? ","answer":"Annual leave.\n","source":"hr.pdf"},{"question":"Q2","answer":"A2"}]`,
			want: []api.Pair{
				{Question: "What is leave?", Answer: "Annual leave.", Source: "hr.pdf"},
				{Question: "Q2", Answer: "A2"},
			},
		},
		{
			name:   "json single object",
			format: FormatJSON,
			input:  `{"question":"Q","answer":"A"}`,
			want:   []api.Pair{{Question: "Q", Answer: "A"}},
		},
		{
			name:   "json skips entries without keys and stringifies values",
			format: FormatJSON,
			input:  `[{"question":"Q"},{"question":"How many days?","answer":14}]`,
			want:   []api.Pair{{Question: "How many days?", Answer: "14"}},
		},
		{
			name:   "json skips non-object entries",
			format: FormatJSON,
			input:  `[{"question":"Q1","answer":"A1"},"x",42,null,["Q","A"],{"question":"Q2","answer":"A2"}]`,
			want:   []api.Pair{{Question: "Q1", Answer: "A1"}, {Question: "Q2", Answer: "A2"}},
		},
		{
			name:    "json only non-object entries",
			format:  FormatJSON,
			input:   `["x","y"]`,
			wantErr: ErrNoPairs,
		},
		{
			name:    "json malformed",
			format:  FormatJSON,
			input:   `[{"question":`,
			wantErr: errors.New("invalid JSON format"),
		},
		{
			name:   "csv malay headers",
			format: FormatCSV,
			input:  "Soalan,Jawapan,Sumber\nApakah cuti tahunan?,14 hari,polisi.pdf\n,kosong,x\nSoalan tanpa jawapan,,y\n",
			want:   []api.Pair{{Question: "Apakah cuti tahunan?", Answer: "14 hari", Source: "polisi.pdf"}},
		},
		{
			name:   "csv english headers with bom",
			format: FormatCSV,
			input:  "\ufeffquestion,answer\n\"Q, with comma\",\" A \"\n",
			want:   []api.Pair{{Question: "Q, with comma", Answer: "A"}},
		},
		{
			name:   "yaml sequence",
			format: FormatYAML,
			input:  "- question: Q1\n  answer: A1\n  source: s\n- question: Q2\n  answer: A2\n",
			want:   []api.Pair{{Question: "Q1", Answer: "A1", Source: "s"}, {Question: "Q2", Answer: "A2"}},
		},
		{
			name:   "yaml skips scalar entries",
			format: FormatYAML,
			input:  "- question: Q1\n  answer: A1\n- just a string\n- question: Q2\n  answer: A2\n",
			want:   []api.Pair{{Question: "Q1", Answer: "A1"}, {Question: "Q2", Answer: "A2"}},
		},
		{
			name:   "yaml single mapping",
			format: FormatYAML,
			input:  "question: Q\nanswer: A\n",
			want:   []api.Pair{{Question: "Q", Answer: "A"}},
		},
		{
			name:    "no pairs",
			format:  FormatJSON,
			input:   `[]`,
			wantErr: ErrNoPairs,
		},
		{
			name:    "csv header only",
			format:  FormatCSV,
			input:   "question,answer\n",
			wantErr: ErrNoPairs,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(strings.NewReader(tt.input), tt.format)
			if tt.wantErr != nil {
				if err == nil {
					t.Fatalf("Read() error = nil, want %v", tt.wantErr)
				}
				if !errors.Is(err, tt.wantErr) && !strings.Contains(err.Error(), tt.wantErr.Error()) {
					t.Errorf("Read() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Read() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "json", want: FormatJSON},
		{in: ".CSV", want: FormatCSV},
		{in: "yml", want: FormatYAML},
		{in: "yaml", want: FormatYAML},
		{in: "txt", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("ParseFormat(%q) error = %v, want ErrUnsupportedFormat", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestScoredFileName(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		want   string
	}{
		{"data/pairs.json", FormatCSV, "pairs_scored.csv"},
		{"soalan.csv", FormatCSV, "soalan_scored.csv"},
		{"pairs.yaml", FormatJSON, "pairs_scored.json"},
		{"", FormatCSV, "scored_pairs_scored.csv"},
	}

	for _, tt := range tests {
		if got := ScoredFileName(tt.name, tt.format); got != tt.want {
			t.Errorf("ScoredFileName(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func sampleScored() []api.ScoredPair {
	return []api.ScoredPair{
		{
			Pair:             api.Pair{Question: "Q1", Answer: "Answer, with comma", Source: "doc.pdf"},
			IFDScore:         0.53333,
			ConditionedScore: 0.8,
			DirectScore:      0.5,
			Tier:             api.TierMedium,
			ValueCategory:    api.ValueMedium,
			Recommendation:   "Medium value - useful data",
		},
		{
			Pair:           api.Pair{Question: "Q2", Answer: ""},
			Tier:           api.TierMedium,
			ValueCategory:  api.ValueLow,
			Recommendation: "Invalid pair - missing question or answer",
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleScored()); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	want := "Question,Answer,Source,IFD Score,Difficulty Tier,Value Category,Conditioned Score,Direct Score,Recommendation\n" +
		"Q1,\"Answer, with comma\",doc.pdf,0.533,medium,medium,0.8,0.5,Medium value - useful data\n" +
		"Q2,,,0,medium,low,0,0,Invalid pair - missing question or answer\n"
	if buf.String() != want {
		t.Errorf("WriteCSV() =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleScored()[:1]); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	for _, key := range []string{`"question": "Q1"`, `"ifd_score": 0.53333`, `"tier": "medium"`, `"value_category": "medium"`, `"conditioned_score": 0.8`} {
		if !strings.Contains(buf.String(), key) {
			t.Errorf("WriteJSON() missing %s in\n%s", key, buf.String())
		}
	}

	buf.Reset()
	if err := WriteJSON(&buf, nil); err != nil || strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("WriteJSON(nil) = %q, %v", buf.String(), err)
	}
}

func TestSaveAndLoadScored(t *testing.T) {
	dir := t.TempDir()
	pairs := sampleScored()

	for _, format := range []Format{FormatJSON, FormatYAML, FormatCSV} {
		t.Run(string(format), func(t *testing.T) {
			path := filepath.Join(dir, ScoredFileName("pairs.json", format))
			if err := Save(path, format, pairs); err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			got, err := LoadScored(path)
			if err != nil {
				t.Fatalf("LoadScored() error = %v", err)
			}
			if len(got) != len(pairs) {
				t.Fatalf("LoadScored() = %d pairs, want %d", len(got), len(pairs))
			}
			if got[0].Pair != pairs[0].Pair || got[0].Tier != pairs[0].Tier || got[1].Recommendation != pairs[1].Recommendation {
				t.Errorf("LoadScored() = %+v", got)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "soalan.csv")
	if err := os.WriteFile(path, []byte("Soalan,Jawapan\nQ,A\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got) != 1 || got[0].Question != "Q" {
		t.Errorf("Load() = %+v", got)
	}

	txt := filepath.Join(dir, "pairs.txt")
	if err := os.WriteFile(txt, []byte("Q: A"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(txt); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Load(txt) error = %v, want ErrUnsupportedFormat", err)
	}

	if _, err := Load(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("Load(missing) expected error")
	}
}
