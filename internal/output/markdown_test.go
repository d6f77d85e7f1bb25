package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/strrl/chatpulse/internal/aggregator"
	"github.com/strrl/chatpulse/internal/emotion"
	"github.com/strrl/chatpulse/internal/pipeline"
)

func sampleReport() *pipeline.Report {
	return &pipeline.Report{
		RunID:        "run-1",
		Participant:  "Alice B.",
		Participants: []string{"Overall", "Alice B.", "Bob"},
		Encoding:     "utf-8",
		TableRows:    12,
		ViewRows:     7,
		Stats: pipeline.Stage[aggregator.Stats]{
			Status: pipeline.StatusComputed,
			Value:  aggregator.Stats{Messages: 7, Words: 21, Media: 1, Links: 2},
		},
		BusyUsers: pipeline.Stage[[]aggregator.UserShare]{Status: pipeline.StatusSkipped, Reason: "only available for Overall"},
		MonthlyTimeline: pipeline.Stage[[]aggregator.Bucket]{
			Status: pipeline.StatusComputed,
			Value:  []aggregator.Bucket{{Label: "March-2024", Count: 7}},
		},
		Wordcloud: pipeline.Stage[[]aggregator.TokenWeight]{
			Status: pipeline.StatusComputed,
			Value:  []aggregator.TokenWeight{{Token: "a|b", Weight: 3}},
		},
		Emoji: pipeline.Stage[[]aggregator.EmojiCount]{Status: pipeline.StatusEmpty, Reason: "no emojis found", Value: []aggregator.EmojiCount{}},
		Emotion: pipeline.Stage[emotion.Series]{
			Status: pipeline.StatusComputed,
			Value:  emotion.Series{{HourBlock: "2024-03-01 09:00", Messages: 2, Intensity: 0.5, Z: 1.25, Normalized: true}},
		},
		Events: pipeline.Stage[[]emotion.Event]{Status: pipeline.StatusEmpty, Reason: "no emotional events detected", Value: []emotion.Event{}},
	}
}

func TestMarkdown(t *testing.T) {
	md := Markdown(sampleReport())

	for _, want := range []string{
		"# Chat analysis: Alice B.",
		"| 7 | 21 | 1 | 2 | 0 |",
		"_Skipped: only available for Overall._",
		"| March-2024 | 7 |",
		"| a\\|b | 3 |",
		"_None found (no emojis found)._",
		"| 2024-03-01 09:00 | 2 | 0.500 | 1.25 | - |",
		"_None found (no emotional events detected)._",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestMarkdown_FlatEmotionHasNoZ(t *testing.T) {
	r := sampleReport()
	r.Emotion.Value = emotion.Series{{HourBlock: "2024-03-01 09:00", Messages: 3, Intensity: 0.4}}

	md := Markdown(r)
	if want := "| 2024-03-01 09:00 | 3 | 0.400 | - | - |"; !strings.Contains(md, want) {
		t.Fatalf("markdown missing %q:\n%s", want, md)
	}
}

func TestRender_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, sampleReport(), FormatJSON); err != nil {
		t.Fatalf("Render: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	emoji, ok := decoded["emoji"].(map[string]any)
	if !ok || emoji["status"] != "empty" {
		t.Fatalf("unexpected emoji stage: %v", decoded["emoji"])
	}
	if v, ok := emoji["value"].([]any); !ok || len(v) != 0 {
		t.Fatalf("empty stage should encode an empty list, got %v", emoji["value"])
	}
}

func TestGenerator_Generate(t *testing.T) {
	dir := t.TempDir()
	path, err := NewGenerator(dir).Generate(sampleReport(), FormatMarkdown)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	base := filepath.Base(path)
	if !strings.HasPrefix(base, "chatpulse-alice-b-") || !strings.HasSuffix(base, ".md") {
		t.Fatalf("unexpected file name %q", path)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.HasPrefix(string(b), "# Chat analysis") {
		t.Fatalf("unexpected content: %q", b)
	}
}

func TestGenerator_DistinctFilesForLookalikeNames(t *testing.T) {
	dir := t.TempDir()
	gen := NewGenerator(dir)

	paths := make(map[string]string)
	for _, name := range []string{"Алиса", "Борис", "李雷", "Alice B.", "alice-b"} {
		r := sampleReport()
		r.Participant = name
		path, err := gen.Generate(r, FormatJSON)
		if err != nil {
			t.Fatalf("Generate(%q): %v", name, err)
		}
		if prev, ok := paths[path]; ok {
			t.Fatalf("%q and %q share report file %q", prev, name, path)
		}
		paths[path] = name
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != len(paths) {
		t.Fatalf("expected %d files, got %d", len(paths), len(entries))
	}
}

func TestReportFilename_Stable(t *testing.T) {
	if reportFilename("Bob", FormatMarkdown) != reportFilename("Bob", FormatMarkdown) {
		t.Fatalf("file name must be stable for the same participant")
	}
}

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{"": FormatMarkdown, "md": FormatMarkdown, "JSON": FormatJSON}
	for in, want := range cases {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("html"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"Overall":   "overall",
		"Alice B.":  "alice-b",
		"  ":        "unnamed",
		"Ünïcode 😀": "n-code",
	}
	for in, want := range cases {
		if got := sanitizeFilename(in); got != want {
			t.Fatalf("sanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}
