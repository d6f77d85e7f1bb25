package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/strrl/chatpulse/internal/aggregator"
	"github.com/strrl/chatpulse/internal/emotion"
	"github.com/strrl/chatpulse/internal/pipeline"
)

type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// ParseFormat accepts "markdown", "md" and "json".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q", s)
	}
}

func (f Format) ext() string {
	if f == FormatJSON {
		return "json"
	}
	return "md"
}

// Generator writes reports into a directory, one file per participant.
type Generator struct {
	outputDir string
}

func NewGenerator(outputDir string) *Generator {
	return &Generator{
		outputDir: outputDir,
	}
}

// Generate writes r to <dir>/chatpulse-<participant>-<id>.<ext> and
// returns the path. id is derived from the exact participant name, so
// names that sanitize alike still get distinct files.
func (g *Generator) Generate(r *pipeline.Report, format Format) (path string, err error) {
	if err := os.MkdirAll(g.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(g.outputDir, reportFilename(r.Participant, format))
	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("failed to create report file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			path, err = "", fmt.Errorf("failed to close report file: %w", cerr)
		}
	}()

	if err := Render(file, r, format); err != nil {
		return "", err
	}
	return filename, nil
}

func reportFilename(participant string, format Format) string {
	id := uuid.NewSHA1(uuid.NameSpaceOID, []byte(participant)).String()[:8]
	return fmt.Sprintf("chatpulse-%s-%s.%s", sanitizeFilename(participant), id, format.ext())
}

// Render writes r to w in the given format.
func Render(w io.Writer, r *pipeline.Report, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		return nil
	default:
		if _, err := io.WriteString(w, Markdown(r)); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		return nil
	}
}

// Markdown renders the report as a markdown document.
func Markdown(r *pipeline.Report) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Chat analysis: %s\n\n", r.Participant))
	sb.WriteString(fmt.Sprintf("**Messages in chat:** %d\n", r.TableRows))
	sb.WriteString(fmt.Sprintf("**Messages analyzed:** %d\n", r.ViewRows))
	sb.WriteString(fmt.Sprintf("**Encoding:** %s\n", r.Encoding))
	if r.DroppedLines > 0 {
		sb.WriteString(fmt.Sprintf("**Unreadable lines dropped:** %d\n", r.DroppedLines))
	}
	sb.WriteString(fmt.Sprintf("**Participants:** %s\n\n", strings.Join(r.Participants, ", ")))

	section(&sb, "Top statistics", r.Stats.Status, r.Stats.Reason, func() {
		s := r.Stats.Value
		sb.WriteString("| Messages | Words | Media | Links | Deleted |\n")
		sb.WriteString("|---:|---:|---:|---:|---:|\n")
		sb.WriteString(fmt.Sprintf("| %d | %d | %d | %d | %d |\n", s.Messages, s.Words, s.Media, s.Links, s.Deleted))
	})

	section(&sb, "Most busy users", r.BusyUsers.Status, r.BusyUsers.Reason, func() {
		sb.WriteString("| User | Messages | Percent |\n|---|---:|---:|\n")
		for _, u := range r.BusyUsers.Value {
			sb.WriteString(fmt.Sprintf("| %s | %d | %.2f |\n", u.Sender, u.Count, u.Percent))
		}
	})

	buckets(&sb, "Monthly timeline", r.MonthlyTimeline)
	buckets(&sb, "Daily timeline", r.DailyTimeline)
	buckets(&sb, "Most busy day", r.WeekActivity)
	buckets(&sb, "Most busy month", r.MonthActivity)

	section(&sb, "Weekly activity map", r.Heatmap.Status, r.Heatmap.Reason, func() {
		heatmap(&sb, r.Heatmap.Value)
	})

	section(&sb, "Most common words", r.Wordcloud.Status, r.Wordcloud.Reason, func() {
		sb.WriteString("| Word | Weight |\n|---|---:|\n")
		for _, tw := range r.Wordcloud.Value {
			sb.WriteString(fmt.Sprintf("| %s | %d |\n", escapeCell(tw.Token), tw.Weight))
		}
	})

	section(&sb, "Emoji analysis", r.Emoji.Status, r.Emoji.Reason, func() {
		sb.WriteString("| Emoji | Count |\n|---|---:|\n")
		for _, e := range r.Emoji.Value {
			sb.WriteString(fmt.Sprintf("| %s | %d |\n", e.Emoji, e.Count))
		}
	})

	section(&sb, "Emotion intensity", r.Emotion.Status, r.Emotion.Reason, func() {
		emotionTable(&sb, r.Emotion.Value)
	})

	section(&sb, "Detected emotional events", r.Events.Status, r.Events.Reason, func() {
		sb.WriteString("| Start | End | Polarity | Peak |z| |\n|---|---|---|---:|\n")
		for _, ev := range r.Events.Value {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %.2f |\n", ev.StartBucket, ev.EndBucket, ev.Polarity, ev.PeakIntensity))
		}
	})

	return sb.String()
}

// section writes a heading and either body or a note on why there is
// nothing to show. Empty stages read "none found".
func section(sb *strings.Builder, title string, status pipeline.Status, reason string, body func()) {
	sb.WriteString(fmt.Sprintf("## %s\n\n", title))
	switch status {
	case pipeline.StatusSkipped:
		sb.WriteString(fmt.Sprintf("_Skipped: %s._\n\n", reason))
	case pipeline.StatusEmpty:
		sb.WriteString(fmt.Sprintf("_None found (%s)._\n\n", reason))
	default:
		body()
		sb.WriteString("\n")
	}
}

func buckets(sb *strings.Builder, title string, st pipeline.Stage[[]aggregator.Bucket]) {
	section(sb, title, st.Status, st.Reason, func() {
		sb.WriteString("| Period | Messages |\n|---|---:|\n")
		for _, b := range st.Value {
			sb.WriteString(fmt.Sprintf("| %s | %d |\n", b.Label, b.Count))
		}
	})
}

func heatmap(sb *strings.Builder, hm aggregator.Heatmap) {
	sb.WriteString("| Day |")
	for _, h := range hm.Hours {
		sb.WriteString(" " + h + " |")
	}
	sb.WriteString("\n|---|")
	sb.WriteString(strings.Repeat("---:|", len(hm.Hours)))
	sb.WriteString("\n")
	for i, day := range hm.Days {
		sb.WriteString("| " + day + " |")
		for _, c := range hm.Cells[i] {
			sb.WriteString(fmt.Sprintf(" %d |", c))
		}
		sb.WriteString("\n")
	}
}

func emotionTable(sb *strings.Builder, s emotion.Series) {
	sb.WriteString("| Hour block | Messages | Intensity | z | z smooth |\n|---|---:|---:|---:|---:|\n")
	for _, p := range s {
		smooth := "-"
		if p.Smoothed {
			smooth = fmt.Sprintf("%.2f", p.ZSmooth)
		}
		z := "-"
		if p.Normalized {
			z = fmt.Sprintf("%.2f", p.Z)
		}
		sb.WriteString(fmt.Sprintf("| %s | %d | %.3f | %s | %s |\n", p.HourBlock, p.Messages, p.Intensity, z, smooth))
	}
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}

func sanitizeFilename(s string) string {
	reg := regexp.MustCompile(`[^a-zA-Z0-9_-]+`)
	result := reg.ReplaceAllString(s, "-")
	result = strings.Trim(result, "-")
	if len(result) > 50 {
		result = result[:50]
	}
	if result == "" {
		result = "unnamed"
	}
	return strings.ToLower(result)
}
