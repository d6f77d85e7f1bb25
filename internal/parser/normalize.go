package parser

import (
	"regexp"
	"strings"
	"time"
)

var (
	dateLayouts  = []string{"2/1/2006", "2/1/06", "1/2/2006", "1/2/06"}
	clockLayouts = []string{"15:04", "15:04:05", "3:04 PM", "3:04:05 PM"}
)

// DefaultLayouts lists the accepted "date clock" layouts in priority order.
// Day-first wins over month-first whenever both read the date.
func DefaultLayouts() []string {
	layouts := make([]string, 0, len(dateLayouts)*len(clockLayouts))
	for _, d := range dateLayouts {
		for _, c := range clockLayouts {
			layouts = append(layouts, d+" "+c)
		}
	}
	return layouts
}

// DefaultMediaMarkers are exact body values standing in for an attachment.
func DefaultMediaMarkers() []string {
	return []string{
		"<Media omitted>",
		"image omitted",
		"video omitted",
		"audio omitted",
		"sticker omitted",
		"GIF omitted",
		"document omitted",
	}
}

// DefaultDeletedMarkers are exact body values of a deleted message.
func DefaultDeletedMarkers() []string {
	return []string{
		"This message was deleted",
		"You deleted this message",
	}
}

// urlRE is deliberately loose: anything that starts like a link runs until
// whitespace or an obvious delimiter.
var urlRE = regexp.MustCompile(`(?i)\b(?:https?://|www\.)[^\s<>"]+`)

// NormalizerConfig configures a Normalizer.
type NormalizerConfig struct {
	Layouts        []string
	MediaMarkers   []string
	DeletedMarkers []string
	Location       *time.Location
}

// DefaultNormalizerConfig returns the built-in layouts and markers, in UTC.
func DefaultNormalizerConfig() NormalizerConfig {
	return NormalizerConfig{
		Layouts:        DefaultLayouts(),
		MediaMarkers:   DefaultMediaMarkers(),
		DeletedMarkers: DefaultDeletedMarkers(),
		Location:       time.UTC,
	}
}

// Normalizer turns raw lines into records.
type Normalizer struct {
	layouts  []string
	media    map[string]struct{}
	deleted  map[string]struct{}
	location *time.Location
}

func NewNormalizer(cfg NormalizerConfig) *Normalizer {
	if len(cfg.Layouts) == 0 {
		cfg.Layouts = DefaultLayouts()
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Normalizer{
		layouts:  append([]string(nil), cfg.Layouts...),
		media:    toSet(cfg.MediaMarkers),
		deleted:  toSet(cfg.DeletedMarkers),
		location: cfg.Location,
	}
}

// Normalize interprets raw. It reports false when the timestamp matches
// none of the configured layouts.
func (n *Normalizer) Normalize(raw RawLine) (Record, bool) {
	return n.normalizeWith(n.layouts, raw)
}

// NormalizeAll normalizes every line, dropping the ones whose timestamp
// cannot be read. The second result is the number of dropped lines.
//
// The first layout that reads every line is used for the whole export, so
// a month-first export is not read day-first wherever both would parse.
// When no single layout fits, each line falls back to the full list.
func (n *Normalizer) NormalizeAll(lines []RawLine) ([]Record, int) {
	layouts := n.layouts
	if l, ok := n.exportLayout(lines); ok {
		layouts = []string{l}
	}

	records := make([]Record, 0, len(lines))
	dropped := 0
	for _, l := range lines {
		rec, ok := n.normalizeWith(layouts, l)
		if !ok {
			dropped++
			continue
		}
		records = append(records, rec)
	}
	return records, dropped
}

// ParseTimestamp tries each layout in order; the first success wins.
func (n *Normalizer) ParseTimestamp(date, clock string) (time.Time, bool) {
	return n.parse(n.layouts, date, clock)
}

func (n *Normalizer) exportLayout(lines []RawLine) (string, bool) {
	if len(lines) == 0 {
		return "", false
	}
	for _, layout := range n.layouts {
		fits := true
		for _, l := range lines {
			if _, ok := n.parse([]string{layout}, l.Date, l.Time); !ok {
				fits = false
				break
			}
		}
		if fits {
			return layout, true
		}
	}
	return "", false
}

func (n *Normalizer) normalizeWith(layouts []string, raw RawLine) (Record, bool) {
	ts, ok := n.parse(layouts, raw.Date, raw.Time)
	if !ok {
		return Record{}, false
	}

	rec := Record{
		Timestamp: ts,
		Sender:    raw.Sender,
		Body:      raw.Body,
	}
	if !raw.HasSender() {
		rec.Sender = GroupNotification
	}

	marker := strings.TrimSpace(strings.Trim(raw.Body, "\u200e"))
	if _, ok := n.media[marker]; ok {
		rec.IsMedia = true
	}
	if _, ok := n.deleted[marker]; ok {
		rec.IsDeleted = true
	}
	rec.URLs = urlRE.FindAllString(raw.Body, -1)

	return rec, true
}

// parse reads date and clock with the first matching layout. Each layout
// is tried against the value as written, then with the clock canonicalized,
// then with '.' and '-' date separators rewritten to '/'.
func (n *Normalizer) parse(layouts []string, date, clock string) (time.Time, bool) {
	date, clock = strings.TrimSpace(date), strings.TrimSpace(clock)
	values := []string{
		date + " " + clock,
		date + " " + normalizeClock(clock),
		normalizeDate(date) + " " + normalizeClock(clock),
	}
	for _, layout := range layouts {
		for _, value := range values {
			if ts, err := time.ParseInLocation(layout, value, n.location); err == nil {
				return ts, true
			}
		}
	}
	return time.Time{}, false
}

func normalizeDate(s string) string {
	return strings.NewReplacer(".", "/", "-", "/").Replace(strings.TrimSpace(s))
}

var clockRE = regexp.MustCompile(`^(\d{1,2})[:.](\d{2})(?:[:.](\d{2}))? ?(?:([AP])\.?M\.?)?$`)

// normalizeClock rewrites "10.15 p.m." style clocks into "10:15 PM".
func normalizeClock(s string) string {
	s = strings.Map(func(r rune) rune {
		if r == '\u00a0' || r == '\u202f' {
			return ' '
		}
		return r
	}, strings.TrimSpace(s))
	s = strings.ToUpper(s)

	m := clockRE.FindStringSubmatch(s)
	if m == nil {
		return s
	}
	out := m[1] + ":" + m[2]
	if m[3] != "" {
		out += ":" + m[3]
	}
	if m[4] != "" {
		out += " " + m[4] + "M"
	}
	return out
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
