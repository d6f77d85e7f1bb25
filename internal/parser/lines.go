package parser

import (
	"fmt"
	"regexp"
	"strings"
)

// Format is one timestamp-prefix convention. Pattern must define the named
// groups "date", "time" and "rest"; rest is the remainder of the line after
// the prefix separator.
type Format struct {
	Name    string
	Pattern *regexp.Regexp
}

// NewFormat compiles pattern and checks that it exposes the required groups.
func NewFormat(name, pattern string) (Format, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Format{}, fmt.Errorf("failed to compile format %q: %w", name, err)
	}
	for _, group := range []string{"date", "time", "rest"} {
		if re.SubexpIndex(group) < 0 {
			return Format{}, fmt.Errorf("format %q is missing named group %q", name, group)
		}
	}
	return Format{Name: name, Pattern: re}, nil
}

const clockPattern = `\d{1,2}[:.]\d{2}(?:[:.]\d{2})?(?:[ \x{00A0}\x{202F}]?[aApP]\.?[mM]\.?)?`

// DefaultFormats covers the two export conventions in the wild:
//
//	12/31/23, 10:15 pm - Alice: hi
//	[31/12/2023, 10:15:30] Alice: hi
func DefaultFormats() []Format {
	return []Format{
		mustFormat("dash", `^(?P<date>\d{1,2}[/.\-]\d{1,2}[/.\-]\d{2,4}),? (?P<time>`+clockPattern+`) [-–] (?P<rest>.*)$`),
		mustFormat("bracket", `^\[(?P<date>\d{1,2}[/.\-]\d{1,2}[/.\-]\d{2,4}),? (?P<time>`+clockPattern+`)\] (?P<rest>.*)$`),
	}
}

func mustFormat(name, pattern string) Format {
	f, err := NewFormat(name, pattern)
	if err != nil {
		panic(err)
	}
	return f
}

// senderRE splits "Alice: hi" into sender and body. The sender is the
// shortest run of characters before the first ": ".
var senderRE = regexp.MustCompile(`^([^\n]+?): (.*)$`)

// LineParser cuts an export into raw message lines.
type LineParser struct {
	formats []Format
}

// NewLineParser returns a parser trying formats in order. With no formats
// the defaults are used.
func NewLineParser(formats ...Format) *LineParser {
	if len(formats) == 0 {
		formats = DefaultFormats()
	}
	return &LineParser{formats: formats}
}

// Parse returns one RawLine per physical line matching a timestamp prefix.
// Lines without a prefix are appended, newline-joined, to the previous
// message body; leading lines with nothing to attach to are discarded.
func (p *LineParser) Parse(text string) []RawLine {
	var out []RawLine

	text = strings.TrimRight(text, "\r\n")
	if text == "" {
		return nil
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")

		if raw, ok := p.match(line); ok {
			out = append(out, raw)
			continue
		}

		if len(out) == 0 {
			continue
		}
		last := &out[len(out)-1]
		last.Body = last.Body + "\n" + line
	}

	return out
}

func (p *LineParser) match(line string) (RawLine, bool) {
	candidate := strings.TrimLeft(line, "\ufeff\u200e\u200f")

	for _, f := range p.formats {
		m := f.Pattern.FindStringSubmatch(candidate)
		if m == nil {
			continue
		}

		raw := RawLine{
			Date: m[f.Pattern.SubexpIndex("date")],
			Time: m[f.Pattern.SubexpIndex("time")],
		}
		rest := m[f.Pattern.SubexpIndex("rest")]
		if sm := senderRE.FindStringSubmatch(rest); sm != nil {
			raw.Sender = strings.TrimSpace(strings.TrimLeft(sm[1], "\u200e~\u00a0 "))
			raw.Body = sm[2]
		} else {
			raw.Body = rest
		}
		if raw.Sender == "" {
			raw.Body = rest
		}
		return raw, true
	}

	return RawLine{}, false
}
