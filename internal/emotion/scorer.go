// Package emotion scores messages for emotional intensity and finds the
// stretches of a conversation where intensity departs from its norm.
//
// A message's intensity is
//
//	(Σ lexicon weights + 0.5·'!' + 0.5·shouted words + 0.5·emoji) / max(1, tokens)
//
// so it lies in [0, +∞): zero is flat, neutral text and larger values are
// more intense. The score is a pure function of the body.
package emotion

import (
	"sort"
	"strings"

	"github.com/strrl/chatpulse/internal/table"
	"github.com/strrl/chatpulse/internal/textutil"
)

// MinRows is the smallest view the emotion stage runs on.
const MinRows = 10

type ScorerConfig struct {
	Lexicon           Lexicon
	ExclamationWeight float64
	ShoutWeight       float64
	EmojiWeight       float64
}

func DefaultScorerConfig() ScorerConfig {
	return ScorerConfig{
		Lexicon:           DefaultLexicon(),
		ExclamationWeight: 0.5,
		ShoutWeight:       0.5,
		EmojiWeight:       0.5,
	}
}

// Scorer is immutable after construction and safe for concurrent use.
type Scorer struct {
	cfg ScorerConfig
}

func NewScorer(cfg ScorerConfig) *Scorer {
	if cfg.Lexicon == nil {
		cfg.Lexicon = DefaultLexicon()
	}
	cfg.Lexicon = cfg.Lexicon.Merge(nil)
	return &Scorer{cfg: cfg}
}

// Score returns the intensity of one message body.
func (s *Scorer) Score(body string) float64 {
	words := textutil.Words(body)

	var total float64
	tokens := 0
	for _, w := range words {
		tok := textutil.Clean(w)
		if tok == "" {
			continue
		}
		tokens++
		total += s.cfg.Lexicon[tok]
		if textutil.IsShouted(w) {
			total += s.cfg.ShoutWeight
		}
	}
	total += s.cfg.ExclamationWeight * float64(strings.Count(body, "!"))
	total += s.cfg.EmojiWeight * float64(len(textutil.Emojis(body)))

	if tokens < 1 {
		tokens = 1
	}
	return total / float64(tokens)
}

// Series scores every qualifying message of v and averages the scores per
// hour block. Group notifications and media placeholders do not qualify;
// hour blocks without a qualifying message are left out.
func (s *Scorer) Series(v table.View) Series {
	sums := make(map[string]float64)
	counts := make(map[string]int)

	for _, r := range v.Rows() {
		if r.IsSystem() || r.IsMedia {
			continue
		}
		sums[r.HourBlock] += s.Score(r.Body)
		counts[r.HourBlock]++
	}

	blocks := make([]string, 0, len(counts))
	for b := range counts {
		blocks = append(blocks, b)
	}
	sort.Strings(blocks)

	out := make(Series, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, Point{
			HourBlock: b,
			Messages:  counts[b],
			Intensity: sums[b] / float64(counts[b]),
		})
	}
	return out
}
