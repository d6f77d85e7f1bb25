package aggregator

import (
	"sort"
	"strings"

	"github.com/strrl/chatpulse/internal/parser"
	"github.com/strrl/chatpulse/internal/table"
	"github.com/strrl/chatpulse/internal/textutil"
)

// DefaultStopwords is a short English list. Chats in other languages should
// supply their own through WithStopwords.
func DefaultStopwords() []string {
	return []string{
		"a", "an", "and", "are", "as", "at", "be", "but", "by", "for", "from",
		"have", "he", "her", "his", "i", "if", "in", "is", "it", "it's", "me",
		"my", "no", "not", "of", "on", "or", "so", "that", "the", "this", "to",
		"was", "we", "what", "with", "you", "your",
	}
}

type WordcloudOption func(*wordcloudConfig)

type wordcloudConfig struct {
	stopwords    map[string]struct{}
	mediaMarkers map[string]struct{}
	maxTokens    int
}

// WithStopwords replaces the stopword list. Matching is case-insensitive.
func WithStopwords(words []string) WordcloudOption {
	return func(c *wordcloudConfig) {
		m := make(map[string]struct{}, len(words))
		for _, w := range words {
			w = strings.ToLower(strings.TrimSpace(w))
			if w != "" {
				m[w] = struct{}{}
			}
		}
		c.stopwords = m
	}
}

// WithMediaMarkers sets the bodies skipped as attachment placeholders.
func WithMediaMarkers(markers []string) WordcloudOption {
	return func(c *wordcloudConfig) {
		m := make(map[string]struct{}, len(markers))
		for _, mk := range markers {
			m[mk] = struct{}{}
		}
		c.mediaMarkers = m
	}
}

// WithMaxTokens caps the number of returned tokens. Zero means no cap.
func WithMaxTokens(n int) WordcloudOption {
	return func(c *wordcloudConfig) {
		if n >= 0 {
			c.maxTokens = n
		}
	}
}

// Wordcloud turns message bodies into token weights. It is immutable after
// construction.
type Wordcloud struct {
	cfg wordcloudConfig
}

func NewWordcloud(opts ...WordcloudOption) *Wordcloud {
	cfg := wordcloudConfig{maxTokens: 200}
	WithStopwords(DefaultStopwords())(&cfg)
	WithMediaMarkers(parser.DefaultMediaMarkers())(&cfg)
	for _, o := range opts {
		o(&cfg)
	}
	return &Wordcloud{cfg: cfg}
}

// Weights returns token frequencies sorted by weight, heaviest first. Ties
// keep first-appearance order. Group notifications and media placeholders
// do not contribute.
func (w *Wordcloud) Weights(v table.View) []TokenWeight {
	counts := make(map[string]int)
	var order []string

	for _, r := range v.Rows() {
		if r.IsSystem() || r.IsMedia {
			continue
		}
		if _, ok := w.cfg.mediaMarkers[strings.TrimSpace(r.Body)]; ok {
			continue
		}
		for _, tok := range textutil.Tokens(r.Body) {
			if _, skip := w.cfg.stopwords[tok]; skip {
				continue
			}
			if counts[tok] == 0 {
				order = append(order, tok)
			}
			counts[tok]++
		}
	}

	out := make([]TokenWeight, 0, len(order))
	for _, tok := range order {
		out = append(out, TokenWeight{Token: tok, Weight: counts[tok]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Weight > out[j].Weight })

	if w.cfg.maxTokens > 0 && len(out) > w.cfg.maxTokens {
		out = out[:w.cfg.maxTokens]
	}
	return out
}

// WeightMap is Weights as a token → weight map.
func (w *Wordcloud) WeightMap(v table.View) map[string]int {
	weights := w.Weights(v)
	m := make(map[string]int, len(weights))
	for _, tw := range weights {
		m[tw.Token] = tw.Weight
	}
	return m
}
