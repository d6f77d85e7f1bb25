package emotion

import (
	"strings"
)

// Lexicon maps a lowercase token to its intensity weight. Weights are
// non-negative; a missing token weighs zero.
type Lexicon map[string]float64

// DefaultLexicon returns a fresh copy of the built-in English lexicon.
func DefaultLexicon() Lexicon {
	return Lexicon{
		// strong
		"love": 1.0, "hate": 1.0, "angry": 1.0, "furious": 1.0, "amazing": 1.0,
		"awesome": 1.0, "terrible": 1.0, "awful": 1.0, "disgusting": 1.0,
		"omg": 1.0, "wtf": 1.0, "damn": 1.0, "hurt": 1.0, "scared": 1.0,
		"miss": 0.9, "cry": 0.9, "crying": 0.9, "excited": 0.9, "sorry": 0.8,
		// moderate
		"happy": 0.7, "sad": 0.7, "upset": 0.7, "worried": 0.7, "great": 0.6,
		"annoyed": 0.6, "wow": 0.6, "yay": 0.6, "ugh": 0.6, "please": 0.4,
		"lol": 0.5, "lmao": 0.6, "haha": 0.5, "hahaha": 0.6, "thanks": 0.4,
		"thank": 0.4, "nice": 0.4, "cool": 0.3, "fine": 0.2, "ok": 0.1,
	}
}

// Merge returns a copy of l with the entries of overrides applied on top.
// Keys are lowercased; a negative override removes the entry.
func (l Lexicon) Merge(overrides map[string]float64) Lexicon {
	out := make(Lexicon, len(l)+len(overrides))
	for k, v := range l {
		out[k] = v
	}
	for k, v := range overrides {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		if v < 0 {
			delete(out, k)
			continue
		}
		out[k] = v
	}
	return out
}
