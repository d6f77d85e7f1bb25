// Package textutil holds the tokenization shared by the aggregators and the
// emotion scorer, so that word counts and scores agree on what a word is.
package textutil

import (
	"strings"
	"unicode"

	"github.com/forPelevin/gomoji"
	"github.com/rivo/uniseg"
)

// Words splits s on whitespace, the same split used for word counts.
func Words(s string) []string {
	return strings.Fields(s)
}

// Tokens lowercases the words of s and trims surrounding punctuation.
// Words made only of punctuation or symbols are dropped.
func Tokens(s string) []string {
	fields := strings.Fields(s)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if t := Clean(f); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Clean lowercases w and trims anything that is not a letter or digit from
// both ends.
func Clean(w string) string {
	w = strings.TrimFunc(w, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	return strings.ToLower(w)
}

// IsShouted reports whether w has at least two letters and all of them are
// upper case.
func IsShouted(w string) bool {
	letters := 0
	for _, r := range w {
		if !unicode.IsLetter(r) {
			continue
		}
		if !unicode.IsUpper(r) {
			return false
		}
		letters++
	}
	return letters >= 2
}

// Emojis returns every emoji in s in order of appearance. Multi-codepoint
// emoji (skin tones, ZWJ sequences, flags) are returned as one element.
func Emojis(s string) []string {
	var out []string
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		cluster := gr.Str()
		if isPlain(cluster) {
			continue
		}
		if gomoji.ContainsEmoji(cluster) {
			out = append(out, cluster)
		}
	}
	return out
}

// isPlain short-circuits clusters that cannot be emoji: ASCII letters,
// digits, punctuation and whitespace.
func isPlain(cluster string) bool {
	for _, r := range cluster {
		if r > unicode.MaxASCII {
			return false
		}
	}
	return true
}
