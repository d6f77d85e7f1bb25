package aggregator

import (
	"sort"

	"github.com/strrl/chatpulse/internal/table"
	"github.com/strrl/chatpulse/internal/textutil"
)

// EmojiHelper counts emoji across the view, most frequent first. Ties keep
// the order in which each emoji first appeared. The result is empty, not
// nil, when there are none.
func EmojiHelper(v table.View) []EmojiCount {
	counts := make(map[string]int)
	var order []string

	for _, r := range v.Rows() {
		for _, e := range textutil.Emojis(r.Body) {
			if counts[e] == 0 {
				order = append(order, e)
			}
			counts[e]++
		}
	}

	out := make([]EmojiCount, 0, len(order))
	for _, e := range order {
		out = append(out, EmojiCount{Emoji: e, Count: counts[e]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}
