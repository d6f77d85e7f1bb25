package aggregator

import (
	"math"
	"sort"

	"github.com/strrl/chatpulse/internal/table"
)

// MostBusyUsers ranks senders by message count. Percent is the share of
// the view, rounded to two decimals.
func MostBusyUsers(v table.View) []UserShare {
	total := v.Len()
	if total == 0 {
		return []UserShare{}
	}

	counts := make(map[string]int)
	for _, r := range v.Rows() {
		counts[r.Sender]++
	}

	out := make([]UserShare, 0, len(counts))
	for sender, n := range counts {
		out = append(out, UserShare{
			Sender:  sender,
			Count:   n,
			Percent: math.Round(float64(n)/float64(total)*10000) / 100,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Sender < out[j].Sender
	})
	return out
}
