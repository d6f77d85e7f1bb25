package aggregator

import (
	"fmt"
	"sort"
	"time"

	"github.com/strrl/chatpulse/internal/table"
)

// MonthlyTimeline counts messages per calendar month, oldest first. Labels
// read "December-2023".
func MonthlyTimeline(v table.View) []Bucket {
	type month struct {
		year int
		num  int
	}

	counts := make(map[month]int)
	names := make(map[month]string)
	for _, r := range v.Rows() {
		k := month{year: r.Year, num: r.MonthNum}
		counts[k]++
		names[k] = r.MonthName
	}

	keys := make([]month, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].num < keys[j].num
	})

	out := make([]Bucket, 0, len(keys))
	for _, k := range keys {
		out = append(out, Bucket{
			Label: fmt.Sprintf("%s-%d", names[k], k.year),
			Count: counts[k],
		})
	}
	return out
}

// DailyTimeline counts messages per calendar day, oldest first. Labels read
// "2023-12-31", which sort chronologically.
func DailyTimeline(v table.View) []Bucket {
	counts := make(map[string]int)
	for _, r := range v.Rows() {
		counts[r.OnlyDate.Format(time.DateOnly)]++
	}

	days := make([]string, 0, len(counts))
	for d := range counts {
		days = append(days, d)
	}
	sort.Strings(days)

	out := make([]Bucket, 0, len(days))
	for _, d := range days {
		out = append(out, Bucket{Label: d, Count: counts[d]})
	}
	return out
}
