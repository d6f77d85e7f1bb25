package aggregator

import (
	"fmt"
	"time"

	"github.com/strrl/chatpulse/internal/table"
)

// Weekdays is the calendar order used by the week histogram and heatmap.
var Weekdays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// WeekActivityMap counts messages per weekday, Monday to Sunday. Days without
// messages are present with a zero count.
func WeekActivityMap(v table.View) []Bucket {
	counts := make(map[string]int, 7)
	for _, r := range v.Rows() {
		counts[r.DayName]++
	}

	out := make([]Bucket, 0, len(Weekdays))
	for _, d := range Weekdays {
		out = append(out, Bucket{Label: d.String(), Count: counts[d.String()]})
	}
	return out
}

// MonthActivityMap counts messages per month name, January to December,
// across all years.
func MonthActivityMap(v table.View) []Bucket {
	var counts [13]int
	for _, r := range v.Rows() {
		counts[r.MonthNum]++
	}

	out := make([]Bucket, 0, 12)
	for m := time.January; m <= time.December; m++ {
		out = append(out, Bucket{Label: m.String(), Count: counts[m]})
	}
	return out
}

// HourPeriod labels the hour starting at h, e.g. "13-14" or "23-00".
func HourPeriod(h int) string {
	return fmt.Sprintf("%02d-%02d", h, (h+1)%24)
}

// ActivityHeatmap builds the full 7×24 weekday × hour grid.
func ActivityHeatmap(v table.View) Heatmap {
	dayIndex := make(map[string]int, len(Weekdays))
	hm := Heatmap{
		Days:  make([]string, len(Weekdays)),
		Hours: make([]string, 24),
		Cells: make([][]int, len(Weekdays)),
	}
	for i, d := range Weekdays {
		hm.Days[i] = d.String()
		hm.Cells[i] = make([]int, 24)
		dayIndex[d.String()] = i
	}
	for h := 0; h < 24; h++ {
		hm.Hours[h] = HourPeriod(h)
	}

	for _, r := range v.Rows() {
		hm.Cells[dayIndex[r.DayName]][r.Hour]++
	}
	return hm
}
