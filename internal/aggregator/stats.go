package aggregator

import (
	"github.com/strrl/chatpulse/internal/table"
	"github.com/strrl/chatpulse/internal/textutil"
)

// FetchStats counts messages, whitespace-separated words, media placeholders
// and link occurrences. A URL sent twice counts as two links.
func FetchStats(v table.View) Stats {
	var s Stats
	for _, r := range v.Rows() {
		s.Messages++
		s.Words += len(textutil.Words(r.Body))
		s.Links += len(r.URLs)
		if r.IsMedia {
			s.Media++
		}
		if r.IsDeleted {
			s.Deleted++
		}
	}
	return s
}
