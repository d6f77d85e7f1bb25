package pipeline

import (
	"github.com/strrl/chatpulse/internal/aggregator"
	"github.com/strrl/chatpulse/internal/emotion"
	"github.com/strrl/chatpulse/internal/parser"
)

// Report is everything one analysis request produces.
type Report struct {
	RunID        string          `json:"run_id"`
	Participant  string          `json:"participant"`
	Participants []string        `json:"participants"`
	Encoding     parser.Encoding `json:"encoding"`
	TableRows    int             `json:"table_rows"`
	ViewRows     int             `json:"view_rows"`
	DroppedLines int             `json:"dropped_lines"`

	Stats           Stage[aggregator.Stats]         `json:"stats"`
	BusyUsers       Stage[[]aggregator.UserShare]   `json:"busy_users"`
	MonthlyTimeline Stage[[]aggregator.Bucket]      `json:"monthly_timeline"`
	DailyTimeline   Stage[[]aggregator.Bucket]      `json:"daily_timeline"`
	WeekActivity    Stage[[]aggregator.Bucket]      `json:"week_activity"`
	MonthActivity   Stage[[]aggregator.Bucket]      `json:"month_activity"`
	Heatmap         Stage[aggregator.Heatmap]       `json:"heatmap"`
	Wordcloud       Stage[[]aggregator.TokenWeight] `json:"wordcloud"`
	Emoji           Stage[[]aggregator.EmojiCount]  `json:"emoji"`
	Emotion         Stage[emotion.Series]           `json:"emotion"`
	Events          Stage[[]emotion.Event]          `json:"events"`
}
