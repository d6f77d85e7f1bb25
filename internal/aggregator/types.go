// Package aggregator holds the descriptive statistics computed over a
// filtered view of the chat table. Every function is pure: it reads the
// view and returns a fresh value.
package aggregator

// Stats are the headline counts of a view.
type Stats struct {
	Messages int `json:"messages"`
	Words    int `json:"words"`
	Media    int `json:"media"`
	Links    int `json:"links"`
	Deleted  int `json:"deleted"`
}

// Bucket is one labelled count of a timeline or histogram.
type Bucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Heatmap is a weekday × hour grid. Cells[i][j] counts the messages sent on
// Days[i] during Hours[j]. Every cell is present.
type Heatmap struct {
	Days  []string `json:"days"`
	Hours []string `json:"hours"`
	Cells [][]int  `json:"cells"`
}

// TokenWeight is one wordcloud entry.
type TokenWeight struct {
	Token  string `json:"token"`
	Weight int    `json:"weight"`
}

// EmojiCount is one row of the emoji table.
type EmojiCount struct {
	Emoji string `json:"emoji"`
	Count int    `json:"count"`
}

// UserShare is a sender's share of the conversation.
type UserShare struct {
	Sender  string  `json:"sender"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}
