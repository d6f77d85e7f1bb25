// Package pipeline runs one analysis request end to end: decode, parse,
// build the table, then every aggregation and the emotion stages over the
// selected participant's view. Nothing is shared between requests.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/strrl/chatpulse/internal/aggregator"
	"github.com/strrl/chatpulse/internal/emotion"
	"github.com/strrl/chatpulse/internal/parser"
	"github.com/strrl/chatpulse/internal/table"
)

var (
	// ErrNoMessages means the export contained no readable message.
	ErrNoMessages = errors.New("chat file has no readable messages")
	// ErrUnknownParticipant means the requested participant is not in the chat.
	ErrUnknownParticipant = errors.New("unknown participant")
)

type Config struct {
	Formats    []parser.Format
	Normalizer parser.NormalizerConfig
	Stopwords  []string
	MaxTokens  int
	Scorer     emotion.ScorerConfig

	MinTimelineRows int
	MinHeatmapRows  int
	MinEmotionRows  int
	Window          int
	EventThreshold  float64
}

func DefaultConfig() Config {
	return Config{
		Formats:         parser.DefaultFormats(),
		Normalizer:      parser.DefaultNormalizerConfig(),
		Stopwords:       aggregator.DefaultStopwords(),
		MaxTokens:       200,
		Scorer:          emotion.DefaultScorerConfig(),
		MinTimelineRows: 5,
		MinHeatmapRows:  10,
		MinEmotionRows:  emotion.MinRows,
		Window:          emotion.DefaultWindow,
		EventThreshold:  emotion.DefaultThreshold,
	}
}

// Analyzer holds the immutable components built from a Config. One
// Analyzer may serve any number of requests.
type Analyzer struct {
	cfg        Config
	lines      *parser.LineParser
	normalizer *parser.Normalizer
	wordcloud  *aggregator.Wordcloud
	scorer     *emotion.Scorer
	log        zerolog.Logger
}

func New(cfg Config, log zerolog.Logger) *Analyzer {
	return &Analyzer{
		cfg:        cfg,
		lines:      parser.NewLineParser(cfg.Formats...),
		normalizer: parser.NewNormalizer(cfg.Normalizer),
		wordcloud: aggregator.NewWordcloud(
			aggregator.WithStopwords(cfg.Stopwords),
			aggregator.WithMediaMarkers(cfg.Normalizer.MediaMarkers),
			aggregator.WithMaxTokens(cfg.MaxTokens),
		),
		scorer: emotion.NewScorer(cfg.Scorer),
		log:    log,
	}
}

// Loaded is a parsed export.
type Loaded struct {
	Table    *table.Table
	Encoding parser.Encoding
	Dropped  int
}

// Load decodes and parses raw into a chat table. It returns ErrNoMessages
// when no line could be read as a message.
func (a *Analyzer) Load(raw []byte) (*Loaded, error) {
	text, enc := parser.Decode(raw)
	if enc == parser.EncodingPermissive {
		a.log.Warn().Msg("export is not valid utf-8 or utf-16; undecodable bytes were dropped")
	}

	lines := a.lines.Parse(text)
	records, dropped := a.normalizer.NormalizeAll(lines)
	if dropped > 0 {
		a.log.Info().Int("dropped", dropped).Msg("lines with unreadable timestamps were dropped")
	}

	tbl := table.Build(records)
	if tbl.Empty() {
		return nil, ErrNoMessages
	}

	return &Loaded{Table: tbl, Encoding: enc, Dropped: dropped}, nil
}

// Analyze loads raw and analyzes it for participant. An empty participant
// means Overall.
func (a *Analyzer) Analyze(ctx context.Context, raw []byte, participant string) (*Report, error) {
	loaded, err := a.Load(raw)
	if err != nil {
		return nil, err
	}
	return a.AnalyzeLoaded(ctx, loaded, participant)
}

// AnalyzeLoaded runs every stage over an already loaded table. A stage that
// is skipped or fails never stops its siblings.
func (a *Analyzer) AnalyzeLoaded(ctx context.Context, loaded *Loaded, participant string) (*Report, error) {
	if participant == "" {
		participant = table.Overall
	}

	tbl := loaded.Table
	participants := tbl.Participants()
	if !slices.Contains(participants, participant) && participant != parser.GroupNotification {
		return nil, fmt.Errorf("%w: %q", ErrUnknownParticipant, participant)
	}

	runID := uuid.NewString()
	log := a.log.With().Str("run_id", runID).Str("participant", participant).Logger()

	view := tbl.Filter(participant)
	report := &Report{
		RunID:        runID,
		Participant:  participant,
		Participants: participants,
		Encoding:     loaded.Encoding,
		TableRows:    tbl.Len(),
		ViewRows:     view.Len(),
		DroppedLines: loaded.Dropped,
	}
	log.Info().Int("table_rows", report.TableRows).Int("view_rows", report.ViewRows).Msg("analysis started")

	a.describe(log, report, tbl, view)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	a.activity(log, report, tbl, view)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	a.content(log, report, view)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	a.emotions(log, report, tbl, view)

	log.Info().Msg("analysis finished")
	return report, nil
}

func (a *Analyzer) describe(log zerolog.Logger, r *Report, tbl *table.Table, view table.View) {
	r.Stats = runStage(log, "stats", func() Stage[aggregator.Stats] {
		return computed(aggregator.FetchStats(view))
	})

	r.BusyUsers = runStage(log, "busy_users", func() Stage[[]aggregator.UserShare] {
		if view.Participant != table.Overall {
			return skipped[[]aggregator.UserShare]("only available for " + table.Overall)
		}
		return computed(aggregator.MostBusyUsers(tbl.Filter(table.Overall)))
	})
}

func (a *Analyzer) activity(log zerolog.Logger, r *Report, tbl *table.Table, view table.View) {
	tooFewForTimeline := tbl.Len() < a.cfg.MinTimelineRows
	timelineReason := fmt.Sprintf("needs at least %d messages", a.cfg.MinTimelineRows)

	r.MonthlyTimeline = runStage(log, "monthly_timeline", func() Stage[[]aggregator.Bucket] {
		if tooFewForTimeline {
			return skipped[[]aggregator.Bucket](timelineReason)
		}
		return computed(aggregator.MonthlyTimeline(view))
	})
	r.DailyTimeline = runStage(log, "daily_timeline", func() Stage[[]aggregator.Bucket] {
		if tooFewForTimeline {
			return skipped[[]aggregator.Bucket](timelineReason)
		}
		return computed(aggregator.DailyTimeline(view))
	})

	r.WeekActivity = runStage(log, "week_activity", func() Stage[[]aggregator.Bucket] {
		return computed(aggregator.WeekActivityMap(view))
	})
	r.MonthActivity = runStage(log, "month_activity", func() Stage[[]aggregator.Bucket] {
		return computed(aggregator.MonthActivityMap(view))
	})

	r.Heatmap = runStage(log, "heatmap", func() Stage[aggregator.Heatmap] {
		if tbl.Len() < a.cfg.MinHeatmapRows {
			return skipped[aggregator.Heatmap](fmt.Sprintf("needs at least %d messages", a.cfg.MinHeatmapRows))
		}
		return computed(aggregator.ActivityHeatmap(view))
	})
}

func (a *Analyzer) content(log zerolog.Logger, r *Report, view table.View) {
	r.Wordcloud = runStage(log, "wordcloud", func() Stage[[]aggregator.TokenWeight] {
		weights := a.wordcloud.Weights(view)
		if len(weights) == 0 {
			return empty(weights, "no words left after stopword removal")
		}
		return computed(weights)
	})

	r.Emoji = runStage(log, "emoji", func() Stage[[]aggregator.EmojiCount] {
		counts := aggregator.EmojiHelper(view)
		if len(counts) == 0 {
			return empty(counts, "no emojis found")
		}
		return computed(counts)
	})
}

func (a *Analyzer) emotions(log zerolog.Logger, r *Report, tbl *table.Table, view table.View) {
	var (
		normalized emotion.Series
		normErr    error
	)

	r.Emotion = runStage(log, "emotion", func() Stage[emotion.Series] {
		if tbl.Len() < a.cfg.MinEmotionRows || view.Len() < a.cfg.MinEmotionRows {
			return skipped[emotion.Series](fmt.Sprintf("chat too small for emotion analysis (needs %d messages)", a.cfg.MinEmotionRows))
		}
		series := a.scorer.Series(view)
		if len(series) == 0 {
			return empty(series, "no scorable messages")
		}
		normalized, normErr = emotion.Normalize(series, a.cfg.Window)
		if normErr != nil {
			return computed(series)
		}
		return computed(normalized)
	})

	r.Events = runStage(log, "events", func() Stage[[]emotion.Event] {
		if r.Emotion.Status != StatusComputed {
			return skipped[[]emotion.Event]("no emotion series")
		}
		if normErr != nil {
			return skipped[[]emotion.Event]("emotion variance too low")
		}
		events := emotion.DetectEvents(normalized, a.cfg.EventThreshold)
		if len(events) == 0 {
			return empty(events, "no emotional events detected")
		}
		return computed(events)
	})
}
