// Package config loads chatpulse settings from an optional YAML file and
// CHATPULSE_* environment variables, in that order of precedence (the
// environment wins), and validates the result.
package config

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"

	"github.com/strrl/chatpulse/internal/aggregator"
	"github.com/strrl/chatpulse/internal/emotion"
	"github.com/strrl/chatpulse/internal/parser"
	"github.com/strrl/chatpulse/internal/pipeline"
)

type Config struct {
	Log        LogConfig        `yaml:"log"`
	Parser     ParserConfig     `yaml:"parser"`
	Wordcloud  WordcloudConfig  `yaml:"wordcloud"`
	Emotion    EmotionConfig    `yaml:"emotion"`
	Thresholds ThresholdsConfig `yaml:"thresholds"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug|info|warn|error
	Pretty bool   `yaml:"pretty"` // console output instead of JSON
}

type FormatConfig struct {
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`
}

type ParserConfig struct {
	// Formats replace the built-in prefix patterns when set.
	Formats        []FormatConfig `yaml:"formats"`
	Layouts        []string       `yaml:"layouts"`
	MediaMarkers   []string       `yaml:"media_markers"`
	DeletedMarkers []string       `yaml:"deleted_markers"`
	Timezone       string         `yaml:"timezone"`
}

type WordcloudConfig struct {
	Stopwords     []string `yaml:"stopwords"`
	StopwordsFile string   `yaml:"stopwords_file"`
	MaxTokens     int      `yaml:"max_tokens"`
}

type EmotionConfig struct {
	// Lexicon entries are merged over the built-in lexicon; a negative
	// weight removes a word.
	Lexicon           map[string]float64 `yaml:"lexicon"`
	ExclamationWeight float64            `yaml:"exclamation_weight"`
	ShoutWeight       float64            `yaml:"shout_weight"`
	EmojiWeight       float64            `yaml:"emoji_weight"`
	Window            int                `yaml:"window"`
	EventThreshold    float64            `yaml:"event_threshold"`
}

type ThresholdsConfig struct {
	TimelineRows int `yaml:"timeline_rows"`
	HeatmapRows  int `yaml:"heatmap_rows"`
	EmotionRows  int `yaml:"emotion_rows"`
}

func DefaultConfig() Config {
	scorer := emotion.DefaultScorerConfig()
	return Config{
		Log: LogConfig{Level: "info"},
		Parser: ParserConfig{
			Layouts:        parser.DefaultLayouts(),
			MediaMarkers:   parser.DefaultMediaMarkers(),
			DeletedMarkers: parser.DefaultDeletedMarkers(),
			Timezone:       "UTC",
		},
		Wordcloud: WordcloudConfig{
			Stopwords: aggregator.DefaultStopwords(),
			MaxTokens: 200,
		},
		Emotion: EmotionConfig{
			ExclamationWeight: scorer.ExclamationWeight,
			ShoutWeight:       scorer.ShoutWeight,
			EmojiWeight:       scorer.EmojiWeight,
			Window:            emotion.DefaultWindow,
			EventThreshold:    emotion.DefaultThreshold,
		},
		Thresholds: ThresholdsConfig{
			TimelineRows: 5,
			HeatmapRows:  10,
			EmotionRows:  emotion.MinRows,
		},
	}
}

// Load reads path (skipped when empty), applies environment overrides and
// validates the result.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to decode config file: %w", err)
		}
	}

	applyEnv(&cfg)

	if cfg.Wordcloud.StopwordsFile != "" {
		words, err := readWordList(cfg.Wordcloud.StopwordsFile)
		if err != nil {
			return cfg, err
		}
		cfg.Wordcloud.Stopwords = words
	}

	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	if cfg.Log.Level == "warning" {
		cfg.Log.Level = "warn"
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.New("log.level must be one of: debug, info, warn, error")
	}
	if len(c.Parser.Layouts) == 0 {
		return errors.New("parser.layouts must not be empty")
	}
	for _, f := range c.Parser.Formats {
		if _, err := parser.NewFormat(f.Name, f.Pattern); err != nil {
			return err
		}
	}
	if c.Wordcloud.MaxTokens < 0 {
		return errors.New("wordcloud.max_tokens must be >= 0")
	}
	if c.Emotion.Window < 1 {
		return errors.New("emotion.window must be >= 1")
	}
	if c.Emotion.EventThreshold <= 0 {
		return errors.New("emotion.event_threshold must be > 0")
	}
	if c.Emotion.ExclamationWeight < 0 || c.Emotion.ShoutWeight < 0 || c.Emotion.EmojiWeight < 0 {
		return errors.New("emotion weights must be >= 0")
	}
	if c.Thresholds.TimelineRows < 0 || c.Thresholds.HeatmapRows < 0 || c.Thresholds.EmotionRows < 0 {
		return errors.New("thresholds must be >= 0")
	}
	if _, err := c.location(); err != nil {
		return err
	}
	return nil
}

// Pipeline converts the configuration into analyzer settings. It assumes
// Validate has passed.
func (c Config) Pipeline() (pipeline.Config, error) {
	loc, err := c.location()
	if err != nil {
		return pipeline.Config{}, err
	}

	var formats []parser.Format
	for _, fc := range c.Parser.Formats {
		f, err := parser.NewFormat(fc.Name, fc.Pattern)
		if err != nil {
			return pipeline.Config{}, err
		}
		formats = append(formats, f)
	}

	return pipeline.Config{
		Formats: formats,
		Normalizer: parser.NormalizerConfig{
			Layouts:        c.Parser.Layouts,
			MediaMarkers:   c.Parser.MediaMarkers,
			DeletedMarkers: c.Parser.DeletedMarkers,
			Location:       loc,
		},
		Stopwords: c.Wordcloud.Stopwords,
		MaxTokens: c.Wordcloud.MaxTokens,
		Scorer: emotion.ScorerConfig{
			Lexicon:           emotion.DefaultLexicon().Merge(c.Emotion.Lexicon),
			ExclamationWeight: c.Emotion.ExclamationWeight,
			ShoutWeight:       c.Emotion.ShoutWeight,
			EmojiWeight:       c.Emotion.EmojiWeight,
		},
		MinTimelineRows: c.Thresholds.TimelineRows,
		MinHeatmapRows:  c.Thresholds.HeatmapRows,
		MinEmotionRows:  c.Thresholds.EmotionRows,
		Window:          c.Emotion.Window,
		EventThreshold:  c.Emotion.EventThreshold,
	}, nil
}

func (c Config) location() (*time.Location, error) {
	tz := strings.TrimSpace(c.Parser.Timezone)
	if tz == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("parser.timezone: %w", err)
	}
	return loc, nil
}

func applyEnv(cfg *Config) {
	cfg.Log.Level = getenv("CHATPULSE_LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Pretty = getbool("CHATPULSE_LOG_PRETTY", cfg.Log.Pretty)
	cfg.Parser.Timezone = getenv("CHATPULSE_TIMEZONE", cfg.Parser.Timezone)
	cfg.Wordcloud.StopwordsFile = getenv("CHATPULSE_STOPWORDS_FILE", cfg.Wordcloud.StopwordsFile)
	cfg.Wordcloud.MaxTokens = getint("CHATPULSE_WORDCLOUD_MAX_TOKENS", cfg.Wordcloud.MaxTokens)
	cfg.Emotion.Window = getint("CHATPULSE_EMOTION_WINDOW", cfg.Emotion.Window)
	cfg.Emotion.EventThreshold = getfloat("CHATPULSE_EVENT_THRESHOLD", cfg.Emotion.EventThreshold)
	if v := getenv("CHATPULSE_MEDIA_MARKERS", ""); v != "" {
		cfg.Parser.MediaMarkers = splitCSV(v)
	}
}

// readWordList reads one word per line; blank lines and lines starting
// with '#' are ignored.
func readWordList(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read stopwords file: %w", err)
	}

	var words []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		w := strings.TrimSpace(sc.Text())
		if w == "" || strings.HasPrefix(w, "#") {
			continue
		}
		words = append(words, w)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan stopwords file: %w", err)
	}
	return words, nil
}

// ---- helpers ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
