package pipeline

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func export(n int, body func(i int) string) []byte {
	var b strings.Builder
	start := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		ts := start.Add(time.Duration(i) * time.Hour)
		sender := "Alice"
		if i%2 == 1 {
			sender = "Bob"
		}
		fmt.Fprintf(&b, "%s - %s: %s\n", ts.Format("02/01/2006, 15:04"), sender, body(i))
	}
	return []byte(b.String())
}

func plain(int) string { return "see you at noon" }

func varied(i int) string {
	if i%5 == 0 {
		return "OMG I HATE this!!!"
	}
	return "see you at noon"
}

func newAnalyzer() *Analyzer {
	return New(DefaultConfig(), zerolog.Nop())
}

func TestAnalyze_SmallChatSkipsGatedStages(t *testing.T) {
	r, err := newAnalyzer().Analyze(context.Background(), export(4, plain), "")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if r.Participant != "Overall" || r.TableRows != 4 {
		t.Fatalf("unexpected header: %+v", r)
	}
	if r.Stats.Status != StatusComputed || r.Stats.Value.Messages != 4 || r.Stats.Value.Words != 16 {
		t.Fatalf("stats should still be computed: %+v", r.Stats)
	}
	for name, st := range map[string]Status{
		"monthly": r.MonthlyTimeline.Status,
		"daily":   r.DailyTimeline.Status,
		"heatmap": r.Heatmap.Status,
		"emotion": r.Emotion.Status,
		"events":  r.Events.Status,
	} {
		if st != StatusSkipped {
			t.Fatalf("%s should be skipped, got %s", name, st)
		}
	}
	if r.WeekActivity.Status != StatusComputed || len(r.WeekActivity.Value) != 7 {
		t.Fatalf("week activity should run ungated: %+v", r.WeekActivity)
	}
	if r.Emoji.Status != StatusEmpty || r.Emoji.Value == nil {
		t.Fatalf("emoji should be empty-but-valid: %+v", r.Emoji)
	}
}

func TestAnalyze_NoMessages(t *testing.T) {
	for _, raw := range [][]byte{nil, []byte("hello\nworld\n"), {0xff, 0xfe, 0xfd}} {
		if _, err := newAnalyzer().Analyze(context.Background(), raw, ""); !errors.Is(err, ErrNoMessages) {
			t.Fatalf("expected ErrNoMessages for %q, got %v", raw, err)
		}
	}
}

func TestAnalyze_UnknownParticipant(t *testing.T) {
	_, err := newAnalyzer().Analyze(context.Background(), export(6, plain), "Mallory")
	if !errors.Is(err, ErrUnknownParticipant) {
		t.Fatalf("expected ErrUnknownParticipant, got %v", err)
	}
}

func TestAnalyze_ParticipantView(t *testing.T) {
	r, err := newAnalyzer().Analyze(context.Background(), export(12, plain), "Bob")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !reflect.DeepEqual(r.Participants, []string{"Overall", "Alice", "Bob"}) {
		t.Fatalf("participants = %v", r.Participants)
	}
	if r.ViewRows != 6 || r.Stats.Value.Messages != 6 {
		t.Fatalf("Bob view rows = %d", r.ViewRows)
	}
	if r.BusyUsers.Status != StatusSkipped {
		t.Fatalf("busy users only applies to Overall")
	}
	if r.Heatmap.Status != StatusComputed {
		t.Fatalf("heatmap gates on table rows, got %s", r.Heatmap.Status)
	}
	if r.Emotion.Status != StatusSkipped {
		t.Fatalf("emotion gates on view rows, got %s", r.Emotion.Status)
	}
}

func TestAnalyze_ZeroVarianceSkipsEvents(t *testing.T) {
	r, err := newAnalyzer().Analyze(context.Background(), export(12, plain), "")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if r.Emotion.Status != StatusComputed || len(r.Emotion.Value) != 12 {
		t.Fatalf("emotion series should be computed: %+v", r.Emotion)
	}
	if r.Events.Status != StatusSkipped || r.Events.Reason != "emotion variance too low" {
		t.Fatalf("events should be skipped for zero variance: %+v", r.Events)
	}
}

func TestAnalyze_FlatNonZeroIntensitySkipsEvents(t *testing.T) {
	for _, body := range []string{"I love it", "love this so much", "wow"} {
		r, err := newAnalyzer().Analyze(context.Background(), export(20, func(int) string { return body }), "")
		if err != nil {
			t.Fatalf("Analyze: %v", err)
		}
		if r.Emotion.Status != StatusComputed || len(r.Emotion.Value) != 20 {
			t.Fatalf("%q: emotion series should be computed: %+v", body, r.Emotion)
		}
		if r.Emotion.Value[0].Intensity == 0 {
			t.Fatalf("%q: expected a non-zero intensity", body)
		}
		for i, p := range r.Emotion.Value {
			if p.Normalized || p.Z != 0 {
				t.Fatalf("%q: point %d should not be normalized: %+v", body, i, p)
			}
		}
		if r.Events.Status != StatusSkipped || r.Events.Reason != "emotion variance too low" {
			t.Fatalf("%q: events should be skipped: %+v", body, r.Events)
		}
	}
}

func TestAnalyze_FullRun(t *testing.T) {
	r, err := newAnalyzer().Analyze(context.Background(), export(40, varied), "")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if r.Emotion.Status != StatusComputed || len(r.Emotion.Value) != 40 {
		t.Fatalf("emotion: %+v", r.Emotion.Status)
	}
	if !r.Emotion.Value[11].Smoothed || r.Emotion.Value[10].Smoothed {
		t.Fatalf("smoothing window not applied")
	}
	if !r.Events.Ran() {
		t.Fatalf("events should have run: %+v", r.Events)
	}
	if r.BusyUsers.Status != StatusComputed || len(r.BusyUsers.Value) != 2 {
		t.Fatalf("busy users: %+v", r.BusyUsers)
	}
	if r.Heatmap.Status != StatusComputed || r.MonthlyTimeline.Status != StatusComputed {
		t.Fatalf("gated stages should run for 40 messages")
	}
}

func TestAnalyze_Deterministic(t *testing.T) {
	raw := export(40, varied)
	a := newAnalyzer()
	first, err := a.Analyze(context.Background(), raw, "")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	second, err := a.Analyze(context.Background(), raw, "")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if first.RunID == second.RunID {
		t.Fatalf("run ids should differ")
	}
	first.RunID, second.RunID = "", ""
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("two runs over the same bytes differ")
	}
}

func TestAnalyze_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := newAnalyzer().Analyze(ctx, export(12, plain), ""); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRunStage_RecoversPanic(t *testing.T) {
	st := runStage(zerolog.Nop(), "boom", func() Stage[int] {
		panic("kaboom")
	})
	if st.Status != StatusSkipped || !strings.Contains(st.Reason, "kaboom") {
		t.Fatalf("panic not converted to a skipped stage: %+v", st)
	}
	if st.Ran() {
		t.Fatalf("skipped stage must not report Ran")
	}
}
