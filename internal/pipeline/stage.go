package pipeline

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Status tells a computed stage apart from a stage that ran and found
// nothing and from a stage that did not run.
type Status string

const (
	StatusComputed Status = "computed"
	StatusEmpty    Status = "empty"
	StatusSkipped  Status = "skipped"
)

// Stage is the outcome of one analysis stage. Value is only meaningful for
// computed and empty stages.
type Stage[T any] struct {
	Status Status `json:"status"`
	Reason string `json:"reason,omitempty"`
	Value  T      `json:"value"`
}

// Ran reports whether the stage produced a value, possibly an empty one.
func (s Stage[T]) Ran() bool {
	return s.Status == StatusComputed || s.Status == StatusEmpty
}

func computed[T any](v T) Stage[T] {
	return Stage[T]{Status: StatusComputed, Value: v}
}

func empty[T any](v T, reason string) Stage[T] {
	return Stage[T]{Status: StatusEmpty, Reason: reason, Value: v}
}

func skipped[T any](reason string) Stage[T] {
	return Stage[T]{Status: StatusSkipped, Reason: reason}
}

// runStage isolates one stage: a panic inside fn turns into a skipped stage
// and the remaining stages still run.
func runStage[T any](log zerolog.Logger, name string, fn func() Stage[T]) (st Stage[T]) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn().Str("stage", name).Interface("panic", r).Msg("stage failed")
			st = skipped[T](fmt.Sprintf("stage failed: %v", r))
		}
	}()

	st = fn()
	switch st.Status {
	case StatusSkipped:
		log.Info().Str("stage", name).Str("reason", st.Reason).Msg("stage skipped")
	case StatusEmpty:
		log.Debug().Str("stage", name).Str("reason", st.Reason).Msg("stage empty")
	default:
		log.Debug().Str("stage", name).Msg("stage computed")
	}
	return st
}
