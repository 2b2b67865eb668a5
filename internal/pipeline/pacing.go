package pipeline

import (
	"context"
	"time"
)

// Pacing holds the presentational delays of a primary run
type Pacing struct {
	AnalyzeResume  time.Duration
	AnalyzeJob     time.Duration
	BeforeAssemble time.Duration
	Assemble       time.Duration
}

// DefaultPacing returns the delays used by the interactive UI
func DefaultPacing() Pacing {
	return Pacing{
		AnalyzeResume:  1500 * time.Millisecond,
		AnalyzeJob:     1500 * time.Millisecond,
		BeforeAssemble: 1000 * time.Millisecond,
		Assemble:       1500 * time.Millisecond,
	}
}

// PacingFromMillis builds a Pacing from millisecond values
func PacingFromMillis(analyzeResume, analyzeJob, beforeAssemble, assemble int) Pacing {
	return Pacing{
		AnalyzeResume:  time.Duration(analyzeResume) * time.Millisecond,
		AnalyzeJob:     time.Duration(analyzeJob) * time.Millisecond,
		BeforeAssemble: time.Duration(beforeAssemble) * time.Millisecond,
		Assemble:       time.Duration(assemble) * time.Millisecond,
	}
}

// pause waits for d or until ctx is done
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
