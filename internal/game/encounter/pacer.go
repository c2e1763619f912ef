package encounter

import (
	"context"
	"time"
)

// Pacer spaces enemy actions for presentation. Delays never change outcomes.
type Pacer struct {
	// Step is waited before each enemy acts.
	Step time.Duration
	// SubHit is waited before each hit of a multi-attack.
	SubHit time.Duration
}

// NoPacing returns a Pacer that never waits.
func NoPacing() Pacer { return Pacer{} }

// DefaultPacing returns the presentation delays used by interactive play.
func DefaultPacing() Pacer {
	return Pacer{Step: time.Second, SubHit: 500 * time.Millisecond}
}

// wait blocks for d or until ctx is done.
//
// Postcondition: returns ctx.Err() when ctx ended first, nil otherwise.
func (p Pacer) wait(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
