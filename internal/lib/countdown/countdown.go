package countdown

import (
	"context"
	"time"
)

// Breakdown is the remaining time to a wedding split into display units.
type Breakdown struct {
	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

// Until computes the non-negative remaining duration from now to target.
// A target at or before now yields the zero breakdown and passed=true;
// "event has passed" is a display state, not an error.
func Until(target, now time.Time) (Breakdown, bool) {
	d := target.Sub(now).Milliseconds()
	if d <= 0 {
		return Breakdown{}, true
	}

	return Breakdown{
		Days:    int(d / 86_400_000),
		Hours:   int(d/3_600_000) % 24,
		Minutes: int(d/60_000) % 60,
		Seconds: int(d/1000) % 60,
	}, false
}

// Watch emits a fresh breakdown immediately and then once per second of
// wall-clock time until ctx is cancelled. The target is re-read through the
// getter on every beat, so an edit to the wedding date takes effect on the
// next tick rather than being captured once at start.
func Watch(ctx context.Context, target func() time.Time, fn func(Breakdown, bool)) {
	emit := func() {
		b, passed := Until(target(), time.Now())
		fn(b, passed)
	}

	emit()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			emit()
		}
	}
}
