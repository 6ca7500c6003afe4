package countdown

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUntil(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		target     time.Time
		want       Breakdown
		wantPassed bool
	}{
		{
			name:   "one day one hour one minute one second",
			target: now.Add(90061 * time.Second),
			want:   Breakdown{Days: 1, Hours: 1, Minutes: 1, Seconds: 1},
		},
		{
			name:   "just under a day",
			target: now.Add(24*time.Hour - time.Second),
			want:   Breakdown{Days: 0, Hours: 23, Minutes: 59, Seconds: 59},
		},
		{
			name:       "target equals now",
			target:     now,
			want:       Breakdown{},
			wantPassed: true,
		},
		{
			name:       "target in the past",
			target:     now.Add(-time.Hour),
			want:       Breakdown{},
			wantPassed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, passed := Until(tt.target, now)

			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantPassed, passed)
		})
	}
}

func TestWatch_EmitsImmediatelyAndStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	emitted := make(chan Breakdown, 1)
	done := make(chan struct{})

	go func() {
		Watch(ctx, func() time.Time { return time.Now().Add(48 * time.Hour) }, func(b Breakdown, passed bool) {
			select {
			case emitted <- b:
			default:
			}
		})
		close(done)
	}()

	select {
	case b := <-emitted:
		assert.Equal(t, 1, b.Days)
	case <-time.After(time.Second):
		t.Fatal("no breakdown emitted")
	}

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}

func TestWatch_ReadsCurrentTarget(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The target moves from two days out to the past between ticks; the
	// watcher must pick up the new value instead of a stale capture.
	var flipped atomic.Bool
	target := func() time.Time {
		if flipped.Load() {
			return time.Now().Add(-time.Minute)
		}
		return time.Now().Add(48 * time.Hour)
	}

	type emission struct {
		b      Breakdown
		passed bool
	}
	emissions := make(chan emission, 4)

	go Watch(ctx, target, func(b Breakdown, passed bool) {
		emissions <- emission{b, passed}
	})

	first := <-emissions
	require.False(t, first.passed)
	require.Equal(t, 1, first.b.Days)

	flipped.Store(true)

	select {
	case next := <-emissions:
		assert.True(t, next.passed)
		assert.Equal(t, Breakdown{}, next.b)
	case <-time.After(3 * time.Second):
		t.Fatal("no tick after target change")
	}
}
