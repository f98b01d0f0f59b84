package checkout

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestSweepExpiresIdleSessions(t *testing.T) {
	clk := &clock{now: fixedNow}
	store := NewStore(30*time.Minute, clk.Now)
	store.put(&Session{ID: "idle", lastSeen: clk.Now()})

	clk.Advance(10 * time.Minute)
	store.put(&Session{ID: "fresh", lastSeen: clk.Now()})
	busy := &Session{ID: "busy", lastSeen: clk.Now().Add(-time.Hour), submitting: true}
	store.put(busy)

	clk.Advance(25 * time.Minute)
	require.Equal(t, 1, store.Sweep())
	require.Equal(t, 2, store.Len())

	_, ok := store.get("idle")
	require.False(t, ok)
	_, ok = store.get("busy")
	require.True(t, ok)
}

func TestSweepDisabledWithoutTTL(t *testing.T) {
	store := NewStore(0, nil)
	store.put(&Session{ID: "a"})
	require.Zero(t, store.Sweep())
	require.Equal(t, 1, store.Len())
}

func TestSweptSessionIsGoneFromService(t *testing.T) {
	clk := &clock{now: fixedNow}
	svc, err := NewService(Options{
		Backend: newFakeBackend(),
		Rules:   newTestRules(),
		Store:   NewStore(time.Minute, clk.Now),
		Now:     clk.Now,
		NewID:   func() string { return "s" },
	})
	require.NoError(t, err)

	_, err = svc.Start(context.Background(), "")
	require.NoError(t, err)
	clk.Advance(2 * time.Minute)
	require.Equal(t, 1, svc.Store().Sweep())

	_, err = svc.Get("s")
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestStartSweeperStops(t *testing.T) {
	svc, _ := newTestService(t, newFakeBackend())

	stop, err := svc.StartSweeper("@every 1h")
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	stop(ctx)
}

func TestStartSweeperRejectsBadSpec(t *testing.T) {
	svc, _ := newTestService(t, newFakeBackend())

	_, err := svc.StartSweeper("not a schedule")
	require.Error(t, err)
}

func TestSweepUpdatesLiveGauge(t *testing.T) {
	clk := &clock{now: fixedNow}
	metrics := NewMetrics(nil)
	svc, err := NewService(Options{
		Backend: newFakeBackend(),
		Rules:   newTestRules(),
		Store:   NewStore(time.Minute, clk.Now),
		Metrics: metrics,
		Now:     clk.Now,
	})
	require.NoError(t, err)

	_, err = svc.Start(context.Background(), "")
	require.NoError(t, err)
	require.Equal(t, float64(1), testutil.ToFloat64(metrics.Sessions))

	clk.Advance(time.Hour)
	svc.sweep()
	require.Equal(t, float64(0), testutil.ToFloat64(metrics.Sessions))
}
