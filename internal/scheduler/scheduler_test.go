package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewRejectsInvalidSpec(t *testing.T) {
	for _, spec := range []string{"", "not a spec", "0 0 * *", "61 * * * * *"} {
		_, err := New(spec, func(context.Context) error { return nil }, quietLogger())
		require.Error(t, err, spec)
	}
}

func TestNewAcceptsSecondsAndDescriptors(t *testing.T) {
	s, err := New("0 30 6 * * *", func(context.Context) error { return nil }, quietLogger())
	require.NoError(t, err)

	from := time.Date(2024, 8, 1, 7, 0, 0, 0, time.Local)
	require.Equal(t, time.Date(2024, 8, 2, 6, 30, 0, 0, time.Local), s.Next(from))

	_, err = New("@daily", func(context.Context) error { return nil }, quietLogger())
	require.NoError(t, err)
}

func TestRunKeepsGoingAfterFailure(t *testing.T) {
	var calls atomic.Int32
	s, err := New("@every 1s", func(context.Context) error {
		calls.Add(1)
		return errors.New("upstream unavailable")
	}, quietLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool { return calls.Load() >= 2 }, 5*time.Second, 50*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}
