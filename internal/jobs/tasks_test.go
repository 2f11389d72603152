package jobs

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type stubExpirer struct {
	count int
	err   error
	calls int
}

func (s *stubExpirer) ExpireStale(ctx context.Context, now time.Time) (int, error) {
	s.calls++
	return s.count, s.err
}

type stubMarker struct {
	count int
	err   error
	calls int
}

func (s *stubMarker) MarkOverdue(ctx context.Context, now time.Time) (int, error) {
	s.calls++
	return s.count, s.err
}

func TestHandleQuoteExpireSweep(t *testing.T) {
	expirer := &stubExpirer{count: 3}
	handler := HandleQuoteExpireSweep(expirer, slog.Default())

	require.NoError(t, handler(context.Background(), NewQuoteExpireSweepTask()))
	require.Equal(t, 1, expirer.calls)

	expirer.err = errors.New("db down")
	require.Error(t, handler(context.Background(), NewQuoteExpireSweepTask()))
}

func TestHandleOverdueSweep(t *testing.T) {
	marker := &stubMarker{count: 2}
	handler := HandleOverdueSweep(marker, slog.Default())

	require.NoError(t, handler(context.Background(), NewOverdueSweepTask()))
	require.Equal(t, 1, marker.calls)

	marker.err = errors.New("db down")
	require.Error(t, handler(context.Background(), NewOverdueSweepTask()))
}
