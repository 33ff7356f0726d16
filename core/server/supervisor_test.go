package server

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuperviseRestartsUntilSuccess(t *testing.T) {
	calls := 0
	err := Supervise(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return stderrors.New("listener died")
		}
		return nil
	}, 5, time.Millisecond)

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestSuperviseGivesUp(t *testing.T) {
	calls := 0
	err := Supervise(context.Background(), func(context.Context) error {
		calls++
		return stderrors.New("listener died")
	}, 2, time.Millisecond)

	require.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestSuperviseRecoversPanic(t *testing.T) {
	calls := 0
	err := Supervise(context.Background(), func(context.Context) error {
		calls++
		if calls == 1 {
			panic("boom")
		}
		return nil
	}, 1, time.Millisecond)

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestSuperviseStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Supervise(ctx, func(context.Context) error {
		calls++
		cancel()
		return stderrors.New("shutting down")
	}, 10, time.Hour)

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}
