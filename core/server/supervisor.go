package server

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"event-manager-api/core/logger"
)

const maxRestartDelay = 30 * time.Second

// Supervise runs run until it returns nil or ctx is cancelled. A failed or
// panicking run is restarted with exponential backoff, at most maxRestarts times.
func Supervise(ctx context.Context, run func(ctx context.Context) error, maxRestarts int, baseDelay time.Duration) error {
	if baseDelay <= 0 {
		baseDelay = time.Second
	}

	for restarts := 0; ; restarts++ {
		err := runSafely(ctx, run)
		if err == nil || ctx.Err() != nil {
			return err
		}

		if restarts >= maxRestarts {
			logger.Error("Server:Supervise:GivingUp", "restarts", restarts, "error", err)
			return err
		}

		delay := baseDelay << restarts
		if delay > maxRestartDelay || delay <= 0 {
			delay = maxRestartDelay
		}
		logger.Warn("Server:Supervise:Restarting", "restart", restarts+1, "delay", delay.String(), "error", err)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return err
		}
	}
}

func runSafely(ctx context.Context, run func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Server:Supervise:Panic", "panic", r, "stack", string(debug.Stack()))
			err = fmt.Errorf("server panic: %v", r)
		}
	}()
	return run(ctx)
}
