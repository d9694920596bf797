/*
 * Copyright (c) 2025-present unTill Pro, Ltd. and Contributors
 * @author Denis Gribanov
 *
 * This source code is licensed under the MIT license found in the
 * LICENSE file in the root directory of this source tree.
 */

package retrier

import (
	"context"
	"errors"
	"time"
)

// Retry executes fn with retry logic and returns its result or an error.
func Retry[T any](ctx context.Context, cfg Config, op func() (T, error)) (T, error) {
	r, err := New(cfg)
	var zero T
	if err != nil {
		return zero, err
	}
	var result T
	err = r.Run(ctx, func() error {
		var opErr error
		result, opErr = op()
		return opErr
	})
	return result, err
}

func RetryErr(ctx context.Context, cfg Config, op func() error) error {
	_, err := Retry(ctx, cfg, func() (any, error) {
		return nil, op()
	})
	return err
}

// Retries op during maxElapsed. Returns ok == false if time is over
func RetryFor(ctx context.Context, cfg Config, maxElapsed time.Duration, op func() error) (ok bool, err error) {
	dlCtx, cancel := context.WithDeadline(ctx, time.Now().Add(maxElapsed))
	defer cancel()
	err = RetryErr(dlCtx, cfg, op)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return false, ctx.Err()
		}
		return false, nil
	case errors.Is(err, context.Canceled):
		return false, err
	}
	return true, err
}

func isAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}
