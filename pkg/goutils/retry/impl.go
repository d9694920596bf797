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
	"math/rand"
	"time"
)

// NewConfig returns config with default multiplier and jitter
func NewConfig(baseDelay, maxDelay time.Duration) Config {
	return Config{
		BaseDelay:    baseDelay,
		MaxDelay:     maxDelay,
		Multiplier:   DefaultMultiplier,
		JitterFactor: DefaultJitterFactor,
	}
}

// New creates a Retrier with provided Config, validating parameters.
func New(cfg Config) (*Retrier, error) {
	if cfg.BaseDelay <= 0 || cfg.MaxDelay <= 0 || cfg.MaxDelay < cfg.BaseDelay ||
		cfg.Multiplier < 1 || cfg.JitterFactor < 0 || cfg.JitterFactor > 1 {
		return nil, ErrInvalidConfig
	}
	return &Retrier{cfg: cfg, currentDelay: cfg.BaseDelay}, nil
}

// NextDelay computes the next delay applying exponential backoff and jitter
func (r *Retrier) NextDelay() time.Duration {
	base := r.currentDelay

	next := time.Duration(float64(base) * r.cfg.Multiplier)
	if next > r.cfg.MaxDelay {
		next = r.cfg.MaxDelay
	}
	r.currentDelay = next

	// offset in [-JitterFactor*base, +JitterFactor*base]
	offset := (rand.Float64()*2 - 1) * r.cfg.JitterFactor * float64(base)
	delay := base + time.Duration(offset)
	if delay < 0 {
		delay = 0
	}
	return delay
}

// Run retries operation until success, abort or context cancellation.
func (r *Retrier) Run(ctx context.Context, operation func() error) error {
	attempt := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := operation()
		switch {
		case err == nil:
			return nil
		case isAny(err, r.cfg.Acceptable):
			return nil
		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			return err
		case len(r.cfg.RetryOnlyOn) > 0 && !isAny(err, r.cfg.RetryOnlyOn):
			return err
		}
		attempt++
		d := r.NextDelay()
		if r.cfg.OnError != nil {
			r.cfg.OnError(attempt, d, err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(d):
		}
	}
}
