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
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testCfg = NewConfig(time.Millisecond, 10*time.Millisecond)

func TestNewConfig(t *testing.T) {
	require := require.New(t)
	cfg := NewConfig(100*time.Millisecond, 5*time.Second)
	require.Equal(100*time.Millisecond, cfg.BaseDelay)
	require.Equal(5*time.Second, cfg.MaxDelay)
	require.Equal(float64(DefaultMultiplier), cfg.Multiplier)
	require.Equal(DefaultJitterFactor, cfg.JitterFactor)
}

func TestInvalidConfig(t *testing.T) {
	testCases := []struct {
		name string
		cfg  Config
	}{
		{"zero base delay", Config{BaseDelay: 0, MaxDelay: time.Second, Multiplier: 1}},
		{"negative max delay", Config{BaseDelay: time.Millisecond, MaxDelay: -time.Second, Multiplier: 1}},
		{"max less than base", Config{BaseDelay: time.Second, MaxDelay: time.Millisecond, Multiplier: 1}},
		{"multiplier less than one", Config{BaseDelay: time.Millisecond, MaxDelay: time.Second, Multiplier: 0.5}},
		{"jitter more than one", Config{BaseDelay: time.Millisecond, MaxDelay: time.Second, Multiplier: 1, JitterFactor: 2}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require := require.New(t)
			result, err := Retry(context.Background(), tc.cfg, func() (string, error) {
				return "success", nil
			})
			require.ErrorIs(err, ErrInvalidConfig)
			require.Empty(result)
		})
	}
}

func TestRetry(t *testing.T) {
	require := require.New(t)
	attempts := 0
	result, err := Retry(context.Background(), testCfg, func() (string, error) {
		attempts++
		if attempts < 3 {
			return "", errors.New("temporary error")
		}
		return "success", nil
	})
	require.NoError(err)
	require.Equal("success", result)
	require.Equal(3, attempts)
}

func TestErrorPolicies(t *testing.T) {
	errLocked := errors.New("locked")
	errBroken := errors.New("broken")

	t.Run("Should abort on error not listed in RetryOnlyOn", func(t *testing.T) {
		require := require.New(t)
		cfg := testCfg
		cfg.RetryOnlyOn = []error{errLocked}
		attempts := 0
		err := RetryErr(context.Background(), cfg, func() error {
			attempts++
			if attempts == 1 {
				return errLocked
			}
			return errBroken
		})
		require.ErrorIs(err, errBroken)
		require.Equal(2, attempts)
	})

	t.Run("Should accept acceptable error", func(t *testing.T) {
		require := require.New(t)
		cfg := testCfg
		cfg.Acceptable = []error{errLocked}
		err := RetryErr(context.Background(), cfg, func() error { return errLocked })
		require.NoError(err)
	})

	t.Run("Should call OnError before each retry", func(t *testing.T) {
		require := require.New(t)
		cfg := testCfg
		calls := []int{}
		cfg.OnError = func(attempt int, delay time.Duration, err error) {
			require.ErrorIs(err, errLocked)
			require.LessOrEqual(delay, cfg.MaxDelay+cfg.MaxDelay/2)
			calls = append(calls, attempt)
		}
		attempts := 0
		require.NoError(RetryErr(context.Background(), cfg, func() error {
			attempts++
			if attempts < 3 {
				return errLocked
			}
			return nil
		}))
		require.Equal([]int{1, 2}, calls)
	})
}

func TestContextCancellation(t *testing.T) {
	require := require.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	err := RetryErr(ctx, testCfg, func() error {
		attempts++
		if attempts == 2 {
			cancel()
		}
		return errors.New("always")
	})
	require.ErrorIs(err, context.Canceled)
	require.Equal(2, attempts)
}

func TestRetryFor(t *testing.T) {
	require := require.New(t)

	ok, err := RetryFor(context.Background(), testCfg, 30*time.Millisecond, func() error {
		return errors.New("always")
	})
	require.False(ok)
	require.NoError(err)

	ok, err = RetryFor(context.Background(), testCfg, time.Second, func() error { return nil })
	require.True(ok)
	require.NoError(err)
}

func TestMaxDelayCapping(t *testing.T) {
	require := require.New(t)
	cfg := testCfg
	cfg.JitterFactor = 0
	r, err := New(cfg)
	require.NoError(err)
	delays := []time.Duration{}
	for i := 0; i < 6; i++ {
		delays = append(delays, r.NextDelay())
	}
	require.Equal([]time.Duration{
		time.Millisecond, 2 * time.Millisecond, 4 * time.Millisecond,
		8 * time.Millisecond, 10 * time.Millisecond, 10 * time.Millisecond,
	}, delays)
}
