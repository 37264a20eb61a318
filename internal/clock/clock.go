// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"time"

	"github.com/jmhodges/clock"
)

var (
	nowFn = time.Now

	// FakeClock drives Now while SetFakeClock is in effect, for time-sensitive tests.
	FakeClock = clock.NewFake()
)

// Now returns the current time in UTC. Stored timestamps are always taken from here.
func Now() time.Time {
	return nowFn().UTC()
}

// Since returns the time elapsed since t according to Now.
func Since(t time.Time) time.Duration {
	return Now().Sub(t)
}

// SetFakeClock makes Now read FakeClock.
func SetFakeClock() {
	nowFn = FakeClock.Now
}

// UnsetFakeClock restores Now to read the host clock.
func UnsetFakeClock() {
	nowFn = time.Now
}
