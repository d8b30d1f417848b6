// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package asyncore

import "time"

// runtimeOptions holds configuration resolved from RuntimeOption values at
// NewRuntime construction, the shape kept from the teacher's
// loopOptions/resolveLoopOptions functional-options pattern and expanded
// with this runtime's own ambient/domain knobs.
type runtimeOptions struct {
	clock            Clock
	logger           *Logger
	timerCapacity    int
	channelDefault   int
	cronGovernorRate map[time.Duration]int
	allocator        FrameAllocator
}

// RuntimeOption configures a [Runtime] at construction.
type RuntimeOption interface {
	applyRuntime(*runtimeOptions)
}

type runtimeOptionFunc func(*runtimeOptions)

func (f runtimeOptionFunc) applyRuntime(opts *runtimeOptions) { f(opts) }

// WithClock overrides the runtime's time source, used by Wait/Defer/cron.
// Tests typically pass a *FakeClock here.
func WithClock(clock Clock) RuntimeOption {
	return runtimeOptionFunc(func(opts *runtimeOptions) {
		opts.clock = clock
	})
}

// WithLogger overrides the runtime's structured logger. Defaults to
// NewDefaultLogger (stderr, LevelInformational).
func WithLogger(logger *Logger) RuntimeOption {
	return runtimeOptionFunc(func(opts *runtimeOptions) {
		opts.logger = logger
	})
}

// WithTimerCapacity bounds the number of outstanding [Wait] entries the
// runtime's TimerService will accept; scheduling beyond it reports
// Err(Exhausted). Zero or negative (the default) means unbounded.
func WithTimerCapacity(n int) RuntimeOption {
	return runtimeOptionFunc(func(opts *runtimeOptions) {
		opts.timerCapacity = n
	})
}

// WithChannelDefaultCapacity sets the ring buffer capacity used by
// [DefaultChannel]; [NewChannel] always takes an explicit capacity.
func WithChannelDefaultCapacity(n int) RuntimeOption {
	return runtimeOptionFunc(func(opts *runtimeOptions) {
		opts.channelDefault = n
	})
}

// WithCronGovernorRates configures the sliding-rate budgets used by the
// runtime's default [CronGovernor] (available via Runtime.CronGovernor).
func WithCronGovernorRates(rates map[time.Duration]int) RuntimeOption {
	return runtimeOptionFunc(func(opts *runtimeOptions) {
		opts.cronGovernorRate = rates
	})
}

// WithFrameAllocator overrides the allocator consulted by [Spawn] for each
// new Task frame. Defaults to [DefaultAllocator]; tests needing to exercise
// spec.md §8's S6 "OOM at spawn" scenario pass a [FaultAllocator] here.
func WithFrameAllocator(alloc FrameAllocator) RuntimeOption {
	return runtimeOptionFunc(func(opts *runtimeOptions) {
		opts.allocator = alloc
	})
}

// resolveOptions applies opts over the runtime's defaults.
func resolveOptions(opts []RuntimeOption) *runtimeOptions {
	cfg := &runtimeOptions{
		clock:          SystemClock{},
		channelDefault: 16,
		cronGovernorRate: map[time.Duration]int{
			time.Second: 10,
			time.Minute: 200,
		},
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.applyRuntime(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = NewDefaultLogger()
	}
	if cfg.allocator == nil {
		cfg.allocator = DefaultAllocator
	}
	return cfg
}
