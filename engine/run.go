package engine

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
)

// Run executes cycles until ctx is cancelled, the input ends or a fatal
// error occurs. Cycles start on a ticker at Interval; a cycle that overruns
// its slot is logged and counted, and the next one starts immediately. With
// a zero interval cycles run back to back.
//
// Cancellation and end of input return nil. The stream is closed when Run
// returns, including on panic.
func (e *Engine) Run(ctx context.Context) (err error) {
	defer func() {
		if cerr := e.Close(); err == nil && cerr != nil && !errors.Is(cerr, ErrStreamClosed) {
			err = cerr
		}
	}()

	interval := e.cfg.tickInterval()
	var tick <-chan time.Time
	if interval > 0 {
		ticker := e.cfg.clock.NewTicker(interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	e.log.WithFields(logrus.Fields{
		"function": "Run",
		"interval": interval.String(),
	}).Info("Engine started")

	for {
		if ctx.Err() != nil {
			e.log.WithFields(logrus.Fields{
				"function": "Run",
				"cycles":   e.cycles.Load(),
			}).Info("Engine stopped")
			return nil
		}

		start := e.cfg.clock.Now()
		if err := e.Cycle(ctx); err != nil {
			switch {
			case errors.Is(err, ErrStreamClosed):
				e.log.WithFields(logrus.Fields{
					"function": "Run",
					"cycles":   e.cycles.Load(),
				}).Info("Input exhausted")
				return nil
			case ctx.Err() != nil && errors.Is(err, ctx.Err()):
				return nil
			default:
				return err
			}
		}

		if tick == nil {
			continue
		}

		if elapsed := e.cfg.clock.Now().Sub(start); elapsed > interval {
			e.overruns.Add(1)
			e.log.WithFields(logrus.Fields{
				"function": "Run",
				"elapsed":  elapsed.String(),
				"interval": interval.String(),
			}).Warn("Cycle overran its interval")
			continue
		}

		select {
		case <-ctx.Done():
		case <-tick:
		}
	}
}
