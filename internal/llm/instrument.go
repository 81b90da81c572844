package llm

import (
	"context"
	"log/slog"
	"time"
)

type instrumented struct {
	Generator
	timeout time.Duration
	stats   *Stats
	log     *slog.Logger
}

// Instrument bounds every call by timeout and records its outcome in stats.
// A nil g stays nil so callers can keep testing for an absent generator.
func Instrument(g Generator, timeout time.Duration, stats *Stats, log *slog.Logger) Generator {
	if g == nil {
		return nil
	}
	if log == nil {
		log = slog.Default()
	}
	return &instrumented{Generator: g, timeout: timeout, stats: stats, log: log}
}

func (i *instrumented) Generate(ctx context.Context, prompt string) (string, error) {
	if i.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}

	start := time.Now()
	out, err := i.Generator.Generate(ctx, prompt)
	elapsed := time.Since(start)

	if i.stats != nil {
		i.stats.Record(elapsed.Milliseconds(), err != nil)
	}
	if err != nil {
		i.log.Warn("llm call failed", "model", i.Model(), "duration_ms", elapsed.Milliseconds(), "error", err)
	} else {
		i.log.Debug("llm call", "model", i.Model(), "duration_ms", elapsed.Milliseconds())
	}
	return out, err
}

// Close forwards to the wrapped generator.
func (i *instrumented) Close() { Close(i.Generator) }
