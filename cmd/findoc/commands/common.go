// Package commands implements the findoc CLI actions.
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/dgallion1/findoc/internal/app"
	"github.com/dgallion1/findoc/internal/config"
	"github.com/dgallion1/findoc/internal/logging"
)

// newApp loads configuration and builds the analysis components. Logs go
// to stderr so stdout stays machine-readable.
func newApp(ctx context.Context) (*app.App, error) {
	cfg := config.Load()
	log := logging.NewWithWriter(os.Stderr, cfg.LogLevel)
	tuning, err := config.LoadTuning(cfg.TuningFile)
	if err != nil {
		return nil, err
	}
	return app.New(ctx, cfg, tuning, log)
}

func output(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
