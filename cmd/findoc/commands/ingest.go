package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/dgallion1/findoc/internal/pipeline"
)

// IngestAction runs the ingest pipeline on --file without storing the
// result, and prints or writes the bundle.
func IngestAction(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("file")
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	job := pipeline.NewJob(path, cmd.String("title"), data)
	b, err := a.Worker(nil, nil).Build(ctx, job)
	if err != nil {
		return err
	}
	a.Log.Info("document analyzed", "file", path, "tables", len(b.Tables), "entities", len(b.Entities))

	out := cmd.String("out")
	if out == "" {
		return writeJSON(output(cmd), b)
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create %s: %w", out, err)
	}
	defer f.Close()
	return writeJSON(f, b)
}
