package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
)

// ClassifyAction classifies the table in --table, using --doc for context.
func ClassifyAction(ctx context.Context, cmd *cli.Command) error {
	tableText, err := os.ReadFile(cmd.String("table"))
	if err != nil {
		return fmt.Errorf("read table: %w", err)
	}
	var docText []byte
	if path := cmd.String("doc"); path != "" {
		if docText, err = os.ReadFile(path); err != nil {
			return fmt.Errorf("read document: %w", err)
		}
	}

	start := cmd.Int("start")
	end := cmd.Int("end")
	if end < 0 {
		end = start + strings.Count(strings.TrimRight(string(tableText), "\n"), "\n")
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	t := a.Classifier.Classify(ctx, string(tableText), string(docText), start, end)
	return writeJSON(output(cmd), t)
}
