package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/dgallion1/findoc/internal/document"
)

// AskAction answers --question about the bundle in --bundle.
func AskAction(ctx context.Context, cmd *cli.Command) error {
	data, err := os.ReadFile(cmd.String("bundle"))
	if err != nil {
		return fmt.Errorf("read bundle: %w", err)
	}
	var b document.Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return fmt.Errorf("decode bundle: %w", err)
	}
	b.RestoreKinds()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	reply := a.Responder.Respond(cmd.String("question"), &b)
	if cmd.Bool("json") {
		return writeJSON(output(cmd), reply)
	}
	_, err = fmt.Fprintln(output(cmd), reply.Text)
	return err
}
