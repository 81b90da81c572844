package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/dgallion1/findoc/internal/document"
)

const statement = `Portfolio Statement

Holdings
Security | ISIN | Quantity | Market Value
Apple Inc. | US0378331005 | 100 | $18,950.00
Microsoft Corp. | US5949181045 | 50 | $20,500.00
`

func run(t *testing.T, args ...string) string {
	t.Helper()
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("TUNING_FILE", "")
	t.Setenv("LOG_LEVEL", "error")

	var out bytes.Buffer
	root := &cli.Command{
		Name:   "findoc",
		Writer: &out,
		Commands: []*cli.Command{
			{
				Name: "classify",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "table", Required: true},
					&cli.StringFlag{Name: "doc"},
					&cli.IntFlag{Name: "start"},
					&cli.IntFlag{Name: "end", Value: -1},
				},
				Action: ClassifyAction,
			},
			{
				Name: "ingest",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "file", Required: true},
					&cli.StringFlag{Name: "title"},
					&cli.StringFlag{Name: "out"},
				},
				Action: IngestAction,
			},
			{
				Name: "ask",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "bundle", Required: true},
					&cli.StringFlag{Name: "question", Required: true},
					&cli.BoolFlag{Name: "json"},
				},
				Action: AskAction,
			},
		},
	}
	require.NoError(t, root.Run(context.Background(), append([]string{"findoc"}, args...)))
	return out.String()
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestClassifyAction(t *testing.T) {
	table := writeFile(t, "table.txt", "Asset Class | Weight %\nEquity | 60%\nBonds | 40%\n")
	out := run(t, "classify", "--table", table)

	var got document.Table
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, document.TableAllocation, got.Type)
	require.Len(t, got.Records, 2)
	assert.InDelta(t, 0.6, got.Records[0]["Weight %"].Number, 1e-9)
}

func TestIngestThenAsk(t *testing.T) {
	doc := writeFile(t, "statement.txt", statement)
	bundlePath := filepath.Join(t.TempDir(), "bundle.json")
	run(t, "ingest", "--file", doc, "--out", bundlePath)

	data, err := os.ReadFile(bundlePath)
	require.NoError(t, err)
	var b document.Bundle
	require.NoError(t, json.Unmarshal(data, &b))
	assert.Len(t, b.Tables, 1)
	assert.Len(t, b.Entities, 2)

	answer := run(t, "ask", "--bundle", bundlePath, "--question", "How many tables are there?")
	assert.Equal(t, "This document contains 1 table.", strings.TrimSpace(answer))

	out := run(t, "ask", "--bundle", bundlePath, "--question", "How many tables are there?", "--json")
	var reply map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &reply))
	assert.Equal(t, "table", reply["intent"])
}

func TestIngestAction_PrintsToStdout(t *testing.T) {
	doc := writeFile(t, "statement.txt", statement)
	out := run(t, "ingest", "--file", doc, "--title", "Q1")

	var b document.Bundle
	require.NoError(t, json.Unmarshal([]byte(out), &b))
	assert.Equal(t, "Q1", b.Metadata.Title)
	assert.Equal(t, "txt", b.Metadata.FileExt)
}
