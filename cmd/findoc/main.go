package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/dgallion1/findoc/cmd/findoc/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.Command{
		Name:  "findoc",
		Usage: "Classify financial tables and answer questions about financial documents",
		Commands: []*cli.Command{
			{
				Name:  "classify",
				Usage: "Classify one table and print it as JSON",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "table",
						Usage:    "file holding the table text",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "doc",
						Usage: "file holding the surrounding document text",
					},
					&cli.IntFlag{
						Name:  "start",
						Usage: "0-based first line of the table in the document",
					},
					&cli.IntFlag{
						Name:  "end",
						Usage: "0-based last line of the table in the document (default: start plus table lines)",
						Value: -1,
					},
				},
				Action: commands.ClassifyAction,
			},
			{
				Name:  "ingest",
				Usage: "Parse and analyze a document and print its bundle as JSON",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Usage:    "document to analyze (txt, md, csv, html, docx)",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "title",
						Usage: "title overriding the one found in the document",
					},
					&cli.StringFlag{
						Name:  "out",
						Usage: "write the bundle to this file instead of stdout",
					},
				},
				Action: commands.IngestAction,
			},
			{
				Name:  "ask",
				Usage: "Answer a question about an ingested bundle",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "bundle",
						Usage:    "bundle JSON written by ingest",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "question",
						Aliases:  []string{"q"},
						Usage:    "question to answer",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "print the answer and its intent as JSON",
					},
				},
				Action: commands.AskAction,
			},
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
