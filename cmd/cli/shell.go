package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"zotsearch/internal/biblio"
	"zotsearch/internal/export"
	"zotsearch/internal/render"
	"zotsearch/internal/search"
)

const shellHelp = `Type a query to search. Commands:
  :json         print the last results as JSON
  :export FILE  write the last results as CSL-YAML
  help          show this help
  exit, quit    leave the shell`

func newShellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive search shell with history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sh := &shell{
				session:  search.NewSession(newClient()),
				renderer: newRenderer(),
				out:      cmd.OutOrStdout(),
			}
			return sh.run(cmd.Context())
		},
	}
}

type shell struct {
	session  *search.Session
	renderer *render.Renderer
	out      io.Writer

	lastQuery biblio.Query
	last      *biblio.SearchResponse
}

func (s *shell) run(ctx context.Context) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	history := cfg.CLI.HistoryFile
	if history != "" {
		if f, err := os.Open(history); err == nil {
			_, _ = line.ReadHistory(f)
			f.Close()
		}
		defer func() {
			if f, err := os.Create(history); err == nil {
				_, _ = line.WriteHistory(f)
				f.Close()
			}
		}()
	}

	fmt.Fprintln(s.out, "Zotero Search interactive shell. Type 'help' for commands.")
	for {
		input, err := line.Prompt("zotsearch> ")
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			// io.EOF on Ctrl-D
			fmt.Fprintln(s.out)
			return nil
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		switch {
		case input == "exit" || input == "quit":
			return nil
		case input == "help":
			fmt.Fprintln(s.out, shellHelp)
		case input == ":json":
			s.printLast(formatJSON)
		case strings.HasPrefix(input, ":export"):
			s.export(strings.TrimSpace(strings.TrimPrefix(input, ":export")))
		default:
			s.query(ctx, input)
		}
	}
}

// query runs input through the session. Ctrl-C cancels a running search.
func (s *shell) query(ctx context.Context, input string) {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	start := time.Now()
	q := biblio.NewQuery(input)
	resp, err := s.session.Submit(ctx, q)
	switch {
	case errors.Is(err, search.ErrSuperseded), errors.Is(err, context.Canceled):
		fmt.Fprintln(s.out, "search cancelled")
		return
	case err != nil:
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}

	s.lastQuery, s.last = q, resp
	if err := printResults(s.out, formatText, q, resp); err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
	}
	fmt.Fprintf(s.out, "search took %v\n\n", time.Since(start).Round(time.Millisecond))
}

func (s *shell) printLast(format string) {
	if s.last == nil {
		fmt.Fprintln(s.out, "no results yet")
		return
	}
	if err := printResults(s.out, format, s.lastQuery, s.last); err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
	}
}

func (s *shell) export(path string) {
	if s.last == nil {
		fmt.Fprintln(s.out, "no results yet")
		return
	}
	if path == "" {
		fmt.Fprintln(s.out, "usage: :export FILE")
		return
	}
	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	defer f.Close()
	if err := export.WriteCSL(f, s.last.Data); err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "wrote %d items to %s\n", len(s.last.Data), path)
}
