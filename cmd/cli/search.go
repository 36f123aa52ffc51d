package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"zotsearch/internal/biblio"
	"zotsearch/internal/export"
	"zotsearch/internal/render"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatCSL  = "csl"
)

// jsonResult mirrors the web adapter's /api/search body.
type jsonResult struct {
	Query string        `json:"query"`
	Count int           `json:"count"`
	Items []render.View `json:"items"`
}

func newSearchCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "search <terms...>",
		Short: "Run one query and print the results",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case formatText, formatJSON, formatCSL:
			default:
				return fmt.Errorf("unknown format %q (want text, json or csl)", format)
			}
			q, resp, err := searchOnce(cmd.Context(), args)
			if err != nil {
				return err
			}
			return printResults(cmd.OutOrStdout(), format, q, resp)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format: text, json or csl")
	return cmd
}

func printResults(w io.Writer, format string, q biblio.Query, resp *biblio.SearchResponse) error {
	switch format {
	case formatCSL:
		return export.WriteCSL(w, resp.Data)
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(jsonResult{
			Query: q.Q,
			Count: resp.Count,
			Items: newRenderer().RenderAll(resp.Data),
		})
	default:
		if len(resp.Data) == 0 {
			_, err := fmt.Fprintf(w, "No results found for %q.\n", q.Q)
			return err
		}
		if _, err := fmt.Fprintf(w, "Found %d results for %q\n\n", resp.Count, q.Q); err != nil {
			return err
		}
		return render.WriteText(w, newRenderer().RenderAll(resp.Data), styler(w))
	}
}

// searchOnce is shared by commands that need one result list.
func searchOnce(ctx context.Context, args []string) (biblio.Query, *biblio.SearchResponse, error) {
	q := biblio.NewQuery(strings.Join(args, " "))
	if q.Empty() {
		return q, nil, fmt.Errorf("empty query")
	}
	resp, err := newClient().Search(ctx, q)
	return q, resp, err
}
