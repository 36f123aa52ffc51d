package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"zotsearch/internal/biblio"
	"zotsearch/internal/config"
	"zotsearch/internal/search"
)

// probeQuery is sent to the backend; any answer with a valid shape passes.
const probeQuery = "a"

func main() {
	cfg := config.Get()

	fmt.Println("🔍 === STARTING COMPONENT DIAGNOSTICS ===")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	failed := false
	report := func(err error) {
		if err != nil {
			log.Printf("❌ %v", err)
			failed = true
		}
	}

	fmt.Printf("\n[1] Testing search backend (%s)...\n", cfg.Backend.BaseURL)
	report(checkBackend(ctx, cfg.Backend.BaseURL, os.Stdout))

	web := cfg.WebAdapter.FullURL()
	fmt.Printf("\n[2] Testing Web Adapter (%s)...\n", web)
	report(checkWeb(ctx, web, os.Stdout))

	fmt.Println("\n🏁 === DIAGNOSTICS COMPLETE ===")
	if failed {
		os.Exit(1)
	}
}

// checkBackend runs the probe query with the response contract enforced.
func checkBackend(ctx context.Context, baseURL string, out io.Writer) error {
	client := search.NewClient(baseURL, search.WithSchemaValidation(true))
	resp, err := client.Search(ctx, biblio.NewQuery(probeQuery))
	if err != nil {
		return fmt.Errorf("backend search failed: %w", err)
	}
	withCover := 0
	for _, d := range resp.Data {
		if d.HasCover() {
			withCover++
		}
	}
	fmt.Fprintf(out, "✅ PASS. Count: %d, Returned: %d, With cover: %d\n", resp.Count, len(resp.Data), withCover)
	if len(resp.Data) == 0 {
		fmt.Fprintln(out, "   (Note: 0 documents is expected for an empty index)")
	}
	return nil
}

func checkWeb(ctx context.Context, baseURL string, out io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("web adapter request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("web adapter failed: %w", err)
	}
	defer resp.Body.Close()

	var body struct {
		Status string `json:"status"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)

	if resp.StatusCode != http.StatusOK || body.Status != "ok" {
		return fmt.Errorf("web adapter unhealthy: HTTP %d, status %q", resp.StatusCode, body.Status)
	}
	fmt.Fprintf(out, "✅ PASS. HTTP Status: %d, Request ID: %s\n", resp.StatusCode, resp.Header.Get("X-Request-ID"))
	return nil
}
