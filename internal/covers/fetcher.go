// Package covers downloads result cover images to a local directory.
package covers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"zotsearch/internal/biblio"
	"zotsearch/internal/metrics"
	"zotsearch/internal/render"
)

const (
	DefaultWorkers = 4
	// Ext is appended to the cover hash to name the local file.
	Ext = ".jpg"
)

// Stats summarises one Fetch run.
type Stats struct {
	Fetched int `json:"fetched"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// Total is the number of documents accounted for.
func (s Stats) Total() int { return s.Fetched + s.Skipped + s.Failed }

type Fetcher struct {
	base     string
	dir      string
	workers  int
	client   *http.Client
	log      *logrus.Logger
	progress func()
}

type Option func(*Fetcher)

func WithWorkers(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.workers = n
		}
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(f *Fetcher) { f.client = hc }
}

func WithLogger(l *logrus.Logger) Option {
	return func(f *Fetcher) { f.log = l }
}

// WithProgress registers a callback invoked once per document handled.
// It may be called from several goroutines at once.
func WithProgress(fn func()) Option {
	return func(f *Fetcher) { f.progress = fn }
}

// NewFetcher downloads covers served under base into dir.
func NewFetcher(base, dir string, opts ...Option) *Fetcher {
	f := &Fetcher{
		base:    base,
		dir:     dir,
		workers: DefaultWorkers,
		client:  &http.Client{Timeout: 30 * time.Second},
		log:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Path returns the local file a cover hash is stored at.
func (f *Fetcher) Path(hash string) string {
	return filepath.Join(f.dir, hash+Ext)
}

// Fetch downloads the cover of every document that has one and is not on
// disk yet. Documents without a hash, repeated hashes and existing files are
// skipped.
func (f *Fetcher) Fetch(ctx context.Context, docs []biblio.Document) (Stats, error) {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return Stats{}, fmt.Errorf("create cover dir: %w", err)
	}

	var (
		mu    sync.Mutex
		stats Stats
	)
	record := func(status string) {
		mu.Lock()
		switch status {
		case "fetched":
			stats.Fetched++
		case "skipped":
			stats.Skipped++
		default:
			stats.Failed++
		}
		mu.Unlock()
		metrics.CoversTotal.WithLabelValues(status).Inc()
		if f.progress != nil {
			f.progress()
		}
	}

	jobs := make(chan string)
	var wg sync.WaitGroup
	for i := 0; i < f.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for hash := range jobs {
				if err := f.fetchOne(ctx, hash); err != nil {
					f.log.WithError(err).WithField("cover_hash", hash).Warn("cover.fetch.failed")
					record("failed")
					continue
				}
				record("fetched")
			}
		}()
	}

	seen := make(map[string]bool, len(docs))
	for _, d := range docs {
		hash := strings.TrimSpace(d.CoverHash)
		switch {
		case hash == "" || seen[hash]:
			record("skipped")
			continue
		case !validHash(hash):
			f.log.WithField("cover_hash", hash).Warn("cover.hash.invalid")
			record("failed")
			continue
		}
		seen[hash] = true
		if _, err := os.Stat(f.Path(hash)); err == nil {
			record("skipped")
			continue
		}
		select {
		case jobs <- hash:
		case <-ctx.Done():
		}
		if ctx.Err() != nil {
			break
		}
	}
	close(jobs)
	wg.Wait()

	return stats, ctx.Err()
}

func (f *Fetcher) fetchOne(ctx context.Context, hash string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, render.CoverURL(f.base, hash), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	res, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("cover do: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("cover server returned %d", res.StatusCode)
	}

	tmp, err := os.CreateTemp(f.dir, hash+".*.part")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, res.Body); err != nil {
		tmp.Close()
		return fmt.Errorf("write cover: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close cover: %w", err)
	}
	return os.Rename(tmp.Name(), f.Path(hash))
}

// validHash rejects hashes that would escape the cover directory.
func validHash(hash string) bool {
	return !strings.ContainsAny(hash, `/\`) && hash != "." && hash != ".."
}
