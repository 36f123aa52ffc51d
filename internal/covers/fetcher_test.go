package covers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zotsearch/internal/biblio"
	"zotsearch/internal/render"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestFetchDownloadsAndSkips(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		hash := strings.TrimPrefix(r.URL.Path, render.CoverPath)
		if hash == "missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = io.WriteString(w, "jpeg:"+hash)
	}))
	defer srv.Close()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cached.jpg"), []byte("old"), 0o644))

	docs := []biblio.Document{
		{ItemID: "1", CoverHash: "aaa"},
		{ItemID: "2"},
		{ItemID: "3", CoverHash: "cached"},
		{ItemID: "4", CoverHash: "aaa"},
		{ItemID: "5", CoverHash: "missing"},
		{ItemID: "6", CoverHash: "../escape"},
		{ItemID: "7", CoverHash: "bbb"},
	}

	var ticks atomic.Int32
	f := NewFetcher(srv.URL, dir,
		WithWorkers(2),
		WithLogger(quietLogger()),
		WithProgress(func() { ticks.Add(1) }),
	)
	stats, err := f.Fetch(context.Background(), docs)
	require.NoError(t, err)

	assert.Equal(t, Stats{Fetched: 2, Skipped: 3, Failed: 2}, stats)
	assert.Equal(t, len(docs), stats.Total())
	assert.Equal(t, int32(len(docs)), ticks.Load())
	assert.Equal(t, int32(3), hits.Load())

	got, err := os.ReadFile(f.Path("aaa"))
	require.NoError(t, err)
	assert.Equal(t, "jpeg:aaa", string(got))

	old, err := os.ReadFile(f.Path("cached"))
	require.NoError(t, err)
	assert.Equal(t, "old", string(old))

	_, err = os.Stat(f.Path("missing"))
	assert.True(t, os.IsNotExist(err))

	leftovers, err := filepath.Glob(filepath.Join(dir, "*.part"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestFetchNoHashesNeverCallsServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s", r.URL.Path)
	}))
	defer srv.Close()

	stats, err := NewFetcher(srv.URL, t.TempDir(), WithLogger(quietLogger())).
		Fetch(context.Background(), []biblio.Document{{ItemID: "1"}, {ItemID: "2", CoverHash: "  "}})
	require.NoError(t, err)
	assert.Equal(t, Stats{Skipped: 2}, stats)
}
