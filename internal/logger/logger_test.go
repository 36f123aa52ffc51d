package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zotsearch/internal/config"
)

func TestForCarriesRequestID(t *testing.T) {
	ctx := ContextWithID(context.Background(), "req-42")
	assert.Equal(t, "req-42", IDFrom(ctx))
	assert.Equal(t, "req-42", For(ctx).Data["request_id"])

	assert.Empty(t, IDFrom(context.Background()))
	assert.NotContains(t, For(context.Background()).Data, "request_id")
}

func TestSetupJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zotsearch.log")
	closer, err := Setup(config.LoggingConfig{Level: "debug", JSON: true, Path: path})
	require.NoError(t, err)
	t.Cleanup(func() {
		closer.Close()
		_, _ = Setup(config.LoggingConfig{})
	})

	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())

	var buf bytes.Buffer
	logrus.SetOutput(&buf)
	For(ContextWithID(context.Background(), "abc")).Info("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["msg"])
	assert.Equal(t, "abc", line["request_id"])
}

func TestSetupRejectsBadLevel(t *testing.T) {
	_, err := Setup(config.LoggingConfig{Level: "loud"})
	assert.Error(t, err)
}
