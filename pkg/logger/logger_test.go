package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_FormatsAndFilters(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, logrus.InfoLevel)

	log.Debug("hidden %d", 1)
	log.Info("allocation %d opened", 42)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "allocation 42 opened", entry["msg"])
	assert.Equal(t, "info", entry["level"])
}

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "service.log")

	log, err := New(path, "warn")
	require.NoError(t, err)

	log.Info("skipped")
	log.Warn("spot inventory for facility %d is full", 3)
	require.NoError(t, log.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "spot inventory for facility 3 is full")
	assert.NotContains(t, string(data), "skipped")
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New("", "loud")
	assert.Error(t, err)
}
