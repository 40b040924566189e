package log

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestZerologAdapter_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologAdapterWithLogger(zerolog.New(&buf).Level(zerolog.InfoLevel))

	logger.Debug("hidden")
	logger.Info("request sent", String("method", "GET"), Int("status", 200), Duration("took", time.Second))
	logger.Error("request failed", Err(errors.New("boom")), Any("fields", map[string]string{"a": "b"}))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"method":"GET"`)
	assert.Contains(t, out, `"status":200`)
	assert.Contains(t, out, `"error":"boom"`)
	assert.Contains(t, out, `"fields":{"a":"b"}`)
}

func TestNewZerologAdapter_ConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologAdapter(&buf, zerolog.DebugLevel)

	logger.Warn("slow response", String("url", "/animals"))

	assert.Contains(t, buf.String(), "slow response")
	assert.Contains(t, buf.String(), "/animals")
}

func TestNoopLogger(t *testing.T) {
	var logger Logger = NewNoopLogger()
	logger.Info("ignored", String("k", "v"))
}
