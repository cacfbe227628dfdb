package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter(t *testing.T) {
	t.Run("json honours level", func(t *testing.T) {
		var buf bytes.Buffer
		log, err := NewWithWriter(&buf, "json", "warn")
		require.NoError(t, err)

		log.Info("dropped")
		log.Warn("kept", "holder_id", "h1")

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, "kept", line["msg"])
		assert.Equal(t, "h1", line["holder_id"])
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		log, err := NewWithWriter(&buf, "text", "debug")
		require.NoError(t, err)
		log.Debug("hello")
		assert.Contains(t, buf.String(), "msg=hello")
	})

	t.Run("rejects unknown format and level", func(t *testing.T) {
		_, err := NewWithWriter(&bytes.Buffer{}, "xml", "info")
		assert.Error(t, err)
		_, err = NewWithWriter(&bytes.Buffer{}, "text", "loud")
		assert.Error(t, err)
	})
}
