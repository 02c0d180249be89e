package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("默认配置", func(t *testing.T) {
		log, err := New(Config{})
		require.NoError(t, err)
		assert.NotNil(t, log)
	})

	t.Run("console格式", func(t *testing.T) {
		log, err := New(Config{Level: "debug", Format: "console", Output: "stderr", EnableCaller: true})
		require.NoError(t, err)
		assert.True(t, log.Core().Enabled(-1), "debug级别应启用")
	})

	t.Run("无效级别", func(t *testing.T) {
		_, err := New(Config{Level: "verbose"})
		assert.Error(t, err)
	})

	t.Run("无效格式", func(t *testing.T) {
		_, err := New(Config{Format: "xml"})
		assert.Error(t, err)
	})
}
