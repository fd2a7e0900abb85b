package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestInitReplacesGlobalLogger(t *testing.T) {
	before := zap.L()
	sync := Init("test")
	t.Cleanup(func() { zap.ReplaceGlobals(before) })

	assert.NotSame(t, before, zap.L())
	assert.True(t, zap.L().Core().Enabled(zap.DebugLevel))
	sync()
}
