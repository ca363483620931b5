package logger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/smartcontractkit/chainparser/pkg/logger"
)

func TestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	lggr := logger.FromZap(zap.New(core)).Named("Registry").With("program", "abc")

	lggr.Infof("registered %d accounts", 3)
	lggr.Debugf("decode failed")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "registered 3 accounts", entries[0].Message)
	assert.Equal(t, "Registry", entries[0].LoggerName)
	assert.Equal(t, "abc", entries[0].ContextMap()["program"])
	assert.Equal(t, zapcore.DebugLevel, entries[1].Level)
}

func TestNew(t *testing.T) {
	_, err := logger.New("debug")
	require.NoError(t, err)

	_, err = logger.New("loud")
	require.Error(t, err)

	logger.Nop().Infof("dropped")
	logger.Test(t).Infof("visible in -v output")
}
