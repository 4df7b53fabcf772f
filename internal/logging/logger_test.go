package logging

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestInit(t *testing.T) {
	prev := global
	defer func() { global = prev }()

	l, err := Init("debug", "json")
	require.NoError(t, err)
	assert.Same(t, l, L())

	_, err = Init("loud", "json")
	assert.Error(t, err)

	_, err = Init("info", "xml")
	assert.Error(t, err)
}

func TestNewLogger_TagsRequest(t *testing.T) {
	prev := global
	defer func() { global = prev }()

	core, logs := observer.New(zap.InfoLevel)
	global = zap.New(core)

	ctx := WithRequestID(context.Background(), "rid-1")
	NewLogger(ctx).LogInfof("submit", "session=%s", "abc")
	NewLogger(context.Background()).LogWarn("options", "slow")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "session=abc", entries[0].Message)
	assert.Equal(t, "rid-1", entries[0].ContextMap()["request_id"])
	assert.Equal(t, "submit", entries[0].ContextMap()["operation"])
	assert.Equal(t, "unknown", entries[1].ContextMap()["request_id"])
}

func TestCallerPointsAtCallSite(t *testing.T) {
	prev := global
	defer func() { global = prev }()

	core, logs := observer.New(zap.InfoLevel)
	global = zap.New(core, zap.AddCaller())

	L().Info("direct")
	NewLogger(context.Background()).LogInfo("submit", "wrapped")

	entries := logs.All()
	require.Len(t, entries, 2)
	for _, e := range entries {
		require.True(t, e.Caller.Defined, e.Message)
		assert.True(t, strings.HasSuffix(e.Caller.File, "logger_test.go"), "%s logged from %s", e.Message, e.Caller.File)
	}
}
