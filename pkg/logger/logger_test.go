package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	appctx "wikihost/internal/core/context"
)

func TestFromContext_AddsTraceAndAdmin(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ctx := WithLogger(context.Background(), NewFromCore(core))
	ctx = appctx.WithTrace(ctx, &appctx.TraceContext{TraceID: "t1", RequestID: "r1"})
	ctx = appctx.WithUser(ctx, &appctx.UserContext{UserID: "9", IsAdmin: true})

	Info(ctx, "listing served", "listing", "sites")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "t1", fields["trace_id"])
	assert.Equal(t, "r1", fields["request_id"])
	assert.Equal(t, "9", fields["admin_id"])
	assert.Equal(t, "sites", fields["listing"])
}

func TestNew_BadLevelFallsBackToInfo(t *testing.T) {
	l, err := New(Config{Level: "loud", OutputPaths: []string{"stderr"}})
	require.NoError(t, err)
	assert.False(t, l.Desugar().Core().Enabled(zapcore.DebugLevel))
	assert.True(t, l.Desugar().Core().Enabled(zapcore.InfoLevel))
}

func TestFromContext_WithoutRequestLogger(t *testing.T) {
	l := FromContext(context.Background())
	require.NotNil(t, l)
	assert.Same(t, l, FromContext(context.Background()))
	assert.False(t, l.Desugar().Core().Enabled(zapcore.DebugLevel))
}
