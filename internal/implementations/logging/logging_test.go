package logging

import (
	"context"
	"exzly/internal/core/domain/logging"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestEntriesAreStructured(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := newZapLogger(core)

	log.Warning(context.Background(), "Rate limit exceeded.", logging.Entry("key", "sign-in::10.0.0.1"))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	require.Equal(t, "Rate limit exceeded.", entry.Message)
	require.Equal(t, zap.WarnLevel, entry.Level)
	require.Equal(t, "sign-in::10.0.0.1", entry.ContextMap()["key"])
}

func TestRequestIDIsAttached(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	log := newZapLogger(core)
	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-42")

	log.Info(ctx, "User has signed in.", logging.Entry("userId", 7))
	log.Debug(ctx, "Filtered out.")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	require.Equal(t, "req-42", fields["requestId"])
	require.EqualValues(t, 7, fields["userId"])
}

func TestInvalidLevelPanics(t *testing.T) {
	require.Panics(t, func() { NewZapLogger(Options{Level: "loud"}) })
}
