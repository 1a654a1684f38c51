package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInitWithoutEndpointIsNoop(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	shutdown, err := Init(context.Background())
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	require.NoError(t, shutdown(context.Background()))
}

func TestStartSpanAndFinish(t *testing.T) {
	ctx, span := StartSpan(context.Background(), "test", "op")
	require.NotNil(t, ctx)
	Finish(span, errors.New("boom"))

	_, span = StartSpan(ctx, "", "op2")
	Finish(span, nil)
}

func TestInsecureFlag(t *testing.T) {
	require.True(t, insecure(""))
	require.True(t, insecure("TRUE"))
	require.True(t, insecure("1"))
	require.False(t, insecure("false"))
}
