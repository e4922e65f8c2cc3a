package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitTracing_WithoutEndpoint(t *testing.T) {
	ctx := context.Background()

	tracer, shutdown, err := InitTracing(ctx, "mortgage-planner-test", "")
	require.NoError(t, err)
	require.NotNil(t, tracer)

	_, span := tracer.Start(ctx, "mortgage_apply")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	assert.NoError(t, shutdown(ctx))
}
