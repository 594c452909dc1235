package telemetry

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestInitTracer_Disabled(t *testing.T) {
	shutdown, err := InitTracer(context.Background(), Options{ServiceName: "test"})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestInitTracer_StdoutExportsSpans(t *testing.T) {
	buf := new(bytes.Buffer)
	shutdown, err := InitTracer(context.Background(), Options{ServiceName: "asistencia-test", Writer: buf})
	require.NoError(t, err)

	_, span := otel.Tracer("test").Start(context.Background(), "clock")
	span.End()

	require.NoError(t, shutdown(context.Background()))
	assert.Contains(t, buf.String(), `"Name":"clock"`)
}
