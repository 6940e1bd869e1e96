package gen

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/binary-io/binaryio/pkg/schema"
)

// The shipped protocol definitions must stay loadable and generatable.
func TestGenerateShippedProtocols(t *testing.T) {
	protocols, err := schema.LoadDir(filepath.Join("..", "..", "protocols"))
	require.NoError(t, err)
	require.Len(t, protocols, 2)

	for _, proto := range protocols {
		t.Run(proto.Name, func(t *testing.T) {
			src, err := Generate(proto, filepath.Base(proto.Source))
			require.NoError(t, err)
			assert.Contains(t, string(src), "package "+proto.Package)
		})
	}
}

func TestSensorTelemetryShape(t *testing.T) {
	proto, err := schema.Load(filepath.Join("..", "..", "protocols", "sensor_telemetry.yaml"))
	require.NoError(t, err)

	src, err := Generate(proto, "sensor_telemetry.yaml")
	require.NoError(t, err)

	hasCode(t, string(src), "type SensorType uint8")
	hasCode(t, string(src), "BatteryLevel uint8")
	hasCode(t, string(src), "Channels []float32")
	hasCode(t, string(src), "StationName string")
	hasCode(t, string(src), "if v != 0x54454c4d {")
}

func TestCommandProtocolShape(t *testing.T) {
	proto, err := schema.Load(filepath.Join("..", "..", "protocols", "command_protocol.yaml"))
	require.NoError(t, err)

	src, err := Generate(proto, "command_protocol.yaml")
	require.NoError(t, err)

	assert.Contains(t, string(src), "var ByteOrder = bio.BigEndian")
	hasCode(t, string(src), "Header RequestHeader")
	hasCode(t, string(src), "m.Body = make([]byte, int(m.BodyLen))")
	hasCode(t, string(src), "if (m.Flags & 0x01) != 0 {")
}
