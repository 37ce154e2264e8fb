package protocol

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wagiedev/graphql-ws-go/internal/errors"
)

func TestDecodeFrame(t *testing.T) {
	f, err := DecodeFrame([]byte(`{"id":"abc","type":"next","payload":{"data":{"n":1}}}`))
	require.NoError(t, err)

	assert.Equal(t, "abc", f.ID)
	assert.Equal(t, KindNext, f.Type)
	assert.JSONEq(t, `{"data":{"n":1}}`, string(f.Payload))
}

func TestDecodeFrame_ControlFrameWithoutID(t *testing.T) {
	f, err := DecodeFrame([]byte(`{"type":"connection_ack"}`))
	require.NoError(t, err)

	assert.Empty(t, f.ID)
	assert.Equal(t, KindAck, f.Type)
	assert.Nil(t, f.Payload)
}

func TestDecodeFrame_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "truncated", data: `{"type":`},
		{name: "array", data: `[1,2,3]`},
		{name: "missing type", data: `{"id":"abc"}`},
		{name: "null", data: `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeFrame([]byte(tt.data))
			require.Error(t, err)

			fErr, ok := stderrors.AsType[*errors.FramingError](err)
			require.True(t, ok)
			assert.Equal(t, tt.data, fErr.RawData)
		})
	}
}

func TestInitFrame_DefaultPayload(t *testing.T) {
	data, err := InitFrame("conn-1", nil).Encode()
	require.NoError(t, err)

	assert.JSONEq(t, `{"id":"conn-1","type":"connection_init","payload":{}}`, string(data))
}

func TestSubscribeFrame_Encode(t *testing.T) {
	data, err := SubscribeFrame("sub-1", []byte(`{"query":"subscription { x }"}`)).Encode()
	require.NoError(t, err)

	assert.JSONEq(t, `{"id":"sub-1","type":"subscribe","payload":{"query":"subscription { x }"}}`, string(data))
}

func TestFrame_EncodeOmitsEmptyID(t *testing.T) {
	data, err := (&Frame{Type: KindAck}).Encode()
	require.NoError(t, err)

	assert.JSONEq(t, `{"type":"connection_ack"}`, string(data))
}
