package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	original := New("original")
	wrapped := Wrap(original, "wrapped")

	assert.Contains(t, wrapped.Error(), "wrapped")
	assert.Contains(t, wrapped.Error(), "original")
	assert.True(t, Is(wrapped, original))
}

func TestTransport(t *testing.T) {
	err := Transport(New("connection refused"), "stop 123")

	assert.True(t, IsTransportError(err))
	assert.False(t, IsProtocolError(err))
	assert.Contains(t, err.Error(), "stop 123")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestProtocolf(t *testing.T) {
	err := Protocolf("HTTP %d", 503)

	assert.True(t, IsProtocolError(err))
	assert.False(t, IsTransportError(err))
	assert.Equal(t, "HTTP 503", err.Error())
}

func TestIsHelpersNil(t *testing.T) {
	assert.False(t, IsTransportError(nil))
	assert.False(t, IsProtocolError(nil))
}

func TestWithDetail(t *testing.T) {
	err := WithDetail(New("bad"), `{"message":"Invalid app_key"}`)

	details := GetAllDetails(err)
	require.Len(t, details, 1)
	assert.Equal(t, `{"message":"Invalid app_key"}`, details[0])
	assert.Equal(t, "bad", err.Error())
}
