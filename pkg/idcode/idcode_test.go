package idcode

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeProducesPNG(t *testing.T) {
	encoder := NewEncoder(0)

	image, err := encoder.Encode("student@example.com")
	require.NoError(t, err)

	decoded, err := png.Decode(bytes.NewReader(image))
	require.NoError(t, err)
	require.Equal(t, DefaultSize, decoded.Bounds().Dx())
}

func TestEncodeRejectsEmptyPayload(t *testing.T) {
	_, err := NewEncoder(128).Encode("   ")
	require.ErrorIs(t, err, ErrEmptyPayload)
}
