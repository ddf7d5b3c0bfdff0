package loca

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEntries() []Entry {
	return []Entry{
		{Handle: "h_greeting", Version: 1, Text: "Hello there"},
		{Handle: "h_farewell", Version: 3, Text: ""},
		{Handle: "h_unicode", Version: 1, Text: "café"},
	}
}

func TestEncodeDecodeRoundtrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sampleEntries()))

	got, err := Decode(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, sampleEntries(), got)
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("NOPE1234")))
	assert.ErrorIs(t, err, ErrBadMagic)
}

func TestXMLRoundtrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeXML(&buf, sampleEntries()))

	got, err := DecodeXML(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, sampleEntries(), got)
}
