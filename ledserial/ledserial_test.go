package ledserial

import (
	"bytes"
	"errors"
	"hash/crc32"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncomingPackets(t *testing.T) {
	packets := []IncomingPacket{
		InitializePacket{NumLEDs: 3},
		ClearPacket{},
		SetPacket{Words: []uint32{0x000000, 0xFF0001, 0x3AE0FC}},
	}

	var buf bytes.Buffer
	for _, p := range packets {
		require.NoError(t, WriteIncomingPacket(&buf, p))
	}

	for _, want := range packets {
		got, err := ReadIncomingPacket(&buf, ReadContext{NumLEDs: 3})
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ReadIncomingPacket(&buf, ReadContext{NumLEDs: 3})
	assert.True(t, errors.Is(err, io.EOF), "got %v", err)
}

func TestOutgoingPackets(t *testing.T) {
	packets := []OutgoingPacket{
		ErrorPacket{Message: "invalid number of LEDs: 0"},
		PanicPacket{Message: "out of memory"},
		LogPacket{Message: "received packet: set"},
		LogPacket{},
		AckPacket{IncomingPacketType: TypeSetPacket},
	}

	var buf bytes.Buffer
	for _, p := range packets {
		require.NoError(t, WriteOutgoingPacket(&buf, p))
	}

	for _, want := range packets {
		got, err := ReadOutgoingPacket(&buf)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestSetPacketLayout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteIncomingPacket(&buf, SetPacket{Words: []uint32{0x00FF0001}}))

	b := buf.Bytes()
	require.Len(t, b, 1+4+4)
	assert.Equal(t, byte(TypeSetPacket), b[0])
	assert.Equal(t, []byte{0x01, 0x00, 0xFF, 0x00}, b[1:5])
	assert.Equal(t, crc32.ChecksumIEEE(b[:5]), Endianness.Uint32(b[5:]))
}

func TestChecksumMismatch(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteIncomingPacket(&buf, InitializePacket{NumLEDs: 60}))

	b := buf.Bytes()
	b[1] ^= 0x04 // corrupt the payload

	_, err := ReadIncomingPacket(bytes.NewReader(b), ReadContext{})
	assert.True(t, errors.Is(err, ErrChecksumMismatch), "got %v", err)

	buf.Reset()
	require.NoError(t, WriteOutgoingPacket(&buf, AckPacket{IncomingPacketType: TypeClearPacket}))

	b = buf.Bytes()
	b[len(b)-1] ^= 0xFF // corrupt the checksum itself

	_, err = ReadOutgoingPacket(bytes.NewReader(b))
	assert.True(t, errors.Is(err, ErrChecksumMismatch), "got %v", err)
}

func TestUnknownPacketType(t *testing.T) {
	_, err := ReadIncomingPacket(bytes.NewReader([]byte{0x7F}), ReadContext{})
	assert.ErrorContains(t, err, "IncomingPacketType(127)")

	_, err = ReadOutgoingPacket(bytes.NewReader([]byte{0x7F}))
	assert.ErrorContains(t, err, "OutgoingPacketType(127)")
}

func TestLongMessageTruncated(t *testing.T) {
	msg := bytes.Repeat([]byte("x"), maxMessageLength+10)

	var buf bytes.Buffer
	require.NoError(t, WriteOutgoingPacket(&buf, LogPacket{Message: string(msg)}))

	p, err := ReadOutgoingPacket(&buf)
	require.NoError(t, err)
	assert.Len(t, p.(LogPacket).Message, maxMessageLength)
}
