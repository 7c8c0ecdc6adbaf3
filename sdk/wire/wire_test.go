package wire_test

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/leandrodaf/easykey/sdk/contracts"
	"github.com/leandrodaf/easykey/sdk/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	events := []contracts.ControllerEvent{
		contracts.ButtonPress(contracts.ButtonMod),
		contracts.ButtonRelease(contracts.ButtonMod),
		contracts.ButtonPress(contracts.ButtonG),
		contracts.DialTurn(contracts.DialLeft),
		contracts.DialTurn(contracts.DialRight),
		contracts.ButtonRelease(contracts.ButtonG),
	}

	var buf bytes.Buffer
	w := wire.NewEventWriter(&buf, nil)
	for _, ev := range events {
		require.NoError(t, w.WriteEvent(ev))
	}
	assert.Equal(t, []byte{0x4C, 0xCC, 0x47, 0x81, 0x80, 0xC7}, buf.Bytes())

	r := wire.NewEventReader(&buf)
	for _, want := range events {
		got, err := r.ReadEvent()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := r.ReadEvent()
	assert.ErrorIs(t, err, io.EOF)
}

func TestReaderSkipsPastMalformedByte(t *testing.T) {
	r := wire.NewEventReader(bytes.NewReader([]byte{0x4D, 0x00, 0x41}))

	_, err := r.ReadEvent()
	assert.ErrorIs(t, err, contracts.ErrReservedCode)
	_, err = r.ReadEvent()
	assert.ErrorIs(t, err, contracts.ErrMalformedEvent)

	ev, err := r.ReadEvent()
	require.NoError(t, err)
	assert.Equal(t, contracts.ButtonPress(contracts.ButtonCSharp), ev)
}

type failingWriter struct{ err error }

func (f failingWriter) Write([]byte) (int, error) { return 0, f.err }

func TestWriteEventError(t *testing.T) {
	errClosed := errors.New("connection closed")
	w := wire.NewEventWriter(failingWriter{errClosed}, nil)

	err := w.WriteEvent(contracts.DialTurn(contracts.DialLeft))
	assert.ErrorIs(t, err, errClosed)
	assert.Contains(t, err.Error(), "DialTurn(Left)")
}

func TestWriteEventRefusesInvalidButton(t *testing.T) {
	var buf bytes.Buffer
	w := wire.NewEventWriter(&buf, nil)

	err := w.WriteEvent(contracts.ButtonPress(contracts.Button(20)))
	assert.ErrorIs(t, err, contracts.ErrMalformedEvent)
	assert.Zero(t, buf.Len())
}
