// Package wire streams controller events over a byte transport, one byte per
// event, using the encoding defined by contracts.ControllerEvent.Encode.
package wire

import (
	"fmt"
	"io"
	"sync"

	"github.com/leandrodaf/easykey/internal/logger"
	"github.com/leandrodaf/easykey/sdk/contracts"
)

// EventWriter encodes events onto an io.Writer. It is safe for concurrent use.
type EventWriter struct {
	mu     sync.Mutex
	w      io.Writer
	logger contracts.Logger
	buf    [1]byte
}

// NewEventWriter returns a writer for w. A nil logger discards output.
func NewEventWriter(w io.Writer, l contracts.Logger) *EventWriter {
	if l == nil {
		l = logger.NewNopLogger()
	}
	return &EventWriter{w: w, logger: l}
}

// WriteEvent writes the encoded byte of ev. Events without a wire form are
// refused with contracts.ErrMalformedEvent and nothing is written.
func (e *EventWriter) WriteEvent(ev contracts.ControllerEvent) error {
	b := ev.Encode()
	if b == 0 {
		return fmt.Errorf("%w: %s", contracts.ErrMalformedEvent, ev)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.buf[0] = b
	if _, err := e.w.Write(e.buf[:]); err != nil {
		return fmt.Errorf("write %s: %w", ev, err)
	}
	e.logger.Debug("Event sent",
		e.logger.Field().String("event", ev.String()),
		e.logger.Field().Uint8("byte", e.buf[0]))
	return nil
}

// EventReader decodes events from an io.Reader.
type EventReader struct {
	r   io.Reader
	buf [1]byte
}

// NewEventReader returns a reader for r.
func NewEventReader(r io.Reader) *EventReader {
	return &EventReader{r: r}
}

// ReadEvent reads and decodes the next event. It returns io.EOF at the end of the
// stream, and an error wrapping contracts.ErrMalformedEvent or
// contracts.ErrReservedCode for bytes no encoder produces. The stream stays usable
// after a malformed byte.
func (e *EventReader) ReadEvent() (contracts.ControllerEvent, error) {
	if _, err := io.ReadFull(e.r, e.buf[:]); err != nil {
		return contracts.ControllerEvent{}, err
	}
	return contracts.DecodeEvent(e.buf[0])
}
