// Package relay hands raw messages from driver callbacks to a capture channel.
package relay

import (
	"sync/atomic"
	"time"

	"github.com/leandrodaf/easykey/sdk/contracts"
)

// Relay is safe to use from driver callback goroutines. It never blocks: when the
// capture channel is full the message is dropped with a warning, so backpressure
// from the session ends here.
type Relay struct {
	logger contracts.Logger
	filter *contracts.MIDIEventFilter
	events atomic.Pointer[chan contracts.MIDI]
}

// New returns a relay with no channel attached. A nil filter lets everything through.
func New(l contracts.Logger, filter *contracts.MIDIEventFilter) *Relay {
	return &Relay{logger: l, filter: filter}
}

// Attach makes ch the destination of later messages, replacing any previous one.
func (r *Relay) Attach(ch chan contracts.MIDI) {
	r.events.Store(&ch)
}

// Detach drops every later message until the next Attach.
func (r *Relay) Detach() {
	r.events.Store(nil)
}

// Attached reports whether a channel is attached.
func (r *Relay) Attached() bool {
	p := r.events.Load()
	return p != nil && *p != nil
}

// Packet forwards each message of a buffer that may hold several.
func (r *Relay) Packet(data []byte) {
	if len(data) == 0 {
		r.logger.Warn("Empty MIDI packet")
		return
	}
	now := uint64(time.Now().UTC().UnixNano())
	for _, msg := range contracts.SplitMessages(data) {
		r.send(now, msg)
	}
}

// Message forwards a buffer known to hold exactly one message.
func (r *Relay) Message(data []byte) {
	if len(data) == 0 {
		return
	}
	r.send(uint64(time.Now().UTC().UnixNano()), data)
}

// send copies msg, since drivers reuse their buffers after the callback returns.
// Broken pieces skip the filter so the translator can report them.
func (r *Relay) send(timestamp uint64, msg []byte) {
	if contracts.Complete(msg) && !r.filter.Allows(msg[0]) {
		return
	}
	p := r.events.Load()
	if p == nil || *p == nil {
		r.logger.Debug("No capture channel; MIDI message dropped")
		return
	}

	select {
	case *p <- contracts.MIDI{Timestamp: timestamp, Data: append([]byte(nil), msg...)}:
	default:
		r.logger.Warn("Capture channel full; MIDI message dropped",
			r.logger.Field().Uint8("status", msg[0]))
	}
}
