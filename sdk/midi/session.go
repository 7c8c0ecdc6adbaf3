package midi

import (
	"context"

	"github.com/google/uuid"
	"github.com/leandrodaf/easykey/internal/logger"
	"github.com/leandrodaf/easykey/sdk/contracts"
	"github.com/leandrodaf/easykey/sdk/translator"
)

// Session binds one translator to the capture stream of one device connection.
// Events leave the session in the order their frames arrived.
type Session struct {
	ID         string
	logger     contracts.Logger
	translator *translator.Translator
}

// NewSession creates a session with fresh translator state. A nil logger discards output.
func NewSession(l contracts.Logger) *Session {
	if l == nil {
		l = logger.NewNopLogger()
	}
	return &Session{
		ID:         uuid.New().String(),
		logger:     l,
		translator: translator.New(l),
	}
}

// Translator exposes the session's translator, mainly to inspect its state.
func (s *Session) Translator() *translator.Translator {
	return s.translator
}

// Run reads captured messages from in until it is closed or ctx is done, and sends
// every resulting event to out. Sending blocks, so a slow consumer slows the session
// down instead of losing events. Run returns nil when in is closed and ctx.Err()
// on cancellation. It does not close out.
func (s *Session) Run(ctx context.Context, in <-chan contracts.MIDI, out chan<- contracts.ControllerEvent) error {
	s.logger.Info("Session started", s.logger.Field().String("session", s.ID))
	defer s.logger.Info("Session stopped", s.logger.Field().String("session", s.ID))

	for {
		var msg contracts.MIDI
		var ok bool
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok = <-in:
			if !ok {
				return nil
			}
		}

		event, emitted := s.translator.TranslateMIDI(msg)
		if !emitted {
			continue
		}
		s.logger.Debug("Controller event",
			s.logger.Field().String("session", s.ID),
			s.logger.Field().String("event", event.String()),
			s.logger.Field().Uint64("timestamp", msg.Timestamp))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case out <- event:
		}
	}
}
