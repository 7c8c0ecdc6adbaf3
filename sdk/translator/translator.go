// Package translator turns classified MIDI frames from the control surface into
// controller events.
//
// A Translator keeps the little state needed to read the rotary dial, which the
// device reports as an absolute, wrapping program number instead of a relative
// step. It is not safe for concurrent use; feed it from one goroutine, in the
// order the device reported the frames.
package translator

import (
	"fmt"

	"github.com/leandrodaf/easykey/internal/logger"
	"github.com/leandrodaf/easykey/sdk/contracts"
)

// ModController is the controller number of the modulation wheel, which the device
// uses for its modifier button.
const ModController = 1

// Control change values the modifier button sends on release and press. Values in
// between are transient sweep positions.
const (
	modReleased = 0
	modPressed  = 127
)

// Program values that force a direction regardless of the previous value.
const (
	programMin = 0
	programMax = 127
)

// State is the per-device decoding state.
type State struct {
	LastProgram uint8 // most recent program value a direction was read from
	Calibrated  bool  // whether a baseline program value has been recorded
}

// Translator decodes frames of a single device into controller events.
type Translator struct {
	logger contracts.Logger
	state  State
}

// New returns a translator with fresh state. A nil logger discards reports.
func New(l contracts.Logger) *Translator {
	if l == nil {
		l = logger.NewNopLogger()
	}
	return &Translator{logger: l}
}

// State returns a copy of the current decoding state.
func (t *Translator) State() State {
	return t.state
}

// Translate decodes one frame. It returns the resulting event and true, or false
// when the frame produces no event. The timestamp is only used for reporting.
func (t *Translator) Translate(timestamp uint64, frame contracts.Frame) (contracts.ControllerEvent, bool) {
	switch f := frame.(type) {
	case contracts.NoteOnFrame:
		return contracts.ButtonPress(contracts.ButtonFromCode(f.Key)), true
	case contracts.NoteOffFrame:
		return contracts.ButtonRelease(contracts.ButtonFromCode(f.Key)), true
	case contracts.ControlChangeFrame:
		return t.controlChange(timestamp, f)
	case contracts.ProgramChangeFrame:
		return t.programChange(timestamp, f)
	case contracts.PitchBendFrame:
		return contracts.ControllerEvent{}, false
	case contracts.UnclassifiedFrame:
		t.logger.Warn("Received unknown input",
			t.logger.Field().Uint64("timestamp", timestamp),
			t.logger.Field().String("data", fmt.Sprintf("% X", f.Data)))
		return contracts.ControllerEvent{}, false
	default:
		t.logger.Warn("Received unsupported frame type",
			t.logger.Field().Uint64("timestamp", timestamp),
			t.logger.Field().String("type", fmt.Sprintf("%T", frame)))
		return contracts.ControllerEvent{}, false
	}
}

func (t *Translator) controlChange(timestamp uint64, f contracts.ControlChangeFrame) (contracts.ControllerEvent, bool) {
	if f.Controller != ModController {
		t.logger.Warn("Received unknown control code",
			t.logger.Field().Uint64("timestamp", timestamp),
			t.logger.Field().Uint8("controller", f.Controller),
			t.logger.Field().Uint8("value", f.Value))
		return contracts.ControllerEvent{}, false
	}

	switch f.Value {
	case modReleased:
		return contracts.ButtonRelease(contracts.ButtonMod), true
	case modPressed:
		return contracts.ButtonPress(contracts.ButtonMod), true
	default:
		return contracts.ControllerEvent{}, false
	}
}

func (t *Translator) programChange(timestamp uint64, f contracts.ProgramChangeFrame) (contracts.ControllerEvent, bool) {
	// The dial's starting position is unknown, so the first reading only sets the baseline.
	if !t.state.Calibrated {
		t.state = State{LastProgram: f.Program, Calibrated: true}
		t.logger.Debug("Dial calibrated",
			t.logger.Field().Uint64("timestamp", timestamp),
			t.logger.Field().Uint8("program", f.Program))
		return contracts.ControllerEvent{}, false
	}

	next, direction, moved := t.state.advance(f.Program)
	if !moved {
		t.logger.Debug("Dial position unchanged",
			t.logger.Field().Uint64("timestamp", timestamp),
			t.logger.Field().Uint8("program", f.Program))
		return contracts.ControllerEvent{}, false
	}
	t.state = next
	return contracts.DialTurn(direction), true
}

// advance computes the state after observing program value p and the direction the
// dial moved. An exact repeat of the last value has no direction.
func (s State) advance(p uint8) (State, contracts.DialMovement, bool) {
	var direction contracts.DialMovement
	switch {
	case p == programMin || p < s.LastProgram:
		direction = contracts.DialLeft
	case p == programMax || p > s.LastProgram:
		direction = contracts.DialRight
	default:
		return s, direction, false
	}

	s.LastProgram = p
	return s, direction, true
}
