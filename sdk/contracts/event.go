package contracts

import (
	"errors"
	"fmt"
)

// Button identifies one of the physical buttons on the control surface: the twelve
// chromatic pitch classes of the keyboard plus the dedicated modifier button.
type Button uint8

const (
	ButtonC Button = iota
	ButtonCSharp
	ButtonD
	ButtonDSharp
	ButtonE
	ButtonF
	ButtonFSharp
	ButtonG
	ButtonGSharp
	ButtonA
	ButtonASharp
	ButtonB
	// ButtonMod is the modifier button. It is reported through a control change,
	// never through a note, so ButtonFromCode cannot return it.
	ButtonMod
)

// pitchClasses is the number of note-derived buttons; keys are folded into this range.
const pitchClasses = 12

var buttonNames = [...]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B", "MOD"}

// Code returns the wire code of the button (0-12).
func (b Button) Code() uint8 {
	return uint8(b)
}

// Valid reports whether b is one of the 13 defined buttons.
func (b Button) Valid() bool {
	return b <= ButtonMod
}

func (b Button) String() string {
	if !b.Valid() {
		return fmt.Sprintf("Button(%d)", uint8(b))
	}
	return buttonNames[b]
}

// ButtonFromCode maps a MIDI key number to its pitch-class button. The octave is
// discarded, so every byte value is accepted and the result is never ButtonMod.
func ButtonFromCode(key uint8) Button {
	return Button(key % pitchClasses)
}

// DialMovement is the direction the rotary dial was turned.
type DialMovement uint8

const (
	DialRight DialMovement = iota
	DialLeft
)

func (d DialMovement) String() string {
	switch d {
	case DialLeft:
		return "Left"
	case DialRight:
		return "Right"
	default:
		return fmt.Sprintf("DialMovement(%d)", uint8(d))
	}
}

// EventKind tags the variant held by a ControllerEvent.
type EventKind uint8

const (
	EventButtonPress EventKind = iota + 1
	EventButtonRelease
	EventDialTurn
)

// ControllerEvent is a single logical input produced by the translator. Only the
// payload field matching Kind is meaningful; use the constructors below.
type ControllerEvent struct {
	Kind   EventKind
	Button Button       // EventButtonPress, EventButtonRelease
	Dial   DialMovement // EventDialTurn
}

// ButtonPress returns the event for b being pressed.
func ButtonPress(b Button) ControllerEvent {
	return ControllerEvent{Kind: EventButtonPress, Button: b}
}

// ButtonRelease returns the event for b being released.
func ButtonRelease(b Button) ControllerEvent {
	return ControllerEvent{Kind: EventButtonRelease, Button: b}
}

// DialTurn returns the event for the dial moving in direction d.
func DialTurn(d DialMovement) ControllerEvent {
	return ControllerEvent{Kind: EventDialTurn, Dial: d}
}

func (e ControllerEvent) String() string {
	switch e.Kind {
	case EventButtonPress:
		return fmt.Sprintf("ButtonPress(%s)", e.Button)
	case EventButtonRelease:
		return fmt.Sprintf("ButtonRelease(%s)", e.Button)
	case EventDialTurn:
		return fmt.Sprintf("DialTurn(%s)", e.Dial)
	default:
		return fmt.Sprintf("ControllerEvent(%d)", uint8(e.Kind))
	}
}

// Wire layout of an encoded event: a 2-bit tag in bits 7-6 and the payload below it.
const (
	tagShift    = 6
	tagPress    = 0b01
	tagDial     = 0b10
	tagRelease  = 0b11
	payloadMask = 0b0001_1111
	dialLeftBit = 0b0000_0001
)

// Error definitions for decoding wire bytes.
var (
	ErrMalformedEvent = errors.New("malformed event byte")
	ErrReservedCode   = errors.New("reserved button code")
)

// Encode packs the event into its one-byte wire representation:
//
//	01xbbbbb  button press,   bbbbb = button code
//	11xbbbbb  button release, bbbbb = button code
//	10xxxxxd  dial turn,      d = 1 for Left, 0 for Right
//
// All x bits are zero. Events that have no wire form, such as a button outside
// C..MOD, encode to 0, which DecodeEvent rejects.
func (e ControllerEvent) Encode() byte {
	switch e.Kind {
	case EventButtonPress, EventButtonRelease:
		if !e.Button.Valid() {
			return 0
		}
		if e.Kind == EventButtonRelease {
			return tagRelease<<tagShift | e.Button.Code()
		}
		return tagPress<<tagShift | e.Button.Code()
	case EventDialTurn:
		if e.Dial == DialLeft {
			return tagDial<<tagShift | dialLeftBit
		}
		return tagDial << tagShift
	default:
		return 0
	}
}

// DecodeEvent is the inverse of Encode. Bytes Encode can never produce are rejected:
// tag 00, any stray bit set outside the payload, and the button codes 13-31 which
// are reserved on the wire.
func DecodeEvent(b byte) (ControllerEvent, error) {
	tag := b >> tagShift
	payload := b &^ (0b11 << tagShift)

	switch tag {
	case tagPress, tagRelease:
		if payload&^payloadMask != 0 {
			return ControllerEvent{}, fmt.Errorf("%w: 0x%02X", ErrMalformedEvent, b)
		}
		btn := Button(payload)
		if !btn.Valid() {
			return ControllerEvent{}, fmt.Errorf("%w: %d", ErrReservedCode, payload)
		}
		if tag == tagPress {
			return ButtonPress(btn), nil
		}
		return ButtonRelease(btn), nil
	case tagDial:
		if payload&^dialLeftBit != 0 {
			return ControllerEvent{}, fmt.Errorf("%w: 0x%02X", ErrMalformedEvent, b)
		}
		if payload == dialLeftBit {
			return DialTurn(DialLeft), nil
		}
		return DialTurn(DialRight), nil
	default:
		return ControllerEvent{}, fmt.Errorf("%w: 0x%02X", ErrMalformedEvent, b)
	}
}
