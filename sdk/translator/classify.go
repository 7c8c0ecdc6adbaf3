package translator

import (
	"gitlab.com/gomidi/midi/v2"

	"github.com/leandrodaf/easykey/sdk/contracts"
)

// Classify sorts a raw MIDI message into one of the frame variants the translator
// understands. A Note On with velocity zero counts as a Note Off, as the MIDI
// standard allows. Anything else, including truncated messages, becomes an
// UnclassifiedFrame holding a copy of the bytes.
func Classify(data []byte) contracts.Frame {
	if !contracts.Complete(data) {
		return contracts.UnclassifiedFrame{Data: append([]byte(nil), data...)}
	}
	msg := midi.Message(data)

	var channel, key, velocity, controller, value, program uint8
	var relative int16
	var absolute uint16

	switch {
	case msg.GetNoteStart(&channel, &key, &velocity):
		return contracts.NoteOnFrame{Channel: channel, Key: key, Velocity: velocity}
	case msg.GetNoteEnd(&channel, &key):
		return contracts.NoteOffFrame{Channel: channel, Key: key}
	case msg.GetControlChange(&channel, &controller, &value):
		return contracts.ControlChangeFrame{Channel: channel, Controller: controller, Value: value}
	case msg.GetProgramChange(&channel, &program):
		return contracts.ProgramChangeFrame{Channel: channel, Program: program}
	case msg.GetPitchBend(&channel, &relative, &absolute):
		return contracts.PitchBendFrame{Channel: channel, Relative: relative}
	default:
		return contracts.UnclassifiedFrame{Data: append([]byte(nil), data...)}
	}
}

// TranslateMIDI classifies a captured message and translates it.
func (t *Translator) TranslateMIDI(msg contracts.MIDI) (contracts.ControllerEvent, bool) {
	return t.Translate(msg.Timestamp, Classify(msg.Data))
}
