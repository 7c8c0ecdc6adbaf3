package translator_test

import (
	"testing"

	"github.com/leandrodaf/easykey/sdk/contracts"
	"github.com/leandrodaf/easykey/sdk/translator"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	type testCase struct {
		name     string
		input    []byte
		expected contracts.Frame
	}

	cases := []testCase{
		{name: "note on", input: []byte{0x90, 60, 100}, expected: contracts.NoteOnFrame{Key: 60, Velocity: 100}},
		{name: "note on other channel", input: []byte{0x93, 13, 1}, expected: contracts.NoteOnFrame{Channel: 3, Key: 13, Velocity: 1}},
		{name: "note off", input: []byte{0x80, 61, 64}, expected: contracts.NoteOffFrame{Key: 61}},
		{name: "note on zero velocity", input: []byte{0x90, 62, 0}, expected: contracts.NoteOffFrame{Key: 62}},
		{name: "control change", input: []byte{0xB0, 1, 127}, expected: contracts.ControlChangeFrame{Controller: 1, Value: 127}},
		{name: "program change", input: []byte{0xC0, 42}, expected: contracts.ProgramChangeFrame{Program: 42}},
		{name: "pitch bend center", input: []byte{0xE0, 0x00, 0x40}, expected: contracts.PitchBendFrame{Relative: 0}},
		{name: "clock", input: []byte{0xF8}, expected: contracts.UnclassifiedFrame{Data: []byte{0xF8}}},
		{name: "aftertouch", input: []byte{0xD0, 10}, expected: contracts.UnclassifiedFrame{Data: []byte{0xD0, 10}}},
		{name: "truncated program change", input: []byte{0xC0}, expected: contracts.UnclassifiedFrame{Data: []byte{0xC0}}},
		{name: "truncated note", input: []byte{0x90, 60}, expected: contracts.UnclassifiedFrame{Data: []byte{0x90, 60}}},
		{name: "data byte without status", input: []byte{0x40}, expected: contracts.UnclassifiedFrame{Data: []byte{0x40}}},
		{name: "empty", input: []byte{}, expected: contracts.UnclassifiedFrame{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, translator.Classify(tc.input))
		})
	}
}

func TestClassifyCopiesUnclassifiedData(t *testing.T) {
	raw := []byte{0xF8}
	frame := translator.Classify(raw)
	raw[0] = 0x00
	assert.Equal(t, contracts.UnclassifiedFrame{Data: []byte{0xF8}}, frame)
}

func TestTranslateMIDI(t *testing.T) {
	tr := translator.New(nil)
	messages := []contracts.MIDI{
		{Timestamp: 1, Data: []byte{0xC0, 64}},
		{Timestamp: 2, Data: []byte{0xC0, 65}},
		{Timestamp: 3, Data: []byte{0x90, 25, 90}},
		{Timestamp: 4, Data: []byte{0xB0, 1, 0}},
	}

	var got []contracts.ControllerEvent
	for _, m := range messages {
		if ev, ok := tr.TranslateMIDI(m); ok {
			got = append(got, ev)
		}
	}

	assert.Equal(t, []contracts.ControllerEvent{
		contracts.DialTurn(contracts.DialRight),
		contracts.ButtonPress(contracts.ButtonCSharp),
		contracts.ButtonRelease(contracts.ButtonMod),
	}, got)
}
