package contracts_test

import (
	"testing"

	"github.com/leandrodaf/easykey/sdk/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allButtons() []contracts.Button {
	buttons := make([]contracts.Button, 0, 13)
	for b := contracts.ButtonC; b <= contracts.ButtonMod; b++ {
		buttons = append(buttons, b)
	}
	return buttons
}

func TestButtonFromCodeFoldsOctaves(t *testing.T) {
	for key := 0; key <= 255; key++ {
		got := contracts.ButtonFromCode(uint8(key))
		assert.Equal(t, contracts.ButtonFromCode(uint8(key%12)), got, "key %d", key)
		assert.NotEqual(t, contracts.ButtonMod, got, "key %d", key)
		assert.Less(t, got.Code(), uint8(12), "key %d", key)
	}
}

func TestButtonCodes(t *testing.T) {
	want := map[contracts.Button]uint8{
		contracts.ButtonC: 0, contracts.ButtonCSharp: 1, contracts.ButtonD: 2, contracts.ButtonDSharp: 3,
		contracts.ButtonE: 4, contracts.ButtonF: 5, contracts.ButtonFSharp: 6, contracts.ButtonG: 7,
		contracts.ButtonGSharp: 8, contracts.ButtonA: 9, contracts.ButtonASharp: 10, contracts.ButtonB: 11,
		contracts.ButtonMod: 12,
	}
	for b, code := range want {
		assert.Equal(t, code, b.Code(), b.String())
	}

	for _, b := range allButtons() {
		if b == contracts.ButtonMod {
			continue
		}
		assert.Equal(t, b, contracts.ButtonFromCode(b.Code()))
	}
}

func TestStrings(t *testing.T) {
	assert.Equal(t, "C#", contracts.ButtonCSharp.String())
	assert.Equal(t, "MOD", contracts.ButtonMod.String())
	assert.Equal(t, "Button(13)", contracts.Button(13).String())
	assert.Equal(t, "ButtonPress(A#)", contracts.ButtonPress(contracts.ButtonASharp).String())
	assert.Equal(t, "ButtonRelease(MOD)", contracts.ButtonRelease(contracts.ButtonMod).String())
	assert.Equal(t, "DialTurn(Left)", contracts.DialTurn(contracts.DialLeft).String())
}

func TestEncode(t *testing.T) {
	type testCase struct {
		name     string
		event    contracts.ControllerEvent
		expected byte
	}

	cases := []testCase{
		{name: "press C", event: contracts.ButtonPress(contracts.ButtonC), expected: 0b0100_0000},
		{name: "press B", event: contracts.ButtonPress(contracts.ButtonB), expected: 0b0100_1011},
		{name: "press MOD", event: contracts.ButtonPress(contracts.ButtonMod), expected: 0b0100_1100},
		{name: "release C#", event: contracts.ButtonRelease(contracts.ButtonCSharp), expected: 0b1100_0001},
		{name: "release MOD", event: contracts.ButtonRelease(contracts.ButtonMod), expected: 0b1100_1100},
		{name: "dial left", event: contracts.DialTurn(contracts.DialLeft), expected: 0b1000_0001},
		{name: "dial right", event: contracts.DialTurn(contracts.DialRight), expected: 0b1000_0000},
		{name: "press reserved code", event: contracts.ButtonPress(contracts.Button(13)), expected: 0},
		{name: "press code past payload", event: contracts.ButtonPress(contracts.Button(44)), expected: 0},
		{name: "release reserved code", event: contracts.ButtonRelease(contracts.Button(31)), expected: 0},
		{name: "zero value", event: contracts.ControllerEvent{}, expected: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.event.Encode())
		})
	}
}

func TestDecodeInvertsEncode(t *testing.T) {
	events := []contracts.ControllerEvent{
		contracts.DialTurn(contracts.DialLeft),
		contracts.DialTurn(contracts.DialRight),
	}
	for _, b := range allButtons() {
		events = append(events, contracts.ButtonPress(b), contracts.ButtonRelease(b))
	}

	seen := map[byte]bool{}
	for _, ev := range events {
		encoded := ev.Encode()
		assert.False(t, seen[encoded], "%s collides on 0x%02X", ev, encoded)
		seen[encoded] = true

		decoded, err := contracts.DecodeEvent(encoded)
		require.NoError(t, err, ev.String())
		assert.Equal(t, ev, decoded)
	}
	assert.Len(t, seen, 28)
}

func TestDecodeRejects(t *testing.T) {
	type testCase struct {
		name        string
		input       byte
		expectedErr error
	}

	cases := []testCase{
		{name: "tag 00", input: 0b0000_0001, expectedErr: contracts.ErrMalformedEvent},
		{name: "press code 13", input: 0b0100_1101, expectedErr: contracts.ErrReservedCode},
		{name: "release code 31", input: 0b1101_1111, expectedErr: contracts.ErrReservedCode},
		{name: "press bit 5 set", input: 0b0110_0000, expectedErr: contracts.ErrMalformedEvent},
		{name: "dial stray bits", input: 0b1000_0010, expectedErr: contracts.ErrMalformedEvent},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := contracts.DecodeEvent(tc.input)
			assert.ErrorIs(t, err, tc.expectedErr)
		})
	}

	// Every byte either decodes to something that re-encodes to itself or errors.
	for i := 0; i <= 255; i++ {
		ev, err := contracts.DecodeEvent(byte(i))
		if err == nil {
			assert.Equal(t, byte(i), ev.Encode())
		}
	}

	_, err := contracts.DecodeEvent(contracts.ButtonPress(contracts.Button(20)).Encode())
	assert.ErrorIs(t, err, contracts.ErrMalformedEvent)
}

func TestMIDIEventFilterIgnoresChannel(t *testing.T) {
	filter := contracts.ControllerCommands()
	assert.True(t, filter.Allows(0xC3))
	assert.True(t, filter.Allows(0x9F))
	assert.False(t, filter.Allows(0xA0))

	var none *contracts.MIDIEventFilter
	assert.True(t, none.Allows(0xF8))
}

func TestParseLogLevel(t *testing.T) {
	lvl, err := contracts.ParseLogLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, contracts.WarnLevel, lvl)

	_, err = contracts.ParseLogLevel("trace")
	assert.Error(t, err)
}

func TestDeviceInfoString(t *testing.T) {
	assert.Equal(t, "easy key", contracts.DeviceInfo{Name: "easy key"}.String())
	assert.Equal(t, "easy key (WORLDE)", contracts.DeviceInfo{Name: "easy key", Manufacturer: "WORLDE"}.String())
}

func TestMessageLength(t *testing.T) {
	cases := map[byte]int{
		0x40: 0, 0x80: 3, 0x9F: 3, 0xB0: 3, 0xC5: 2, 0xD0: 2, 0xE0: 3,
		0xF0: 1, 0xF1: 2, 0xF2: 3, 0xF3: 2, 0xF8: 1, 0xFF: 1,
	}
	for status, want := range cases {
		assert.Equal(t, want, contracts.MessageLength(status), "status 0x%02X", status)
	}
}

func TestMIDICommand(t *testing.T) {
	msg := contracts.MIDI{Data: []byte{0xC4, 12}}
	assert.Equal(t, byte(0xC4), msg.Status())
	assert.Equal(t, contracts.ProgramChange, msg.Command())
	assert.Equal(t, byte(0), contracts.MIDI{}.Status())
}

func TestSplitMessages(t *testing.T) {
	type testCase struct {
		name     string
		input    []byte
		expected [][]byte
	}

	cases := []testCase{
		{name: "single note", input: []byte{0x90, 60, 100}, expected: [][]byte{{0x90, 60, 100}}},
		{name: "press then release", input: []byte{0x90, 0x3C, 0x64, 0x80, 0x3D, 0x00}, expected: [][]byte{{0x90, 0x3C, 0x64}, {0x80, 0x3D, 0x00}}},
		{name: "two program changes", input: []byte{0xC0, 10, 0xC0, 11}, expected: [][]byte{{0xC0, 10}, {0xC0, 11}}},
		{name: "clock between messages", input: []byte{0xB0, 1, 127, 0xF8, 0xC0, 5}, expected: [][]byte{{0xB0, 1, 127}, {0xF8}, {0xC0, 5}}},
		{name: "truncated tail", input: []byte{0xC0, 10, 0x90, 60}, expected: [][]byte{{0xC0, 10}, {0x90, 60}}},
		{name: "stray data byte", input: []byte{0xC0, 10, 0x40, 0x41}, expected: [][]byte{{0xC0, 10}, {0x40, 0x41}}},
		{name: "sysex then note", input: []byte{0xF0, 0x7E, 0x01, 0xF7, 0x90, 60, 1}, expected: [][]byte{{0xF0, 0x7E, 0x01, 0xF7}, {0x90, 60, 1}}},
		{name: "unterminated sysex", input: []byte{0xF0, 0x7E, 0x01}, expected: [][]byte{{0xF0, 0x7E, 0x01}}},
		{name: "empty", input: nil, expected: nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, contracts.SplitMessages(tc.input))
		})
	}
}

func TestComplete(t *testing.T) {
	assert.True(t, contracts.Complete([]byte{0xC0, 1}))
	assert.True(t, contracts.Complete([]byte{0xF8}))
	assert.False(t, contracts.Complete([]byte{0x90, 60}))
	assert.False(t, contracts.Complete([]byte{0x40}))
	assert.False(t, contracts.Complete(nil))
}
