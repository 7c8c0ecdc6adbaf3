package contracts

// Frame is one classified raw input message from the control surface. The set of
// implementations is closed: NoteOnFrame, NoteOffFrame, ControlChangeFrame,
// ProgramChangeFrame, PitchBendFrame and UnclassifiedFrame.
type Frame interface {
	frame()
}

// NoteOnFrame is a key being pressed.
type NoteOnFrame struct {
	Channel  uint8
	Key      uint8
	Velocity uint8
}

// NoteOffFrame is a key being released.
type NoteOffFrame struct {
	Channel uint8
	Key     uint8
}

// ControlChangeFrame carries a controller number and its new value.
type ControlChangeFrame struct {
	Channel    uint8
	Controller uint8
	Value      uint8
}

// ProgramChangeFrame carries the absolute position of the rotary dial (0-127).
type ProgramChangeFrame struct {
	Channel uint8
	Program uint8
}

// PitchBendFrame is the pitch wheel. It produces no events.
type PitchBendFrame struct {
	Channel  uint8
	Relative int16
}

// UnclassifiedFrame holds any message the classifier did not recognize.
type UnclassifiedFrame struct {
	Data []byte
}

func (NoteOnFrame) frame()        {}
func (NoteOffFrame) frame()       {}
func (ControlChangeFrame) frame() {}
func (ProgramChangeFrame) frame() {}
func (PitchBendFrame) frame()     {}
func (UnclassifiedFrame) frame()  {}
