package contracts

// MIDI is one raw message as captured from a device, before classification.
type MIDI struct {
	Timestamp uint64 // Timestamp indicates when the message arrived, in nanoseconds.
	Data      []byte // Data holds the status byte followed by its data bytes.
}

// Status returns the status byte of the message, or 0 if the message is empty.
func (m MIDI) Status() byte {
	if len(m.Data) == 0 {
		return 0
	}
	return m.Data[0]
}

// Command returns the status byte with the channel bits cleared.
func (m MIDI) Command() MIDICommand {
	return MIDICommand(m.Status() & 0xF0)
}

// ClientMIDI defines an interface for MIDI client operations.
type ClientMIDI interface {
	Stop() error                         // Stops the MIDI client and releases resources.
	ListDevices() ([]DeviceInfo, error)  // Lists all available MIDI devices.
	SelectDevice(deviceID int) error     // Selects a MIDI device by its ID for communication.
	StartCapture(eventChannel chan MIDI) // Starts capturing MIDI events and sends them to the specified channel.
}

// MessageLength returns the length, status byte included, of a message starting
// with status. It returns 0 for data bytes and 1 for system exclusive, whose
// length is not fixed.
func MessageLength(status byte) int {
	switch {
	case status < 0x80:
		return 0
	case status < 0xF0:
		// Program change and channel pressure carry a single data byte.
		if command := MIDICommand(status & 0xF0); command == ProgramChange || command == 0xD0 {
			return 2
		}
		return 3
	case status == 0xF1, status == 0xF3:
		return 2
	case status == 0xF2:
		return 3
	default:
		return 1
	}
}

// Complete reports whether data starts with a status byte and carries every data
// byte a message of that status needs.
func Complete(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	n := MessageLength(data[0])
	return n > 0 && len(data) >= n
}

// SplitMessages cuts a buffer of back-to-back messages, as CoreMIDI packets may
// hold, into single messages. System exclusive runs through its closing 0xF7 or
// the end of the buffer. Once the buffer stops at a data byte or ends inside a
// message, the rest is returned as one last piece. The pieces share data's
// backing array.
func SplitMessages(data []byte) [][]byte {
	var pieces [][]byte
	for len(data) > 0 {
		n := messageSpan(data)
		if n == 0 || n > len(data) {
			return append(pieces, data)
		}
		pieces = append(pieces, data[:n])
		data = data[n:]
	}
	return pieces
}

func messageSpan(data []byte) int {
	if data[0] != 0xF0 {
		return MessageLength(data[0])
	}
	for i := 1; i < len(data); i++ {
		if data[i] == 0xF7 {
			return i + 1
		}
	}
	return len(data)
}
