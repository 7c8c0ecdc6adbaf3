//go:build windows
// +build windows

package midiwindows

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"

	"github.com/leandrodaf/easykey/internal/midi/relay"
	"github.com/leandrodaf/easykey/sdk/contracts"
	"golang.org/x/sys/windows"
)

var (
	ErrNoMIDIDevices    = errors.New("no MIDI input devices")
	ErrNoDeviceSelected = errors.New("no MIDI input device open")
)

// winmm midiIn constants, see mmsystem.h.
const (
	callbackFunction = 0x00030000
	midiIOStatus     = 0x00000020

	mimOpen      = 0x3C1
	mimClose     = 0x3C2
	mimData      = 0x3C3
	mimError     = 0x3C5
	mimLongError = 0x3C6
	mimMoreData  = 0x3CC
)

// midiInCapsW mirrors MIDIINCAPSW.
type midiInCapsW struct {
	mid           uint16
	pid           uint16
	driverVersion uint32
	name          [32]uint16
	support       uint32
}

var (
	winmm             = windows.NewLazySystemDLL("winmm.dll")
	procInGetNumDevs  = winmm.NewProc("midiInGetNumDevs")
	procInGetDevCapsW = winmm.NewProc("midiInGetDevCapsW")
	procInOpen        = winmm.NewProc("midiInOpen")
	procInStart       = winmm.NewProc("midiInStart")
	procInStop        = winmm.NewProc("midiInStop")
	procInClose       = winmm.NewProc("midiInClose")
)

// ClientMid reads one winmm MIDI input. winmm packs each short message into the
// low three bytes of a DWORD and calls back on its own thread.
type ClientMid struct {
	logger   contracts.Logger
	relay    *relay.Relay
	mu       sync.Mutex
	handle   windows.Handle
	callback uintptr
}

func NewMIDIClient(options *contracts.ClientOptions) (contracts.ClientMIDI, error) {
	return &ClientMid{
		logger: options.Logger,
		relay:  relay.New(options.Logger, options.MIDIEventFilter),
	}, nil
}

func (m *ClientMid) ListDevices() ([]contracts.DeviceInfo, error) {
	r0, _, _ := procInGetNumDevs.Call()
	count := uint32(r0)
	if count == 0 {
		return nil, ErrNoMIDIDevices
	}

	devices := make([]contracts.DeviceInfo, count)
	for i := uint32(0); i < count; i++ {
		var caps midiInCapsW
		if r1, _, _ := procInGetDevCapsW.Call(uintptr(i), uintptr(unsafe.Pointer(&caps)), unsafe.Sizeof(caps)); r1 != 0 {
			m.logger.Warn("Cannot read MIDI input caps",
				m.logger.Field().Int("deviceID", int(i)),
				m.logger.Field().Int("mmresult", int(r1)))
			continue
		}
		name := windows.UTF16ToString(caps.name[:])
		devices[i] = contracts.DeviceInfo{
			Name:         name,
			EntityName:   name,
			Manufacturer: fmt.Sprintf("MID: %d PID: %d", caps.mid, caps.pid),
		}
	}
	return devices, nil
}

// SelectDevice opens input deviceID, closing any input opened before.
func (m *ClientMid) SelectDevice(deviceID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.closeLocked(); err != nil {
		return fmt.Errorf("close previous MIDI input: %w", err)
	}

	m.callback = windows.NewCallback(midiInProc)
	var handle windows.Handle
	r1, _, err := procInOpen.Call(
		uintptr(unsafe.Pointer(&handle)),
		uintptr(deviceID),
		m.callback,
		uintptr(unsafe.Pointer(m)),
		uintptr(callbackFunction|midiIOStatus),
	)
	if r1 != 0 {
		return fmt.Errorf("midiInOpen %d: mmresult %d: %v", deviceID, r1, err)
	}
	m.handle = handle

	m.logger.Info("MIDI input opened", m.logger.Field().Int("deviceID", deviceID))
	return nil
}

// StartCapture attaches eventChannel and starts the input. Calling it again only
// redirects the capture.
func (m *ClientMid) StartCapture(eventChannel chan contracts.MIDI) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if eventChannel == nil {
		m.logger.Error("StartCapture needs a channel")
		return
	}
	if m.handle == 0 {
		m.logger.Error(ErrNoDeviceSelected.Error())
		return
	}

	running := m.relay.Attached()
	m.relay.Attach(eventChannel)
	if running {
		m.logger.Warn("Capture redirected to a new channel")
		return
	}

	if r1, _, err := procInStart.Call(uintptr(m.handle)); r1 != 0 {
		m.relay.Detach()
		m.logger.Error("midiInStart failed", m.logger.Field().Error("error", fmt.Errorf("mmresult %d: %v", r1, err)))
	}
}

// midiInProc is the MidiInProc callback; dwInstance carries the client.
func midiInProc(_ uintptr, msg uint32, instance, param1, _ uintptr) uintptr {
	m := (*ClientMid)(unsafe.Pointer(instance))

	switch msg {
	case mimData:
		status := byte(param1)
		n := contracts.MessageLength(status)
		if n == 0 {
			m.logger.Warn("Short message without status byte", m.logger.Field().Uint8("status", status))
			return 0
		}
		packed := []byte{status, byte(param1 >> 8), byte(param1 >> 16)}
		m.relay.Message(packed[:n])
	case mimError, mimLongError:
		m.logger.Warn("Invalid MIDI input", m.logger.Field().Int("msg", int(msg)))
	case mimOpen, mimClose, mimMoreData:
	default:
		m.logger.Debug("Unhandled midiIn message", m.logger.Field().Int("msg", int(msg)))
	}
	return 0
}

func (m *ClientMid) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.closeLocked(); err != nil {
		return fmt.Errorf("close MIDI input: %w", err)
	}
	m.logger.Info("MIDI capture stopped")
	return nil
}

func (m *ClientMid) closeLocked() error {
	m.relay.Detach()
	if m.handle == 0 {
		return nil
	}

	if r1, _, err := procInStop.Call(uintptr(m.handle)); r1 != 0 {
		return fmt.Errorf("midiInStop: mmresult %d: %v", r1, err)
	}
	if r1, _, err := procInClose.Call(uintptr(m.handle)); r1 != 0 {
		return fmt.Errorf("midiInClose: mmresult %d: %v", r1, err)
	}
	m.handle = 0
	return nil
}
