//go:build linux && rtmidi

package midilinux

import (
	"errors"
	"fmt"
	"sync"

	"github.com/leandrodaf/easykey/internal/midi/relay"
	"github.com/leandrodaf/easykey/sdk/contracts"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register rtmidi driver
)

// Error definitions for MIDI connection and handling issues.
var (
	ErrNoMIDIDevices     = errors.New("no MIDI devices found")
	ErrInvalidMIDIDevice = errors.New("invalid MIDI device")
	ErrNoDeviceSelected  = errors.New("no MIDI device selected")
)

// ClientMid captures MIDI input through ALSA, using gomidi's rtmidi driver.
type ClientMid struct {
	logger        contracts.Logger
	relay         *relay.Relay
	mu            sync.Mutex
	in            drivers.In
	stopListening func()
	stopOnce      sync.Once
}

// NewMIDIClient creates a MIDI client for Linux.
func NewMIDIClient(options *contracts.ClientOptions) (contracts.ClientMIDI, error) {
	options.Logger.Info("MIDI client created for Linux")
	return &ClientMid{
		logger: options.Logger,
		relay:  relay.New(options.Logger, options.MIDIEventFilter),
	}, nil
}

// ListDevices lists the available MIDI input ports.
func (m *ClientMid) ListDevices() ([]contracts.DeviceInfo, error) {
	ins := midi.GetInPorts()
	if len(ins) == 0 {
		m.logger.Warn(ErrNoMIDIDevices.Error())
		return nil, ErrNoMIDIDevices
	}

	devices := make([]contracts.DeviceInfo, len(ins))
	for i, in := range ins {
		devices[i] = contracts.DeviceInfo{
			Name:       in.String(),
			EntityName: in.String(),
		}
	}
	return devices, nil
}

// SelectDevice selects the input port with the given index.
func (m *ClientMid) SelectDevice(deviceID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ins := midi.GetInPorts()
	if deviceID < 0 || deviceID >= len(ins) {
		m.logger.Error(ErrInvalidMIDIDevice.Error(), m.logger.Field().Int("deviceID", deviceID))
		return ErrInvalidMIDIDevice
	}

	m.stopLocked()
	m.in = ins[deviceID]
	m.logger.Info("MIDI device selected",
		m.logger.Field().Int("deviceID", deviceID),
		m.logger.Field().String("deviceName", m.in.String()))
	return nil
}

// StartCapture starts listening on the selected port and forwards every message
// the filter allows to eventChannel. Full channels drop messages.
func (m *ClientMid) StartCapture(eventChannel chan contracts.MIDI) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if eventChannel == nil {
		m.logger.Error("StartCapture called with nil eventChannel")
		return
	}
	if m.in == nil {
		m.logger.Error(ErrNoDeviceSelected.Error())
		return
	}
	m.stopLocked()

	m.relay.Attach(eventChannel)
	stop, err := midi.ListenTo(m.in, func(msg midi.Message, _ int32) {
		m.relay.Message(msg)
	})
	if err != nil {
		m.relay.Detach()
		m.logger.Error("Failed to start MIDI capture", m.logger.Field().Error("error", fmt.Errorf("%s: %w", m.in.String(), err)))
		return
	}
	m.stopListening = stop
	m.logger.Info("MIDI capture started")
}

// Stop ends the capture and closes the driver. Only the first call has an effect.
func (m *ClientMid) Stop() error {
	m.stopOnce.Do(func() {
		m.mu.Lock()
		defer m.mu.Unlock()

		m.stopLocked()
		midi.CloseDriver()
		m.logger.Info("MIDI capture stopped")
	})
	return nil
}

func (m *ClientMid) stopLocked() {
	m.relay.Detach()
	if m.stopListening != nil {
		m.stopListening()
		m.stopListening = nil
	}
}
