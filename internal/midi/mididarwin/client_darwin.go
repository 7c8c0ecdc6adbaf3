//go:build darwin
// +build darwin

package mididarwin

import (
	"errors"
	"fmt"
	"sync"

	"github.com/leandrodaf/easykey/internal/midi/relay"
	"github.com/leandrodaf/easykey/sdk/contracts"
	"github.com/youpy/go-coremidi"
)

var (
	ErrNoMIDIDevices     = errors.New("no MIDI sources")
	ErrInvalidMIDIDevice = errors.New("MIDI source index out of range")
	ErrConnectSource     = errors.New("cannot connect to MIDI source")
	ErrCreateInputPort   = errors.New("cannot create CoreMIDI input port")
)

type disconnecter interface {
	Disconnect()
}

// ClientMid reads one CoreMIDI source. CoreMIDI calls back on its own thread, so
// packets go through a relay and in-flight callbacks are tracked by wg.
type ClientMid struct {
	logger  contracts.Logger
	client  coremidi.Client
	port    coremidi.InputPort
	conn    disconnecter
	relay   *relay.Relay
	mu      sync.Mutex
	wg      sync.WaitGroup
	stopped sync.Once
}

func NewMIDIClient(options *contracts.ClientOptions) (contracts.ClientMIDI, error) {
	client, err := coremidi.NewClient(options.CoreMIDIConfig.ClientName)
	if err != nil {
		return nil, fmt.Errorf("coremidi client %q: %w", options.CoreMIDIConfig.ClientName, err)
	}
	options.Logger.Debug("CoreMIDI client ready", options.Logger.Field().String("name", options.CoreMIDIConfig.ClientName))

	return &ClientMid{
		logger: options.Logger,
		client: client,
		relay:  relay.New(options.Logger, options.MIDIEventFilter),
	}, nil
}

func (m *ClientMid) ListDevices() ([]contracts.DeviceInfo, error) {
	sources, err := coremidi.AllSources()
	if err != nil {
		return nil, fmt.Errorf("list CoreMIDI sources: %w", err)
	}
	if len(sources) == 0 {
		return nil, ErrNoMIDIDevices
	}

	devices := make([]contracts.DeviceInfo, 0, len(sources))
	for _, src := range sources {
		entity := src.Entity()
		devices = append(devices, contracts.DeviceInfo{
			Name:         src.Name(),
			EntityName:   entity.Name(),
			Manufacturer: entity.Manufacturer(),
		})
	}
	return devices, nil
}

// SelectDevice connects source deviceID, dropping any earlier connection.
func (m *ClientMid) SelectDevice(deviceID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sources, err := coremidi.AllSources()
	if err != nil {
		return fmt.Errorf("list CoreMIDI sources: %w", err)
	}
	if deviceID < 0 || deviceID >= len(sources) {
		return fmt.Errorf("%w: %d of %d", ErrInvalidMIDIDevice, deviceID, len(sources))
	}
	m.disconnectLocked()

	src := sources[deviceID]
	port, err := coremidi.NewInputPort(m.client, "easykey in", m.onPacket)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCreateInputPort, err)
	}
	conn, err := port.Connect(src)
	if err != nil {
		return fmt.Errorf("%w %q: %v", ErrConnectSource, src.Name(), err)
	}
	m.port, m.conn = port, conn

	m.logger.Info("MIDI source connected",
		m.logger.Field().Int("deviceID", deviceID),
		m.logger.Field().String("deviceName", src.Name()))
	return nil
}

// onPacket runs on the CoreMIDI thread. One packet may carry several messages.
func (m *ClientMid) onPacket(_ coremidi.Source, packet coremidi.Packet) {
	m.wg.Add(1)
	defer m.wg.Done()
	m.relay.Packet(packet.Data)
}

// StartCapture points the callback at eventChannel. Calling it again redirects
// the running capture.
func (m *ClientMid) StartCapture(eventChannel chan contracts.MIDI) {
	if eventChannel == nil {
		m.logger.Error("StartCapture needs a channel")
		return
	}
	if m.relay.Attached() {
		m.logger.Warn("Capture redirected to a new channel")
	}
	m.relay.Attach(eventChannel)
}

// Stop disconnects the source and waits for callbacks still running. Later calls do nothing.
func (m *ClientMid) Stop() error {
	m.stopped.Do(func() {
		m.mu.Lock()
		defer m.mu.Unlock()

		m.relay.Detach()
		m.disconnectLocked()
		m.wg.Wait()
		m.logger.Info("MIDI capture stopped")
	})
	return nil
}

func (m *ClientMid) disconnectLocked() {
	if m.conn != nil {
		m.conn.Disconnect()
		m.conn = nil
	}
}
