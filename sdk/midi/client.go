package midi

import (
	"context"
	"errors"
	"fmt"

	"github.com/leandrodaf/easykey/sdk/contracts"
)

// ErrNegativeBuffer is returned by Capture for a negative channel size.
var ErrNegativeBuffer = errors.New("capture buffer size must not be negative")

// NewMIDIClient creates a new MIDI client with the specified options.
// It applies default options and initializes the client.
//
// opts ...contracts.Option: A variadic list of option functions to customize the client configuration.
//
// Returns:
//   - contracts.ClientMIDI: An instance of the MIDI client.
//   - error: An error, if any occurred during the creation of the client.
func NewMIDIClient(opts ...contracts.Option) (contracts.ClientMIDI, error) {
	options, err := applyDefaultOptions(opts...)
	if err != nil {
		return nil, err
	}

	client, err := NewClient(&options)
	if err != nil {
		return nil, err
	}

	return client, nil
}

// Capture selects deviceID on client, starts capturing into a channel with room for
// buffer messages and runs session over it until ctx is done. The client is stopped
// before Capture returns. A buffer of 0 hands messages over unbuffered, so the
// client drops any that arrive while the session is busy.
func Capture(ctx context.Context, client contracts.ClientMIDI, deviceID, buffer int, session *Session, out chan<- contracts.ControllerEvent) error {
	if buffer < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeBuffer, buffer)
	}
	if err := client.SelectDevice(deviceID); err != nil {
		return fmt.Errorf("select device %d: %w", deviceID, err)
	}
	defer func() {
		if err := client.Stop(); err != nil {
			session.logger.Error("Failed to stop MIDI client", session.logger.Field().Error("error", err))
		}
	}()

	frames := make(chan contracts.MIDI, buffer)
	client.StartCapture(frames)
	return session.Run(ctx, frames, out)
}
