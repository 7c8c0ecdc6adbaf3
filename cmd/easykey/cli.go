package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/leandrodaf/easykey/internal/logger"
	"github.com/leandrodaf/easykey/sdk/contracts"
	"github.com/leandrodaf/easykey/sdk/midi"
	"github.com/leandrodaf/easykey/sdk/wire"
)

// LogConfig controls where and how much the command logs.
type LogConfig struct {
	Level string `help:"Log level" enum:"debug,info,warn,error" default:"info" env:"EASYKEY_LOG_LEVEL"`
	File  string `help:"Write logs to this file instead of stderr" type:"path" env:"EASYKEY_LOG_FILE"`
}

// CLI is the command line and config file surface of easykey.
type CLI struct {
	Config kong.ConfigFlag `help:"Load configuration from a YAML file" type:"path"`

	Device int       `help:"Index of the MIDI input device to capture" default:"0" env:"EASYKEY_DEVICE"`
	List   bool      `help:"List MIDI input devices and exit"`
	Output string    `help:"File to append encoded events to, - for stdout" default:"-" env:"EASYKEY_OUTPUT"`
	Buffer int       `help:"Number of captured messages to queue before dropping" default:"100"`
	NoArm  bool      `help:"Forward events right away instead of waiting for a MOD button release" env:"EASYKEY_NO_ARM"`
	Log    LogConfig `embed:"" prefix:"log."`
}

// Validate is called by kong after parsing, before Run.
func (c *CLI) Validate() error {
	if c.Buffer < 0 {
		return fmt.Errorf("%w: --buffer %d", midi.ErrNegativeBuffer, c.Buffer)
	}
	return nil
}

// Run is called by kong once flags are parsed.
func (c *CLI) Run() error {
	if err := c.Validate(); err != nil {
		return err
	}
	level, err := contracts.ParseLogLevel(c.Log.Level)
	if err != nil {
		return err
	}
	log := logger.NewStandardLogger()

	opts := []contracts.Option{
		contracts.WithLogger(log),
		contracts.WithLogLevel(level),
		contracts.WithMIDIEventFilter(contracts.ControllerCommands()),
	}
	if c.Log.File != "" {
		opts = append(opts, contracts.WithLogFile(c.Log.File))
	}
	client, err := midi.NewMIDIClient(opts...)
	if err != nil {
		return fmt.Errorf("failed to initialize MIDI client: %w", err)
	}

	if c.List {
		return listDevices(client, os.Stdout)
	}

	out, closeOut, err := openOutput(c.Output)
	if err != nil {
		return err
	}
	defer closeOut()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	events := make(chan contracts.ControllerEvent, c.Buffer)
	session := midi.NewSession(log)
	captureErr := make(chan error, 1)
	go func() {
		captureErr <- midi.Capture(ctx, client, c.Device, c.Buffer, session, events)
		close(events)
	}()

	gate := newArmGate(!c.NoArm, log)
	if !c.NoArm {
		log.Info("Press the MOD button on the keyboard to activate the controller.")
	}
	log.Info("Press CTRL-C to end.")

	pumpErr := forward(events, gate, wire.NewEventWriter(out, log))
	if pumpErr != nil {
		stop()
	}
	err = <-captureErr
	if pumpErr != nil {
		return pumpErr
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// forward writes every event the gate lets through until events is closed or a
// write fails.
func forward(events <-chan contracts.ControllerEvent, gate *armGate, w *wire.EventWriter) error {
	for ev := range events {
		if !gate.Allow(ev) {
			continue
		}
		if err := w.WriteEvent(ev); err != nil {
			return err
		}
	}
	return nil
}

func listDevices(client contracts.ClientMIDI, w io.Writer) error {
	devices, err := client.ListDevices()
	if err != nil {
		return fmt.Errorf("failed to list MIDI devices: %w", err)
	}
	for i, d := range devices {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", i, d.Name, d.EntityName, d.Manufacturer)
	}
	return nil
}

func openOutput(path string) (io.Writer, func(), error) {
	if path == "" || path == "-" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open output: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}
