package main

import (
	"context"
	"fmt"
	"os"

	"github.com/leandrodaf/easykey/internal/logger"
	"github.com/leandrodaf/easykey/sdk/contracts"
	"github.com/leandrodaf/easykey/sdk/midi"
)

func main() {
	log := logger.NewStandardLogger()

	client, err := midi.NewMIDIClient(
		contracts.WithLogger(log),
		contracts.WithLogLevel(contracts.InfoLevel),
		contracts.WithMIDIEventFilter(contracts.ControllerCommands()),
	)
	if err != nil {
		log.Error("Failed to initialize MIDI client", log.Field().Error("error", err))
		return
	}

	devices, err := client.ListDevices()
	if err != nil || len(devices) == 0 {
		log.Error("No MIDI devices found or error listing devices", log.Field().Error("error", err))
		return
	}
	for i, d := range devices {
		fmt.Printf("%d: %s\n", i, d)
	}

	events := make(chan contracts.ControllerEvent, 100)
	go func() {
		for event := range events {
			log.Info("Controller event",
				log.Field().String("event", event.String()),
				log.Field().Uint8("wire", event.Encode()),
			)
		}
	}()

	fmt.Println("Capturing MIDI events... Press Ctrl+C to exit.")
	session := midi.NewSession(log)
	if err := midi.Capture(context.Background(), client, 0, 100, session, events); err != nil {
		log.Error("Capture stopped", log.Field().Error("error", err))
		os.Exit(1)
	}
}
