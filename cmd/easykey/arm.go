package main

import "github.com/leandrodaf/easykey/sdk/contracts"

// armGate holds back events until the user releases the MOD button once, so that
// whatever was touched while the device was being plugged in is not forwarded.
// The arming release itself is swallowed.
type armGate struct {
	armed  bool
	logger contracts.Logger
}

func newArmGate(required bool, l contracts.Logger) *armGate {
	return &armGate{armed: !required, logger: l}
}

// Allow reports whether ev should be forwarded.
func (g *armGate) Allow(ev contracts.ControllerEvent) bool {
	if g.armed {
		return true
	}
	if ev == contracts.ButtonRelease(contracts.ButtonMod) {
		g.armed = true
		g.logger.Info("Controller activated!")
	}
	return false
}
