// Package textsend injects literal text into the connected device through
// the ADBKeyboard broadcast intent, so no input method switching is needed
// and non-ASCII text survives.
package textsend

import (
	"fmt"

	"github.com/wlhe/adbcast/bridge"
	"github.com/wlhe/adbcast/util"
)

// Send validates that exactly one device is attached and dispatches the
// text as an ADB_INPUT_TEXT broadcast. No retry: a failure surfaces as-is.
func Send(br *bridge.Client, text string) error {
	entries, err := br.Devices()
	if err != nil {
		return err
	}
	switch {
	case len(entries) == 0:
		return fmt.Errorf("no device connected")
	case len(entries) > 1:
		return fmt.Errorf("multiple devices connected, attach exactly one")
	}

	util.Step("Sending text: %s...", text)
	out, err := br.Shell(entries[0].Serial, "am", "broadcast", "-a", "ADB_INPUT_TEXT", "--es", "msg", text)
	if err != nil {
		return fmt.Errorf("broadcast failed: %w", err)
	}
	util.Logger.Debug().Msgf("broadcast result: %s", out)
	util.Success("text sent")
	return nil
}
