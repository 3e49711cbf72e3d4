package session

import (
	"strconv"
	"strings"

	"github.com/wlhe/adbcast/util"
)

// SaveSettings snapshots the stay_awake and lockscreen.disabled settings and
// then overrides both for the duration of the session. A failed read is
// snapshotted as "0" so restore still has something sane to write back.
func (c *Connector) SaveSettings(target string) error {
	util.Step("Saving device settings...")

	stay := "0"
	if out, err := c.br.Shell(target, "settings", "get", "global", "stay_awake"); err == nil {
		stay = strings.TrimSpace(out)
	}
	c.dev.saved_stay_awake = &stay

	lock := "0"
	if out, err := c.br.Shell(target, "settings", "get", "secure", "lockscreen.disabled"); err == nil {
		lock = strings.TrimSpace(out)
	}
	c.dev.saved_lockscreen = &lock

	if _, err := c.br.Shell(target, "settings", "put", "secure", "lockscreen.disabled", "1"); err != nil {
		return err
	}
	if _, err := c.br.Shell(target, "settings", "put", "global", "stay_awake", "1"); err != nil {
		return err
	}
	return nil
}

// RestoreSettings writes back the snapshotted settings and forces the screen
// to sleep. Everything here is best effort: the session is already over and
// failures only get logged.
func (c *Connector) RestoreSettings(target string) {
	util.Step("Restoring device settings...")

	if _, err := c.br.Shell(target, "exit"); err != nil {
		util.Fail("device is gone, settings cannot be restored")
		return
	}

	if c.dev.saved_stay_awake != nil {
		if _, err := c.br.Shell(target, "settings", "put", "global", "stay_awake", *c.dev.saved_stay_awake); err != nil {
			util.Fail("failed to restore stay_awake")
		}
	}

	// force the display off; not every device maps KEYCODE_SLEEP
	if _, err := c.br.Shell(target, "input", "keyevent", "KEYCODE_SLEEP"); err != nil {
		if _, err := c.br.Shell(target, "input", "keyevent", "KEYCODE_POWER"); err != nil {
			util.Fail("failed to turn the screen off")
		}
	}

	if c.dev.saved_lockscreen != nil {
		if _, err := c.br.Shell(target, "settings", "put", "secure", "lockscreen.disabled", *c.dev.saved_lockscreen); err != nil {
			util.Fail("failed to restore lockscreen setting")
		}
	}

	util.Success("device settings restored")
}

// Cleanup runs the restoration exactly once no matter how many exit paths
// race into it (normal completion, error path, termination signal).
func (c *Connector) Cleanup() {
	c.cleanupOnce.Do(func() {
		var target string
		if c.dev.USBOnly {
			target = c.dev.Serial
		} else if c.dev.IP != "" {
			target = c.dev.Addr()
		}
		if target == "" {
			return
		}
		c.RestoreSettings(target)
	})
}

// ApplyRotation disables auto-rotate and pins the requested orientation.
// Non-fatal: mirroring still works in the default orientation.
func (c *Connector) ApplyRotation(target string) bool {
	if c.dev.Rotation == RotationUnset {
		return true
	}

	util.Step("Setting screen orientation: %d", c.dev.Rotation)
	if _, err := c.br.Shell(target, "settings", "put", "system", "accelerometer_rotation", "0"); err != nil {
		return false
	}
	if _, err := c.br.Shell(target, "settings", "put", "system", "user_rotation", strconv.Itoa(c.dev.Rotation)); err != nil {
		return false
	}
	util.Success("orientation set")
	return true
}
