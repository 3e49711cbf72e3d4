package session

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/wlhe/adbcast/util"
)

var mirrorOpts = []string{"--turn-screen-off", "--stay-awake"}

// mirrorNormalExit reports whether a scrcpy exit code counts as a normal
// end of session: 0 clean exit, 2 device went away, 130 operator interrupt.
func mirrorNormalExit(code int) bool {
	switch code {
	case 0, 2, 130:
		return true
	}
	return false
}

func (c *Connector) execMirror(target string) (int, error) {
	args := append([]string{"-s", target}, mirrorOpts...)
	cmd := exec.Command(util.Config.GetString("scrcpy_path"), args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}

// RunMirror overrides the display settings, optionally pins the
// orientation, and runs scrcpy until the session ends. The caller is
// responsible for invoking Cleanup afterwards.
func (c *Connector) RunMirror() error {
	target := c.dev.Target()
	util.Logger.Debug().Msgf("mirroring target: %s", target)

	if err := c.br.Ping(target); err != nil {
		return fmt.Errorf("device is not connected or in a bad state: %w", err)
	}

	if err := c.SaveSettings(target); err != nil {
		return fmt.Errorf("override device settings: %w", err)
	}

	if c.dev.Rotation != RotationUnset && !c.ApplyRotation(target) {
		util.Fail("orientation setup failed, mirroring with the default orientation")
	}

	util.Step("Starting scrcpy...")
	code, err := c.startMirror(target)
	if err != nil {
		return fmt.Errorf("launch scrcpy: %w", err)
	}
	util.Step("Mirroring session ended")
	if !mirrorNormalExit(code) {
		util.Fail("scrcpy terminated abnormally (exit code %d)", code)
	}
	return nil
}
