// Package bridge wraps the adb command line tool. Nothing in here speaks the
// adb protocol itself; every operation is a child process invocation whose
// text output gets parsed.
package bridge

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/wlhe/adbcast/util"
)

// Runner executes the bridge binary with the given arguments and returns its
// combined output. Tests substitute a scripted fake.
type Runner interface {
	Run(args ...string) (string, error)
}

type execRunner struct {
	path string
}

func (r execRunner) Run(args ...string) (string, error) {
	out, err := exec.Command(r.path, args...).CombinedOutput()
	return string(out), err
}

type Client struct {
	runner Runner
}

func New(path string) *Client {
	return &Client{runner: execRunner{path: path}}
}

// NewWithRunner exists for tests.
func NewWithRunner(r Runner) *Client {
	return &Client{runner: r}
}

func (c *Client) run(args ...string) (string, error) {
	util.Logger.Debug().Msgf("adb %s", strings.Join(args, " "))
	out, err := c.runner.Run(args...)
	if err != nil {
		return out, fmt.Errorf("adb %s: %w", args[0], err)
	}
	return out, nil
}

// Shell runs a shell command on the device identified by serial.
func (c *Client) Shell(serial string, cmd ...string) (string, error) {
	args := append([]string{"-s", serial, "shell"}, cmd...)
	return c.run(args...)
}

// Ping verifies the device answers a trivial shell round trip.
func (c *Client) Ping(serial string) error {
	_, err := c.Shell(serial, "echo", "ok")
	return err
}

func (c *Client) Connect(addr string) (string, error) {
	return c.run("connect", addr)
}

func (c *Client) TCPIP(serial string, port int) (string, error) {
	return c.run("-s", serial, "tcpip", strconv.Itoa(port))
}

func (c *Client) KillServer() {
	// best effort, the server may not be running
	c.runner.Run("kill-server")
}

func (c *Client) StartServer() {
	c.runner.Run("start-server")
}

// DeviceEntry is one row of `adb devices` output.
type DeviceEntry struct {
	Serial string
	State  string
}

// Network reports whether the entry is addressed over the network rather
// than USB. Network serials carry an ip:port form.
func (e DeviceEntry) Network() bool {
	return strings.Contains(e.Serial, ":")
}

func (e DeviceEntry) Ready() bool {
	return e.State == "device"
}

// Devices lists attached devices. The first output line is the
// "List of devices attached" header and is skipped.
func (c *Client) Devices() ([]DeviceEntry, error) {
	out, err := c.run("devices")
	if err != nil {
		return nil, err
	}
	return parseDevices(out), nil
}

func parseDevices(out string) []DeviceEntry {
	var entries []DeviceEntry
	lines := strings.Split(out, "\n")
	for i, line := range lines {
		if i == 0 {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		entries = append(entries, DeviceEntry{Serial: fields[0], State: fields[1]})
	}
	return entries
}
