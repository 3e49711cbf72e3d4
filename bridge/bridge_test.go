package bridge

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/wlhe/adbcast/util"
)

func TestMain(m *testing.M) {
	util.LogInit("warn")
	os.Exit(m.Run())
}

type fakeRunner struct {
	calls   [][]string
	respond func(args []string) (string, error)
}

func (f *fakeRunner) Run(args ...string) (string, error) {
	f.calls = append(f.calls, args)
	if f.respond != nil {
		return f.respond(args)
	}
	return "", nil
}

func TestParseDevices(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		entries int
	}{
		{"empty list", "List of devices attached\n", 0},
		{"single usb", "List of devices attached\nR58M123ABC\tdevice\n", 1},
		{"usb and wireless", "List of devices attached\nR58M123ABC\tdevice\n192.168.1.20:5656\tdevice\n", 2},
		{"unauthorized", "List of devices attached\nR58M123ABC\tunauthorized\n", 1},
		{"trailing blank lines", "List of devices attached\nR58M123ABC\tdevice\n\n\n", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := parseDevices(tt.output)
			if len(entries) != tt.entries {
				t.Errorf("parseDevices returned %d entries, expected %d", len(entries), tt.entries)
			}
		})
	}
}

func TestDeviceEntryClassification(t *testing.T) {
	usb := DeviceEntry{Serial: "R58M123ABC", State: "device"}
	if usb.Network() {
		t.Error("USB serial classified as network")
	}
	if !usb.Ready() {
		t.Error("device state should be ready")
	}

	wireless := DeviceEntry{Serial: "192.168.1.20:5656", State: "device"}
	if !wireless.Network() {
		t.Error("ip:port serial should be network")
	}

	offline := DeviceEntry{Serial: "R58M123ABC", State: "offline"}
	if offline.Ready() {
		t.Error("offline state should not be ready")
	}
}

func TestShellArgs(t *testing.T) {
	fake := &fakeRunner{}
	c := NewWithRunner(fake)

	if _, err := c.Shell("R58M123ABC", "settings", "get", "global", "stay_awake"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "-s R58M123ABC shell settings get global stay_awake"
	got := strings.Join(fake.calls[0], " ")
	if got != want {
		t.Errorf("shell invocation %q, expected %q", got, want)
	}
}

func TestDevicesSkipsHeader(t *testing.T) {
	fake := &fakeRunner{respond: func(args []string) (string, error) {
		return "List of devices attached\nemulator-5554\tdevice\n", nil
	}}
	c := NewWithRunner(fake)

	entries, err := c.Devices()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 || entries[0].Serial != "emulator-5554" {
		t.Errorf("unexpected entries: %v", entries)
	}
}

func TestRunWrapsError(t *testing.T) {
	fake := &fakeRunner{respond: func(args []string) (string, error) {
		return "", fmt.Errorf("exit status 1")
	}}
	c := NewWithRunner(fake)

	if _, err := c.Connect("192.168.1.20:5656"); err == nil {
		t.Error("expected error from failing runner")
	}
}
