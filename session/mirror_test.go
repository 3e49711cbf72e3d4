package session

import (
	"io"
	"os"
	"strings"
	"testing"
)

func TestMirrorNormalExit(t *testing.T) {
	tests := []struct {
		code   int
		normal bool
	}{
		{0, true},
		{2, true},   // no device
		{130, true}, // operator interrupt
		{1, false},
		{5, false},
		{-1, false},
	}

	for _, tt := range tests {
		if got := mirrorNormalExit(tt.code); got != tt.normal {
			t.Errorf("mirrorNormalExit(%d) = %v, expected %v", tt.code, got, tt.normal)
		}
	}
}

// captureStderr runs fn with os.Stderr redirected to a pipe and returns
// whatever was written.
func captureStderr(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	old := os.Stderr
	os.Stderr = w
	defer func() { os.Stderr = old }()

	fn()
	w.Close()
	out, _ := io.ReadAll(r)
	return string(out)
}

func TestRunMirrorExitReporting(t *testing.T) {
	tests := []struct {
		name     string
		code     int
		abnormal bool
	}{
		{"interrupted session", 130, false},
		{"clean exit", 0, false},
		{"crash", 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := testConnector(&Device{IP: "192.168.1.42", Port: 5656, Rotation: RotationUnset}, nil)
			c.startMirror = func(target string) (int, error) {
				return tt.code, nil
			}

			var err error
			out := captureStderr(t, func() {
				err = c.RunMirror()
			})

			// an abnormal exit code is reported but never escalated
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := strings.Contains(out, "abnormally"); got != tt.abnormal {
				t.Errorf("abnormal report = %v, expected %v (output %q)", got, tt.abnormal, out)
			}
		})
	}
}

func TestRunMirrorOverridesSettingsFirst(t *testing.T) {
	c, fake := testConnector(&Device{IP: "192.168.1.42", Port: 5656, Rotation: RotationUnset}, nil)
	started := false
	c.startMirror = func(target string) (int, error) {
		if target != "192.168.1.42:5656" {
			t.Errorf("mirror target %q, expected 192.168.1.42:5656", target)
		}
		started = true
		return 0, nil
	}

	if err := c.RunMirror(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !started {
		t.Fatal("mirror was never started")
	}
	if fake.count("put global stay_awake 1") != 1 {
		t.Error("stay_awake override should happen before mirroring")
	}
}

func TestRunMirrorUSBTarget(t *testing.T) {
	dev := &Device{Serial: "R58M123ABC", Port: 5656, Rotation: RotationUnset, USBOnly: true}
	c, _ := testConnector(dev, nil)

	var target string
	c.startMirror = func(tgt string) (int, error) {
		target = tgt
		return 0, nil
	}
	if err := c.RunMirror(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if target != "R58M123ABC" {
		t.Errorf("USB-only session should target the serial, got %q", target)
	}
}
