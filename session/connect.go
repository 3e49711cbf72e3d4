package session

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/wlhe/adbcast/util"
)

var (
	inetPattern  = regexp.MustCompile(`inet (\d+\.\d+\.\d+\.\d+)`)
	tcpipPattern = regexp.MustCompile(`(?i)restarting in (tcpip|TCP) mode|already running as (tcpip|TCP)`)
)

// FindUSBDevice resets the adb server and returns the serial of the single
// attached USB device. Zero devices and multiple devices are both errors;
// picking one of several silently would mirror the wrong screen.
func (c *Connector) FindUSBDevice() (string, error) {
	c.br.KillServer()
	c.sleep(c.serverSettle)
	c.br.StartServer()
	c.sleep(c.serverSettle)

	util.Logger.Debug().Msg("scanning for USB devices")
	entries, err := c.br.Devices()
	if err != nil {
		return "", err
	}

	var usb []string
	for _, e := range entries {
		if !e.Network() && e.Ready() {
			usb = append(usb, e.Serial)
		}
	}

	switch len(usb) {
	case 0:
		return "", fmt.Errorf("no USB device detected\n" +
			"Hint: make sure that:\n" +
			" 1. the device is connected over USB\n" +
			" 2. USB debugging is enabled on the device\n" +
			" 3. the USB debugging authorization prompt was accepted")
	case 1:
	default:
		return "", fmt.Errorf("multiple USB devices attached (%s); connect exactly one", strings.Join(usb, ", "))
	}

	if err := c.br.Ping(usb[0]); err != nil {
		return "", fmt.Errorf("device is in a bad state, reconnect it: %w", err)
	}

	util.Logger.Debug().Msgf("USB device found: %s", usb[0])
	return usb[0], nil
}

// CheckWiFi fails unless the device radio is on and associated with a
// network. Two separate probes: the wifi_on setting and the dumpsys status.
func (c *Connector) CheckWiFi(serial string) error {
	out, err := c.br.Shell(serial, "settings", "get", "global", "wifi_on")
	if err != nil {
		return fmt.Errorf("unable to check WiFi state: %w", err)
	}
	if strings.TrimSpace(out) != "1" {
		return fmt.Errorf("WiFi is off, enable it on the device first")
	}

	out, err = c.br.Shell(serial, "dumpsys", "wifi")
	if err != nil {
		return fmt.Errorf("unable to check WiFi state: %w", err)
	}
	if !strings.Contains(out, "Wi-Fi is enabled") {
		return fmt.Errorf("WiFi is not connected to a network, connect it first")
	}
	return nil
}

// DeviceIP reads the wlan0 IPv4 address, trying two shell commands since
// not every Android build ships both.
func (c *Connector) DeviceIP(serial string) (string, bool) {
	for _, cmd := range [][]string{
		{"ip", "addr", "show", "wlan0"},
		{"ifconfig", "wlan0"},
	} {
		out, err := c.br.Shell(serial, cmd...)
		if err != nil {
			continue
		}
		if m := inetPattern.FindStringSubmatch(out); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// EnableTCPIP switches the device transport to TCP/IP mode on the session
// port. Success is judged by the tool's output, not its exit code: some adb
// builds exit non-zero while still restarting the daemon.
func (c *Connector) EnableTCPIP() error {
	util.Step("Enabling TCP/IP mode...")
	out, err := c.br.TCPIP(c.dev.Serial, c.dev.Port)
	if !tcpipPattern.MatchString(out) {
		if err != nil {
			return fmt.Errorf("adb tcpip failed: %w", err)
		}
		return fmt.Errorf("unable to enable TCP/IP mode")
	}

	util.Success("TCP/IP mode enabled")
	c.sleep(c.tcpipSettle) // adb daemon restarts on the device
	return nil
}

// ConnectWithRetry establishes the wireless connection, verifying each
// attempt with a trivial shell round trip. Fixed retry count, fixed delay.
func (c *Connector) ConnectWithRetry() error {
	addr := c.dev.Addr()
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		util.Step("Connecting to %s (attempt %d/%d)", addr, attempt, c.maxRetries)

		_, err := c.br.Connect(addr)
		if err == nil {
			if _, err = c.br.Shell(addr, "exit"); err == nil {
				util.Success("wireless connection established")
				return nil
			}
		}

		util.Logger.Debug().Msgf("attempt %d failed: %v", attempt, err)
		if entries, lerr := c.br.Devices(); lerr == nil {
			util.Logger.Debug().Msgf("current device list: %v", entries)
		}

		if attempt < c.maxRetries {
			c.sleep(c.retryDelay)
		}
	}

	return fmt.Errorf("unable to establish a wireless connection\n" +
		"Hint: the wireless link can break when:\n" +
		" 1. the device rebooted\n" +
		" 2. USB debugging was disabled\n" +
		" 3. the WiFi network changed\n" +
		" 4. developer options were reset\n" +
		"Reconnect the device over USB and run again.")
}

// DetectWireless looks for an already-connected network device and, if one
// is present, adopts its address. This is the shortcut path that skips the
// whole USB setup.
func (c *Connector) DetectWireless() bool {
	entries, err := c.br.Devices()
	if err != nil {
		return false
	}
	for _, e := range entries {
		if e.Network() && e.Ready() {
			c.dev.IP = strings.SplitN(e.Serial, ":", 2)[0]
			return true
		}
	}
	return false
}

// SetupUSB resolves the USB device and, unless the session is USB-only,
// walks it through the WiFi checks and the transport switch.
func (c *Connector) SetupUSB() error {
	serial, err := c.FindUSBDevice()
	if err != nil {
		return err
	}
	c.dev.Serial = serial

	if c.dev.USBOnly {
		return nil
	}

	if err := c.CheckWiFi(serial); err != nil {
		return err
	}

	ip, ok := c.DeviceIP(serial)
	if !ok {
		return fmt.Errorf("unable to determine the device IP address, check the WiFi connection")
	}
	c.dev.IP = ip
	util.Success("device IP: %s", ip)

	if err := c.EnableTCPIP(); err != nil {
		return err
	}
	return c.ConnectWithRetry()
}

// Resolve walks the connection state machine until a reachable target
// exists: wireless shortcut, explicit IP, or USB fallback.
func (c *Connector) Resolve() error {
	if c.dev.USBOnly {
		util.Step("USB-only mirroring")
		return c.SetupUSB()
	}

	if c.DetectWireless() {
		util.Step("Found connected wireless device: %s", c.dev.Addr())
		return nil
	}

	if c.dev.IP != "" {
		if err := c.ConnectWithRetry(); err == nil {
			return nil
		}
		// stale address, fall back to USB setup
	}

	return c.SetupUSB()
}
