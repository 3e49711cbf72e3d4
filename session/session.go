// Package session drives a wireless mirroring session: device discovery,
// transport mode switching, connection retries, and save/restore of the
// device display settings the session temporarily overrides.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/wlhe/adbcast/bridge"
	"github.com/wlhe/adbcast/util"
)

// RotationUnset means no fixed orientation was requested.
const RotationUnset = -1

// Device holds the per-session device state. The saved_* snapshots are nil
// until the corresponding setting has actually been read off the device;
// restore only touches settings with a non-nil snapshot.
type Device struct {
	Serial   string // USB transport id
	IP       string
	Port     int
	Rotation int
	USBOnly  bool

	saved_stay_awake *string
	saved_lockscreen *string
}

// Target returns the identifier scrcpy and shell commands should address:
// the USB serial in USB-only mode, ip:port otherwise.
func (d *Device) Target() string {
	if d.USBOnly {
		return d.Serial
	}
	return d.Addr()
}

func (d *Device) Addr() string {
	return fmt.Sprintf("%s:%d", d.IP, d.Port)
}

type Connector struct {
	br  *bridge.Client
	dev *Device

	maxRetries   int
	retryDelay   time.Duration
	tcpipSettle  time.Duration
	serverSettle time.Duration

	sleep       func(time.Duration)
	startMirror func(target string) (int, error)

	cleanupOnce sync.Once
}

func NewConnector(br *bridge.Client, dev *Device) *Connector {
	c := &Connector{
		br:           br,
		dev:          dev,
		maxRetries:   util.Config.GetInt("max_retries"),
		retryDelay:   util.Config.GetDuration("retry_delay"),
		tcpipSettle:  util.Config.GetDuration("tcpip_settle"),
		serverSettle: util.Config.GetDuration("server_settle"),
		sleep:        time.Sleep,
	}
	c.startMirror = c.execMirror
	return c
}
