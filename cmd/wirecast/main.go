package main

import (
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"github.com/wlhe/adbcast/bridge"
	"github.com/wlhe/adbcast/session"
	. "github.com/wlhe/adbcast/util"
)

func main() {
	ip := pflag.StringP("ip", "i", "", "device IP (default: auto-detect or reuse the current wireless connection)")
	pflag.IntP("port", "p", 5656, "adb TCP/IP port")
	rotation := pflag.IntP("rotation", "r", session.RotationUnset, "screen orientation (0=portrait, 1=landscape right, 3=landscape left)")
	usb := pflag.BoolP("usb", "u", false, "mirror over USB only, do not go wireless")
	debug := pflag.BoolP("debug", "d", false, "debug logging")
	pflag.Parse()

	level := "info"
	if *debug {
		level = "debug"
	}
	LogInit(level)
	SetupConfig()
	Config.BindPFlag("port", pflag.Lookup("port"))

	if *rotation != session.RotationUnset && *rotation != 0 && *rotation != 1 && *rotation != 3 {
		Fail("invalid rotation %d: must be 0, 1 or 3", *rotation)
		os.Exit(1)
	}

	adbPath := Config.GetString("adb_path")
	scrcpyPath := Config.GetString("scrcpy_path")
	for _, tool := range []string{adbPath, scrcpyPath} {
		if _, err := exec.LookPath(tool); err != nil {
			Fail("required tool not found: %s", tool)
			os.Exit(1)
		}
	}

	dev := &session.Device{
		IP:       *ip,
		Port:     Config.GetInt("port"),
		Rotation: *rotation,
		USBOnly:  *usb,
	}
	conn := session.NewConnector(bridge.New(adbPath), dev)

	// restore device settings on ctrl-c / kill as well as on normal exit
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		conn.Cleanup()
		os.Exit(0)
	}()

	Logger.Debug().Msgf("starting with ip=%q port=%d rotation=%d usb=%v",
		dev.IP, dev.Port, dev.Rotation, dev.USBOnly)

	if err := conn.Resolve(); err != nil {
		Fail("%v", err)
		conn.Cleanup()
		os.Exit(1)
	}
	if err := conn.RunMirror(); err != nil {
		Fail("%v", err)
		conn.Cleanup()
		os.Exit(1)
	}
	conn.Cleanup()
}
