package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/pflag"
	"github.com/wlhe/adbcast/bridge"
	"github.com/wlhe/adbcast/textsend"
	. "github.com/wlhe/adbcast/util"
)

func main() {
	debug := pflag.BoolP("debug", "d", false, "debug logging")
	pflag.Parse()

	if pflag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: adbtext [-d] <text>")
		os.Exit(1)
	}

	level := "info"
	if *debug {
		level = "debug"
	}
	LogInit(level)
	SetupConfig()

	adbPath := Config.GetString("adb_path")
	if _, err := exec.LookPath(adbPath); err != nil {
		Fail("required tool not found: %s", adbPath)
		os.Exit(1)
	}

	if err := textsend.Send(bridge.New(adbPath), pflag.Arg(0)); err != nil {
		Fail("%v", err)
		os.Exit(1)
	}
}
