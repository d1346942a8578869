package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"famicore/ines"
)

func main() {
	cli := parseArgs(os.Args[1:])

	code := 0
	switch cli.cmd {
	case cmdRomInfos:
		rom, err := ines.Open(cli.RomInfos.RomPath)
		checkf(err, "failed to open rom")
		rom.PrintInfos(os.Stdout)
	case cmdVersion:
		printVersion()
	case cmdRun:
		code = runMain(cli.Run)
	}

	if cli.LogOut != nil {
		cli.LogOut.Close()
	}
	os.Exit(code)
}

func printVersion() {
	version := "(devel)"
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" {
		version = bi.Main.Version
	}
	fmt.Println("famicore", version)
}
