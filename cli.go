package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"famicore/emu/log"
)

// command is the sub-command selected on the command line.
type command int

const (
	cmdRun command = iota
	cmdRomInfos
	cmdVersion
)

type (
	CLI struct {
		Run      RunArgs      `cmd:"" help:"Run ROM in emulator." default:"withargs"`
		RomInfos RomInfosArgs `cmd:"" help:"Show ROM infos." name:"rom-infos"`
		Version  struct{}     `cmd:"" help:"Show famicore version."`

		Log    logFlag    `help:"${log_help}" placeholder:"mod0,mod1,..."`
		LogOut *logOutput `name:"log-out" help:"Write logs to file." placeholder:"FILE|stdout|stderr"`

		cmd command
	}

	RunArgs struct {
		RomPath string `arg:"" name:"/path/to/rom" help:"${rompath_help}" required:"true" type:"existingfile"`

		Frames     int    `name:"frames" help:"${frames_help}" default:"0"`
		Headless   bool   `name:"headless" help:"Run without window nor audio output, requires --frames."`
		Screenshot string `name:"screenshot" help:"Save the last frame as PNG at exit." type:"path" placeholder:"FILE.png"`
		WAV        string `name:"wav" help:"Record audio to a WAV file." type:"path" placeholder:"FILE.wav"`
		Scale      int    `name:"scale" help:"Window and screenshot scale factor, overrides the config file." default:"0"`
		NoAudio    bool   `name:"no-audio" help:"Disable audio output."`
		CPUProfile string `name:"cpuprofile" help:"${cpuprofile_help}" type:"path"`
	}

	RomInfosArgs struct {
		RomPath string `arg:"" name:"/path/to/rom" type:"existingfile"`
	}
)

var vars = kong.Vars{
	"rompath_help":    "Path to the iNES ROM to run.",
	"frames_help":     "Stop after the given number of frames (0 runs until the window is closed).",
	"cpuprofile_help": "Write CPU profile to file.",
	"log_help":        "Enable logging for specified modules.",
}

func parseArgs(args []string) CLI {
	var cfg CLI
	parser, err := kong.New(&cfg,
		kong.Name("famicore"),
		kong.Description("Cycle-accurate NES emulator."),
		kong.UsageOnError(),
		kong.Help(printHelp),
		vars)
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(args)
	checkf(err, "failed to parse command line")
	checkf(ctx.Error, "failed to parse command line")

	switch ctx.Command() {
	case "rom-infos </path/to/rom>":
		cfg.cmd = cmdRomInfos
	case "version":
		cfg.cmd = cmdVersion
	default:
		cfg.cmd = cmdRun
	}

	cfg.Log.apply()
	if cfg.LogOut != nil {
		log.SetOutput(cfg.LogOut)
	}
	if cfg.cmd == cmdRun && cfg.Run.Headless && cfg.Run.Frames <= 0 {
		fatalf("--headless requires --frames")
	}
	return cfg
}

func printHelp(options kong.HelpOptions, ctx *kong.Context) error {
	if err := kong.DefaultHelpPrinter(options, ctx); err != nil {
		return err
	}
	if !strings.HasPrefix(ctx.Command(), "run") {
		return nil
	}

	var sb strings.Builder
	sb.WriteString("\nLog modules (--log accepts a comma-separated list):\n")
	for _, name := range log.ModuleNames() {
		fmt.Fprintf(&sb, "  %s\n", name)
	}
	sb.WriteString("  all    enable every module\n")
	sb.WriteString("  no     disable logging, warnings included\n")
	sb.WriteString("\nKeys:\n")
	sb.WriteString("  Escape quits, P pauses, F5 resets and F6 power cycles the console.\n")
	sb.WriteString("  Controller keys are read from the config file.\n")
	_, err := io.WriteString(ctx.Stdout, sb.String())
	return err
}

// logFlag holds the modules selected with --log.
type logFlag struct {
	mask log.ModuleMask
	off  bool
}

// Decode implements kong.MapperValue.
func (lf *logFlag) Decode(ctx *kong.DecodeContext) error {
	var list string
	if err := ctx.Scan.PopValueInto("modules", &list); err != nil {
		return err
	}
	mask, off, err := parseLogModules(list)
	if err != nil {
		return err
	}
	lf.mask, lf.off = mask, off
	return nil
}

func (lf *logFlag) apply() {
	switch {
	case lf.off:
		log.Disable()
	case lf.mask != 0:
		log.EnableDebugModules(lf.mask)
	}
}

// parseLogModules parses a comma-separated list of log modules. 'all'
// selects every module, 'no' disables logging and must be used alone.
func parseLogModules(list string) (mask log.ModuleMask, off bool, err error) {
	all := false
	for name := range strings.SplitSeq(list, ",") {
		switch name = strings.TrimSpace(name); name {
		case "all":
			all = true
		case "no":
			off = true
		default:
			mod, ok := log.ModuleByName(name)
			if !ok {
				return 0, false, fmt.Errorf("unknown log module %q", name)
			}
			mask |= mod.Mask()
		}
	}

	switch {
	case off && (all || mask != 0):
		return 0, false, fmt.Errorf("'no' can't be combined with other log modules")
	case all:
		mask = log.ModuleMaskAll
	}
	return mask, off, nil
}

// logOutput is the destination of --log-out: stdout, stderr or a file
// created for the occasion.
type logOutput struct {
	io.Writer
	name string
	fd   *os.File
}

// Decode implements kong.MapperValue.
func (o *logOutput) Decode(ctx *kong.DecodeContext) error {
	if err := ctx.Scan.PopValueInto("file", &o.name); err != nil {
		return err
	}

	switch o.name {
	case "stdout":
		o.Writer = os.Stdout
	case "stderr":
		o.Writer = os.Stderr
	default:
		fd, err := os.Create(o.name)
		if err != nil {
			return fmt.Errorf("log output: %w", err)
		}
		o.Writer, o.fd = fd, fd
	}
	return nil
}

func (o *logOutput) String() string { return o.name }

func (o *logOutput) Close() error {
	if o.fd == nil {
		return nil
	}
	return o.fd.Close()
}

func checkf(err error, format string, args ...any) {
	if err == nil {
		return
	}
	fatalf("%s: %v", fmt.Sprintf(format, args...), err)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "famicore: %s\n", fmt.Sprintf(format, args...))
	os.Exit(1)
}
