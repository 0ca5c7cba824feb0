// Command mucgly runs the hook-stream macro preprocessor against a single
// input file, writing the expanded result to stdout or a named file. The
// CLI surface is a thin convenience wrapper (the library itself has no CLI
// dependency); it is kept minimal on purpose.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mucgly/mucgly"
	"golang.org/x/term"
)

// ANSI color codes for severity words, used only when stderr is a terminal.
const (
	colorYellow = "\x1b[93m"
	colorRed    = "\x1b[91m"
	colorReset  = "\x1b[0m"
)

func main() {
	debugFlag := flag.Bool("debug", false, "Enable debug output")
	flushFlag := flag.Bool("flush", false, "Flush output after every byte")
	outFlag := flag.String("o", "", "Output file (default: stdout)")
	configFlag := flag.String("config", "", "Path to a TOML config file (default: ~/.mucgly.toml)")
	hookbegFlag := flag.String("hookbeg", "", "Override default hook-begin delimiter")
	hookendFlag := flag.String("hookend", "", "Override default hook-end delimiter")
	hookescFlag := flag.String("hookesc", "", "Override default hook-escape delimiter")
	flag.Parse()

	cfg := mucgly.DefaultConfig()
	cfg.Debug = *debugFlag
	cfg.FlushEachByte = *flushFlag

	configPath := *configFlag
	if configPath == "" {
		configPath = defaultConfigPath()
	}
	if configPath != "" {
		loaded, err := mucgly.LoadConfigFile(configPath, cfg)
		if err != nil {
			warnf("Can't load %q: %v", configPath, err)
		} else {
			cfg = loaded
		}
	}

	if *hookbegFlag != "" {
		cfg.DefaultHookBeg = *hookbegFlag
	}
	if *hookendFlag != "" {
		cfg.DefaultHookEnd = *hookendFlag
	}
	if *hookescFlag != "" {
		cfg.DefaultHookEsc = *hookescFlag
	}

	infile := ""
	if flag.NArg() > 0 {
		infile = flag.Arg(0)
	}

	m := mucgly.New(cfg, nil)

	if err := m.ProcessFile(infile, *outFlag); err != nil {
		errorf("%v", err)
		os.Exit(1)
	}
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".mucgly.toml")
}

func stderrSupportsColor() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

func warnf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if stderrSupportsColor() {
		fmt.Fprintf(os.Stderr, "%smucgly warning%s: %s\n", colorYellow, colorReset, msg)
	} else {
		fmt.Fprintf(os.Stderr, "mucgly warning: %s\n", msg)
	}
}

func errorf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if stderrSupportsColor() {
		fmt.Fprintf(os.Stderr, "%s%s%s\n", colorRed, msg, colorReset)
	} else {
		fmt.Fprintln(os.Stderr, msg)
	}
}
