// Completion: 100% - CLI interface complete, all flags working
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/xyproto/las/internal/engine"
)

// A tiny fixed-table x86_64 assembler that writes single-section PE32+ executables

const versionString = "las 0.1.0"

// VerboseMode enables progress messages on stderr
var VerboseMode bool

func main() {
	cfg := LoadConfig()

	// NOTE: Go's flag package stops parsing at the first non-flag argument
	// So global flags must come BEFORE the subcommand: las -v build prog.s
	var outputFilenameFlag = flag.String("o", "", "output executable filename")
	var outputFilenameLongFlag = flag.String("output", "", "output executable filename")
	var targetFlag = flag.String("target", cfg.Target, "target platform (only amd64-windows can be built)")
	var versionShort = flag.Bool("V", false, "print version information and exit")
	var version = flag.Bool("version", false, "print version information and exit")
	var verbose = flag.Bool("v", false, "verbose mode (show build messages)")
	var verboseLong = flag.Bool("verbose", false, "verbose mode (show build messages)")
	flag.Parse()

	if *version || *versionShort {
		fmt.Println(versionString)
		os.Exit(0)
	}

	VerboseMode = cfg.Verbose || *verbose || *verboseLong

	platform, err := engine.ParsePlatform(*targetFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Invalid --target '%s': %v\n", *targetFlag, err)
		os.Exit(1)
	}

	// Use whichever output flag was specified (prefer short form if both given)
	outputFilename := *outputFilenameLongFlag
	if *outputFilenameFlag != "" {
		outputFilename = *outputFilenameFlag
	}

	ctx := &CommandContext{
		Args:         flag.Args(),
		Platform:     platform,
		Verbose:      VerboseMode,
		OutputPath:   outputFilename,
		MaxImageSize: cfg.MaxImageSize,
		UseColor:     cfg.useColor(),
		Stdin:        os.Stdin,
		Stdout:       os.Stdout,
		Stderr:       os.Stderr,
	}

	if err := RunCLI(ctx); err != nil {
		var ce *CompilerError
		if errors.As(err, &ce) {
			fmt.Fprint(os.Stderr, ce.Format(ctx.UseColor))
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
