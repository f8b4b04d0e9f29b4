// Completion: 100% - Command-line interface complete
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xyproto/las/internal/asm"
	"github.com/xyproto/las/internal/engine"
	"github.com/xyproto/las/internal/pe"
)

// cli.go - Go-like command-line interface for las
//
// Subcommands:
// - las build <file.s> [-o out.exe]  (assemble and write a PE32+ executable)
// - las encode [-l] [file.s|-]       (print the machine code as hex)
// - las table                        (list every supported instruction)
// - las dump <file.exe>              (show headers and disassemble the code)
// - las watch <file.s> [-o out.exe]  (rebuild whenever the source changes)
// - las <file.s>                     (shorthand for build)

// CommandContext holds the execution context for a CLI command
type CommandContext struct {
	Args         []string
	Platform     engine.Platform
	Verbose      bool
	OutputPath   string
	MaxImageSize int
	UseColor     bool

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// RunCLI determines which command to run based on ctx.Args
func RunCLI(ctx *CommandContext) error {
	args := ctx.Args

	if len(args) == 0 {
		return cmdHelp(ctx)
	}

	subcmd := args[0]

	switch subcmd {
	case "build":
		if len(args) < 2 {
			return fmt.Errorf("usage: las build <file.s> [-o output.exe]")
		}
		return cmdBuild(ctx, args[1:])

	case "encode":
		return cmdEncode(ctx, args[1:])

	case "table":
		return cmdTable(ctx)

	case "dump":
		if len(args) < 2 {
			return fmt.Errorf("usage: las dump <file.exe>")
		}
		return cmdDump(ctx, args[1])

	case "watch":
		if len(args) < 2 {
			return fmt.Errorf("usage: las watch <file.s> [-o output.exe]")
		}
		return cmdWatch(ctx, args[1:])

	case "help", "--help", "-h":
		return cmdHelp(ctx)

	case "version", "--version", "-V":
		fmt.Fprintln(ctx.Stdout, versionString)
		return nil

	default:
		// Check if it's a source file (shorthand for build)
		if strings.HasSuffix(subcmd, ".s") || strings.HasSuffix(subcmd, ".asm") {
			return cmdBuild(ctx, args)
		}
		return fmt.Errorf("unknown command: %s\n\nRun 'las help' for usage information", subcmd)
	}
}

// parseBuildArgs collects the input file and output path from build/watch arguments
func parseBuildArgs(ctx *CommandContext, args []string) (input, output string, err error) {
	output = ctx.OutputPath
	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "-o" && i+1 < len(args):
			output = args[i+1]
			i++ // Skip the output filename
		case strings.HasPrefix(args[i], "-"):
			return "", "", fmt.Errorf("unknown flag: %s", args[i])
		case input == "":
			input = args[i]
		default:
			return "", "", fmt.Errorf("only one input file can be assembled, got %s and %s", input, args[i])
		}
	}

	if input == "" {
		return "", "", fmt.Errorf("no input file specified")
	}

	// Default output: input filename with .exe
	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + ".exe"
	}
	return input, output, nil
}

// assembleFile encodes input and writes the image to output
func assembleFile(ctx *CommandContext, input, output string) error {
	if !ctx.Platform.CanBuild() {
		return fmt.Errorf("cannot build for %s: only x86_64-windows PE32+ images are supported", ctx.Platform)
	}

	source, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", input, err)
	}

	code, err := asm.Encode(string(source))
	if err != nil {
		return diagnose(err, input, string(source))
	}
	if len(code) == 0 {
		return diagnose(fmt.Errorf("%s contains no instructions: %w", input, pe.ErrInvalidArgument), input, string(source))
	}
	if ctx.Verbose {
		fmt.Fprintf(ctx.Stderr, "-> Encoded %s into %d bytes of machine code\n", input, len(code))
	}

	if err := pe.Build(output, code, pe.Options{MaxImageSize: ctx.MaxImageSize}); err != nil {
		return diagnose(err, input, string(source))
	}

	if ctx.Verbose {
		layout := pe.ComputeLayout(len(code))
		fmt.Fprintf(ctx.Stderr, "PE executable written to %s (%d bytes, entry point 0x%x)\n",
			output, layout.FileSize, uint64(pe.ImageBase+pe.CodeVirtualAddress))
	}
	return nil
}

// cmdBuild assembles a source file into an executable
func cmdBuild(ctx *CommandContext, args []string) error {
	input, output, err := parseBuildArgs(ctx, args)
	if err != nil {
		return err
	}
	return assembleFile(ctx, input, output)
}

// cmdEncode prints the machine code for a file or stdin
func cmdEncode(ctx *CommandContext, args []string) error {
	listing := false
	input := "-"
	for _, arg := range args {
		switch {
		case arg == "-l" || arg == "--listing":
			listing = true
		case arg != "-" && strings.HasPrefix(arg, "-"):
			return fmt.Errorf("unknown flag: %s", arg)
		default:
			input = arg
		}
	}

	var (
		source []byte
		err    error
	)
	if input == "-" {
		source, err = io.ReadAll(ctx.Stdin)
		input = "<stdin>"
	} else {
		source, err = os.ReadFile(input)
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", input, err)
	}

	stmts, err := asm.Listing(string(source))
	if err != nil {
		return diagnose(err, input, string(source))
	}

	if listing {
		for _, stmt := range stmts {
			fmt.Fprintf(ctx.Stdout, "%04x  %-10s %s\n", stmt.Offset, fmt.Sprintf("%x", stmt.Encoding), stmt.Text)
		}
		return nil
	}

	hexBytes := make([]string, 0, asm.MaxOutputSize(len(stmts)))
	for _, stmt := range stmts {
		for _, b := range stmt.Encoding {
			hexBytes = append(hexBytes, fmt.Sprintf("%02x", b))
		}
	}
	fmt.Fprintln(ctx.Stdout, strings.Join(hexBytes, " "))
	return nil
}

// cmdTable lists every supported instruction and its encoding
func cmdTable(ctx *CommandContext) error {
	for _, inst := range asm.Table() {
		fmt.Fprintf(ctx.Stdout, "%-14s % x\n", inst.Mnemonic, inst.Encoding)
	}
	return nil
}

// cmdDump shows the headers of an image and disassembles its code section
func cmdDump(ctx *CommandContext, path string) error {
	f, err := pe.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := ctx.Stdout
	fmt.Fprintf(w, "File:             %s\n", path)
	fmt.Fprintf(w, "Machine:          0x%04x\n", f.COFF.Machine)
	fmt.Fprintf(w, "Sections:         %d\n", f.COFF.NumberOfSections)
	fmt.Fprintf(w, "Characteristics:  0x%04x\n", f.COFF.Characteristics)
	fmt.Fprintf(w, "Image base:       0x%x\n", f.Optional.ImageBase)
	fmt.Fprintf(w, "Entry point:      0x%x\n", f.EntryPoint())
	fmt.Fprintf(w, "Size of image:    0x%x\n", f.Optional.SizeOfImage)
	fmt.Fprintf(w, "Size of headers:  0x%x\n", f.Optional.SizeOfHeaders)
	fmt.Fprintf(w, "Subsystem:        %d\n", f.Optional.Subsystem)
	for _, s := range f.Sections {
		fmt.Fprintf(w, "Section %-8s  VirtualSize=0x%x VirtualAddress=0x%x SizeOfRawData=0x%x PointerToRawData=0x%x\n",
			s.GetName(), s.VirtualSize, s.VirtualAddress, s.SizeOfRawData, s.PointerToRawData)
	}

	validateErr := f.Validate()
	if validateErr != nil {
		fmt.Fprintf(w, "Status:           %v\n", validateErr)
	} else {
		fmt.Fprintf(w, "Status:           valid\n")
	}

	code, err := f.Code()
	if err != nil {
		return err
	}
	text := f.Section(pe.TextSectionName)
	base := f.Optional.ImageBase + uint64(text.VirtualAddress)

	fmt.Fprintln(w, "Code:")
	decoded, err := asm.Disassemble(code)
	for _, d := range decoded {
		fmt.Fprintf(w, "  %x  %-10s %s\n", base+uint64(d.Offset), fmt.Sprintf("%x", d.Bytes), d.Text)
	}
	if err != nil {
		return err
	}
	return validateErr
}

// watchBuilder runs one build at a time for watch mode
type watchBuilder struct {
	mu     sync.Mutex
	ctx    *CommandContext
	input  string
	output string
}

// rebuild assembles input into output, waiting for any build already running
func (wb *watchBuilder) rebuild() {
	wb.mu.Lock()
	defer wb.mu.Unlock()

	if err := assembleFile(wb.ctx, wb.input, wb.output); err != nil {
		wb.ctx.report(err)
		return
	}
	fmt.Fprintf(wb.ctx.Stderr, "Built %s\n", wb.output)
}

// cmdWatch rebuilds the executable every time the source file changes
func cmdWatch(ctx *CommandContext, args []string) error {
	input, output, err := parseBuildArgs(ctx, args)
	if err != nil {
		return err
	}
	wb := &watchBuilder{ctx: ctx, input: input, output: output}

	fw, err := NewFileWatcher(func(string) { wb.rebuild() })
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := fw.AddFile(input); err != nil {
		return err
	}

	wb.rebuild()
	fmt.Fprintf(ctx.Stderr, "Watching %s for changes (Ctrl+C to stop)\n", input)
	fw.Watch()
	return nil
}

// report prints err to stderr the same way main does
func (ctx *CommandContext) report(err error) {
	var ce *CompilerError
	if errors.As(err, &ce) {
		fmt.Fprint(ctx.Stderr, ce.Format(ctx.UseColor))
		return
	}
	fmt.Fprintf(ctx.Stderr, "Error: %v\n", err)
}

func cmdHelp(ctx *CommandContext) error {
	fmt.Fprintf(ctx.Stdout, `%s - fixed-table x86_64 assembler and PE32+ image builder

Usage:
  las [flags] <command> [arguments]

Commands:
  build <file.s> [-o out.exe]   assemble and write a Windows console executable
  encode [-l] [file.s|-]        print machine code as hex (-l for a listing)
  table                         list the supported instructions
  dump <file.exe>               show headers and disassemble the code section
  watch <file.s> [-o out.exe]   rebuild whenever the source changes
  version                       print the version
  help                          show this help

Flags:
  -o, -output <file>            output executable filename
  -target <arch-os>             target platform (default amd64-windows)
  -v, -verbose                  show build messages
  -V, -version                  print the version

Environment:
  LAS_VERBOSE, LAS_MAX_IMAGE_SIZE (default %d), LAS_TARGET, NO_COLOR
`, versionString, pe.DefaultMaxImageSize)
	return nil
}
