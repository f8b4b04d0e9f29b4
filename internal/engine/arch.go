// Completion: 100% - Target platform model complete
package engine

import (
	"fmt"
	"strings"
)

// arch.go - target platforms
//
// las only emits x86_64 PE32+ images, but -target and LAS_TARGET accept the
// usual GOARCH/GOOS spellings so that a wrong target is reported as
// "cannot build for ..." rather than as a parse error.

// Arch is a CPU architecture
type Arch int

const (
	ArchUnknown Arch = iota
	ArchX86_64
	ArchARM64
	ArchRiscv64
)

// OS is an operating system
type OS int

const (
	OSUnknown OS = iota
	OSLinux
	OSDarwin
	OSWindows
)

var archNames = map[Arch]string{
	ArchX86_64:  "x86_64",
	ArchARM64:   "aarch64",
	ArchRiscv64: "riscv64",
}

var archAliases = map[string]Arch{
	"x86_64":  ArchX86_64,
	"x86-64":  ArchX86_64,
	"amd64":   ArchX86_64,
	"x64":     ArchX86_64,
	"aarch64": ArchARM64,
	"arm64":   ArchARM64,
	"riscv64": ArchRiscv64,
	"rv64":    ArchRiscv64,
}

var osNames = map[OS]string{
	OSLinux:   "linux",
	OSDarwin:  "darwin",
	OSWindows: "windows",
}

var osAliases = map[string]OS{
	"linux":   OSLinux,
	"darwin":  OSDarwin,
	"macos":   OSDarwin,
	"windows": OSWindows,
	"win":     OSWindows,
	"win64":   OSWindows,
}

func (a Arch) String() string {
	if name, ok := archNames[a]; ok {
		return name
	}
	return "unknown"
}

func (o OS) String() string {
	if name, ok := osNames[o]; ok {
		return name
	}
	return "unknown"
}

// ParseArch accepts GOARCH names and their common aliases
func ParseArch(s string) (Arch, error) {
	if a, ok := archAliases[strings.ToLower(s)]; ok {
		return a, nil
	}
	return ArchUnknown, fmt.Errorf("unsupported architecture: %q (try amd64)", s)
}

// ParseOS accepts GOOS names and their common aliases
func ParseOS(s string) (OS, error) {
	if o, ok := osAliases[strings.ToLower(s)]; ok {
		return o, nil
	}
	return OSUnknown, fmt.Errorf("unsupported OS: %q (try windows)", s)
}

// Platform is an architecture and OS pair
type Platform struct {
	Arch Arch
	OS   OS
}

// DefaultPlatform is the only platform las can produce images for
var DefaultPlatform = Platform{Arch: ArchX86_64, OS: OSWindows}

// ParsePlatform parses a target string like "amd64-windows".
// A bare architecture ("amd64") implies windows.
func ParsePlatform(s string) (Platform, error) {
	archPart, osPart := s, ""
	if i := strings.LastIndex(s, "-"); i >= 0 {
		if _, err := ParseArch(s); err != nil {
			// "x86-64" alone is an arch; otherwise the last field is the OS
			archPart, osPart = s[:i], s[i+1:]
		}
	}

	arch, err := ParseArch(archPart)
	if err != nil {
		return Platform{}, err
	}
	p := Platform{Arch: arch, OS: OSWindows}
	if osPart != "" {
		if p.OS, err = ParseOS(osPart); err != nil {
			return Platform{}, err
		}
	}
	return p, nil
}

func (p Platform) String() string {
	return p.Arch.String() + "-" + p.OS.String()
}

// CanBuild reports whether a PE32+ image can be produced for this platform
func (p Platform) CanBuild() bool {
	return p == DefaultPlatform
}
