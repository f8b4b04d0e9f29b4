package pe

import (
	"bytes"
	"encoding/binary"
	"errors"
	"path/filepath"
	"testing"
)

func TestParseBuiltImage(t *testing.T) {
	code := []byte{0x55, 0x48, 0x89, 0xD8, 0x5D, 0xC3}
	image, err := BuildImage(code, Options{})
	if err != nil {
		t.Fatalf("BuildImage failed: %v", err)
	}

	f, err := Parse(bytes.NewReader(image))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if err := f.Validate(); err != nil {
		t.Errorf("Validate rejected a built image: %v", err)
	}

	t.Logf("Machine type: 0x%04x", f.COFF.Machine)
	t.Logf("Image base: 0x%x", f.Optional.ImageBase)

	if f.DOS.PEOffset != 0x40 {
		t.Errorf("PEOffset = 0x%x, want 0x40", f.DOS.PEOffset)
	}
	if got := f.EntryPoint(); got != 0x140001000 {
		t.Errorf("EntryPoint = 0x%x, want 0x140001000", got)
	}
	got, err := f.Code()
	if err != nil {
		t.Fatalf("Code failed: %v", err)
	}
	if !bytes.Equal(got, code) {
		t.Errorf("Code: got %x, want %x", got, code)
	}
	if f.Section(".data") != nil {
		t.Error("unexpected .data section")
	}
}

func TestOpenBuiltFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "syscall.exe")
	code := []byte{0x48, 0x31, 0xC0, 0x0F, 0x05, 0xC3}
	if err := Build(out, code, Options{}); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	f, err := Open(out)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer f.Close()

	for i, section := range f.Sections {
		t.Logf("  [%d] %s: VirtualSize=0x%x, VirtualAddress=0x%x, SizeOfRawData=0x%x",
			i, section.GetName(), section.VirtualSize, section.VirtualAddress, section.SizeOfRawData)
	}
	if err := f.Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}
	got, err := f.Code()
	if err != nil {
		t.Fatalf("Code failed: %v", err)
	}
	if !bytes.Equal(got, code) {
		t.Errorf("Code: got %x, want %x", got, code)
	}
}

func TestOpenMissingFile(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "nope.exe")); err == nil {
		t.Error("Open of a missing file should fail")
	}
}

func TestParseRejectsCorruptHeaders(t *testing.T) {
	image, err := BuildImage([]byte{0xC3}, Options{})
	if err != nil {
		t.Fatalf("BuildImage failed: %v", err)
	}

	corrupt := func(off int, b ...byte) []byte {
		c := append([]byte(nil), image...)
		copy(c[off:], b)
		return c
	}

	tests := []struct {
		name  string
		image []byte
	}{
		{"dos magic", corrupt(0x00, 'Z', 'M')},
		{"pe signature", corrupt(0x40, 'P', 'X')},
		{"pe32 magic", corrupt(0x58, 0x0B, 0x01)},
		{"unknown magic", corrupt(0x58, 0x34, 0x12)},
		{"short optional header", corrupt(0x54, 0x10, 0x00)},
		{"too many sections", corrupt(0x46, 0xFF, 0xFF)},
	}
	for _, tt := range tests {
		if _, err := Parse(bytes.NewReader(tt.image)); !errors.Is(err, ErrInvalidImage) {
			t.Errorf("%s: expected ErrInvalidImage, got %v", tt.name, err)
		}
	}

	if _, err := Parse(bytes.NewReader(image[:0x50])); err == nil {
		t.Error("truncated image should fail to parse")
	}
}

func TestValidateRejectsBrokenLayout(t *testing.T) {
	image, err := BuildImage([]byte{0xC3}, Options{})
	if err != nil {
		t.Fatalf("BuildImage failed: %v", err)
	}

	tests := []struct {
		name  string
		patch func(img []byte)
	}{
		{"machine", func(img []byte) { binary.LittleEndian.PutUint16(img[0x44:], 0x014C) }},
		{"entry point", func(img []byte) { binary.LittleEndian.PutUint32(img[0x68:], 0x2000) }},
		{"raw pointer", func(img []byte) { binary.LittleEndian.PutUint32(img[0x15C:], 0x400) }},
		{"section name", func(img []byte) { copy(img[0x148:], ".data") }},
		{"characteristics", func(img []byte) { binary.LittleEndian.PutUint32(img[0x16C:], 0xC0000040) }},
		{"size of image", func(img []byte) { binary.LittleEndian.PutUint32(img[0x90:], 0x1800) }},
		{"virtual size", func(img []byte) { binary.LittleEndian.PutUint32(img[0x150:], 0x300) }},
	}
	for _, tt := range tests {
		img := append([]byte(nil), image...)
		tt.patch(img)
		f, err := Parse(bytes.NewReader(img))
		if err != nil {
			t.Errorf("%s: Parse failed: %v", tt.name, err)
			continue
		}
		if err := f.Validate(); !errors.Is(err, ErrInvalidImage) {
			t.Errorf("%s: expected ErrInvalidImage, got %v", tt.name, err)
		}
	}
}

func TestSectionHeaderGetName(t *testing.T) {
	tests := map[string]string{
		".text":     ".text",
		"":          "",
		".longname": ".longnam",
	}
	for in, want := range tests {
		s := SectionHeader{Name: sectionName(in)}
		if got := s.GetName(); got != want {
			t.Errorf("GetName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCodeRejectsOversizedSection(t *testing.T) {
	image, err := BuildImage([]byte{0xC3}, Options{})
	if err != nil {
		t.Fatalf("BuildImage failed: %v", err)
	}
	binary.LittleEndian.PutUint32(image[0x150:], 0xFFFFFFFF) // VirtualSize
	binary.LittleEndian.PutUint32(image[0x158:], 0xFFFFFFFF) // SizeOfRawData

	f, err := Parse(bytes.NewReader(image))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	code, err := f.Code()
	if !errors.Is(err, ErrInvalidImage) {
		t.Errorf("expected ErrInvalidImage, got %v", err)
	}
	if code != nil {
		t.Errorf("got %d bytes, want none", len(code))
	}
}
