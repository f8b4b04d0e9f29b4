// Completion: 100% - Reader complete
package pe

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// maxSections bounds the section table a reader will allocate for
const maxSections = 96

// File is a parsed PE32+ image
type File struct {
	DOS      DOSHeader
	COFF     COFFHeader
	Optional OptionalHeader64
	Sections []SectionHeader

	r      io.ReaderAt
	closer io.Closer
}

// Open opens a PE file for reading
func Open(path string) (*File, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PE file: %w", err)
	}
	f, err := Parse(file)
	if err != nil {
		file.Close()
		return nil, err
	}
	f.closer = file
	return f, nil
}

// Parse reads the headers and section table from r
func Parse(r io.ReaderAt) (*File, error) {
	f := &File{r: r}
	if err := f.readDOSHeader(); err != nil {
		return nil, err
	}
	if err := f.readPEHeaders(); err != nil {
		return nil, err
	}
	if err := f.readSections(); err != nil {
		return nil, err
	}
	return f, nil
}

// Close closes the underlying file, if Open created one
func (f *File) Close() error {
	if f.closer == nil {
		return nil
	}
	return f.closer.Close()
}

func (f *File) readAt(offset int64, data any) error {
	return binary.Read(io.NewSectionReader(f.r, offset, int64(binary.Size(data))), binary.LittleEndian, data)
}

// readDOSHeader reads the DOS header
func (f *File) readDOSHeader() error {
	if err := f.readAt(0, &f.DOS.Magic); err != nil {
		return fmt.Errorf("failed to read DOS magic: %w", err)
	}
	if f.DOS.Magic != dosMagic {
		return fmt.Errorf("%w: DOS magic 0x%04x (expected 0x%04x)", ErrInvalidImage, f.DOS.Magic, dosMagic)
	}
	if err := f.readAt(dosPEOffsetField, &f.DOS.PEOffset); err != nil {
		return fmt.Errorf("failed to read PE offset: %w", err)
	}
	return nil
}

// readPEHeaders reads the PE signature, COFF header, and optional header
func (f *File) readPEHeaders() error {
	offset := int64(f.DOS.PEOffset)

	var sig uint32
	if err := f.readAt(offset, &sig); err != nil {
		return fmt.Errorf("failed to read PE signature: %w", err)
	}
	if sig != peSignature {
		return fmt.Errorf("%w: PE signature 0x%08x", ErrInvalidImage, sig)
	}
	offset += peSignatureSize

	if err := f.readAt(offset, &f.COFF); err != nil {
		return fmt.Errorf("failed to read COFF header: %w", err)
	}
	offset += coffHeaderSize

	var magic uint16
	if err := f.readAt(offset, &magic); err != nil {
		return fmt.Errorf("failed to read optional header magic: %w", err)
	}
	switch magic {
	case optionalMagicPE32Plus:
	case 0x010B:
		return fmt.Errorf("%w: PE32 (32-bit) files not supported, only PE32+ (64-bit)", ErrInvalidImage)
	default:
		return fmt.Errorf("%w: unknown optional header magic 0x%04x", ErrInvalidImage, magic)
	}
	if f.COFF.SizeOfOptionalHeader < optionalHeaderSize {
		return fmt.Errorf("%w: optional header is %d bytes", ErrInvalidImage, f.COFF.SizeOfOptionalHeader)
	}
	if err := f.readAt(offset, &f.Optional); err != nil {
		return fmt.Errorf("failed to read optional header: %w", err)
	}
	return nil
}

// readSections reads the section headers
func (f *File) readSections() error {
	if f.COFF.NumberOfSections > maxSections {
		return fmt.Errorf("%w: %d sections", ErrInvalidImage, f.COFF.NumberOfSections)
	}
	// Section headers immediately follow the optional header
	offset := int64(f.DOS.PEOffset) + peSignatureSize + coffHeaderSize + int64(f.COFF.SizeOfOptionalHeader)

	f.Sections = make([]SectionHeader, f.COFF.NumberOfSections)
	for i := range f.Sections {
		if err := f.readAt(offset, &f.Sections[i]); err != nil {
			return fmt.Errorf("failed to read section %d: %w", i, err)
		}
		offset += peSectionHeaderSize
	}
	return nil
}

// Section returns the first section called name, or nil
func (f *File) Section(name string) *SectionHeader {
	for i := range f.Sections {
		if f.Sections[i].GetName() == name {
			return &f.Sections[i]
		}
	}
	return nil
}

// Code returns the meaningful bytes of the .text section, without padding
func (f *File) Code() ([]byte, error) {
	text := f.Section(TextSectionName)
	if text == nil {
		return nil, fmt.Errorf("%w: no %s section", ErrInvalidImage, TextSectionName)
	}
	size := int64(min(text.VirtualSize, text.SizeOfRawData))
	// Grows with the bytes actually present, not with the header's claim
	code, err := io.ReadAll(io.NewSectionReader(f.r, int64(text.PointerToRawData), size))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", TextSectionName, err)
	}
	if int64(len(code)) < size {
		return nil, fmt.Errorf("%w: %s claims 0x%x bytes, file holds 0x%x", ErrInvalidImage, TextSectionName, size, len(code))
	}
	return code, nil
}

// Validate checks the image against the single code section layout that Build produces
func (f *File) Validate() error {
	c, o := f.COFF, f.Optional
	switch {
	case c.Machine != MachineAMD64:
		return fmt.Errorf("%w: machine 0x%04x is not AMD64", ErrInvalidImage, c.Machine)
	case c.NumberOfSections != 1:
		return fmt.Errorf("%w: %d sections, want 1", ErrInvalidImage, c.NumberOfSections)
	case c.Characteristics&fileExecutableImage == 0:
		return fmt.Errorf("%w: not marked executable", ErrInvalidImage)
	case o.FileAlignment == 0 || o.SectionAlignment == 0:
		return fmt.Errorf("%w: zero alignment", ErrInvalidImage)
	case o.SizeOfHeaders%o.FileAlignment != 0:
		return fmt.Errorf("%w: size of headers 0x%x not file aligned", ErrInvalidImage, o.SizeOfHeaders)
	case o.SizeOfImage%o.SectionAlignment != 0:
		return fmt.Errorf("%w: size of image 0x%x not section aligned", ErrInvalidImage, o.SizeOfImage)
	}

	s := f.Sections[0]
	switch {
	case s.GetName() != TextSectionName:
		return fmt.Errorf("%w: section %q, want %q", ErrInvalidImage, s.GetName(), TextSectionName)
	case s.Characteristics != scnCntCode|scnMemExecute|scnMemRead:
		return fmt.Errorf("%w: section characteristics 0x%08x", ErrInvalidImage, s.Characteristics)
	case o.AddressOfEntryPoint != s.VirtualAddress:
		return fmt.Errorf("%w: entry point 0x%x outside code at 0x%x", ErrInvalidImage, o.AddressOfEntryPoint, s.VirtualAddress)
	case s.PointerToRawData != o.SizeOfHeaders:
		return fmt.Errorf("%w: code at file offset 0x%x, headers end at 0x%x", ErrInvalidImage, s.PointerToRawData, o.SizeOfHeaders)
	case s.SizeOfRawData%o.FileAlignment != 0 || s.VirtualSize > s.SizeOfRawData:
		return fmt.Errorf("%w: raw size 0x%x for virtual size 0x%x", ErrInvalidImage, s.SizeOfRawData, s.VirtualSize)
	case s.VirtualAddress+s.VirtualSize > o.SizeOfImage:
		return fmt.Errorf("%w: section ends past size of image 0x%x", ErrInvalidImage, o.SizeOfImage)
	}
	return nil
}

// EntryPoint returns the absolute virtual address execution starts at
func (f *File) EntryPoint() uint64 {
	return f.Optional.ImageBase + uint64(f.Optional.AddressOfEntryPoint)
}
