// Completion: 100% - PE32+ format definitions complete
package pe

// PE (Portable Executable) format constants for Windows x86_64.
//
// Image layout, single section:
//
//	0x000  DOS header (e_magic "MZ", e_lfanew at 0x3C)
//	0x040  "PE\0\0"
//	0x044  COFF file header
//	0x058  optional header (PE32+)
//	0x148  section table, one entry
//	0x170  end of headers, zero padded to FileAlignment
//	0x200  .text raw data, zero padded to FileAlignment
const (
	dosHeaderSize       = 64
	peSignatureSize     = 4
	coffHeaderSize      = 20
	optionalHeaderSize  = 240 // PE32+ (64-bit)
	peSectionHeaderSize = 40

	ntHeadersOffset      = dosHeaderSize
	coffHeaderOffset     = ntHeadersOffset + peSignatureSize
	optionalHeaderOffset = coffHeaderOffset + coffHeaderSize
	sectionTableOffset   = optionalHeaderOffset + optionalHeaderSize
	headerBlockSize      = sectionTableOffset + peSectionHeaderSize

	// e_lfanew lives at 0x3C in the DOS header
	dosPEOffsetField = 0x3C
)

// Memory layout
const (
	ImageBase          = 0x140000000 // Standard Windows x64 image base
	SectionAlignment   = 0x1000      // 4KB section alignment in memory
	FileAlignment      = 0x200       // 512 byte file alignment
	CodeVirtualAddress = 0x1000      // .text RVA, also the entry point

	// DefaultMaxImageSize is the staging capacity used when Options leaves it unset
	DefaultMaxImageSize = 8192
)

// Header field values
const (
	dosMagic    = 0x5A4D     // "MZ"
	peSignature = 0x00004550 // "PE\0\0"

	MachineAMD64 = 0x8664

	fileRelocsStripped    = 0x0001
	fileExecutableImage   = 0x0002
	fileLargeAddressAware = 0x0020

	optionalMagicPE32Plus = 0x020B

	linkerMajorVersion    = 14
	osMajorVersion        = 6
	subsystemMajorVersion = 6

	SubsystemWindowsCUI = 3

	stackReserve = 0x100000
	stackCommit  = 0x1000
	heapReserve  = 0x100000
	heapCommit   = 0x1000

	numberOfDirectories = 16

	TextSectionName = ".text"
)

// Section characteristics
const (
	scnCntCode    = 0x00000020
	scnMemExecute = 0x20000000
	scnMemRead    = 0x40000000
)

// DOSHeader holds the two DOS header fields a PE loader looks at
type DOSHeader struct {
	Magic    uint16 // "MZ"
	PEOffset uint32 // Offset to PE header
}

// COFFHeader represents the COFF file header
type COFFHeader struct {
	Machine              uint16
	NumberOfSections     uint16
	TimeDateStamp        uint32
	PointerToSymbolTable uint32
	NumberOfSymbols      uint32
	SizeOfOptionalHeader uint16
	Characteristics      uint16
}

// OptionalHeader64 represents the PE32+ optional header
type OptionalHeader64 struct {
	Magic                   uint16
	MajorLinkerVersion      uint8
	MinorLinkerVersion      uint8
	SizeOfCode              uint32
	SizeOfInitializedData   uint32
	SizeOfUninitializedData uint32
	AddressOfEntryPoint     uint32
	BaseOfCode              uint32
	ImageBase               uint64
	SectionAlignment        uint32
	FileAlignment           uint32
	MajorOSVersion          uint16
	MinorOSVersion          uint16
	MajorImageVersion       uint16
	MinorImageVersion       uint16
	MajorSubsystemVersion   uint16
	MinorSubsystemVersion   uint16
	Win32VersionValue       uint32
	SizeOfImage             uint32
	SizeOfHeaders           uint32
	CheckSum                uint32
	Subsystem               uint16
	DllCharacteristics      uint16
	SizeOfStackReserve      uint64
	SizeOfStackCommit       uint64
	SizeOfHeapReserve       uint64
	SizeOfHeapCommit        uint64
	LoaderFlags             uint32
	NumberOfRvaAndSizes     uint32
	DataDirectory           [numberOfDirectories]DataDirectory
}

// DataDirectory represents a data directory entry
type DataDirectory struct {
	VirtualAddress uint32
	Size           uint32
}

// SectionHeader represents a PE section header
type SectionHeader struct {
	Name                 [8]byte
	VirtualSize          uint32
	VirtualAddress       uint32
	SizeOfRawData        uint32
	PointerToRawData     uint32
	PointerToRelocations uint32
	PointerToLinenumbers uint32
	NumberOfRelocations  uint16
	NumberOfLinenumbers  uint16
	Characteristics      uint32
}

// GetName returns the section name without NUL padding
func (s SectionHeader) GetName() string {
	n := 0
	for n < len(s.Name) && s.Name[n] != 0 {
		n++
	}
	return string(s.Name[:n])
}

// sectionName pads or truncates name to the fixed 8 byte field
func sectionName(name string) [8]byte {
	var field [8]byte
	copy(field[:], name)
	return field
}
