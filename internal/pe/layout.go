package pe

// alignTo rounds value up to the next multiple of align (a power of two)
func alignTo(value, align int) int {
	return (value + align - 1) &^ (align - 1)
}

// Layout holds the sizes and offsets of a single-section image
type Layout struct {
	CodeSize      int // bytes of machine code, also the section's virtual size
	RawSize       int // CodeSize rounded up to FileAlignment
	VirtualSize   int // CodeSize rounded up to SectionAlignment
	SizeOfHeaders int // header block rounded up to FileAlignment, also the code's file offset
	SizeOfImage   int // in-memory size, rounded up to SectionAlignment
	FileSize      int // SizeOfHeaders + RawSize
}

// ComputeLayout calculates where everything goes for codeSize bytes of code
func ComputeLayout(codeSize int) Layout {
	l := Layout{
		CodeSize:      codeSize,
		RawSize:       alignTo(codeSize, FileAlignment),
		VirtualSize:   alignTo(codeSize, SectionAlignment),
		SizeOfHeaders: alignTo(headerBlockSize, FileAlignment),
	}
	l.SizeOfImage = alignTo(CodeVirtualAddress+l.VirtualSize, SectionAlignment)
	l.FileSize = l.SizeOfHeaders + l.RawSize
	return l
}

// MaxCodeSize returns the largest code size that fits in capacity bytes
func MaxCodeSize(capacity int) int {
	headers := alignTo(headerBlockSize, FileAlignment)
	if capacity < headers {
		return 0
	}
	return (capacity - headers) &^ (FileAlignment - 1)
}
