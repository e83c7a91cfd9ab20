package store

import "errors"

// Magic is the signature found at the start of meta regions.
const Magic = 0xFADFADBA

var (
	ErrBadMagic  = errors.New("bad magic number")
	ErrTruncated = errors.New("header truncated")
)

var fixedMetaOffsets = struct {
	Magic      uint8
	ItemCount  uint8
	HeaderSize uint8
}{
	Magic:      0,
	ItemCount:  8,
	HeaderSize: 16,
}

// fixedMetaItemOffsets describes the fields shared by every fixed meta item.
var fixedMetaItemOffsets = struct {
	Flags      uint8
	DataOffset uint8
}{
	Flags:      0,
	DataOffset: 4,
}

var varMetaOffsets = struct {
	Magic      uint8
	ItemCount  uint8
	DataSize   uint8
	HeaderSize uint8
	ItemSize   uint8
}{
	Magic:      0,
	ItemCount:  8,
	DataSize:   20,
	HeaderSize: 24,
	ItemSize:   12,
}

var varMetaItemOffsets = struct {
	UniqueID uint8
	Offset   uint8
	Tag      uint8
}{
	UniqueID: 0,
	Offset:   4,
	Tag:      8,
}

var propsOffsets = struct {
	ItemCount  uint8
	HeaderSize uint8
	ItemHeader uint8
}{
	ItemCount:  12,
	HeaderSize: 16,
	ItemHeader: 12,
}

var heapBlockOffsets = struct {
	Next   uint8
	Size   uint8
	Header uint8
}{
	Next:   0,
	Size:   4,
	Header: 8,
}

const extendedDataEntrySize = 6
