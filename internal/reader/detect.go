package reader

import (
	"strings"

	mpperrors "github.com/heyvito/mpp/errors"
	"github.com/heyvito/mpp/internal/codec"
	"github.com/heyvito/mpp/internal/container"
)

const compObjStream = "\x01CompObj"

var compObjOffsets = struct {
	Header uint8
}{
	Header: 28,
}

// CompObj holds the strings of the compound object stream found at the root
// of every schedule file.
type CompObj struct {
	UserType        string
	ClipboardFormat string
	ProgramID       string
}

func readCompObj(root container.Directory) (*CompObj, error) {
	data, ok := root.Stream(compObjStream)
	if !ok {
		return nil, mpperrors.MissingRegion{Path: compObjStream}
	}

	var values [3]string
	off := int(compObjOffsets.Header)
	for i := range values {
		if !codec.Within(data, off, 4) {
			return nil, mpperrors.CorruptFormat{Region: compObjStream, Reason: "truncated string table"}
		}
		size := int(codec.Int32(data, off))
		off += 4
		if size < 0 || !codec.Within(data, off, size) {
			return nil, mpperrors.CorruptFormat{Region: compObjStream, Reason: "string overruns stream"}
		}
		values[i] = codec.String(data, off, size)
		off += size
	}
	return &CompObj{UserType: values[0], ClipboardFormat: values[1], ProgramID: values[2]}, nil
}

// formatVersions maps clipboard formats to schema generations.
var formatVersions = map[string]int{
	"MSProject.MPP8":     8,
	"MSProject.MPT8":     8,
	"MSProject.MPP9":     9,
	"MSProject.MPT9":     9,
	"MSProject.GLOBAL9":  9,
	"MSProject.MPP12":    12,
	"MSProject.MPT12":    12,
	"MSProject.GLOBAL12": 12,
	"MSProject.MPP14":    14,
	"MSProject.MPT14":    14,
	"MSProject.GLOBAL14": 14,
}

// Detect returns the schema generation of the schedule held by root, along
// with its clipboard format.
func Detect(root container.Directory) (int, string, error) {
	obj, err := readCompObj(root)
	if err != nil {
		return 0, "", err
	}
	format := strings.TrimSpace(obj.ClipboardFormat)
	version, ok := formatVersions[format]
	if !ok {
		return 0, format, mpperrors.UnsupportedFormat{Format: format}
	}
	return version, format, nil
}
