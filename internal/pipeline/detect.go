package pipeline

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"bimqr/internal"
)

var stepMagic = []byte("ISO-10303-21")

// DetectInput maps an input file to its format by extension, checking that
// a .ifc file really is a STEP physical file.
func DetectInput(path string) (internal.InputKind, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("input file not found: %s", path)
		}
		return "", fmt.Errorf("read input file: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("input is a directory: %s", path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".csv":
		return internal.InputCSV, nil
	case ".xlsx", ".xls":
		return internal.InputXLSX, nil
	case ".ifc":
		ok, err := looksLikeSTEP(path)
		if err != nil {
			return "", fmt.Errorf("read input file: %w", err)
		}
		if !ok {
			return "", fmt.Errorf("%s is not an IFC STEP file (missing ISO-10303-21 header)", filepath.Base(path))
		}
		return internal.InputIFC, nil
	default:
		return "", fmt.Errorf("unsupported file format %q (accepted: .csv, .xlsx, .xls, .ifc)", ext)
	}
}

func looksLikeSTEP(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	head := make([]byte, 256)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return false, err
	}
	head = bytes.TrimPrefix(head[:n], utf8BOM)
	return bytes.HasPrefix(bytes.TrimSpace(head), stepMagic), nil
}
