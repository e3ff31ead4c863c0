package pipeline

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"bimqr/internal"
)

var (
	utf8BOM      = []byte{0xEF, 0xBB, 0xBF}
	oleSignature = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

var errEmptyTable = errors.New("input table has no header row")

// ParseTable reads a CSV or spreadsheet export with one row per element.
func ParseTable(path string) ([]internal.Element, internal.ExtractReport, error) {
	var (
		rows [][]string
		kind internal.InputKind
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		kind = internal.InputCSV
		rows, err = readCSVRows(path)
	case ".xlsx", ".xls":
		kind = internal.InputXLSX
		rows, err = readWorkbookRows(path)
	default:
		return nil, internal.ExtractReport{}, fmt.Errorf("unsupported table format: %s", filepath.Ext(path))
	}
	if err != nil {
		return nil, internal.ExtractReport{Source: kind}, err
	}
	elements, report, err := rowsToElements(rows)
	report.Source = kind
	if err != nil {
		return nil, report, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return elements, report, nil
}

func rowsToElements(rows [][]string) ([]internal.Element, internal.ExtractReport, error) {
	report := internal.ExtractReport{}
	if len(rows) == 0 {
		return nil, report, errEmptyTable
	}
	cols, err := ResolveColumns(rows[0])
	if err != nil {
		return nil, report, err
	}

	out := make([]internal.Element, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		report.Rows++

		guid := cols.Get(row, FieldGUID)
		if guid == "" {
			report.SkippedNoID++
			continue
		}
		tag, ok := SanitizeTag(cols.Get(row, FieldTag))
		if !ok {
			report.SkippedBadTag++
			continue
		}
		discipline := cols.Get(row, FieldDiscipline)
		if discipline == "" {
			discipline = internal.Unclassified
		}

		out = append(out, internal.Element{
			GUID:       guid,
			Name:       cols.Get(row, FieldName),
			Tag:        tag,
			Discipline: discipline,
			TypeName:   cols.Get(row, FieldTypeName),
			TypeGUID:   cols.Get(row, FieldTypeGUID),
			Operation:  cols.Get(row, FieldOperation),
			ModelClass: cols.Get(row, FieldModelClass),
			Category:   cols.Get(row, FieldCategory),
		})
	}
	report.Extracted = len(out)
	return out, report, nil
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func readCSVRows(path string) ([][]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input file: %w", err)
	}
	text, err := decodeText(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	r := csv.NewReader(strings.NewReader(text))
	r.Comma = sniffDelimiter(text)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var rows [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

// decodeText tries UTF-8, then ISO 8859-1, then Windows-1252. A single-byte
// decoding that produces C1 controls is treated as the wrong guess.
func decodeText(raw []byte) (string, error) {
	if b := bytes.TrimPrefix(raw, utf8BOM); utf8.Valid(b) {
		return string(b), nil
	}
	for _, cm := range []*charmap.Charmap{charmap.ISO8859_1, charmap.Windows1252} {
		decoded, err := cm.NewDecoder().Bytes(raw)
		if err != nil || !plausibleText(decoded) {
			continue
		}
		return string(decoded), nil
	}
	return "", errors.New("cannot decode file as UTF-8, Latin-1 or Windows-1252; save it as UTF-8 CSV")
}

func plausibleText(b []byte) bool {
	for _, r := range string(b) {
		if r == utf8.RuneError || (r >= 0x80 && r <= 0x9f) {
			return false
		}
	}
	return true
}

// sniffDelimiter picks the most frequent of , ; and tab on the header line.
func sniffDelimiter(text string) rune {
	header := text
	if i := strings.IndexAny(text, "\r\n"); i >= 0 {
		header = text[:i]
	}
	best, bestCount := ',', strings.Count(header, ",")
	for _, d := range []rune{';', '\t'} {
		if n := strings.Count(header, string(d)); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

func readWorkbookRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read input file: %w", err)
	}
	defer f.Close()

	head := make([]byte, len(oleSignature))
	n, _ := io.ReadFull(f, head)
	if bytes.Equal(head[:n], oleSignature) {
		return nil, fmt.Errorf("%s: legacy .xls workbooks are not supported; re-save it as .xlsx", filepath.Base(path))
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("read input file: %w", err)
	}

	wb, err := excelize.OpenReader(f)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", filepath.Base(path), err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s: workbook has no sheets", filepath.Base(path))
	}
	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}
