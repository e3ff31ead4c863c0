package labels

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/skip2/go-qrcode"

	"bimqr/internal"
	"bimqr/internal/config"
	"bimqr/internal/util"
)

// Dimensions in millimetres.
const (
	pageMargin = 15.0
	cellHeight = 42.0
	qrSize     = 25.0
	headingGap = 10.0
	indexRowH  = 5.0
)

var indexColumns = []struct {
	title string
	width float64
}{
	{"Marca", 25}, {"Nombre", 65}, {"Disciplina", 45}, {"Categoría", 35},
}

type Generator struct {
	OutputDir string
	BaseURL   string
	BrandName string
	Now       func() time.Time
}

func NewGenerator(cfg config.Config) *Generator {
	return &Generator{
		OutputDir: cfg.PDFDir,
		BaseURL:   cfg.BaseURL,
		BrandName: cfg.BrandName,
		Now:       time.Now,
	}
}

// FileName is the label sheet name for a discipline label at t.
func FileName(discipline string, t time.Time) string {
	label := discipline
	if label == "" {
		label = internal.AllDisciplines
	}
	return fmt.Sprintf("QR_%s_%s.pdf", util.SafeFileName(label), t.Format("20060102_150405"))
}

// Generate writes the printable label sheet and returns its path.
func (g *Generator) Generate(elements []internal.Element, project, discipline string) (string, error) {
	now := g.Now()
	if err := os.MkdirAll(g.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("generate PDF: %w", err)
	}
	path := filepath.Join(g.OutputDir, FileName(discipline, now))

	label := discipline
	if label == "" {
		label = internal.AllDisciplines
	}

	doc := &sheet{
		pdf:  fpdf.New("P", "mm", "A4", ""),
		base: g.BaseURL,
	}
	doc.tr = doc.pdf.UnicodeTranslatorFromDescriptor("")
	doc.pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	doc.pdf.SetAutoPageBreak(true, pageMargin)
	doc.pdf.SetTitle(project, true)
	doc.pdf.SetCreator(g.BrandName, true)
	doc.pdf.SetCreationDate(now)
	doc.pageW, doc.pageH = doc.pdf.GetPageSize()
	doc.cellW = (doc.pageW - 2*pageMargin) / Columns

	doc.cover(project, g.BrandName, label, len(elements), now)
	doc.contents(Contents(elements))
	for _, page := range Paginate(elements) {
		if err := doc.labelPage(page); err != nil {
			return "", fmt.Errorf("generate PDF: %w", err)
		}
	}
	doc.index(elements)

	if doc.pdf.Err() {
		return "", fmt.Errorf("generate PDF: %w", doc.pdf.Error())
	}
	if err := doc.pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("generate PDF: %w", err)
	}
	return path, nil
}

type sheet struct {
	pdf   *fpdf.Fpdf
	tr    func(string) string
	base  string
	pageW float64
	pageH float64
	cellW float64
}

func (s *sheet) line(h float64, text, align string) {
	s.pdf.CellFormat(0, h, s.tr(text), "", 1, align, false, 0, "")
}

func (s *sheet) cover(project, brand, label string, count int, now time.Time) {
	p := s.pdf
	p.AddPage()
	p.SetY(pageMargin + 40)

	p.SetFont("Helvetica", "B", 24)
	p.SetTextColor(0, 0, 0)
	p.MultiCell(0, 10, s.tr(project), "", "C", false)
	p.Ln(10)

	p.SetFont("Helvetica", "", 14)
	p.SetTextColor(68, 68, 68)
	s.line(7, brand, "C")
	p.Ln(10)
	s.line(7, "Disciplina: "+label, "C")
	p.Ln(3)
	s.line(7, "Elementos: "+strconv.Itoa(count), "C")
	p.Ln(3)
	s.line(7, "Generado: "+now.Format("02/01/2006 15:04"), "C")
}

func (s *sheet) contents(groups []DisciplineContents) {
	p := s.pdf
	p.Ln(15)
	p.SetFont("Helvetica", "B", 14)
	p.SetTextColor(0, 0, 0)
	s.line(7, "Contenido", "L")
	p.Ln(5)

	p.SetTextColor(102, 102, 102)
	for _, g := range groups {
		p.SetFont("Helvetica", "B", 10)
		s.line(5, g.Discipline, "L")
		p.SetFont("Helvetica", "", 10)
		for _, c := range g.Categories {
			s.line(5, fmt.Sprintf("      %s: %d", c.Category, c.Count), "L")
		}
	}
}

func (s *sheet) labelPage(page Page) error {
	p := s.pdf
	p.AddPage()
	top := pageMargin
	if page.Heading {
		p.SetXY(pageMargin, pageMargin)
		p.SetFont("Helvetica", "B", 14)
		p.SetTextColor(0, 0, 0)
		s.line(7, page.Discipline, "L")
		top += headingGap
	}

	p.SetDrawColor(221, 221, 221)
	p.SetLineWidth(0.2)
	for i, el := range page.Elements {
		x := pageMargin + float64(i%Columns)*s.cellW
		y := top + float64(i/Columns)*cellHeight
		p.Rect(x, y, s.cellW, cellHeight, "D")
		if err := s.label(el, x, y); err != nil {
			return fmt.Errorf("label %s: %w", el.Tag, err)
		}
	}
	return nil
}

func (s *sheet) label(el internal.Element, x, y float64) error {
	p := s.pdf
	if err := s.qr(internal.ElementURL(s.base, el.Tag), x+(s.cellW-qrSize)/2, y+2); err != nil {
		return err
	}

	p.SetXY(x, y+qrSize+3)
	p.SetFont("Helvetica", "B", 11)
	p.SetTextColor(0, 0, 0)
	p.CellFormat(s.cellW, 5, s.tr(el.Tag), "", 2, "C", false, 0, "")

	p.SetFont("Helvetica", "", 7)
	p.SetTextColor(51, 51, 51)
	p.CellFormat(s.cellW, 3.5, s.tr(util.Truncate(el.Name, 35)), "", 2, "C", false, 0, "")

	p.SetFont("Helvetica", "", 6.5)
	p.SetTextColor(102, 102, 102)
	if el.TypeName != "" {
		p.CellFormat(s.cellW, 3, s.tr(util.Truncate(el.TypeName, 30)), "", 2, "C", false, 0, "")
	}
	if el.Operation != "" {
		p.CellFormat(s.cellW, 3, s.tr(util.Truncate(el.Operation, 25)), "", 2, "C", false, 0, "")
	}
	return nil
}

// qr draws the code as filled modules, merging horizontal runs.
func (s *sheet) qr(content string, x, y float64) error {
	code, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return fmt.Errorf("encode QR: %w", err)
	}
	code.DisableBorder = true
	bitmap := code.Bitmap()
	if len(bitmap) == 0 {
		return fmt.Errorf("encode QR: empty bitmap")
	}

	module := qrSize / float64(len(bitmap))
	s.pdf.SetFillColor(0, 0, 0)
	for r, row := range bitmap {
		for c := 0; c < len(row); {
			if !row[c] {
				c++
				continue
			}
			start := c
			for c < len(row) && row[c] {
				c++
			}
			s.pdf.Rect(x+float64(start)*module, y+float64(r)*module, float64(c-start)*module, module, "F")
		}
	}
	return nil
}

func (s *sheet) index(elements []internal.Element) {
	p := s.pdf
	p.AddPage()
	p.SetFont("Helvetica", "B", 14)
	p.SetTextColor(0, 0, 0)
	s.line(7, "Índice de marcas", "L")
	p.Ln(5)
	if len(elements) == 0 {
		return
	}

	sorted := append([]internal.Element(nil), elements...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Tag < sorted[j].Tag })

	p.SetDrawColor(204, 204, 204)
	p.SetLineWidth(0.2)
	s.indexHeader()
	p.SetFont("Helvetica", "", 7)
	for _, el := range sorted {
		if p.GetY()+indexRowH > s.pageH-pageMargin {
			p.AddPage()
			s.indexHeader()
			p.SetFont("Helvetica", "", 7)
		}
		cells := []string{
			el.Tag,
			util.Truncate(el.Name, 40),
			util.Truncate(el.Discipline, 30),
			util.Truncate(el.Category, 24),
		}
		for i, text := range cells {
			p.CellFormat(indexColumns[i].width, indexRowH, s.tr(text), "1", 0, "L", false, 0, "")
		}
		p.Ln(-1)
	}
}

func (s *sheet) indexHeader() {
	p := s.pdf
	p.SetFont("Helvetica", "B", 7)
	p.SetFillColor(240, 240, 240)
	p.SetTextColor(0, 0, 0)
	for _, col := range indexColumns {
		p.CellFormat(col.width, indexRowH, s.tr(col.title), "1", 0, "L", true, 0, "")
	}
	p.Ln(-1)
}
