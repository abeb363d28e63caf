package pdf

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Generator is the report renderer the services depend on.
type Generator interface {
	GenerateResetAudit(w io.Writer, data ResetAuditData) error
}

// ReportGenerator renders A4 landscape reports. With FontPath pointing at a
// TTF the text is UTF-8; otherwise the core Helvetica font is used.
type ReportGenerator struct {
	FontPath string
	fontName string
}

type ResetAuditRow struct {
	ID        int64
	UserID    int64
	Email     string
	Method    string
	CreatedAt time.Time
	ExpiresAt time.Time
	Verified  bool
	Status    string
}

type ResetAuditData struct {
	Brand       string
	GeneratedAt time.Time
	Filters     []string // "key: value" lines shown under the title
	Rows        []ResetAuditRow
}

func NewReportGenerator(fontPath string) *ReportGenerator {
	return &ReportGenerator{FontPath: fontPath}
}

func (g *ReportGenerator) GenerateResetAudit(w io.Writer, data ResetAuditData) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("%s password reset audit", data.Brand), true)
	pdf.SetAuthor(data.Brand, true)
	pdf.SetMargins(12, 12, 12)
	pdf.SetAutoPageBreak(true, 15)

	g.setupFont(pdf)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont(g.fontName, "", 8)
		pdf.CellFormat(0, 8, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	// ===== header
	pdf.SetFont(g.fontName, "B", 16)
	pdf.CellFormat(0, 9, "Password reset audit", "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 10)
	g.kvLine(pdf, "Generated", data.GeneratedAt.UTC().Format("2006-01-02 15:04 MST"))
	g.kvLine(pdf, "Rows", fmt.Sprintf("%d", len(data.Rows)))
	for _, f := range data.Filters {
		pdf.CellFormat(0, 5, f, "", 1, "L", false, 0, "")
	}
	g.hr(pdf)

	// ===== table
	cols := []struct {
		title string
		width float64
	}{
		{"ID", 16}, {"User", 16}, {"Email", 78}, {"Method", 18},
		{"Created (UTC)", 38}, {"Expires (UTC)", 38}, {"Verified", 20}, {"Status", 49},
	}
	header := func() {
		pdf.SetFont(g.fontName, "B", 9)
		pdf.SetFillColor(235, 235, 235)
		for _, c := range cols {
			pdf.CellFormat(c.width, 7, c.title, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont(g.fontName, "", 9)
	}
	header()

	_, pageH := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	for _, r := range data.Rows {
		if pdf.GetY()+6 > pageH-bottom {
			pdf.AddPage()
			header()
		}
		verified := "no"
		if r.Verified {
			verified = "yes"
		}
		cells := []string{
			fmt.Sprintf("%d", r.ID),
			fmt.Sprintf("%d", r.UserID),
			g.fit(pdf, r.Email, cols[2].width-2),
			r.Method,
			r.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
			r.ExpiresAt.UTC().Format("2006-01-02 15:04:05"),
			verified,
			r.Status,
		}
		for i, c := range cells {
			pdf.CellFormat(cols[i].width, 6, c, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	if len(data.Rows) == 0 {
		pdf.Ln(4)
		pdf.CellFormat(0, 6, "No reset requests match the filter.", "", 1, "L", false, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

// ===== helpers =====

func (g *ReportGenerator) setupFont(pdf *gofpdf.Fpdf) {
	g.fontName = "Helvetica"
	if g.FontPath == "" {
		return
	}
	if _, err := os.Stat(g.FontPath); err != nil {
		return
	}
	pdf.AddUTF8Font("DejaVu", "", g.FontPath)
	pdf.AddUTF8Font("DejaVu", "B", g.FontPath)
	g.fontName = "DejaVu"
}

func (g *ReportGenerator) kvLine(pdf *gofpdf.Fpdf, key, val string) {
	pdf.SetFont(g.fontName, "B", 10)
	pdf.CellFormat(25, 5, key+":", "", 0, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 10)
	pdf.CellFormat(0, 5, val, "", 1, "L", false, 0, "")
}

func (g *ReportGenerator) hr(pdf *gofpdf.Fpdf) {
	w, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	y := pdf.GetY() + 1.5
	pdf.SetLineWidth(0.2)
	pdf.Line(left, y, w-right, y)
	pdf.SetY(y + 3)
}

// fit trims s with an ellipsis until it fits width.
func (g *ReportGenerator) fit(pdf *gofpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(string(r)+"...") > width {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}
