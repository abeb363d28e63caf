package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"luxera/internal/models"
	"luxera/internal/pdf"
	"luxera/internal/repositories"
)

// ReportService exports the password reset audit trail. Code hashes never
// leave the repository layer.
type ReportService interface {
	ResetAudit(ctx context.Context, f models.ResetAuditFilter) ([]models.ResetAuditEntry, error)
	ResetAuditPDF(ctx context.Context, f models.ResetAuditFilter, w io.Writer) error
	ResetAuditXLSX(ctx context.Context, f models.ResetAuditFilter, w io.Writer) error
}

type reportService struct {
	resets repositories.PasswordResetRepository
	pdf    pdf.Generator
	brand  string
	now    func() time.Time
}

func NewReportService(resets repositories.PasswordResetRepository, gen pdf.Generator, brand string) ReportService {
	return &reportService{resets: resets, pdf: gen, brand: brand, now: time.Now}
}

func (s *reportService) ResetAudit(ctx context.Context, f models.ResetAuditFilter) ([]models.ResetAuditEntry, error) {
	rows, err := s.resets.ListAudit(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list reset audit: %w", err)
	}
	if rows == nil {
		rows = []models.ResetAuditEntry{}
	}
	return rows, nil
}

func (s *reportService) ResetAuditPDF(ctx context.Context, f models.ResetAuditFilter, w io.Writer) error {
	rows, err := s.ResetAudit(ctx, f)
	if err != nil {
		return err
	}
	now := s.now()
	data := pdf.ResetAuditData{
		Brand:       s.brand,
		GeneratedAt: now,
		Filters:     describeFilter(f),
		Rows:        make([]pdf.ResetAuditRow, 0, len(rows)),
	}
	for _, r := range rows {
		data.Rows = append(data.Rows, pdf.ResetAuditRow{
			ID:        r.ID,
			UserID:    r.UserID,
			Email:     r.Email,
			Method:    string(r.Method),
			CreatedAt: r.CreatedAt,
			ExpiresAt: r.ExpiresAt,
			Verified:  r.VerifiedAt != nil,
			Status:    r.Status(now),
		})
	}
	return s.pdf.GenerateResetAudit(w, data)
}

func (s *reportService) ResetAuditXLSX(ctx context.Context, f models.ResetAuditFilter, w io.Writer) error {
	rows, err := s.ResetAudit(ctx, f)
	if err != nil {
		return err
	}
	now := s.now()

	x := excelize.NewFile()
	defer x.Close()

	const sheet = "Resets"
	if err := x.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	sw, err := x.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("create stream writer: %w", err)
	}

	headers := []interface{}{"ID", "User ID", "Email", "Method", "Created (UTC)", "Expires (UTC)", "Verified (UTC)", "Used (UTC)", "Status"}
	if err := sw.SetRow("A1", headers); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{
			r.ID,
			r.UserID,
			sanitizeForExcel(r.Email),
			string(r.Method),
			r.CreatedAt.UTC().Format(time.DateTime),
			r.ExpiresAt.UTC().Format(time.DateTime),
			formatOptionalTime(r.VerifiedAt),
			formatOptionalTime(r.UsedAt),
			r.Status(now),
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush sheet: %w", err)
	}
	if _, err := x.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func describeFilter(f models.ResetAuditFilter) []string {
	var out []string
	if f.UserID > 0 {
		out = append(out, fmt.Sprintf("User ID: %d", f.UserID))
	}
	if f.Method != "" {
		out = append(out, "Method: "+string(f.Method))
	}
	if !f.From.IsZero() {
		out = append(out, "From: "+f.From.UTC().Format(time.DateTime))
	}
	if !f.To.IsZero() {
		out = append(out, "To: "+f.To.UTC().Format(time.DateTime))
	}
	return out
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.DateTime)
}

// sanitizeForExcel stops spreadsheet apps from evaluating user text as a
// formula.
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}
	return s
}
