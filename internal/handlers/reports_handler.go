package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"luxera/internal/models"
	"luxera/internal/services"
)

type ReportHandler struct {
	service services.ReportService
	now     func() time.Time
}

func NewReportHandler(service services.ReportService) *ReportHandler {
	return &ReportHandler{service: service, now: time.Now}
}

const (
	contentTypePDF  = "application/pdf"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// @Summary      Password reset audit
// @Tags         Reports
// @Security     BearerAuth
// @Produce      json
// @Param        user_id  query     int     false  "Account"
// @Param        method   query     string  false  "email or sms"
// @Param        from     query     string  false  "Created at or after (RFC3339 or YYYY-MM-DD)"
// @Param        to       query     string  false  "Created before (RFC3339 or YYYY-MM-DD)"
// @Param        page     query     int     false  "Page, from 1"
// @Param        size     query     int     false  "Page size"
// @Success      200      {array}   models.ResetAuditEntry
// @Failure      400      {object}  ErrorResponse
// @Router       /admin/reports/password-resets [get]
func (h *ReportHandler) ResetAudit(c *gin.Context) {
	f, ok := h.auditFilter(c)
	if !ok {
		return
	}
	rows, err := h.service.ResetAudit(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// @Summary      Password reset audit (PDF)
// @Tags         Reports
// @Security     BearerAuth
// @Produce      application/pdf
// @Success      200  {file}  file
// @Router       /admin/reports/password-resets.pdf [get]
func (h *ReportHandler) ResetAuditPDF(c *gin.Context) {
	f, ok := h.auditFilter(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := h.service.ResetAuditPDF(c.Request.Context(), f, &buf); err != nil {
		respondError(c, err)
		return
	}
	h.attachment(c, "pdf", contentTypePDF, buf.Bytes())
}

// @Summary      Password reset audit (XLSX)
// @Tags         Reports
// @Security     BearerAuth
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}  file
// @Router       /admin/reports/password-resets.xlsx [get]
func (h *ReportHandler) ResetAuditXLSX(c *gin.Context) {
	f, ok := h.auditFilter(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := h.service.ResetAuditXLSX(c.Request.Context(), f, &buf); err != nil {
		respondError(c, err)
		return
	}
	h.attachment(c, "xlsx", contentTypeXLSX, buf.Bytes())
}

func (h *ReportHandler) attachment(c *gin.Context, ext, contentType string, data []byte) {
	name := fmt.Sprintf("password-resets-%s.%s", h.now().UTC().Format("20060102-150405"), ext)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, contentType, data)
}

func (h *ReportHandler) auditFilter(c *gin.Context) (models.ResetAuditFilter, bool) {
	var f models.ResetAuditFilter
	fail := func(msg string) (models.ResetAuditFilter, bool) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
		return f, false
	}

	if v := c.Query("user_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			return fail("Invalid user_id")
		}
		f.UserID = id
	}
	if v := strings.TrimSpace(c.Query("method")); v != "" {
		f.Method = models.ResetMethod(v)
		if !f.Method.Valid() {
			return fail("Invalid method")
		}
	}
	var err error
	if f.From, err = parseDateParam(c.Query("from"), false); err != nil {
		return fail("Invalid from date")
	}
	if f.To, err = parseDateParam(c.Query("to"), true); err != nil {
		return fail("Invalid to date")
	}
	if !f.From.IsZero() && !f.To.IsZero() && !f.From.Before(f.To) {
		return fail("from must be before to")
	}
	f.Limit, f.Offset = pageParams(c)
	return f, true
}

// parseDateParam accepts RFC3339 or a bare date. A bare "to" date is
// inclusive, so it is moved to the start of the next day.
func parseDateParam(v string, endOfDay bool) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1)
	}
	return t, nil
}
