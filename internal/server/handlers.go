package server

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/KaramelBytes/bmireport/internal/analysis"
	"github.com/KaramelBytes/bmireport/internal/bmi"
	"github.com/KaramelBytes/bmireport/internal/dashboard"
	"github.com/KaramelBytes/bmireport/internal/dataset"
	"github.com/KaramelBytes/bmireport/internal/report"
)

// Handler holds the dependencies of the HTTP endpoints.
type Handler struct {
	logger  *zap.Logger
	session *dashboard.Session
}

// NewHandler creates a Handler serving views of session.
func NewHandler(logger *zap.Logger, session *dashboard.Session) *Handler {
	return &Handler{logger: logger, session: session}
}

// Health handles GET /healthz.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "rows": h.session.Dataset().Len()})
}

// Dataset handles GET /api/dataset?limit=n.
func (h *Handler) Dataset(c *gin.Context) {
	limit := h.session.Options().SampleRows
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			h.badRequest(c, &bmi.InvalidInputError{Field: "limit", Value: v, Reason: "must be a non-negative integer"})
			return
		}
		limit = n
	}
	ds := h.session.Dataset()
	c.JSON(http.StatusOK, gin.H{
		"source":  ds.Name(),
		"rows":    ds.Len(),
		"header":  ds.Header(),
		"records": ds.Head(limit),
	})
}

// DatasetCSV handles GET /api/dataset.csv with the bytes that were loaded.
func (h *Handler) DatasetCSV(c *gin.Context) {
	ds := h.session.Dataset()
	var buf bytes.Buffer
	if _, err := ds.WriteCSV(&buf); err != nil {
		h.internalError(c, "export csv failed", err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(ds.Name())))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// Options handles GET /api/options, the choices offered by the calculator form.
func (h *Handler) Options(c *gin.Context) {
	ds := h.session.Dataset()
	c.JSON(http.StatusOK, gin.H{
		"countries":       ds.Countries(),
		"sexes":           ds.Sexes(),
		"regions":         ds.Regions(),
		"age_groups":      ds.AgeGroups(),
		"years":           ds.Years(),
		"limits":          h.session.Limits(),
		"reference_lines": bmi.ReferenceLines(),
	})
}

// Trends handles GET /api/trends.
func (h *Handler) Trends(c *gin.Context) {
	tr, err := h.session.Trends(c.Request.Context())
	if err != nil {
		h.internalError(c, "trends failed", err)
		return
	}
	c.JSON(http.StatusOK, tr)
}

// Groups handles GET /api/groups?by=year,region.
func (h *Handler) Groups(c *gin.Context) {
	by := c.DefaultQuery("by", string(analysis.FieldYear))
	keys, err := analysis.ParseFields(strings.Split(by, ","))
	if err != nil {
		h.badRequest(c, &bmi.InvalidInputError{Field: "by", Value: by, Reason: err.Error()})
		return
	}
	rows, err := h.session.Groups(c.Request.Context(), keys)
	if err != nil {
		h.internalError(c, "groups failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"by": keys, "rows": rows})
}

// Distribution handles GET /api/distribution/:year.
func (h *Handler) Distribution(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		h.badRequest(c, &bmi.InvalidInputError{Field: "year", Value: c.Param("year"), Reason: "must be an integer"})
		return
	}
	ds, err := h.session.Distributions(c.Request.Context(), year)
	if err != nil {
		h.internalError(c, "distribution failed", err)
		return
	}
	c.JSON(http.StatusOK, ds[0])
}

// Summary handles GET /api/summary.
func (h *Handler) Summary(c *gin.Context) {
	sum, err := h.session.Summary(c.Request.Context())
	if err != nil {
		h.internalError(c, "summary failed", err)
		return
	}
	if sum == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "dataset has no rows"})
		return
	}
	c.JSON(http.StatusOK, sum)
}

// Report handles GET /api/report?format=json|markdown.
func (h *Handler) Report(c *gin.Context) {
	format := c.DefaultQuery("format", report.FormatJSON)
	var buf bytes.Buffer
	w, err := report.NewWriter(format, &buf)
	if err != nil {
		h.badRequest(c, &bmi.InvalidInputError{Field: "format", Value: format, Reason: "must be markdown or json"})
		return
	}
	d, err := h.session.Build(c.Request.Context(), nil)
	if err != nil {
		h.internalError(c, "build dashboard failed", err)
		return
	}
	if err := w.Write(d); err != nil {
		h.internalError(c, "render report failed", err)
		return
	}
	contentType := "application/json; charset=utf-8"
	if _, ok := w.(*report.MarkdownWriter); ok {
		contentType = "text/markdown; charset=utf-8"
	}
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

// Calculate handles POST /api/bmi.
func (h *Handler) Calculate(c *gin.Context) {
	var req bmi.Input
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid bmi request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	comparison, err := h.session.Personal(c.Request.Context(), req)
	if err != nil {
		var iie *bmi.InvalidInputError
		if errors.As(err, &iie) {
			h.badRequest(c, iie)
			return
		}
		h.internalError(c, "bmi calculation failed", err)
		return
	}
	c.JSON(http.StatusOK, comparison)
}

func (h *Handler) badRequest(c *gin.Context, err *bmi.InvalidInputError) {
	h.logger.Warn("invalid input", zap.String("field", err.Field), zap.Error(err))
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "field": err.Field})
}

func (h *Handler) internalError(c *gin.Context, msg string, err error) {
	h.logger.Error(msg, zap.Error(err))
	var dse *dataset.DataSourceError
	if errors.As(err, &dse) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "data source unavailable"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}
