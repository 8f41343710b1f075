// Package api exposes the billing and claims pipelines over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/gyeh/billclaims/internal/billing"
	"github.com/gyeh/billclaims/internal/process"
)

// MaxUploadSize bounds a single uploaded file.
const MaxUploadSize = 50 << 20

// Persister saves finished batches. *db.Store satisfies it.
type Persister interface {
	SaveBilling(ctx context.Context, batch *process.BillingBatch) error
	SaveClaims(ctx context.Context, batch *process.ClaimsBatch) error
}

// Handler serves the upload endpoints.
type Handler struct {
	engine *billing.Engine
	store  Persister
	log    zerolog.Logger
}

// NewHandler returns a handler. store may be nil, in which case batches are
// returned without being persisted.
func NewHandler(engine *billing.Engine, store Persister, log zerolog.Logger) *Handler {
	return &Handler{engine: engine, store: store, log: log}
}

// RegisterRoutes mounts the API routes on g.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/health", h.Health)
	g.POST("/process-billing", h.ProcessBilling)
	g.POST("/process-insurance", h.ProcessInsurance)
}

type envelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func ok(c echo.Context, message string, data any) error {
	return c.JSON(http.StatusOK, envelope{Status: "success", Message: message, Data: data})
}

func fail(c echo.Context, code int, message string, err error) error {
	env := envelope{Status: "error", Message: message}
	if err != nil {
		env.Error = err.Error()
	}
	return c.JSON(code, env)
}

// Health reports liveness.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
}

// ProcessBilling bills every patient of an uploaded .xlsx workbook.
func (h *Handler) ProcessBilling(c echo.Context) error {
	in, err := upload(c, ".xlsx")
	if err != nil {
		return rejectUpload(c, err)
	}

	ctx := c.Request().Context()
	batch, err := process.RunBilling(ctx, h.log, h.engine, in)
	if err != nil {
		return fail(c, statusFor(err), "Billing processing failed", err)
	}
	if h.store != nil {
		if err := h.store.SaveBilling(ctx, batch); err != nil {
			h.log.Error().Err(err).Str("run_id", batch.RunID).Msg("persist billing run")
			return fail(c, http.StatusInternalServerError, "Billing processing failed", err)
		}
	}
	return ok(c, message("Billing processed", len(batch.Failures)), batch)
}

// ProcessInsurance adjudicates every patient of an uploaded ZIP of claims
// workbooks.
func (h *Handler) ProcessInsurance(c echo.Context) error {
	in, err := upload(c, ".zip")
	if err != nil {
		return rejectUpload(c, err)
	}

	ctx := c.Request().Context()
	batch, err := process.RunClaims(ctx, h.log, h.engine, in)
	if err != nil {
		return fail(c, statusFor(err), "Insurance processing failed", err)
	}
	if h.store != nil {
		if err := h.store.SaveClaims(ctx, batch); err != nil {
			h.log.Error().Err(err).Str("run_id", batch.RunID).Msg("persist claims run")
			return fail(c, http.StatusInternalServerError, "Insurance processing failed", err)
		}
	}
	return ok(c, message("Insurance processed", len(batch.Failures)), batch)
}

// upload reads the multipart "file" field. Errors are *echo.HTTPError.
func upload(c echo.Context, ext string) (process.Input, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return process.Input{}, echo.NewHTTPError(http.StatusBadRequest, "No file part 'file' found")
	}
	if fh.Filename == "" {
		return process.Input{}, echo.NewHTTPError(http.StatusBadRequest, "No file selected")
	}
	if !strings.EqualFold(filepath.Ext(fh.Filename), ext) {
		return process.Input{}, echo.NewHTTPError(http.StatusBadRequest, "Only "+ext+" files are supported")
	}
	if fh.Size > MaxUploadSize {
		return process.Input{}, echo.NewHTTPError(http.StatusRequestEntityTooLarge, "File too large")
	}

	f, err := fh.Open()
	if err != nil {
		return process.Input{}, echo.NewHTTPError(http.StatusInternalServerError, "Failed to open uploaded file").SetInternal(err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxUploadSize+1))
	if err != nil {
		return process.Input{}, echo.NewHTTPError(http.StatusInternalServerError, "Failed to read uploaded file").SetInternal(err)
	}
	if len(data) > MaxUploadSize {
		return process.Input{}, echo.NewHTTPError(http.StatusRequestEntityTooLarge, "File too large")
	}
	return process.FromBytes(filepath.Base(fh.Filename), data), nil
}

func rejectUpload(c echo.Context, err error) error {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return fail(c, he.Code, fmt.Sprint(he.Message), he.Internal)
	}
	return fail(c, http.StatusBadRequest, "Invalid upload", err)
}

// statusFor maps a pipeline error to an HTTP status. Read and validate
// failures are client errors.
func statusFor(err error) int {
	var pe *process.PipelineError
	if errors.As(err, &pe) {
		switch pe.Phase {
		case process.PhaseRead, process.PhaseValidate:
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}

func message(base string, failed int) string {
	switch failed {
	case 0:
		return base
	case 1:
		return base + " (1 patient failed)"
	default:
		return fmt.Sprintf("%s (%d patients failed)", base, failed)
	}
}
