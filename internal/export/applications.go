// Package export writes a job's application table to a spreadsheet
package export

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/honeycarbs/alumni-jobs/internal/domain"
	"github.com/honeycarbs/alumni-jobs/internal/domain/application"
	"github.com/honeycarbs/alumni-jobs/internal/domain/job"
	"github.com/honeycarbs/alumni-jobs/pkg/logging"
	"github.com/honeycarbs/alumni-jobs/pkg/sheets"
)

// ErrNotConfigured is returned when no spreadsheet writer was wired
var ErrNotConfigured = errors.New("export: spreadsheet client not configured")

// Writer is the slice of the Sheets client the exporter needs
type Writer interface {
	Append(ctx context.Context, spreadsheetID, rng string, rows [][]any) (int, error)
	Replace(ctx context.Context, spreadsheetID, rng string, rows [][]any) (int, error)
}

var _ Writer = (*sheets.Client)(nil)

// Header is the first row written in replace mode
var Header = []any{"Candidate", "Email", "Phone", "Skills", "Experience", "Status", "Applied", "Reviewed By", "Review Notes"}

// Target names the destination sheet
type Target struct {
	SpreadsheetID string `json:"spreadsheet_id" jsonschema:"Destination spreadsheet id"`
	Tab           string `json:"tab,omitempty" jsonschema:"Tab name, defaults to Sheet1"`
	// Append keeps existing rows; otherwise the tab is cleared and a header written
	Append bool `json:"append,omitempty" jsonschema:"Append rows instead of replacing the tab"`
}

// Result reports what was written
type Result struct {
	JobID         domain.JobID `json:"job_id"`
	Position      string       `json:"position"`
	SpreadsheetID string       `json:"spreadsheet_id"`
	Range         string       `json:"range"`
	RowsWritten   int          `json:"rows_written"`
	Applications  int          `json:"applications"`
	CompletedAt   time.Time    `json:"completed_at"`
}

// Exporter reads applications through the lifecycle service, so the
// caller must be allowed to review the job
type Exporter struct {
	jobs   job.Service
	apps   application.Service
	writer Writer
	logger *logging.Logger
}

// NewExporter builds an Exporter; a nil writer makes every export fail
// with ErrNotConfigured
func NewExporter(jobs job.Service, apps application.Service, writer Writer, logger *logging.Logger) *Exporter {
	return &Exporter{
		jobs:   jobs,
		apps:   apps,
		writer: writer,
		logger: logging.OrNop(logger).Named("export"),
	}
}

// Enabled reports whether a writer is wired
func (e *Exporter) Enabled() bool {
	return e != nil && e.writer != nil
}

func (e *Exporter) ExportApplications(ctx context.Context, actor domain.Actor, jobID domain.JobID, target Target) (Result, error) {
	if !e.Enabled() {
		return Result{}, ErrNotConfigured
	}
	if strings.TrimSpace(target.SpreadsheetID) == "" {
		return Result{}, domain.FieldError("spreadsheet_id", "is required")
	}

	j, err := e.jobs.GetJob(ctx, actor, jobID)
	if err != nil {
		return Result{}, err
	}
	apps, err := e.apps.ListForJob(ctx, actor, jobID)
	if err != nil {
		return Result{}, err
	}

	rows := Rows(apps)
	res := Result{
		JobID:         j.ID,
		Position:      j.Position,
		SpreadsheetID: target.SpreadsheetID,
		Applications:  len(apps),
	}

	var written int
	res.Range = sheets.TabRange(target.Tab, 1)
	if target.Append {
		if len(rows) > 0 {
			written, err = e.writer.Append(ctx, target.SpreadsheetID, res.Range, rows)
		}
	} else {
		written, err = e.writer.Replace(ctx, target.SpreadsheetID, res.Range, append([][]any{Header}, rows...))
	}
	if err != nil {
		return Result{}, fmt.Errorf("export: write %s: %w", res.Range, err)
	}

	res.RowsWritten = written
	res.CompletedAt = time.Now().UTC()
	e.logger.Info("applications exported",
		"job_id", jobID, "spreadsheet_id", target.SpreadsheetID, "rows", written, "by", actor.UserID)
	return res, nil
}

// Rows renders one spreadsheet row per application
func Rows(apps []domain.Application) [][]any {
	return lo.Map(apps, func(a domain.Application, _ int) []any {
		return []any{
			a.Contact.Name,
			a.Contact.Email,
			a.Contact.Phone,
			strings.Join(a.Skills, ", "),
			a.Experience,
			string(a.Status),
			a.AppliedAt.Format(time.DateOnly),
			a.Review.ReviewedBy,
			a.Review.Notes,
		}
	})
}
