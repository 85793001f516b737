package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	submissionStore "convocation/internal/adapters/storage/submission"
	"convocation/internal/domain/application"
	"convocation/internal/domain/export"
	"convocation/internal/domain/submission"
	"convocation/internal/metrics"
	"convocation/internal/report"
)

// SubmissionStoreForExport lists stored submissions.
type SubmissionStoreForExport interface {
	List(ctx context.Context, filter submissionStore.ListFilter) ([]submission.Submission, error)
}

// ExportReportInput selects the layout; empty means the assembler's default.
type ExportReportInput struct {
	Layout string
}

// ExportReportDeps holds dependencies for ExportReport.
type ExportReportDeps struct {
	Submissions SubmissionStoreForExport
	Assembler   *report.Assembler
	Now         func() time.Time
}

// ErrExportFailed is what callers show when a report could not be produced.
var ErrExportFailed = errors.New("failed to generate PDF report")

// ExecuteExportReport fetches every leadership application, newest first, and
// renders them into one PDF.
// PRE: deps.Assembler is configured
// POST: Returns a complete artifact, or an error wrapping ErrExportFailed (or
// export.ErrUnknownLayout for a bad layout) and no artifact
func ExecuteExportReport(ctx context.Context, input ExportReportInput, deps ExportReportDeps) (export.Artifact, error) {
	asm := deps.Assembler
	if input.Layout != "" && input.Layout != asm.Layout() {
		var err error
		if asm, err = asm.WithLayout(input.Layout); err != nil {
			return export.Artifact{}, err
		}
	}
	layout := asm.Layout()
	start := time.Now()

	subs, err := deps.Submissions.List(ctx, submissionStore.ListFilter{Kind: submission.KindLeadership})
	if err != nil {
		return exportFailed(layout, fmt.Errorf("list applications: %w", err))
	}
	records, err := application.FromSubmissions(subs)
	if err != nil {
		return exportFailed(layout, err)
	}

	art, err := asm.Build(records, deps.Now())
	if err != nil {
		return exportFailed(layout, err)
	}
	if err := art.Validate(); err != nil {
		return exportFailed(layout, err)
	}

	metrics.ReportExports.WithLabelValues(layout, metrics.OutcomeOK).Inc()
	metrics.ReportPages.Observe(float64(art.Pages))
	metrics.ReportDuration.WithLabelValues(layout).Observe(time.Since(start).Seconds())
	slog.Info("report_exported", "layout", layout, "records", len(records), "pages", art.Pages, "bytes", len(art.Data))
	return art, nil
}

func exportFailed(layout string, err error) (export.Artifact, error) {
	metrics.ReportExports.WithLabelValues(layout, metrics.OutcomeError).Inc()
	slog.Error("report_export_failed", "layout", layout, "error", err)
	return export.Artifact{}, fmt.Errorf("%w: %w", ErrExportFailed, err)
}
