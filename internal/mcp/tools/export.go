package tools

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/alumni-jobs/internal/domain"
	"github.com/honeycarbs/alumni-jobs/internal/export"
)

// ExportApplicationsParams defines the arguments for the export_applications tool
type ExportApplicationsParams struct {
	Actor  domain.Actor  `json:"actor"`
	JobID  string        `json:"job_id"`
	Target export.Target `json:"target"`
}

// WithExportTool registers export_applications when a sheets writer is configured
func WithExportTool(exp *export.Exporter) Option {
	return func(reg *registry) {
		if exp == nil || !exp.Enabled() {
			reg.logger.Info("sheets export not configured, export_applications skipped")
			return
		}
		add(reg, "export_applications", "Write a job's applications to a Google Sheets tab",
			func(ctx context.Context, _ *sdkmcp.CallToolRequest, in ExportApplicationsParams) (*sdkmcp.CallToolResult, any, error) {
				jobID, err := parseID("job_id", in.JobID)
				if err != nil {
					return nil, nil, err
				}
				res, err := exp.ExportApplications(ctx, in.Actor, jobID, in.Target)
				if err != nil {
					return nil, nil, err
				}
				msg := fmt.Sprintf("[export_applications] wrote %s for %s to %s",
					plural(res.RowsWritten, "row"), res.Position, res.Range)
				return textResult(msg), res, nil
			})
	}
}
