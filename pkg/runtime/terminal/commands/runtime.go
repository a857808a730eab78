package commands

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/de-tools/takeoff/pkg/models/domain"
	"github.com/de-tools/takeoff/pkg/runtime/app"
	"github.com/de-tools/takeoff/pkg/runtime/terminal/export"
	"github.com/rs/zerolog"
)

const commandTimeout = 60 * time.Second

// ReportHandler prints a report.
type ReportHandler interface {
	Handle(report *domain.Report) error
}

// Runtime is what the root command hands its subcommands once it has
// bootstrapped.
type Runtime interface {
	Services() (*app.Services, error)
	DB() (*sql.DB, error)
	Reporter() ReportHandler
}

// render prints the report and, when xlsxPath is set, writes the bill of
// materials workbook.
func render(ctx context.Context, rt Runtime, report *domain.Report, xlsxPath string) error {
	if xlsxPath != "" {
		data, err := export.GenerateExcel(report)
		if err != nil {
			return fmt.Errorf("failed to generate workbook: %w", err)
		}
		if err := os.WriteFile(xlsxPath, data, 0o644); err != nil {
			return fmt.Errorf("failed to write workbook: %w", err)
		}
		zerolog.Ctx(ctx).Info().Str("path", xlsxPath).Int("items", len(report.Items)).Msg("workbook written")
	}
	return rt.Reporter().Handle(report)
}
