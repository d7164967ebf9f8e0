package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	deliveryUsecase "github.com/allisson/webhooks/internal/delivery/usecase"
)

// RunCleanDeliveryLogs deletes delivery log entries older than the given number of days.
// Dry-run mode only counts the matching entries.
//
// Requirements: Database must be migrated and accessible.
func RunCleanDeliveryLogs(
	ctx context.Context,
	deliveryLogUseCase deliveryUsecase.DeliveryLogUseCase,
	logger *slog.Logger,
	writer io.Writer,
	days int,
	dryRun bool,
	format string,
) error {
	if days < 0 {
		return fmt.Errorf("days must be a positive number, got: %d", days)
	}

	logger.Info("cleaning delivery logs",
		slog.Int("days", days),
		slog.Bool("dry_run", dryRun),
	)

	count, err := deliveryLogUseCase.DeleteOlderThan(ctx, days, dryRun)
	if err != nil {
		return fmt.Errorf("failed to delete delivery logs: %w", err)
	}

	if format == "json" {
		if err := writeJSON(writer, map[string]any{
			"count":   count,
			"days":    days,
			"dry_run": dryRun,
		}); err != nil {
			return err
		}
	} else {
		outputCleanText(writer, count, days, dryRun)
	}

	logger.Info("cleanup completed",
		slog.Int64("count", count),
		slog.Int("days", days),
		slog.Bool("dry_run", dryRun),
	)

	return nil
}

func outputCleanText(writer io.Writer, count int64, days int, dryRun bool) {
	if dryRun {
		_, _ = fmt.Fprintf(writer, "Dry-run mode: Would delete %d delivery log(s) older than %d day(s)\n", count, days)
		return
	}
	_, _ = fmt.Fprintf(writer, "Successfully deleted %d delivery log(s) older than %d day(s)\n", count, days)
}
