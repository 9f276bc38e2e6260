package worker

import (
	"context"
	"fmt"

	"savoria/internal/infra"
	"savoria/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ReportWorker renders a PDF summary of a committed reconciliation batch.
// Runs outside the commit transaction; a failed render never affects the
// already-durable batch.
type ReportWorker struct {
	history     repository.SaleHistoryRepository
	storagePath string
}

func NewReportWorker(history repository.SaleHistoryRepository, storagePath string) *ReportWorker {
	return &ReportWorker{history: history, storagePath: storagePath}
}

func (w *ReportWorker) Process(ctx context.Context, payload ReportPayload) error {
	batchID, err := uuid.Parse(payload.BatchID)
	if err != nil {
		return fmt.Errorf("report: invalid batch id %q: %w", payload.BatchID, err)
	}

	rows, err := w.history.ListByBatchID(ctx, batchID)
	if err != nil {
		return fmt.Errorf("report: load history for batch %s: %w", payload.BatchID, err)
	}

	report := &infra.BatchReport{
		BatchID:        payload.BatchID,
		SaleDate:       payload.SaleDate,
		SalesProcessed: payload.SalesProcessed,
		SalesSkipped:   payload.SalesSkipped,
		TotalRevenue:   payload.TotalRevenue,
		TotalCost:      payload.TotalCost,
		TotalProfit:    payload.TotalProfit,
	}
	for _, row := range rows {
		report.Lines = append(report.Lines, infra.BatchReportLine{
			ProductName: row.ProductName,
			Quantity:    row.Quantity.String(),
			Revenue:     row.Revenue.StringFixed(2),
			Cost:        row.Cost.StringFixed(2),
			Profit:      row.Profit.StringFixed(2),
		})
	}

	path, err := infra.GenerateBatchReportPDF(report, w.storagePath)
	if err != nil {
		return err
	}
	log.Info().Str("batch_id", payload.BatchID).Str("path", path).Msg("batch report generated")
	return nil
}
