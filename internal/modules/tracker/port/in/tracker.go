package in

import (
	"context"

	"jobtrack/internal/modules/tracker/dto"
)

type Usecase interface {
	CreateRecord(ctx context.Context, input dto.CreateInput) (dto.RecordOutput, error)
	ListRecords(ctx context.Context) ([]dto.RecordOutput, error)
	FilterRecords(ctx context.Context, input dto.FilterInput) ([]dto.RecordOutput, error)
	FilterOptions(ctx context.Context) (dto.FilterOptionsOutput, error)
	Reconcile(ctx context.Context, input dto.ReconcileInput) (dto.ReconcileOutput, error)
	Summary(ctx context.Context) (dto.SummaryOutput, error)
	Export(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error)
}
