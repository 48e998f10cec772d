package in

import (
	"context"

	"jobtrack/internal/modules/tracker/dto"
	trackerin "jobtrack/internal/modules/tracker/port/in"
)

type CLIHandler struct {
	usecase trackerin.Usecase
}

func NewCLIHandler(usecase trackerin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Create(ctx context.Context, date, company, role, kind, contact, status, notes string) (dto.RecordOutput, error) {
	return h.usecase.CreateRecord(ctx, dto.CreateInput{
		Date:    date,
		Company: company,
		Role:    role,
		Type:    kind,
		Contact: contact,
		Status:  status,
		Notes:   notes,
	})
}

func (h CLIHandler) List(ctx context.Context) ([]dto.RecordOutput, error) {
	return h.usecase.ListRecords(ctx)
}

func (h CLIHandler) Filter(ctx context.Context, statuses, types []string) ([]dto.RecordOutput, error) {
	return h.usecase.FilterRecords(ctx, dto.FilterInput{Statuses: statuses, Types: types})
}

func (h CLIHandler) Options(ctx context.Context) (dto.FilterOptionsOutput, error) {
	return h.usecase.FilterOptions(ctx)
}

func (h CLIHandler) Reconcile(ctx context.Context, pre []dto.RecordOutput, post []dto.EditedRowInput) (dto.ReconcileOutput, error) {
	return h.usecase.Reconcile(ctx, dto.ReconcileInput{Pre: pre, Post: post})
}

func (h CLIHandler) Summary(ctx context.Context) (dto.SummaryOutput, error) {
	return h.usecase.Summary(ctx)
}

func (h CLIHandler) Export(ctx context.Context, sessionID, label string) (dto.ExportOutput, error) {
	return h.usecase.Export(ctx, dto.ExportInput{SessionID: sessionID, Label: label})
}
