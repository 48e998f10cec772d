package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"jobtrack/internal/modules/tracker/domain"
	"jobtrack/internal/modules/tracker/dto"
	trackerin "jobtrack/internal/modules/tracker/port/in"
	"jobtrack/internal/modules/tracker/service"
	apperrors "jobtrack/internal/platform/errors"
	"jobtrack/internal/platform/logging"
)

type Interactor struct {
	svc    *service.RecordService
	logger *slog.Logger
}

func NewInteractor(svc *service.RecordService, logger *slog.Logger) trackerin.Usecase {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Interactor{svc: svc, logger: logger}
}

func (i *Interactor) CreateRecord(ctx context.Context, input dto.CreateInput) (dto.RecordOutput, error) {
	record, err := i.svc.Create(ctx, domain.Draft{
		Date:    input.Date,
		Company: input.Company,
		Role:    input.Role,
		Type:    input.Type,
		Contact: input.Contact,
		Status:  input.Status,
		Notes:   input.Notes,
	})
	if err != nil {
		i.logger.Warn("create record rejected", "company", input.Company, "err", err)
		return dto.RecordOutput{}, err
	}
	i.logger.Info("record created", "id", record.ID, "company", record.Company, "status", record.Status)
	return toRecordOutput(record.ID, record.Fields), nil
}

func (i *Interactor) ListRecords(ctx context.Context) ([]dto.RecordOutput, error) {
	records, err := i.svc.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RecordOutput, 0, len(records))
	for _, record := range records {
		out = append(out, toRecordOutput(record.ID, record.Fields))
	}
	return out, nil
}

func (i *Interactor) FilterRecords(ctx context.Context, input dto.FilterInput) ([]dto.RecordOutput, error) {
	filter, err := domain.ParseFilter(input.Statuses, input.Types)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrInvalidInput, err)
	}
	rows, err := i.svc.Filter(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RecordOutput, 0, len(rows))
	for _, row := range rows {
		out = append(out, toRecordOutput(row.ID, row.Fields))
	}
	return out, nil
}

func (i *Interactor) FilterOptions(ctx context.Context) (dto.FilterOptionsOutput, error) {
	statuses, kinds, err := i.svc.Options(ctx)
	if err != nil {
		return dto.FilterOptionsOutput{}, err
	}
	out := dto.FilterOptionsOutput{
		Statuses: make([]string, 0, len(statuses)),
		Types:    make([]string, 0, len(kinds)),
	}
	for _, s := range statuses {
		out.Statuses = append(out.Statuses, string(s))
	}
	for _, t := range kinds {
		out.Types = append(out.Types, string(t))
	}
	return out, nil
}

func (i *Interactor) Reconcile(ctx context.Context, input dto.ReconcileInput) (dto.ReconcileOutput, error) {
	pre := make([]domain.ViewRow, 0, len(input.Pre))
	for idx, row := range input.Pre {
		viewRow, err := toViewRow(row)
		if err != nil {
			return dto.ReconcileOutput{}, fmt.Errorf("%w: pre-edit row %d: %w", apperrors.ErrInvalidInput, idx, err)
		}
		pre = append(pre, viewRow)
	}
	post := make([]domain.EditedRow, 0, len(input.Post))
	for _, row := range input.Post {
		post = append(post, domain.EditedRow{ID: row.ID, Patch: domain.Patch{
			Date:    row.Date,
			Company: row.Company,
			Role:    row.Role,
			Type:    row.Type,
			Contact: row.Contact,
			Status:  row.Status,
			Notes:   row.Notes,
		}})
	}

	outcome, err := i.svc.Reconcile(ctx, pre, post)
	if err != nil {
		i.logger.Error("reconcile failed", "err", err)
		return dto.ReconcileOutput{}, err
	}
	for _, rowErr := range outcome.Errors {
		i.logger.Warn("row rejected", "row", rowErr.Row, "id", rowErr.ID, "err", rowErr.Err)
	}
	i.logger.Info("reconcile applied",
		"added", len(outcome.Added),
		"updated", len(outcome.Updated),
		"deleted", len(outcome.Deleted),
		"rejected", len(outcome.Errors),
	)

	out := dto.ReconcileOutput{
		Records: make([]dto.RecordOutput, 0, len(outcome.Records)),
		Added:   outcome.Added,
		Updated: outcome.Updated,
		Deleted: outcome.Deleted,
	}
	for _, record := range outcome.Records {
		out.Records = append(out.Records, toRecordOutput(record.ID, record.Fields))
	}
	for _, rowErr := range outcome.Errors {
		out.Errors = append(out.Errors, dto.RowErrorOutput{Row: rowErr.Row, ID: rowErr.ID, Message: rowErr.Error(), Err: rowErr})
	}
	return out, nil
}

func (i *Interactor) Summary(ctx context.Context) (dto.SummaryOutput, error) {
	summary, err := i.svc.Summary(ctx)
	if err != nil {
		return dto.SummaryOutput{}, err
	}
	return toSummaryOutput(summary), nil
}

func (i *Interactor) Export(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error) {
	path, report, err := i.svc.Export(ctx, input.SessionID, input.Label)
	if err != nil {
		i.logger.Error("export failed", "session", input.SessionID, "err", err)
		return dto.ExportOutput{}, err
	}
	i.logger.Info("report exported", "session", input.SessionID, "path", path, "records", len(report.Records))
	return dto.ExportOutput{Path: path, Records: len(report.Records)}, nil
}

func toRecordOutput(recordID string, f domain.Fields) dto.RecordOutput {
	return dto.RecordOutput{
		ID:      recordID,
		Date:    f.Date.Format(domain.DateLayout),
		Company: f.Company,
		Role:    f.Role,
		Type:    string(f.Type),
		Contact: f.Contact,
		Status:  string(f.Status),
		Notes:   f.Notes,
	}
}

func toViewRow(row dto.RecordOutput) (domain.ViewRow, error) {
	if row.ID == "" {
		return domain.ViewRow{}, fmt.Errorf("id is required")
	}
	fields, err := domain.Draft{
		Date:    row.Date,
		Company: row.Company,
		Role:    row.Role,
		Type:    row.Type,
		Contact: row.Contact,
		Status:  row.Status,
		Notes:   row.Notes,
	}.Resolve(time.Time{})
	if err != nil {
		return domain.ViewRow{}, err
	}
	return domain.ViewRow{ID: row.ID, Fields: fields}, nil
}

func toSummaryOutput(summary domain.Summary) dto.SummaryOutput {
	out := dto.SummaryOutput{Total: summary.Total}
	for _, s := range domain.Statuses() {
		out.ByStatus = append(out.ByStatus, dto.CountOutput{Value: string(s), Count: summary.ByStatus[s]})
	}
	for _, t := range domain.InteractionTypes() {
		out.ByType = append(out.ByType, dto.CountOutput{Value: string(t), Count: summary.ByType[t]})
	}
	return out
}
