package in

import (
	"context"

	sessiondto "jobtrack/internal/modules/session/dto"
	sessionin "jobtrack/internal/modules/session/port/in"
	trackerin "jobtrack/internal/modules/tracker/port/in"
)

type CLIHandler struct {
	usecase sessionin.Usecase
}

func NewCLIHandler(usecase sessionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Start(ctx context.Context, label string) (sessiondto.StartOutput, error) {
	return h.usecase.Start(ctx, sessiondto.StartInput{Label: label})
}

func (h CLIHandler) Tracker(ctx context.Context, sessionID string) (trackerin.Usecase, error) {
	return h.usecase.Tracker(ctx, sessionID)
}

func (h CLIHandler) End(ctx context.Context, sessionID string, exportReport bool) (sessiondto.EndOutput, error) {
	return h.usecase.End(ctx, sessiondto.EndInput{SessionID: sessionID, ExportReport: exportReport})
}

func (h CLIHandler) List(ctx context.Context) ([]sessiondto.SessionOutput, error) {
	return h.usecase.List(ctx)
}
