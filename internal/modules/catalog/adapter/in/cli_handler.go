package in

import (
	"context"

	"pageturn/internal/modules/catalog/dto"
	catalogin "pageturn/internal/modules/catalog/port/in"
)

type CLIHandler struct {
	usecase catalogin.Usecase
}

func NewCLIHandler(usecase catalogin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) GetBook(ctx context.Context, bookID string) (dto.BookOutput, error) {
	return h.usecase.GetBook(ctx, bookID)
}

func (h CLIHandler) RegisterBook(ctx context.Context, input dto.RegisterBookInput) (dto.BookOutput, error) {
	return h.usecase.RegisterBook(ctx, input)
}

func (h CLIHandler) EnsurePageCount(ctx context.Context, bookID string) (dto.EnsurePageCountOutput, error) {
	return h.usecase.EnsurePageCount(ctx, bookID)
}

func (h CLIHandler) ListProviderPlugins(ctx context.Context) ([]dto.ProviderPluginInfo, error) {
	return h.usecase.ListProviderPlugins(ctx)
}

func (h CLIHandler) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	return h.usecase.Doctor(ctx)
}
