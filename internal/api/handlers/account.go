package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/talx-hub/gopher-rewards/internal/api/dto"
	"github.com/talx-hub/gopher-rewards/internal/serviceerrs"
)

type PaymentAccountLinker interface {
	LinkPaymentAccount(ctx context.Context, accountID, paymentRef string) error
}

type PaymentAccountHandler struct {
	logger *slog.Logger
	repo   PaymentAccountLinker
}

func NewPaymentAccountHandler(repo PaymentAccountLinker, log *slog.Logger) *PaymentAccountHandler {
	return &PaymentAccountHandler{
		logger: log,
		repo:   repo,
	}
}

// Link maps the caller to its gateway account so transfers to that account
// are credited to them.
func (h *PaymentAccountHandler) Link(w http.ResponseWriter, r *http.Request) {
	accountID, err := accountFromContext(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req dto.PaymentAccountRequest
	if err = decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err = req.IsValid(); err != nil {
		writeError(w, r, fmt.Errorf("%w: %w", serviceerrs.ErrInvalidInput, err))
		return
	}

	if err = h.repo.LinkPaymentAccount(r.Context(), accountID, req.PaymentRef); err != nil {
		writeError(w, r, err)
		return
	}

	h.logger.LogAttrs(r.Context(),
		slog.LevelInfo,
		"payment account linked",
		slog.String("payment_ref", req.PaymentRef),
	)
	w.WriteHeader(http.StatusNoContent)
}
