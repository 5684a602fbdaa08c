package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/talx-hub/gopher-rewards/internal/api/dto"
	"github.com/talx-hub/gopher-rewards/internal/serviceerrs"
	"github.com/talx-hub/gopher-rewards/internal/spend"
)

// HeaderIdempotencyKey lets a client retry a spend without a second
// authorization.
const HeaderIdempotencyKey = "Idempotency-Key"

type Spender interface {
	Spend(ctx context.Context, req spend.Request) (spend.Result, error)
}

type SpendHandler struct {
	logger  *slog.Logger
	spender Spender
}

func NewSpendHandler(s Spender, log *slog.Logger) *SpendHandler {
	return &SpendHandler{
		logger:  log,
		spender: s,
	}
}

func (h *SpendHandler) Spend(w http.ResponseWriter, r *http.Request) {
	accountID, err := accountFromContext(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req dto.SpendRequest
	if err = decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err = req.IsValid(); err != nil {
		writeError(w, r, fmt.Errorf("%w: %w", serviceerrs.ErrInvalidInput, err))
		return
	}

	res, err := h.spender.Spend(r.Context(), spend.Request{
		AccountID:  accountID,
		MerchantID: req.MerchantID,
		RequestID:  r.Header.Get(HeaderIdempotencyKey),
		Items:      req.ToItems(),
		Amount:     req.Amount,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK,
		dto.NewSpendResponse(res.Entry, res.Evaluation.Decision, res.Charged, res.ExternalRef))
}
