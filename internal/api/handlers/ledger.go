package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/talx-hub/gopher-rewards/internal/api/dto"
	"github.com/talx-hub/gopher-rewards/internal/audit"
	"github.com/talx-hub/gopher-rewards/internal/ledger"
	"github.com/talx-hub/gopher-rewards/internal/model"
	"github.com/talx-hub/gopher-rewards/internal/model/entry"
	"github.com/talx-hub/gopher-rewards/internal/serviceerrs"
	"github.com/talx-hub/gopher-rewards/internal/telemetry"
)

type Ledger interface {
	Balance(ctx context.Context, accountID string) (model.Amount, error)
	Append(ctx context.Context, p entry.Params) (entry.Entry, error)
	History(ctx context.Context, accountID string, limit, offset int) (ledger.Page, error)
}

type LedgerHandler struct {
	logger  *slog.Logger
	ledger  Ledger
	audit   *audit.Logger
	metrics *telemetry.Metrics
}

func NewLedgerHandler(l Ledger, a *audit.Logger, m *telemetry.Metrics, log *slog.Logger) *LedgerHandler {
	return &LedgerHandler{
		logger:  log,
		ledger:  l,
		audit:   a,
		metrics: m,
	}
}

func (h *LedgerHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	accountID, err := accountFromContext(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	balance, err := h.ledger.Balance(r.Context(), accountID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.BalanceResponse{
		AccountID: accountID,
		Balance:   balance,
		Currency:  model.Currency,
	})
}

func (h *LedgerHandler) History(w http.ResponseWriter, r *http.Request) {
	accountID, err := accountFromContext(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, r, err)
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		writeError(w, r, err)
		return
	}

	page, err := h.ledger.History(r.Context(), accountID, limit, offset)
	if err != nil {
		writeError(w, r, err)
		return
	}

	transactions := page.Entries
	if transactions == nil {
		transactions = make([]entry.Entry, 0)
	}
	writeJSON(w, r, http.StatusOK, dto.HistoryResponse{
		Transactions: transactions,
		Total:        page.Total,
		Limit:        page.Limit,
		Offset:       page.Offset,
	})
}

func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", serviceerrs.ErrInvalidInput, name)
	}
	return v, nil
}

func (h *LedgerHandler) Earn(w http.ResponseWriter, r *http.Request) {
	h.appendEntry(w, r, entry.ReasonEarn)
}

func (h *LedgerHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	h.appendEntry(w, r, entry.ReasonRedeem)
}

func (h *LedgerHandler) appendEntry(w http.ResponseWriter, r *http.Request, reason entry.Reason) {
	accountID, err := accountFromContext(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req dto.EntryRequest
	if err = decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err = req.IsValid(reason); err != nil {
		writeError(w, r, fmt.Errorf("%w: %w", serviceerrs.ErrInvalidInput, err))
		return
	}

	e, err := h.ledger.Append(r.Context(), req.ToParams(accountID, reason))
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.audit.Transaction(r.Context(), e, audit.RemoteAddr(r.Context()))
	h.metrics.RecordEntry(r.Context(), string(e.Reason))
	h.logger.LogAttrs(r.Context(),
		slog.LevelInfo,
		"ledger entry created",
		slog.String("entry_id", e.ID),
		slog.String("reason", string(e.Reason)),
		slog.String("amount", e.Amount.String()),
	)

	writeJSON(w, r, http.StatusCreated, e)
}
