package handlers

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/talx-hub/gopher-rewards/internal/api/dto"
	"github.com/talx-hub/gopher-rewards/internal/model"
	"github.com/talx-hub/gopher-rewards/internal/model/event"
	"github.com/talx-hub/gopher-rewards/internal/serviceerrs"
)

const maxWebhookBody = 64 << 10

type WebhookIngester interface {
	Ingest(ctx context.Context, payload []byte, signature string) (event.Outcome, error)
}

type WebhookHandler struct {
	logger     *slog.Logger
	reconciler WebhookIngester
}

func NewWebhookHandler(ingester WebhookIngester, log *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		logger:     log,
		reconciler: ingester,
	}
}

// Payment receives gateway deliveries. The body is read raw: the signature
// covers the exact bytes.
func (h *WebhookHandler) Payment(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: failed to read body: %w", serviceerrs.ErrInvalidInput, err))
		return
	}

	outcome, err := h.reconciler.Ingest(r.Context(), payload, r.Header.Get(model.HeaderSignature))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.WebhookResponse{Outcome: outcome, Received: true})
}
