package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/talx-hub/gopher-rewards/internal/api/dto"
	"github.com/talx-hub/gopher-rewards/internal/model"
	"github.com/talx-hub/gopher-rewards/internal/serviceerrs"
	"github.com/talx-hub/gopher-rewards/internal/utils/logger"
)

const contentTypeJSON = "application/json"

var errNoAccountInContext = errors.New("no account in request context")

func accountFromContext(r *http.Request) (string, error) {
	accountID, ok := r.Context().Value(model.KeyContextAccountID).(string)
	if !ok || accountID == "" {
		return "", errNoAccountInContext
	}
	return accountID, nil
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: malformed body: %w", serviceerrs.ErrInvalidInput, err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, r *http.Request, code int, v any) {
	w.Header().Set(model.HeaderContentType, contentTypeJSON)
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(r.Context()).LogAttrs(r.Context(),
			slog.LevelError,
			"failed to encode response",
			slog.Any(model.KeyLoggerError, err),
		)
	}
}

// writeError maps service errors to status codes. Only invalid input
// reports its cause to the client; everything else is logged.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		insufficient *serviceerrs.InsufficientFundsError
		policyErr    *serviceerrs.PolicyError
		code         int
		resp         dto.ErrorResponse
	)

	switch {
	case errors.As(err, &insufficient):
		code = http.StatusPaymentRequired
		resp = dto.ErrorResponse{
			Error:    "insufficient funds",
			Balance:  &insufficient.Balance,
			Required: &insufficient.Required,
		}
	case errors.As(err, &policyErr):
		code = http.StatusForbidden
		resp = dto.ErrorResponse{
			Error:          policyErr.Error(),
			Decision:       policyErr.Decision,
			ApprovedAmount: &policyErr.Approved,
		}
	case errors.Is(err, serviceerrs.ErrBadSignature):
		code = http.StatusBadRequest
		resp = dto.ErrorResponse{Error: "invalid signature"}
	case errors.Is(err, serviceerrs.ErrInvalidInput):
		code = http.StatusBadRequest
		resp = dto.ErrorResponse{Error: "invalid input", Detail: err.Error()}
	case errors.Is(err, serviceerrs.ErrAuthorizationFailed):
		code = http.StatusBadGateway
		resp = dto.ErrorResponse{Error: "payment authorization failed"}
	case errors.Is(err, serviceerrs.ErrTokenExpired):
		code = http.StatusUnauthorized
		resp = dto.ErrorResponse{Error: "authentication failed"}
	case errors.Is(err, serviceerrs.ErrConflict):
		code = http.StatusConflict
		resp = dto.ErrorResponse{Error: "conflict"}
	default:
		code = http.StatusInternalServerError
		resp = dto.ErrorResponse{Error: "internal server error"}
	}

	level := slog.LevelWarn
	if code >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	logger.FromContext(r.Context()).LogAttrs(r.Context(),
		level,
		"request failed",
		slog.String("path", r.URL.Path),
		slog.Int("code", code),
		slog.Any(model.KeyLoggerError, err),
	)

	writeJSON(w, r, code, resp)
}
