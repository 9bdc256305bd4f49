package accountshandlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	accountsservice "github.com/Black-And-White-Club/accounts-bot/app/modules/accounts/application"
	"github.com/Black-And-White-Club/accounts-bot/internal/observability"
	"github.com/go-chi/chi/v5"
)

// HandleHTTPAccountSummary serves GET /users/{id}/profile.
func (h *AccountsHandlers) HandleHTTPAccountSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "AccountsHandlers.HandleHTTPAccountSummary")
	defer span.End()

	userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || userID <= 0 {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	result, err := h.service.GetAccountSummary(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "Account summary failed",
			slog.Int64("user_id", userID),
			observability.ErrorAttr(err),
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if result.IsFailure() {
		if errors.Is(*result.Failure, accountsservice.ErrUserNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		http.Error(w, (*result.Failure).Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(*result.Success); err != nil {
		h.logger.WarnContext(ctx, "Failed to write account summary", observability.ErrorAttr(err))
	}
}
