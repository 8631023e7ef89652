package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"pizza-ordering/internal/dto/request"
	"pizza-ordering/internal/usecase"
	"pizza-ordering/pkg/utils"

	"go.uber.org/zap"
)

// handleServiceError maps usecase error kinds to HTTP responses.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var svcErr *usecase.Error
	if !errors.As(err, &svcErr) {
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseServerError(w, "Internal server error", err)
		return
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidInput),
		errors.Is(err, usecase.ErrInvalidTransition),
		errors.Is(err, usecase.ErrImmutableOrder),
		errors.Is(err, usecase.ErrConflict):
		var fields any
		if len(svcErr.Fields) > 0 {
			fields = svcErr.Fields
			log.Warn(operation+" validation failed", zap.String("fields", utils.FormatValidationErrors(svcErr.Fields)))
		} else {
			log.Warn(operation+" rejected", zap.String("reason", svcErr.Message))
		}
		utils.ResponseBadRequest(w, svcErr.Message, fields)

	case errors.Is(err, usecase.ErrUnauthorized):
		log.Warn(operation+" failed - unauthorized", zap.String("reason", svcErr.Message))
		utils.ResponseUnauthorized(w, svcErr.Message)

	case errors.Is(err, usecase.ErrForbidden):
		log.Warn(operation+" failed - forbidden", zap.String("reason", svcErr.Message))
		utils.ResponseForbidden(w, svcErr.Message)

	case errors.Is(err, usecase.ErrNotFound):
		log.Warn(operation+" failed - not found", zap.String("reason", svcErr.Message))
		utils.ResponseNotFound(w, svcErr.Message)

	default:
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseServerError(w, svcErr.Message, svcErr.Err)
	}
}

// decodeJSON writes the 400 itself and reports false on a bad body.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return false
	}
	return true
}

func parsePagination(r *http.Request) request.PaginatedRequest {
	query := r.URL.Query()
	return request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}
}

// parseOrderQuery reads page, per_page, status, from and to.
func parseOrderQuery(w http.ResponseWriter, r *http.Request) (*request.OrderQuery, bool) {
	query := r.URL.Query()
	q := &request.OrderQuery{
		PaginatedRequest: parsePagination(r),
		Status:           query.Get("status"),
	}

	from, err := utils.ParseTimePtr(query.Get("from"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid from date", nil)
		return nil, false
	}
	to, err := utils.ParseEndTimePtr(query.Get("to"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid to date", nil)
		return nil, false
	}
	q.From, q.To = from, to
	return q, true
}
