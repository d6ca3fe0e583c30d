package api

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/hearth-ledger/hearth/internal/domain"
)

// StatusFor maps a domain error onto an HTTP status. It is the only place
// that decides status codes.
func StatusFor(err error) int {
	switch domain.KindOf(err) {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Entity  string `json:"entity,omitempty"`
}

// writeError renders err as the standard error envelope. Unexpected
// failures are logged in full and answered with a generic message.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	detail := errorDetail{Code: domain.Code(err), Message: err.Error()}
	if de := asDomainError(err); de != nil {
		detail.Entity = de.Entity
		if de.Message != "" {
			detail.Message = de.Message
		}
	}
	if domain.KindOf(err) == domain.KindUnexpected {
		s.log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		detail.Message = "internal server error"
	}
	writeJSON(w, StatusFor(err), errorBody{Error: detail})
}
