package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dmitrijs2005/guestwifi/internal/common"
)

var errRouteNotFound = common.NotFound("")

// errorResponse is the envelope every failed request is answered with.
type errorResponse struct {
	Title         string                `json:"title"`
	InvalidParams []common.InvalidParam `json:"invalid-params"`
}

func (s *Server) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	e := common.AsError(err)
	status := e.Kind.HTTPStatus()
	if status >= http.StatusInternalServerError {
		s.log.Error(ctx, "request failed", "error", err)
	} else {
		s.log.Info(ctx, "request rejected", "kind", e.Kind.String(), "error", err)
	}

	title := e.Message
	if e.Kind == common.KindInternal {
		title = common.MessageInternal
	}
	params := e.InvalidParams
	if params == nil {
		params = []common.InvalidParam{}
	}
	writeJSON(w, status, errorResponse{Title: title, InvalidParams: params})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
