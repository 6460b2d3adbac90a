package api

import (
	"encoding/json"
	"errors"
	"net/http"
)

// errorResponse is the error envelope every failing route returns.
type errorResponse struct {
	Error     string   `json:"error"`
	Details   []string `json:"details,omitempty"`
	RequestID string   `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg, RequestID: w.Header().Get("X-Request-Id")})
}

// writeInvalid reports a 422, listing each problem when err carries them.
func writeInvalid(w http.ResponseWriter, err error) {
	resp := errorResponse{Error: "validation failed", RequestID: w.Header().Get("X-Request-Id")}
	var verr *validationError
	if errors.As(err, &verr) {
		resp.Details = verr.problems
	} else {
		resp.Error = err.Error()
	}
	writeJSON(w, http.StatusUnprocessableEntity, resp)
}
