package server

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/teranos/chartparse/errors"
	"github.com/teranos/chartparse/logger"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		return errors.Wrap(err, "failed to encode JSON")
	}
	return nil
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error string   `json:"error"`
	Hints []string `json:"hints,omitempty"`
}

// writeError writes a JSON error response
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Error: message})
}

// writeWrappedError logs err with context and writes it with the status
// errorStatus picks, or fallback when none applies. Hints attached to err
// are passed on to the client.
func writeWrappedError(w http.ResponseWriter, log *zap.SugaredLogger, err error, context string, fallback int) {
	status := errorStatus(err, fallback)
	if status >= http.StatusInternalServerError {
		log.Errorw(context, logger.FieldError, err, logger.FieldStatus, status)
	} else {
		log.Debugw(context, logger.FieldError, err, logger.FieldStatus, status)
	}
	writeJSON(w, status, errorBody{
		Error: errors.Wrap(err, context).Error(),
		Hints: errors.GetAllHints(err),
	})
}

// readJSON decodes a JSON request body, answering 400 on failure.
func readJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return err
	}
	return nil
}
