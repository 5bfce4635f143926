package server

import (
	"encoding/json"
	"net/http"

	"github.com/epit3d/spycer/pkg/errors"
)

type errorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps an error code to an HTTP status. indexInPath selects 404
// over 400 for out-of-range indices taken from the URL.
func statusFor(err error, indexInPath bool) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeIllegalOperation:
		return http.StatusForbidden
	case errors.ErrCodeIndexOutOfRange:
		if indexInPath {
			return http.StatusNotFound
		}
		return http.StatusBadRequest
	case errors.ErrCodeLoadFailure:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFigure, errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeSlicerFailed:
		return http.StatusBadGateway
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error, indexInPath bool) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, statusFor(err, indexInPath), map[string]errorBody{
		"error": {Code: code, Message: errors.UserMessage(err)},
	})
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}
