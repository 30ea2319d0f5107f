package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"

	"TodoPlans/db"
)

var errBadBody = db.BadRequest("Invalid request body")

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func statusFor(kind db.Kind) int {
	switch kind {
	case db.KindNotFound:
		return http.StatusNotFound
	case db.KindConflict:
		// a taken username has always been reported as 400
		return http.StatusBadRequest
	case db.KindBadRequest:
		return http.StatusBadRequest
	case db.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func (a *API) writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := db.KindOf(err)
	if kind == db.KindInternal {
		a.Logger.WithError(err).WithField("path", r.URL.Path).Error("request failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	writeJSON(w, statusFor(kind), map[string]string{"error": err.Error()})
}

// decodeBody reads a JSON body into v. An empty body leaves v untouched.
func decodeBody(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return nil
	}
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return errBadBody
	}
	return nil
}
