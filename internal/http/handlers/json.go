// Package handlers implementa los endpoints HTTP del servicio.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	httpErrors "github.com/dropDatabas3/helmsman/internal/http/errors"
)

// validate es el validador compartido de DTOs (stateless, safe concurrente).
var validate = validator.New(validator.WithRequiredStructEnabled())

const maxBodyBytes = 1 << 20 // 1 MiB

// decodeJSON parsea y valida el body en dst. Retorna un AppError listo
// para escribir, o nil.
func decodeJSON(r *http.Request, dst any) *httpErrors.AppError {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return httpErrors.ErrInvalidJSON.WithCause(err)
	}
	if err := validate.Struct(dst); err != nil {
		return httpErrors.ErrValidation.WithDetail(err.Error())
	}
	return nil
}

// writeJSON serializa v con el status dado.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
