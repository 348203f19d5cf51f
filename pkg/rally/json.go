package rally

import (
	"encoding/json"
	"log"
	"net/http"

	"rallytimesbot/pkg/records"

	"github.com/pkg/errors"
)

type messageResponse struct {
	Message string `json:"mensaje"`
	Detail  string `json:"detalle,omitempty"`
}

func message(msg string) messageResponse {
	return messageResponse{Message: msg}
}

func jsonOK(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("error writing response: %s\n", err)
	}
}

func jsonError(w http.ResponseWriter, msg string, err error, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	resp := messageResponse{Message: msg}
	if err != nil {
		resp.Detail = err.Error()
	}
	json.NewEncoder(w).Encode(resp)
}

// writeStoreError maps the store error taxonomy to a status code.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, records.ErrValidation):
		jsonError(w, "Faltan datos o el tiempo no es válido.", err, http.StatusBadRequest)
	case errors.Is(err, records.ErrDuplicate):
		jsonError(w, "El registro ya existe.", err, http.StatusConflict)
	case errors.Is(err, records.ErrNotFound):
		jsonError(w, "Registro no encontrado.", err, http.StatusNotFound)
	case errors.Is(err, records.ErrUnauthorized):
		jsonError(w, "Acceso denegado.", err, http.StatusUnauthorized)
	case errors.Is(err, records.ErrCorruptState):
		log.Printf("stored records are corrupt: %s\n", err)
		jsonError(w, "Los datos guardados están dañados.", err, http.StatusInternalServerError)
	default:
		log.Printf("An error occured: %s", err.Error())
		jsonError(w, "Error interno.", nil, http.StatusInternalServerError)
	}
}
