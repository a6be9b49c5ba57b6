package http

import (
	"encoding/json"
	"net/http"
)

// Mensajes del contrato público. Los 500 nunca filtran la causa real
// (material de claves, paths, detalle de padding).
const (
	MsgDecryptionFailed = "Decryption failed"
	MsgSeedNotDecrypted = "Seed not decrypted yet"
	MsgMissingCode      = "Missing code"
	MsgMissingEncSeed   = "Missing encrypted_seed"
	MsgInternalError    = "Internal server error"
)

type apiError struct {
	Error string `json:"error"`
}

// WriteError escribe el JSON de error del contrato: {"error": msg}.
func WriteError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(apiError{Error: msg})
}

// WriteJSON: respuesta JSON estándar.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
