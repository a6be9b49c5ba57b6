package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	httpx "github.com/dropDatabas3/pki2fa/internal/http"
)

const maxJSONBody = 64 << 10 // 64KB

// readJSON decodifica el body JSON en dst. Valida Content-Type y limita el
// tamaño. Un body inválido se reporta con el mensaje de error del contrato
// que corresponda al campo faltante (missingMsg).
func readJSON(w http.ResponseWriter, r *http.Request, dst any, missingMsg string) bool {
	ct := strings.ToLower(strings.TrimSpace(r.Header.Get("Content-Type")))
	if ct != "" && !strings.Contains(ct, "application/json") {
		httpx.WriteError(w, http.StatusBadRequest, missingMsg)
		return false
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	defer r.Body.Close()

	// Tolerante con campos extra: el contrato solo define los requeridos
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, missingMsg)
		return false
	}
	return true
}
