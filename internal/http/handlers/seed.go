package handlers

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	httpx "github.com/dropDatabas3/pki2fa/internal/http"
	"github.com/dropDatabas3/pki2fa/internal/observability/logger"
	"github.com/dropDatabas3/pki2fa/internal/security/keys"
	"github.com/dropDatabas3/pki2fa/internal/security/rsacrypto"
	"github.com/dropDatabas3/pki2fa/internal/seed"
)

type decryptSeedRequest struct {
	EncryptedSeed string `json:"encrypted_seed"`
}

// SeedHandler atiende POST /decrypt-seed: descifra el seed con la clave
// privada y lo publica en el store.
type SeedHandler struct {
	keys  *keys.KeyPair
	seeds *seed.Store
}

func NewSeedHandler(kp *keys.KeyPair, s *seed.Store) *SeedHandler {
	return &SeedHandler{keys: kp, seeds: s}
}

func (h *SeedHandler) Register(r chi.Router) {
	r.Post("/decrypt-seed", h.decryptSeed)
}

func (h *SeedHandler) decryptSeed(w http.ResponseWriter, r *http.Request) {
	var req decryptSeedRequest
	if !readJSON(w, r, &req, httpx.MsgMissingEncSeed) {
		return
	}
	if strings.TrimSpace(req.EncryptedSeed) == "" {
		httpx.WriteError(w, http.StatusBadRequest, httpx.MsgMissingEncSeed)
		return
	}

	log := logger.From(r.Context())

	ct, err := base64.StdEncoding.DecodeString(strings.TrimSpace(req.EncryptedSeed))
	if err != nil {
		log.Warn("encrypted_seed no es base64 válido", logger.Op("decrypt-seed"), logger.Err(err))
		httpx.ObserveSeedDecryption(false)
		httpx.WriteError(w, http.StatusInternalServerError, httpx.MsgDecryptionFailed)
		return
	}

	pt, err := rsacrypto.Decrypt(h.keys.Private, ct)
	if err != nil {
		// el detalle queda en el log, nunca en la respuesta
		log.Warn("decrypt falló", logger.Op("decrypt-seed"), logger.Err(err))
		httpx.ObserveSeedDecryption(false)
		httpx.WriteError(w, http.StatusInternalServerError, httpx.MsgDecryptionFailed)
		return
	}

	if err := h.seeds.Set(string(pt)); err != nil {
		log.Error("persistencia del seed falló", logger.Op("decrypt-seed"), logger.Err(err))
		httpx.ObserveSeedDecryption(false)
		httpx.WriteError(w, http.StatusInternalServerError, httpx.MsgDecryptionFailed)
		return
	}

	log.Info("seed descifrado y persistido", logger.Op("decrypt-seed"))
	httpx.ObserveSeedDecryption(true)
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
