package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	httpx "github.com/dropDatabas3/pki2fa/internal/http"
	"github.com/dropDatabas3/pki2fa/internal/observability/logger"
	"github.com/dropDatabas3/pki2fa/internal/security/totp"
	"github.com/dropDatabas3/pki2fa/internal/seed"
)

type verifyCodeRequest struct {
	Code string `json:"code"`
}

type generateResponse struct {
	Code     string `json:"code"`
	ValidFor int    `json:"valid_for"`
}

// TOTPHandler atiende GET /generate-2fa y POST /verify-2fa contra el seed activo.
type TOTPHandler struct {
	seeds *seed.Store
	// ventana de tolerancia en pasos (±window)
	window int
	// inyectable en tests; default time.Now
	now func() time.Time
}

func NewTOTPHandler(s *seed.Store, window int) *TOTPHandler {
	return &TOTPHandler{seeds: s, window: window, now: time.Now}
}

func (h *TOTPHandler) Register(r chi.Router) {
	r.Get("/generate-2fa", h.generate)
	r.Post("/verify-2fa", h.verify)
}

// activeSecret resuelve el seed actual o escribe el 500 del contrato.
func (h *TOTPHandler) activeSecret(w http.ResponseWriter, r *http.Request) (totp.Secret, bool) {
	hexSeed, err := h.seeds.Get()
	if err != nil {
		if !errors.Is(err, seed.ErrNotSet) {
			logger.From(r.Context()).Error("lectura del seed falló", logger.Err(err))
		}
		httpx.WriteError(w, http.StatusInternalServerError, httpx.MsgSeedNotDecrypted)
		return totp.Secret{}, false
	}
	sec, err := totp.SecretFromHex(hexSeed)
	if err != nil {
		logger.From(r.Context()).Error("seed persistido inválido", logger.Err(err))
		httpx.WriteError(w, http.StatusInternalServerError, httpx.MsgSeedNotDecrypted)
		return totp.Secret{}, false
	}
	return sec, true
}

func (h *TOTPHandler) generate(w http.ResponseWriter, r *http.Request) {
	sec, ok := h.activeSecret(w, r)
	if !ok {
		return
	}

	now := h.now().UTC()
	httpx.ObserveCodeGenerated()
	httpx.WriteJSON(w, http.StatusOK, generateResponse{
		Code:     totp.GenerateAt(sec, now),
		ValidFor: totp.Remaining(now),
	})
}

func (h *TOTPHandler) verify(w http.ResponseWriter, r *http.Request) {
	var req verifyCodeRequest
	if !readJSON(w, r, &req, httpx.MsgMissingCode) {
		return
	}
	if req.Code == "" {
		httpx.WriteError(w, http.StatusBadRequest, httpx.MsgMissingCode)
		return
	}

	sec, ok := h.activeSecret(w, r)
	if !ok {
		return
	}

	valid := totp.Verify(sec, req.Code, h.now().UTC(), h.window)
	httpx.ObserveVerification(valid)
	httpx.WriteJSON(w, http.StatusOK, map[string]bool{"valid": valid})
}
