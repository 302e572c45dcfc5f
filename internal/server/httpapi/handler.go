package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"net/url"
	"strconv"
	"strings"

	clientmodels "github.com/atomist-global-seeds/blockstack-browser/internal/client/models"
	"github.com/atomist-global-seeds/blockstack-browser/internal/logging"
	"github.com/atomist-global-seeds/blockstack-browser/internal/server/models"
	"github.com/atomist-global-seeds/blockstack-browser/internal/server/repositories/notifications"
)

const (
	// maxBodySize caps request bodies; links carry at most a few hundred
	// bytes of hex.
	maxBodySize = 64 * 1024

	defaultListLimit = 100
	maxListLimit     = 1000
)

// RequestError carries the HTTP status to answer with.
type RequestError struct {
	StatusCode int
	Err        error
}

func (e *RequestError) Error() string {
	return e.Err.Error()
}

func badRequest(format string, args ...any) error {
	return &RequestError{StatusCode: http.StatusBadRequest, Err: fmt.Errorf(format, args...)}
}

// Handler implements the three notification endpoints and the inspection
// listing.
type Handler struct {
	repo notifications.Repository
	log  logging.Logger
}

func NewHandler(repo notifications.Repository, log logging.Logger) *Handler {
	return &Handler{repo: repo, log: log}
}

func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	var req clientmodels.VerificationRequest
	if err := decode(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := validate(req.Email, req.EmailVerificationLink, "emailVerificationLink"); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.accept(w, r, &models.Notification{
		Kind:  string(clientmodels.DispatchEmailVerification),
		Email: req.Email,
		Link:  req.EmailVerificationLink,
	})
}

func (h *Handler) HandleRecovery(w http.ResponseWriter, r *http.Request) {
	var req clientmodels.RecoveryRequest
	if err := decode(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := validate(req.Email, req.SeedRecovery, "seedRecovery"); err != nil {
		h.writeError(w, r, err)
		return
	}
	if strings.TrimSpace(req.BlockstackID) == "" {
		h.writeError(w, r, badRequest("blockstackId is required"))
		return
	}

	h.accept(w, r, &models.Notification{
		Kind:         string(clientmodels.DispatchRecovery),
		Email:        req.Email,
		Link:         req.SeedRecovery,
		IdentityName: req.BlockstackID,
	})
}

func (h *Handler) HandleRestore(w http.ResponseWriter, r *http.Request) {
	var req clientmodels.RestoreRequest
	if err := decode(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := validate(req.Email, req.RestoreLink, "restoreLink"); err != nil {
		h.writeError(w, r, err)
		return
	}
	if strings.TrimSpace(req.BlockstackID) == "" {
		h.writeError(w, r, badRequest("blockstackId is required"))
		return
	}

	h.accept(w, r, &models.Notification{
		Kind:         string(clientmodels.DispatchRestore),
		Email:        req.Email,
		Link:         req.RestoreLink,
		IdentityName: req.BlockstackID,
	})
}

// HandleList answers GET /notifications?email=&limit=.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			h.writeError(w, r, badRequest("limit must be a positive integer"))
			return
		}
		limit = min(n, maxListLimit)
	}

	list, err := h.repo.List(r.Context(), r.URL.Query().Get("email"), limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) accept(w http.ResponseWriter, r *http.Request, n *models.Notification) {
	if err := h.repo.Create(r.Context(), n); err != nil {
		h.writeError(w, r, err)
		return
	}

	// Links embed ciphertext, not secrets, but keep the log line short.
	h.log.Info(r.Context(), "notification accepted",
		"id", n.ID.String(), "kind", n.Kind, "email", n.Email, "identity", n.IdentityName, "link_len", len(n.Link))

	writeJSON(w, http.StatusAccepted, map[string]string{"id": n.ID.String(), "status": "accepted"})
}

func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	if ct := r.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "application/json") {
		return &RequestError{StatusCode: http.StatusUnsupportedMediaType, Err: fmt.Errorf("unsupported content type %q", ct)}
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err := dec.Decode(dst); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return &RequestError{StatusCode: http.StatusRequestEntityTooLarge, Err: errors.New("request body too large")}
		}
		return badRequest("invalid JSON body: %v", err)
	}
	return nil
}

func validate(email, link, linkField string) error {
	if strings.TrimSpace(email) == "" {
		return badRequest("email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return badRequest("email %q is not a valid address", email)
	}
	if strings.TrimSpace(link) == "" {
		return badRequest("%s is required", linkField)
	}
	u, err := url.Parse(link)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return badRequest("%s must be an absolute URL", linkField)
	}
	return nil
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		status = reqErr.StatusCode
	}

	if status >= http.StatusInternalServerError {
		h.log.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeJSON(w, status, map[string]string{"error": "internal error"})
		return
	}
	h.log.Debug(r.Context(), "request rejected", "path", r.URL.Path, "status", status, "error", err)
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
