package bff

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"storefront-bff/internal/auth"
	"storefront-bff/internal/envelope"
	"storefront-bff/internal/session"
	"storefront-bff/internal/upstream"
	"storefront-bff/pkg/logger"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResult struct {
	AccessToken string        `json:"accessToken"`
	User        *session.User `json:"user"`
}

// Login forwards credentials to the upstream auth service and, on success,
// establishes the caller's session container. The BFF never validates
// credentials itself.
func (h *Handlers) Login(c *gin.Context) {
	log := logger.FromGin(c)

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, &envelope.Error{Message: "invalid json"})
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(c, http.StatusBadRequest, &envelope.Error{Message: "email and password required"})
		return
	}

	resp, err := h.Upstream.Post(c.Request.Context(), upstream.PathLogin, req)
	if err != nil {
		log.Error("login upstream failed", "err", err)
		respondError(c, http.StatusInternalServerError, &envelope.Error{Message: "upstream request failed"})
		return
	}
	if !resp.OK() {
		upErr := resp.Envelope.Error
		if upErr == nil {
			upErr = &envelope.Error{Message: "login rejected"}
		}
		respondError(c, resp.Status, upErr)
		return
	}

	var result loginResult
	if err := resp.Envelope.DecodeDataInto(&result); err != nil || result.AccessToken == "" {
		log.Error("login response malformed", "err", err)
		respondError(c, http.StatusInternalServerError, &envelope.Error{Message: "malformed upstream login response"})
		return
	}

	// The upstream token names the session; its claims are the profile of
	// record when the body omits one.
	claims, err := h.Auth.Verify(result.AccessToken, time.Now())
	if err != nil {
		log.Error("upstream issued unverifiable token", "err", err)
		respondError(c, http.StatusInternalServerError, &envelope.Error{Message: "malformed upstream login response"})
		return
	}
	user := result.User
	if user == nil {
		user = claims.User()
	}

	h.Sessions.GetOrCreate(claims.SessionID()).SetAuthenticated(user)

	c.JSON(http.StatusOK, gin.H{"data": loginResult{AccessToken: result.AccessToken, User: user}})
}

// Logout drops the caller's session container. Idempotent.
func (h *Handlers) Logout(c *gin.Context) {
	sid, err := auth.SessionID(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusUnauthorized, &envelope.Error{Message: "session required"})
		return
	}
	h.Sessions.Drop(sid)
	c.Status(http.StatusNoContent)
}

// Me returns the caller's session state for rendering account and
// navigation UI.
func (h *Handlers) Me(c *gin.Context) {
	sid, err := auth.SessionID(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusUnauthorized, &envelope.Error{Message: "session required"})
		return
	}
	container := h.Sessions.GetOrCreate(sid)
	c.JSON(http.StatusOK, gin.H{"data": container.State()})
}

// UpdateProfile forwards a profile edit upstream and patches the session
// user without re-authenticating.
func (h *Handlers) UpdateProfile(c *gin.Context) {
	log := logger.FromGin(c)

	sid, err := auth.SessionID(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusUnauthorized, &envelope.Error{Message: "session required"})
		return
	}

	var req session.User
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, &envelope.Error{Message: "invalid json"})
		return
	}

	resp, err := h.Upstream.Put(c.Request.Context(), upstream.PathProfile, req)
	if err != nil {
		log.Error("profile update upstream failed", "err", err)
		respondError(c, http.StatusInternalServerError, &envelope.Error{Message: "upstream request failed"})
		return
	}
	if !resp.OK() {
		upErr := resp.Envelope.Error
		if upErr == nil {
			upErr = &envelope.Error{Message: "profile update rejected"}
		}
		respondError(c, resp.Status, upErr)
		return
	}

	updated := &session.User{}
	if err := resp.Envelope.DecodeDataInto(updated); err != nil {
		log.Error("profile response malformed", "err", err)
		respondError(c, http.StatusInternalServerError, &envelope.Error{Message: "malformed upstream profile response"})
		return
	}

	h.Sessions.GetOrCreate(sid).SetUser(updated)

	c.JSON(http.StatusOK, gin.H{"data": updated})
}

// respondError is the non-list variant of respondListError.
func respondError(c *gin.Context, status int, upErr *envelope.Error) {
	c.JSON(status, gin.H{"error": upErr})
}
