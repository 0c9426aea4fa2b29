package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jobhunt/jobhunt/internal/auth"
	"github.com/jobhunt/jobhunt/internal/config"
	"github.com/jobhunt/jobhunt/internal/domain/user"
	"github.com/jobhunt/jobhunt/internal/http/middlewares"
	"github.com/jobhunt/jobhunt/internal/security"
)

type UserReader interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
}

type UserWriter interface {
	Create(ctx context.Context, email, passwordHash string) (user.User, error)
}

type AuthHandler struct {
	users      UserReader
	userWriter UserWriter
	jwt        *auth.Manager
	cfg        config.Config
}

func NewAuthHandler(users UserReader, userWriter UserWriter, jwtManager *auth.Manager, cfg config.Config) *AuthHandler {
	return &AuthHandler{
		users:      users,
		userWriter: userWriter,
		jwt:        jwtManager,
		cfg:        cfg,
	}
}

type CredentialsRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

func (h *AuthHandler) Register(ctx *gin.Context) {
	var req CredentialsRequest

	if !BindJSON(ctx, &req) {
		return
	}

	email := user.NormalizeEmail(req.Email)

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	hash, err := security.HashPassword(req.Password, h.cfg.BcryptCost)

	if err != nil {
		RespondInternal(ctx, "Could not create user")
		return
	}

	u, err := h.userWriter.Create(cctx, email, hash)

	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			RespondConflict(ctx, "email_taken", "Email already used")
			return
		}

		RespondInternal(ctx, "Could not create user")
		return
	}

	if !h.issueSession(ctx, u) {
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"ok":   true,
		"user": gin.H{"email": u.Email},
	})
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req CredentialsRequest

	if !BindJSON(ctx, &req) {
		return
	}

	email := user.NormalizeEmail(req.Email)

	// short timeout for DB lookup
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	foundUser, err := h.users.GetByEmail(cctx, email)
	if err != nil {
		// same message as a wrong password; never reveal which one it was
		RespondUnauthorized(ctx, "invalid_credentials", "Invalid credentials")
		return
	}

	err = security.CheckPassword(foundUser.PasswordHash, req.Password)

	if err != nil {
		RespondUnauthorized(ctx, "invalid_credentials", "Invalid credentials")
		return
	}

	if !h.issueSession(ctx, foundUser) {
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"ok":   true,
		"user": gin.H{"email": foundUser.Email},
	})
}

func (h *AuthHandler) Logout(ctx *gin.Context) {
	h.clearAuthCookies(ctx)
	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}

// Refresh mints a new token pair from a valid refresh cookie. Nothing
// is stored server-side, so a stolen refresh token stays usable until
// expiry; rotation here only shortens the window.
func (h *AuthHandler) Refresh(ctx *gin.Context) {
	raw, err := ctx.Cookie(RefreshCookieName)

	if err != nil || raw == "" {
		RespondUnauthorized(ctx, "no_refresh", "No refresh token")
		return
	}

	claims, err := h.jwt.VerifyRefresh(raw)

	if err != nil {
		RespondUnauthorized(ctx, "invalid_refresh", "Invalid refresh token")
		return
	}

	if !h.issueSession(ctx, user.User{ID: claims.UserID, Email: claims.Email}) {
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}

// Me reports the authenticated identity. It runs behind RequireAuth,
// so the token is actually verified, not merely present.
func (h *AuthHandler) Me(ctx *gin.Context) {
	email, ok := middlewares.EmailFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "unauthorized", "Not authenticated")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"ok":   true,
		"user": gin.H{"email": email},
	})
}

// Helper functions

func (h *AuthHandler) issueSession(ctx *gin.Context, u user.User) bool {
	accessToken, err := h.jwt.IssueAccess(u.ID, u.Email)

	if err != nil {
		RespondInternal(ctx, "Could not generate access token")
		return false
	}

	refreshToken, err := h.jwt.IssueRefresh(u.ID, u.Email)

	if err != nil {
		RespondInternal(ctx, "Could not generate refresh token")
		return false
	}

	h.setAuthCookies(ctx, accessToken, refreshToken)
	return true
}

const RefreshCookieName = "refresh_token"

// refresh cookie only travels to the auth subtree
const refreshCookiePath = "/api/auth"

func (h *AuthHandler) setAuthCookies(ctx *gin.Context, accessToken, refreshToken string) {
	secure := h.cfg.CookieSecure

	h.setSameSite(ctx, secure)

	ctx.SetCookie(
		middlewares.AccessCookieName,
		accessToken,
		int(h.jwt.AccessTTL().Seconds()),
		"/",
		"",
		secure,
		true, // HttpOnly
	)
	ctx.SetCookie(
		RefreshCookieName,
		refreshToken,
		int(h.jwt.RefreshTTL().Seconds()),
		refreshCookiePath,
		"",
		secure,
		true,
	)
}

func (h *AuthHandler) clearAuthCookies(ctx *gin.Context) {
	secure := h.cfg.CookieSecure

	h.setSameSite(ctx, secure)

	ctx.SetCookie(middlewares.AccessCookieName, "", -1, "/", "", secure, true)
	ctx.SetCookie(RefreshCookieName, "", -1, refreshCookiePath, "", secure, true)
}

// SameSite=None needs Secure; without TLS fall back to Lax so the
// cookie still works on localhost.
func (h *AuthHandler) setSameSite(ctx *gin.Context, secure bool) {
	if secure {
		ctx.SetSameSite(http.SameSiteNoneMode)
	} else {
		ctx.SetSameSite(http.SameSiteLaxMode)
	}
}
