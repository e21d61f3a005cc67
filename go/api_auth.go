package posterparlorserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	userhttpmapper "github.com/Apurer/poster-parlor-api/internal/domains/users/adapters/http/mapper"
	usertypes "github.com/Apurer/poster-parlor-api/internal/domains/users/application/types"
	userports "github.com/Apurer/poster-parlor-api/internal/domains/users/ports"
)

const (
	refreshCookieName = "refresh_token"
	refreshCookiePath = "/api/auth"
)

var errMissingRefreshToken = errors.New("refresh token is required")

// CookieOptions controls the auth cookies set on login and refresh.
type CookieOptions struct {
	Domain string
	Secure bool
}

// AuthAPI implements registration, login and session endpoints.
type AuthAPI struct {
	service userports.Service
	cookies CookieOptions
	now     func() time.Time
}

func NewAuthAPI(service userports.Service, cookies CookieOptions) AuthAPI {
	return AuthAPI{service: service, cookies: cookies, now: time.Now}
}

// Post /api/auth/register
// Create an account and start a session
func (api *AuthAPI) Register(c *gin.Context) {
	var payload userhttpmapper.Register
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	result, err := api.service.Register(c.Request.Context(), userhttpmapper.ToRegisterInput(payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	api.setSessionCookies(c, result.Tokens)
	c.JSON(http.StatusCreated, userhttpmapper.FromAuthResult(result))
}

// Post /api/auth/login
// Exchange credentials for tokens
func (api *AuthAPI) Login(c *gin.Context) {
	var payload userhttpmapper.Login
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	result, err := api.service.Login(c.Request.Context(), userhttpmapper.ToLoginInput(payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	api.setSessionCookies(c, result.Tokens)
	c.JSON(http.StatusOK, userhttpmapper.FromAuthResult(result))
}

// Post /api/auth/refresh
// Rotate the refresh token and issue a new access token
func (api *AuthAPI) Refresh(c *gin.Context) {
	token, _ := c.Cookie(refreshCookieName)
	if token == "" {
		var payload userhttpmapper.Refresh
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&payload); err != nil {
				respondError(c, http.StatusBadRequest, err)
				return
			}
		}
		token = payload.RefreshToken
	}
	if token == "" {
		respondError(c, http.StatusUnauthorized, errMissingRefreshToken)
		return
	}
	pair, err := api.service.Refresh(c.Request.Context(), token)
	if err != nil {
		api.clearSessionCookies(c)
		respondServiceError(c, err)
		return
	}
	api.setSessionCookies(c, *pair)
	c.JSON(http.StatusOK, userhttpmapper.FromTokenPair(pair))
}

// Get /api/auth/me
// Current account
func (api *AuthAPI) Me(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}
	user, err := api.service.Me(c.Request.Context(), principal.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, userhttpmapper.FromDomainUser(user))
}

// Post /api/auth/logout
// End every session of the current account
func (api *AuthAPI) Logout(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}
	if err := api.service.Logout(c.Request.Context(), principal.UserID); err != nil {
		respondServiceError(c, err)
		return
	}
	api.clearSessionCookies(c)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (api *AuthAPI) setSessionCookies(c *gin.Context, tokens usertypes.TokenPair) {
	now := api.now()
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(accessCookieName, tokens.AccessToken, maxAge(tokens.AccessExpiresAt, now), "/", api.cookies.Domain, api.cookies.Secure, true)
	c.SetCookie(refreshCookieName, tokens.RefreshToken, maxAge(tokens.RefreshExpiresAt, now), refreshCookiePath, api.cookies.Domain, api.cookies.Secure, true)
}

func (api *AuthAPI) clearSessionCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(accessCookieName, "", -1, "/", api.cookies.Domain, api.cookies.Secure, true)
	c.SetCookie(refreshCookieName, "", -1, refreshCookiePath, api.cookies.Domain, api.cookies.Secure, true)
}

func maxAge(expiresAt, now time.Time) int {
	seconds := int(expiresAt.Sub(now).Seconds())
	if seconds < 1 {
		return 1
	}
	return seconds
}
