package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	googleoauth "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"github.com/oksasatya/perfume-catalog/internal/application"
	"github.com/oksasatya/perfume-catalog/pkg/helpers"
	"github.com/oksasatya/perfume-catalog/pkg/response"
)

const oauthStateCookie = "oauth_state"

// OAuthHandler signs members in with Google. A nil Config answers 501.
type OAuthHandler struct {
	Members *application.MemberService
	Cookies *helpers.Manager
	Config  *oauth2.Config
	Logger  *logrus.Logger
}

func NewOAuthHandler(members *application.MemberService, cookies *helpers.Manager, logger *logrus.Logger) *OAuthHandler {
	return &OAuthHandler{Members: members, Cookies: cookies, Logger: logger}
}

// GoogleConfig builds the OAuth client configuration for Google sign-in.
func GoogleConfig(clientID, clientSecret, callbackURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  callbackURL,
		Endpoint:     google.Endpoint,
		Scopes:       []string{googleoauth.UserinfoEmailScope, googleoauth.UserinfoProfileScope},
	}
}

func (h *OAuthHandler) notConfigured(c *gin.Context) bool {
	if h.Config != nil {
		return false
	}
	response.ErrorWithCode[any](c, http.StatusNotImplemented, "OAUTH_NOT_CONFIGURED", "Google sign-in is not configured", nil)
	return true
}

// Start GET /oauth/google
func (h *OAuthHandler) Start(c *gin.Context) {
	if h.notConfigured(c) {
		return
	}
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		respondError(c, application.Internal(err))
		return
	}
	state := base64.RawURLEncoding.EncodeToString(b)
	h.Cookies.SetState(c, oauthStateCookie, state, 10*time.Minute)
	c.Redirect(http.StatusFound, h.Config.AuthCodeURL(state, oauth2.AccessTypeOnline))
}

// Callback GET /oauth/google/callback
func (h *OAuthHandler) Callback(c *gin.Context) {
	if h.notConfigured(c) {
		return
	}
	state, err := c.Cookie(oauthStateCookie)
	h.Cookies.SetState(c, oauthStateCookie, "", -time.Second)
	if err != nil || state == "" || state != c.Query("state") {
		respondError(c, application.BadRequest("Invalid OAuth state"))
		return
	}
	code := c.Query("code")
	if code == "" {
		respondError(c, application.BadRequest("Missing authorization code"))
		return
	}

	ctx := c.Request.Context()
	tok, err := h.Config.Exchange(ctx, code)
	if err != nil {
		h.Logger.WithError(err).Warn("google code exchange failed")
		respondError(c, application.BadRequest("Google sign-in failed"))
		return
	}
	svc, err := googleoauth.NewService(ctx, option.WithTokenSource(h.Config.TokenSource(ctx, tok)))
	if err != nil {
		respondError(c, application.Internal(err))
		return
	}
	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		h.Logger.WithError(err).Warn("google userinfo failed")
		respondError(c, application.BadRequest("Google sign-in failed"))
		return
	}
	if info.VerifiedEmail != nil && !*info.VerifiedEmail {
		respondError(c, application.BadRequest("Google account email is not verified"))
		return
	}

	sess, err := h.Members.LoginWithOAuth(ctx, info.Email, info.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	h.Cookies.SetToken(c, sess.Token, sess.ExpiresAt)
	c.Redirect(http.StatusSeeOther, "/")
}
