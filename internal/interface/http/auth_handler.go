package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/perfume-catalog/internal/application"
	"github.com/oksasatya/perfume-catalog/internal/interface/middleware"
	"github.com/oksasatya/perfume-catalog/pkg/helpers"
	"github.com/oksasatya/perfume-catalog/pkg/response"
)

type AuthHandler struct {
	Members *application.MemberService
	Cookies *helpers.Manager
	Logger  *logrus.Logger

	// GoogleEnabled shows the Google sign-in link on the login page.
	GoogleEnabled bool
}

func NewAuthHandler(members *application.MemberService, cookies *helpers.Manager, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Members: members, Cookies: cookies, Logger: logger}
}

type registerRequest struct {
	Email    string       `json:"email" binding:"required,email"`
	Password string       `json:"password" binding:"required,pwd"`
	Name     string       `json:"name" binding:"required"`
	YOB      *int         `json:"YOB" binding:"omitempty,yob"`
	Gender   optionalBool `json:"gender"`
}

// Password is only required here so a short wrong password is reported as
// invalid credentials, same as any other.
type loginRequest struct {
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
	Next     string `json:"-" form:"next"`
}

type profileRequest struct {
	Name   *string      `json:"name"`
	YOB    *int         `json:"YOB" binding:"omitempty,yob"`
	Gender optionalBool `json:"gender"`
}

type passwordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,pwd"`
}

type loginPage struct {
	page
	Error         string
	Email         string
	Next          string
	GoogleEnabled bool
}

// Register POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	sess, err := h.Members.Register(c.Request.Context(), application.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		YOB:      req.YOB,
		Gender:   req.Gender.Value,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	h.Cookies.SetToken(c, sess.Token, sess.ExpiresAt)
	response.Success(c, http.StatusCreated, sess.Member, "Registered", gin.H{"expiresAt": sess.ExpiresAt})
}

// Login POST /auth/login. Accepts JSON or the login page form.
func (h *AuthHandler) Login(c *gin.Context) {
	form := isForm(c)
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		if form {
			h.renderLogin(c, http.StatusBadRequest, "Email and password are required", req.Email, req.Next)
			return
		}
		respondBindError(c, err)
		return
	}
	sess, err := h.Members.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if form && application.KindOf(err) != application.KindInternal {
			h.renderLogin(c, middleware.StatusOf(application.KindOf(err)), application.AsError(err).Message, req.Email, req.Next)
			return
		}
		respondError(c, err)
		return
	}
	h.Cookies.SetToken(c, sess.Token, sess.ExpiresAt)
	if form {
		c.Redirect(http.StatusSeeOther, safeNext(req.Next))
		return
	}
	response.Success(c, http.StatusOK, sess.Member, "Logged in", gin.H{"expiresAt": sess.ExpiresAt})
}

// Logout POST /auth/logout. Always succeeds.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.Cookies.Clear(c)
	if isForm(c) || middleware.WantsHTML(c) {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"loggedOut": true}, "Logged out", nil)
}

// LoginPage GET /login
func (h *AuthHandler) LoginPage(c *gin.Context) {
	h.renderLogin(c, http.StatusOK, "", "", c.Query("next"))
}

func (h *AuthHandler) renderLogin(c *gin.Context, status int, msg, email, next string) {
	c.HTML(status, "login.html", loginPage{
		page:          newPage(c, "Log in"),
		Error:         msg,
		Email:         email,
		Next:          safeNext(next),
		GoogleEnabled: h.GoogleEnabled,
	})
}

// Me GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	m, err := h.Members.GetProfile(c.Request.Context(), currentID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, m, "Profile", nil)
}

// UpdateMe PUT /auth/me
func (h *AuthHandler) UpdateMe(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	m, err := h.Members.UpdateProfile(c.Request.Context(), currentID(c), application.ProfileInput{
		Name:   req.Name,
		YOB:    req.YOB,
		Gender: req.Gender.Value,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, m, "Profile updated", nil)
}

// ChangePassword POST /auth/me/password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req passwordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if err := h.Members.ChangePassword(c.Request.Context(), currentID(c), req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"changed": true}, "Password changed", nil)
}

// MakeMeAdmin POST /make-me-admin. The token is reissued with the new flag.
func (h *AuthHandler) MakeMeAdmin(c *gin.Context) {
	ctx := c.Request.Context()
	m, err := h.Members.PromoteFirstAdmin(ctx, currentID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	token, exp, err := h.Members.JWT.Generate(m.ID, m.IsAdmin)
	if err != nil {
		respondError(c, application.Internal(err))
		return
	}
	h.Cookies.SetToken(c, token, exp)
	response.Success(c, http.StatusOK, m, "You are now an admin", nil)
}

func isForm(c *gin.Context) bool { return middleware.IsForm(c) }

// safeNext keeps redirects on this site.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/"
	}
	return next
}
