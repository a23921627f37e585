package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"partyup-network/internal/app"
	"partyup-network/internal/model"
	"partyup-network/internal/transport/http/middleware"
	"partyup-network/internal/transport/http/response"
)

const expiresAtLayout = "2006-01-02 15:04:05"

type AccountService interface {
	Login(input app.LoginInput) (*app.LoginResult, error)
	Logout(token string) error
	CreateUser(input app.CreateUserInput) (*model.User, error)
	GetUserByID(id uint) (*model.User, error)
	DeleteAccount(id uint) error
}

// CookieOptions describes the cookie that carries the auth token.
type CookieOptions struct {
	Name   string
	MaxAge int
	Domain string
	Secure bool
}

type AuthHandler struct {
	accounts AccountService
	cookie   CookieOptions
}

type LoginRequest struct {
	Username string `json:"username" binding:"required,max=64"`
	Password string `json:"password" binding:"required,max=128"`
}

func NewAuthHandler(accounts AccountService, cookie CookieOptions) *AuthHandler {
	return &AuthHandler{accounts: accounts, cookie: cookie}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	result, err := h.accounts.Login(app.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}

	h.setCookie(c, result.Token, h.cookie.MaxAge)
	response.OK(c, gin.H{
		"id":        result.User.ID,
		"username":  result.User.Username,
		"firstName": result.User.FirstName,
		"lastName":  result.User.LastName,
		"email":     result.User.Email,
		"token":     result.Token,
		"expiresAt": result.ExpiresAt.Format(expiresAtLayout),
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	token, _ := c.Cookie(h.cookie.Name)
	if err := h.accounts.Logout(token); err != nil {
		response.FromError(c, err)
		return
	}

	h.setCookie(c, "", -1)
	response.Message(c, "Logged out successfully")
}

func (h *AuthHandler) Me(c *gin.Context) {
	principal, ok := middleware.Principal(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "user not found in request")
		return
	}

	user, err := h.accounts.GetUserByID(principal.ID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, newUserView(user))
}

func (h *AuthHandler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, value, maxAge, "/", h.cookie.Domain, h.cookie.Secure, true)
}
