package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"partyup-network/internal/app"
	"partyup-network/internal/model"
	"partyup-network/internal/transport/http/middleware"
	"partyup-network/internal/transport/http/response"
)

type UserHandler struct {
	accounts AccountService
}

// CreateUserRequest mirrors the registration form. Image is base64 in JSON.
type CreateUserRequest struct {
	Username  string `json:"username" binding:"required,min=3,max=64"`
	Password  string `json:"password" binding:"required,min=8,max=128"`
	FirstName string `json:"firstName" binding:"max=64"`
	LastName  string `json:"lastName" binding:"max=64"`
	Email     string `json:"email" binding:"required,email,max=128"`
	BirthDay  string `json:"birthDay"`
	Bio       string `json:"bio" binding:"max=1000"`
	Image     []byte `json:"image"`
}

type userView struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Status    string `json:"status"`
	Bio       string `json:"bio,omitempty"`
	BirthDay  string `json:"birthDay,omitempty"`
	Age       int    `json:"age"`
	Image     []byte `json:"image,omitempty"`
}

func newUserView(u *model.User) userView {
	v := userView{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Status:    string(u.Status),
		Bio:       u.Bio,
		Age:       u.Age,
		Image:     u.Image,
	}
	if u.BirthDate != nil {
		v.BirthDay = u.BirthDate.Format("2006-01-02")
	}
	return v
}

func newUserViews(users []model.User) []userView {
	out := make([]userView, 0, len(users))
	for i := range users {
		out = append(out, newUserView(&users[i]))
	}
	return out
}

func NewUserHandler(accounts AccountService) *UserHandler {
	return &UserHandler{accounts: accounts}
}

func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	user, err := h.accounts.CreateUser(app.CreateUserInput{
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		BirthDay:  req.BirthDay,
		Bio:       req.Bio,
		Image:     req.Image,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, newUserView(user))
}

func (h *UserHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid user id")
		return
	}

	user, err := h.accounts.GetUserByID(uint(id))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, newUserView(user))
}

// DeleteMe removes the authenticated account and everything it owns.
func (h *UserHandler) DeleteMe(c *gin.Context) {
	principal, ok := middleware.Principal(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "user not found in request")
		return
	}
	if err := h.accounts.DeleteAccount(principal.ID); err != nil {
		response.FromError(c, err)
		return
	}
	response.Message(c, "Account deleted successfully")
}
