package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"partyup-network/internal/app"
)

const (
	CodeOK             = 0
	CodeBadRequest     = 40000
	CodeInvalidState   = 40001
	CodeUnauthorized   = 40100
	CodeNotFound       = 40400
	CodeInternalServer = 50000
	CodeConflict       = 50001
	CodeAuthFailed     = 50002
	CodeTokenLedger    = 50003
)

type APIResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type mapping struct {
	status int
	code   int
}

// kindStatus is the only place a service error kind becomes an HTTP status.
// Conflict and Auth answer 500 to stay compatible with existing clients.
var kindStatus = map[app.Kind]mapping{
	app.KindValidation:   {http.StatusBadRequest, CodeBadRequest},
	app.KindInvalidState: {http.StatusBadRequest, CodeInvalidState},
	app.KindNotFound:     {http.StatusNotFound, CodeNotFound},
	app.KindConflict:     {http.StatusInternalServerError, CodeConflict},
	app.KindAuth:         {http.StatusInternalServerError, CodeAuthFailed},
	app.KindStore:        {http.StatusInternalServerError, CodeInternalServer},
}

func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Code:    CodeOK,
		Message: "ok",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{
		Code:    CodeOK,
		Message: "created",
		Data:    data,
	})
}

// Message answers 200 with a human readable confirmation.
func Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, APIResponse{
		Code:    CodeOK,
		Message: message,
	})
}

func Error(c *gin.Context, httpStatus, code int, message string) {
	c.JSON(httpStatus, APIResponse{
		Code:    code,
		Message: message,
	})
}

// StatusOf returns the HTTP status and envelope code for err.
func StatusOf(err error) (int, int) {
	if m, ok := kindStatus[app.KindOf(err)]; ok {
		return m.status, m.code
	}
	return http.StatusInternalServerError, CodeInternalServer
}

// FromError renders a service failure. Errors without a kind keep their
// detail out of the body.
func FromError(c *gin.Context, err error) {
	status, code := StatusOf(err)
	message := err.Error()
	if app.KindOf(err) == app.KindUnknown {
		message = "internal server error"
	}
	Error(c, status, code, message)
}
