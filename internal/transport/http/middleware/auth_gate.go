package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"partyup-network/internal/app"
	"partyup-network/internal/logger"
	"partyup-network/internal/model"
	"partyup-network/internal/transport/http/response"
)

const (
	ContextPrincipalKey = "principal"
	ContextTokenKey     = "auth_token"

	msgTokenMissing  = "JWT token is missing or invalid"
	msgTokenNotFound = "JWT token not found"
	msgTokenExpired  = "JWT token has expired"

	msgUserLookupFailed = "Unable to load user for token"
)

type principalKey struct{}

type TokenCodec interface {
	SubjectOf(token string) (string, error)
	IsValid(token, expectedSubject string) (bool, error)
}

type PrincipalLoader interface {
	GetUserByUsername(username string) (*model.User, error)
}

type TokenLedger interface {
	Lookup(token string) (*model.AuthToken, error)
	Expired(record *model.AuthToken) bool
	Touch(record *model.AuthToken) error
}

// AuthGate authenticates every request except the public routes. The token
// travels in a cookie. Every rejection is answered here and never reaches a
// handler; the ledger is written only once authentication succeeded.
type AuthGate struct {
	codec      TokenCodec
	users      PrincipalLoader
	ledger     TokenLedger
	cookieName string
	public     map[string]struct{}
	log        *zap.Logger
}

func NewAuthGate(codec TokenCodec, users PrincipalLoader, ledger TokenLedger, cookieName string, publicPaths []string, log *zap.Logger) *AuthGate {
	public := make(map[string]struct{}, len(publicPaths))
	for _, p := range publicPaths {
		public[p] = struct{}{}
	}
	return &AuthGate{
		codec:      codec,
		users:      users,
		ledger:     ledger,
		cookieName: cookieName,
		public:     public,
		log:        log,
	}
}

func (g *AuthGate) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := g.public[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		token, err := c.Cookie(g.cookieName)
		token = strings.TrimSpace(token)
		if err != nil || token == "" {
			g.reject(c, http.StatusUnauthorized, response.CodeUnauthorized, msgTokenMissing)
			return
		}

		subject, err := g.codec.SubjectOf(token)
		if err != nil {
			g.log.Warn("token rejected by codec", zap.String("token", logger.MaskToken(token)), zap.Error(err))
			g.reject(c, http.StatusUnauthorized, response.CodeUnauthorized, err.Error())
			return
		}

		user, err := g.users.GetUserByUsername(subject)
		if app.IsKind(err, app.KindStore) {
			g.log.Error("load token subject failed", zap.String("username", subject), zap.Error(err))
			g.reject(c, http.StatusInternalServerError, response.CodeInternalServer, msgUserLookupFailed)
			return
		}
		if err != nil || user == nil {
			g.log.Warn("token subject has no user", zap.String("username", subject))
			g.reject(c, http.StatusUnauthorized, response.CodeUnauthorized, msgTokenMissing)
			return
		}

		valid, err := g.codec.IsValid(token, user.Username)
		if err != nil || !valid {
			g.reject(c, http.StatusUnauthorized, response.CodeUnauthorized, msgTokenMissing)
			return
		}

		record, err := g.ledger.Lookup(token)
		if err != nil {
			g.log.Error("token missing from ledger", zap.String("username", subject), zap.Error(err))
			g.reject(c, http.StatusInternalServerError, response.CodeTokenLedger, msgTokenNotFound)
			return
		}
		if g.ledger.Expired(record) {
			g.log.Warn("token expired in ledger", zap.String("username", subject), zap.Time("expires_at", record.ExpiresAt))
			g.reject(c, http.StatusInternalServerError, response.CodeTokenLedger, msgTokenExpired)
			return
		}

		c.Set(ContextPrincipalKey, user)
		c.Set(ContextTokenKey, token)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), principalKey{}, user))

		if err := g.ledger.Touch(record); err != nil {
			g.log.Warn("touch auth token failed", zap.Uint("user_id", user.ID), zap.Error(err))
		}
		c.Next()
	}
}

func (g *AuthGate) reject(c *gin.Context, status, code int, message string) {
	response.Error(c, status, code, message)
	c.Abort()
}

// Principal returns the authenticated user set by the gate.
func Principal(c *gin.Context) (*model.User, bool) {
	v, ok := c.Get(ContextPrincipalKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*model.User)
	return user, ok && user != nil
}

// PrincipalFromContext reads the principal from a request context.
func PrincipalFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(principalKey{}).(*model.User)
	return user, ok && user != nil
}
