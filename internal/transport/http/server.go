package http

import (
	"github.com/gin-gonic/gin"

	appsvc "partyup-network/internal/app"
	"partyup-network/internal/bootstrap"
	"partyup-network/internal/pkg/jwtutil"
	"partyup-network/internal/repository"
	"partyup-network/internal/transport/http/handler"
	"partyup-network/internal/transport/http/middleware"
)

const (
	pathLogin      = "/api/auth/login"
	pathCreateUser = "/api/create-user"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	cfg := app.Config
	gin.SetMode(cfg.App.GinMode)

	var publisher middleware.RequestLogPublisher
	if app.RequestLogs != nil {
		publisher = app.RequestLogs
	}

	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.Recovery(app.Log),
		middleware.RequestLog(app.Log, publisher, cfg.Log.ExcludedEndpoints),
		middleware.CORS(cfg.CORS.AllowedOrigin),
	)

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	userRepo := repository.NewUserRepository(app.DB)
	tokenRepo := repository.NewAuthTokenRepository(app.DB)
	friendshipRepo := repository.NewFriendshipRepository(app.DB)

	codec := jwtutil.NewCodec(cfg.Auth.JWTSecret, cfg.JWTExpiration())
	ledger := appsvc.NewTokenLedger(tokenRepo, cfg.SessionTTL(), app.Log)
	accounts := appsvc.NewAccountService(userRepo, codec, ledger, cfg.Auth.BcryptCost, app.Log)
	friendships := appsvc.NewFriendshipService(friendshipRepo, userRepo, app.Log)

	gate := middleware.NewAuthGate(codec, accounts, ledger, cfg.Auth.CookieName,
		[]string{pathLogin, pathCreateUser}, app.Log)

	RegisterAPI(router.Group("/api"), gate, API{
		Auth: handler.NewAuthHandler(accounts, handler.CookieOptions{
			Name:   cfg.Auth.CookieName,
			MaxAge: cfg.Auth.CookieMaxAgeSeconds,
			Domain: cfg.Auth.CookieDomain,
			Secure: cfg.Auth.CookieSecure,
		}),
		Users:       handler.NewUserHandler(accounts),
		Friendships: handler.NewFriendshipHandler(friendships),
	})

	return router
}

type API struct {
	Auth        *handler.AuthHandler
	Users       *handler.UserHandler
	Friendships *handler.FriendshipHandler
}

// RegisterAPI mounts every /api route behind the gate. Login and account
// creation are public inside the gate itself.
func RegisterAPI(api *gin.RouterGroup, gate *middleware.AuthGate, h API) {
	api.Use(gate.Handler())

	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/logout", h.Auth.Logout)
	api.GET("/auth/me", h.Auth.Me)

	api.POST("/create-user", h.Users.Create)
	api.GET("/users/:id", h.Users.Get)
	api.DELETE("/users/me", h.Users.DeleteMe)

	friendships := api.Group("/friendships")
	friendships.POST("/send-request", h.Friendships.SendRequest)
	friendships.POST("/accept-request", h.Friendships.AcceptRequest)
	friendships.POST("/decline-request", h.Friendships.DeclineRequest)
	friendships.POST("/remove-friend", h.Friendships.RemoveFriend)
	friendships.GET("/friends", h.Friendships.Friends)
	friendships.GET("/pending-requests", h.Friendships.PendingRequests)
	friendships.GET("/mutual-friends", h.Friendships.MutualFriends)
	friendships.GET("/are-friends", h.Friendships.AreFriends)
	friendships.GET("/count", h.Friendships.Count)
	friendships.GET("/friends-of", h.Friendships.FriendsOf)
}
