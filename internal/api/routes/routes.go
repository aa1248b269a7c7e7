package routes

import (
	"strings"
	"time"

	"election-service/internal/api/handlers"
	"election-service/internal/api/middleware"
	"election-service/internal/config"
	"election-service/internal/models"
	"election-service/internal/repositories/sqlstore"
	"election-service/internal/services"
	"election-service/internal/storage"
	"election-service/internal/websocket"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// Dependencies are the long-lived resources built in main. Redis and Events
// may be nil.
type Dependencies struct {
	Config  *config.Config
	DB      *gorm.DB
	Redis   *services.RedisService
	Hub     *websocket.Hub
	Storage storage.FileStorage
	Events  services.EventPublisher

	// Clock overrides time.Now for vote window checks
	Clock func() time.Time
}

type Router struct {
	engine           *gin.Engine
	cfg              *config.Config
	storage          storage.FileStorage
	userHandler      *handlers.UserHandler
	electionHandler  *handlers.ElectionHandler
	partyHandler     *handlers.PartyHandler
	candidateHandler *handlers.CandidateHandler
	healthHandler    *handlers.HealthHandler
	rateLimitMW      *middleware.RateLimitMiddleware
	authMW           *middleware.AuthMiddleware
}

func NewRouter(deps Dependencies) *Router {
	if deps.Config.Server.GinMode != "" {
		gin.SetMode(deps.Config.Server.GinMode)
	}
	engine := gin.New()

	// Add middlewares
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(deps.Config.Server.AllowedOrigins))
	engine.Use(middleware.LogApi())

	// Optional collaborators stay nil interfaces when absent
	var (
		cache   services.ResultsCache
		limiter middleware.RateLimiter
		pinger  handlers.Pinger
	)
	if deps.Redis != nil {
		cache, limiter, pinger = deps.Redis, deps.Redis, deps.Redis
	}
	var feed services.LiveFeed
	if deps.Hub != nil {
		feed = deps.Hub
	}

	// Initialize repositories
	userRepo := sqlstore.NewUserRepository(deps.DB)
	partyRepo := sqlstore.NewPartyRepository(deps.DB)
	electionRepo := sqlstore.NewElectionRepository(deps.DB)
	candidateRepo := sqlstore.NewCandidateRepository(deps.DB)
	voteRepo := sqlstore.NewVoteRepository(deps.DB)

	// Initialize services
	voteOpts := []services.VoteServiceOption{
		services.WithResultsCache(cache, deps.Config.Results.CacheTTL),
		services.WithEventPublisher(deps.Events),
		services.WithLiveFeed(feed),
	}
	if deps.Clock != nil {
		voteOpts = append(voteOpts, services.WithClock(deps.Clock))
	}
	userService := services.NewUserService(userRepo, partyRepo, deps.Storage, deps.Config.JWT.Secret, deps.Config.JWT.ExpirationTime)
	voteService := services.NewVoteService(electionRepo, voteRepo, voteOpts...)
	electionService := services.NewElectionService(electionRepo, cache, deps.Events)
	candidateService := services.NewCandidateService(candidateRepo, electionRepo, partyRepo, cache)
	partyService := services.NewPartyService(partyRepo, deps.Storage)

	return &Router{
		engine:           engine,
		cfg:              deps.Config,
		storage:          deps.Storage,
		userHandler:      handlers.NewUserHandler(userService, voteService),
		electionHandler:  handlers.NewElectionHandler(electionService, voteService, deps.Hub),
		partyHandler:     handlers.NewPartyHandler(partyService),
		candidateHandler: handlers.NewCandidateHandler(candidateService),
		healthHandler:    handlers.NewHealthHandler(deps.DB, pinger),
		rateLimitMW:      middleware.NewRateLimitMiddleware(limiter),
		authMW:           middleware.NewAuthMiddleware(deps.Config.JWT.Secret, userRepo),
	}
}

func (r *Router) SetupRoutes() {
	limit := r.cfg.Server.RateLimit
	if limit <= 0 {
		limit = 100
	}

	r.engine.GET("/health", r.healthHandler.Health)
	r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if local, ok := r.storage.(*storage.LocalStorage); ok && strings.HasPrefix(r.cfg.Storage.PublicURL, "/") {
		r.engine.Static(r.cfg.Storage.PublicURL, local.Root())
	}

	api := r.engine.Group("/api")
	requireAuth := r.authMW.RequireAuth()
	requireAdmin := middleware.RequireAdmin()
	perUser := r.rateLimitMW.RateLimit(limit, time.Minute)

	// User routes
	users := api.Group("/users")
	{
		publicUsers := users.Group("")
		publicUsers.Use(r.rateLimitMW.RateLimitIP(50, time.Minute)) // 50 requests per minute per IP
		publicUsers.POST("/register", r.userHandler.Register)
		publicUsers.POST("/login", r.userHandler.Login)

		authed := users.Group("")
		authed.Use(requireAuth, perUser)
		authed.GET("/me", r.userHandler.GetMe)
		authed.PUT("/profile", r.userHandler.UpdateProfile)
		authed.DELETE("/profile", r.userHandler.DeleteProfile)
		authed.GET("/voted-elections", r.userHandler.VotedElections)
		authed.GET("/vote-details/:electionId", r.userHandler.VoteDetails)
		authed.GET("", requireAdmin, r.userHandler.ListUsers)
	}

	// Election routes
	elections := api.Group("/elections")
	{
		elections.GET("", r.electionHandler.ListElections)
		elections.GET("/:id", r.electionHandler.GetElection)

		authed := elections.Group("")
		authed.Use(requireAuth, perUser)
		authed.POST("/:id/vote", middleware.RequireRole(models.Role.CanVote), r.electionHandler.CastVote)
		authed.GET("/results/:id/voter", r.electionHandler.VoterResults)

		adminResults := middleware.RequireRole(models.Role.CanViewAdminResults)
		authed.GET("/results/:id", adminResults, r.electionHandler.AdminResults)
		authed.GET("/results/:id/admin", adminResults, r.electionHandler.AdminResults)

		admin := authed.Group("")
		admin.Use(requireAdmin)
		admin.POST("", r.electionHandler.CreateElection)
		admin.PUT("/:id", r.electionHandler.UpdateElection)
		admin.DELETE("/:id", r.electionHandler.DeleteElection)
		admin.PUT("/:id/declare-results", r.electionHandler.DeclareResults)
		admin.PUT("/:id/revoke-results", r.electionHandler.RevokeResults)
		admin.GET("/:id/live", r.electionHandler.LiveResults)
	}

	// Party routes
	parties := api.Group("/parties")
	{
		parties.GET("", r.partyHandler.ListParties)

		admin := parties.Group("")
		admin.Use(requireAuth, perUser, requireAdmin)
		admin.POST("", r.partyHandler.CreateParty)
		admin.PUT("/:id", r.partyHandler.UpdateParty)
		admin.DELETE("/:id", r.partyHandler.DeleteParty)
	}

	// Candidate routes
	candidates := api.Group("/candidates")
	candidates.Use(requireAuth, perUser, requireAdmin)
	{
		candidates.POST("", r.candidateHandler.AddCandidate)
		candidates.DELETE("/:id", r.candidateHandler.RemoveCandidate)
	}
}

func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
