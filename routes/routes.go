package routes

import (
	"strings"
	"time"

	"artisthub/handlers"
	"artisthub/middleware"
	"artisthub/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Options carries what the router needs beyond the handlers.
type Options struct {
	Tokens            middleware.TokenValidator
	AdminToken        string
	ClientURL         string
	MaxRequestsPerMin int
	Logger            *zap.Logger
}

// NewRouter builds the engine with the global middleware chain and every route.
func NewRouter(hb *handlers.HandlerBundle, opts Options) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = utils.GetLogger()
	}
	r := gin.New()
	r.Use(utils.ErrorHandler())
	r.Use(middleware.RequestLogger(opts.Logger))
	if opts.MaxRequestsPerMin > 0 {
		r.Use(middleware.RateLimitMiddleware(middleware.NewRateLimiterStore(opts.MaxRequestsPerMin), opts.Logger))
	}
	RegisterRoutes(r, hb, opts)
	return r
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.Health.HealthCheckHandler)
}

// RegisterAuthRoutes registers customer and artist login endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/register", hb.Auth.RegisterHandler)
		api.POST("/login", hb.Auth.LoginHandler)
		api.POST("/artist/login", hb.Auth.ArtistLoginHandler)
	}
}

// RegisterArtistRoutes registers the public catalogue and the artist's own endpoints.
func RegisterArtistRoutes(r *gin.Engine, hb *handlers.HandlerBundle, opts Options) {
	api := r.Group("/api/artists")
	{
		api.GET("", hb.Artists.ListArtistsHandler)
		api.POST("/check-availability", hb.Artists.CheckAvailabilityHandler)
		api.GET("/:id", hb.Artists.GetArtistHandler)
		api.GET("/:id/availability", hb.Artists.GetAvailabilityHandler)

		me := api.Group("/me")
		me.Use(middleware.JWTAuthMiddleware(opts.Tokens, utils.RoleArtist))
		me.GET("", hb.Artists.MeHandler)
		me.PUT("/availability", hb.Artists.UpdateMyAvailabilityHandler)
		me.GET("/bookings", hb.Artists.MyBookingsHandler)
	}
}

// RegisterOrderRoutes registers customer order endpoints.
func RegisterOrderRoutes(r *gin.Engine, hb *handlers.HandlerBundle, opts Options) {
	api := r.Group("/api/orders")
	{
		api.Use(middleware.JWTAuthMiddleware(opts.Tokens, utils.RoleUser))
		api.POST("", hb.Orders.PlaceOrderHandler)
		api.GET("/user", hb.Orders.MyOrdersHandler)
	}
}

// RegisterAdminRoutes registers artist administration and order oversight.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle, opts Options) {
	api := r.Group("/api/admin")
	{
		api.Use(middleware.AdminAuthMiddleware(opts.AdminToken))
		api.GET("/orders", hb.Admin.ListOrdersHandler)
		api.GET("/artists", hb.Admin.ListArtistsHandler)
		api.POST("/artists", hb.Admin.CreateArtistHandler)
		api.PUT("/artists/:id", hb.Admin.UpdateArtistHandler)
		api.DELETE("/artists/:id", hb.Admin.DeleteArtistHandler)
		api.PUT("/artists/:id/availability", hb.Admin.UpdateArtistAvailabilityHandler)
	}
}

func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, opts Options) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins(opts.ClientURL),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r, hb)
	RegisterAuthRoutes(r, hb)
	RegisterArtistRoutes(r, hb, opts)
	RegisterOrderRoutes(r, hb, opts)
	RegisterAdminRoutes(r, hb, opts)
}

// allowedOrigins splits a comma-separated CLIENT_URL.
func allowedOrigins(clientURL string) []string {
	var origins []string
	for _, o := range strings.Split(clientURL, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	return origins
}
