package server

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/t0mb36/veloApp-sub001/internal/booking"
	"github.com/t0mb36/veloApp-sub001/internal/catalog"
	"github.com/t0mb36/veloApp-sub001/internal/checkout"
	"github.com/t0mb36/veloApp-sub001/internal/config"
	"github.com/t0mb36/veloApp-sub001/internal/session"
)

type Server struct {
	router  *gin.Engine
	http    *http.Server
	config  *config.Config
	limiter *RateLimiter
}

func New(
	cfg *config.Config,
	sessions *session.Registry,
	catalogService catalog.Service,
	bookingService booking.Service,
	checkoutService *checkout.Service,
) *Server {
	limiter := NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, 3*time.Minute)
	go limiter.Run(time.Minute)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		RequestLoggingMiddleware(),
		MetricsMiddleware(),
		corsMiddleware(cfg.CORSOrigins),
		RateLimitMiddleware(limiter),
	)

	catalogHandler := catalog.NewHandler(catalogService)
	bookingHandler := booking.NewHandler(bookingService)
	checkoutHandler := checkout.NewHandler(checkoutService)

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	router.GET("/checkout/queue", QueueLength(checkoutService))

	router.GET("/coaches/:coachID/catalog", catalogHandler.GetCatalog)

	shop := router.Group("/")
	shop.Use(session.Middleware(sessions))
	{
		coaches := shop.Group("/coaches/:coachID")
		coaches.GET("/selection", bookingHandler.GetSelection)
		coaches.PUT("/selection/month", bookingHandler.SetMonth)
		coaches.PUT("/selection/date", bookingHandler.SelectDate)
		coaches.PUT("/selection/service", bookingHandler.SelectService)
		coaches.PUT("/selection/slot", bookingHandler.SelectSlot)
		coaches.DELETE("/selection/slot", bookingHandler.ClearSlot)
		coaches.POST("/selection/cart", bookingHandler.AddSelection)
		coaches.GET("/slots", bookingHandler.ListSlots)
		coaches.GET("/calendar", bookingHandler.Calendar)

		shop.GET("/cart", bookingHandler.GetCart)
		shop.DELETE("/cart", bookingHandler.ClearCart)
		shop.POST("/cart/items", bookingHandler.AddItem)
		shop.PATCH("/cart/items/:itemID", bookingHandler.UpdateQuantity)
		shop.DELETE("/cart/items/:itemID", bookingHandler.RemoveItem)
		shop.POST("/cart/open", bookingHandler.OpenCart)
		shop.POST("/cart/close", bookingHandler.CloseCart)
		shop.GET("/cart/events", bookingHandler.CartEvents)
		shop.POST("/cart/checkout", checkoutHandler.Checkout)
	}

	return &Server{
		router:  router,
		config:  cfg,
		limiter: limiter,
		http: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	return s.http.ListenAndServe()
}

// Shutdown stops the limiter cleanup and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.Stop()
	return s.http.Shutdown(ctx)
}

// corsMiddleware allows credentials, and so the session cookie, only for an
// explicit origin list. Browsers refuse credentialed responses to "*".
func corsMiddleware(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", session.HeaderName},
		ExposeHeaders:    []string{"Content-Length", session.HeaderName},
		AllowCredentials: !slices.Contains(origins, "*"),
		MaxAge:           12 * time.Hour,
	})
}
