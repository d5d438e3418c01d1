package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"expo-ledger/internal/handler/api"
	"expo-ledger/internal/handler/middleware"
	"expo-ledger/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Scan       *api.ScanHandler
	CheckIn    *api.CheckInHandler
	Redemption *api.RedemptionHandler
	Activity   *api.ActivityHandler
	Raffle     *api.RaffleHandler
	Attendee   *api.AttendeeHandler
	Product    *api.ProductHandler
}

func NewRouter(engine *gin.Engine, cfg config.Config, h Handlers) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, h)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, h Handlers) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		addRoutes(apiGroup, []route{
			{Method: http.MethodPost, Path: "/scan", Handler: h.Scan.Scan},
			{Method: http.MethodPost, Path: "/checkins", Handler: h.CheckIn.CheckIn},
			{Method: http.MethodPost, Path: "/redemptions", Handler: h.Redemption.Redeem},
			{Method: http.MethodGet, Path: "/events/:id/checkins/count", Handler: h.CheckIn.CountByEvent},
			{Method: http.MethodGet, Path: "/attendees/:id", Handler: h.Attendee.Get},
			{Method: http.MethodGet, Path: "/attendees/:id/redemptions", Handler: h.Redemption.ListByAttendee},
			{Method: http.MethodGet, Path: "/booths/:id/products", Handler: h.Product.ListByBooth},
		})

		activities := apiGroup.Group("/activities")
		{
			addRoutes(activities, []route{
				{Method: http.MethodPost, Path: "/:id/join", Handler: h.Activity.Join},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Activity.Get},
			})
		}

		raffles := apiGroup.Group("/raffles")
		{
			addRoutes(raffles, []route{
				{Method: http.MethodPost, Path: "", Handler: h.Raffle.Create},
				{Method: http.MethodPost, Path: "/:id/activate", Handler: h.Raffle.Activate},
				{Method: http.MethodPost, Path: "/:id/close", Handler: h.Raffle.Close},
				{Method: http.MethodPost, Path: "/:id/draw", Handler: h.Raffle.Draw},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Raffle.Get},
				{Method: http.MethodGet, Path: "/:id/winners", Handler: h.Raffle.ListWinners},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
