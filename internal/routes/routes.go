package routes

import (
	"io"
	"net/http"

	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"

	"route_planner/internal/controllers"
	"route_planner/internal/mapview"
	"route_planner/internal/middleware"
	"route_planner/internal/planner"
)

// Deps is what the router needs from main.
type Deps struct {
	Planner   *planner.Planner
	Hub       *mapview.Hub
	JWTSecret string
	AccessLog io.Writer
}

// SetupRouter builds the gin engine. The caller owns serving it.
func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	if d.AccessLog != nil {
		r.Use(ginlog.SetLogger(
			ginlog.WithWriter(d.AccessLog),
			ginlog.WithSkipPath([]string{"/healthz"}),
		))
	}
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/")
	api.Use(middleware.RequireAuth(d.JWTSecret))

	StopRoutes(api, controllers.NewStopController(d.Planner))
	RouteRoutes(api, controllers.NewRouteController(d.Planner))
	if d.Hub != nil {
		WebSocketRoutes(api, controllers.NewMapSocketController(d.Hub))
	}
	return r
}

func StopRoutes(g *gin.RouterGroup, sc *controllers.StopController) {
	stops := g.Group("/stops")
	{
		stops.GET("", sc.ListStops)
		stops.POST("", sc.AddStop)
		stops.DELETE("", sc.ClearStops)
		stops.PUT("/order", sc.ReorderStops)
		stops.POST("/move-up/:index", sc.MoveStopUp)
		stops.POST("/move-down/:index", sc.MoveStopDown)
		stops.DELETE("/:id", sc.RemoveStop)
		stops.POST("/:id/validate", sc.RevalidateStop)
	}
}

func RouteRoutes(g *gin.RouterGroup, rc *controllers.RouteController) {
	route := g.Group("/route")
	{
		route.POST("/optimize", rc.OptimizeRoute)
		route.GET("/summary", rc.GetSummary)
		route.GET("/export", rc.ExportRoute)
		route.GET("/map", rc.GetMap)
	}
}

func WebSocketRoutes(g *gin.RouterGroup, mc *controllers.MapSocketController) {
	ws := g.Group("/ws")
	{
		ws.GET("/map", mc.HandleMapWebSocket)
	}
}
