// server/internal/api/routes/routes.go
package routes

import (
	"html/template"
	"net/http"
	"time"

	"farm-catalog-server/config"
	"farm-catalog-server/internal/api/handlers"
	"farm-catalog-server/internal/api/middleware"
	"farm-catalog-server/internal/apperror"
	"farm-catalog-server/internal/socket"
	"farm-catalog-server/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter nhận vào các thành phần phụ thuộc và thiết lập các route.
//
// Thứ tự middleware quan trọng: RespondErrors phải bọc ClassifyErrors, và
// Recovery nằm trong cùng để panic cũng đi qua chuỗi xử lý lỗi.
func SetupRouter(
	cfg config.Config,
	db store.Store,
	views *template.Template,
	wsHub *socket.Hub,
) *gin.Engine {
	router := gin.New()
	router.SetHTMLTemplate(views)

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics())
	router.Use(corsMiddleware(cfg.CORS))
	router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/ws", "/metrics"})))
	router.Use(middleware.RespondErrors())
	router.Use(middleware.ClassifyErrors())
	router.Use(middleware.Recovery())

	// Khởi tạo các handlers
	farmHandler := &handlers.FarmHandler{Farms: db, Events: wsHub}
	productHandler := &handlers.ProductHandler{Products: db, Events: wsHub}
	webSocketHandler := &handlers.WebSocketHandler{Hub: wsHub}

	router.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, "/farms") })
	router.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/ws", webSocketHandler.ServeWs)

	farms := router.Group("/farms")
	{
		farms.GET("", handlers.Wrap(farmHandler.Index))
		farms.GET("/new", handlers.Wrap(farmHandler.New))
		farms.GET("/:id", handlers.Wrap(farmHandler.Show))
		farms.POST("", handlers.Wrap(farmHandler.Create))
		farms.GET("/:id/products/new", handlers.Wrap(farmHandler.NewProduct))
		farms.POST("/:id/products", handlers.Wrap(farmHandler.CreateProduct))
		farms.DELETE("/:id", handlers.Wrap(farmHandler.Delete))
	}

	products := router.Group("/products")
	{
		products.GET("", handlers.Wrap(productHandler.Index))
		products.GET("/new", handlers.Wrap(productHandler.New))
		products.GET("/:id", handlers.Wrap(productHandler.Show))
		products.GET("/:id/edit", handlers.Wrap(productHandler.Edit))
		products.POST("", handlers.Wrap(productHandler.Create))
		products.PUT("/:id", handlers.Wrap(productHandler.Update))
		products.DELETE("/:id", handlers.Wrap(productHandler.Delete))
	}

	router.NoRoute(handlers.Wrap(func(c *gin.Context) error {
		return apperror.NotFound()
	}))

	return router
}

// Handler là http.Handler hoàn chỉnh: method override phải chạy trước khi gin chọn route.
func Handler(router *gin.Engine) http.Handler {
	return middleware.MethodOverride(router)
}

func corsMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	return cors.New(corsCfg)
}
