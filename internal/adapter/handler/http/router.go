package http

import (
	"net/http"

	"github.com/MikeRez0/conciliator/internal/adapter/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Router struct {
	*gin.Engine
}

func NewRouter(
	conf *config.HTTP,
	orderHandler *OrderHandler,
	balanceHandler *BalanceHandler,
	logger *zap.Logger) (*Router, error) {

	router := gin.New()
	router.Use(requestID(), requestLogger(logger), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(conf.AllowOrigins) == 0 || conf.AllowOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = conf.AllowOrigins
	}
	corsConfig.AddAllowHeaders(requestIDHeader)
	corsConfig.AddExposeHeaders(requestIDHeader)
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(ctx *gin.Context) {
		ctx.Status(http.StatusOK)
	})

	api := router.Group("/api")
	{
		orders := api.Group("/orders")
		{
			orders.POST("", orderHandler.CreateOrder)
			orders.GET("", orderHandler.ListOrders)
			orders.GET("/:id", orderHandler.GetOrder)
			orders.POST("/:id/support", orderHandler.OpenSupport)
			orders.POST("/:id/recovered", orderHandler.MarkRecovered)
			orders.POST("/:id/confirmed-cost", orderHandler.ConfirmCost)
		}

		summary := api.Group("/summary")
		{
			summary.GET("/balance", balanceHandler.Balance)
			summary.GET("/kpis", balanceHandler.KPIs)
			summary.GET("/monthly", balanceHandler.MonthlySummary)
		}
	}

	return &Router{router}, nil
}

// Serve starts the HTTP server
func (r *Router) Serve(listenAddr string) error {
	return r.Run(listenAddr)
}
