package router

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/ricemill/internal/server/handlers"
	authsvc "github.com/mamadbah2/ricemill/internal/service/auth"
)

// New wires the Gin engine with required routes and middlewares.
func New(ledger *handlers.LedgerHandler, auth *handlers.AuthHandler, authSvc *authsvc.Service, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.POST("/api/auth/login", auth.Login)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api", authMiddleware(authSvc, logger))
	{
		api.GET("/workbook", ledger.GetWorkbook)
		api.POST("/workbook/:kind/items", ledger.AddItem)
		api.PATCH("/workbook/:kind/items/:id", ledger.UpdateItem)
		api.DELETE("/workbook/:kind/items/:id", ledger.RemoveItem)
		api.PUT("/workbook/outputs/:product", ledger.SetOutTurn)
		api.PUT("/workbook/rice-bags", ledger.SetRiceBags)
		api.POST("/workbook/reset", ledger.ResetWorkbook)

		api.POST("/records", ledger.SaveRecord)
		api.GET("/reports", ledger.Reports)
		api.GET("/analytics", ledger.Analytics)
	}

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func authMiddleware(svc *authsvc.Service, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims, err := svc.Validate(token)
		if err != nil {
			logger.Warn("rejected session token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Set(handlers.UserKey, claims.Email)
		c.Next()
	}
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
