package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"bitbucket.org/mmdatafocus/insights_backend/config"
	"bitbucket.org/mmdatafocus/insights_backend/middlewares"
	"bitbucket.org/mmdatafocus/insights_backend/models"
	"bitbucket.org/mmdatafocus/insights_backend/models/reports"
	"bitbucket.org/mmdatafocus/insights_backend/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const defaultPort = "8080"

// Define a struct to represent the rate limiter.
type RateLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func getRedisClient(redisAddress string) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: redisAddress,
	})
	return client
}

// dashboardQuery covers the windowed endpoints: day/month/year plus a date
// anchor. Format and filter-type semantics are validated downstream so bad
// input maps to a 400 with a precise message.
type dashboardQuery struct {
	Date       string `form:"date" binding:"required"`
	FilterType string `form:"filterType" binding:"required"`
}

// monthQuery covers the month-only endpoints (YYYY-MM or YYYY/MM anchors).
type monthQuery struct {
	Date string `form:"date" binding:"required"`
}

func bindQuery(c *gin.Context, query any) bool {
	if err := c.ShouldBindQuery(query); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, gin.H{"message": utils.ProcessValidationErrors(err)})
		} else {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid query parameters"})
		}
		return false
	}
	return true
}

// respondReportError maps report errors onto the HTTP contract: invalid input
// is a 400 with the precise message, a missing organization is a 404, and
// anything else is logged and returned as an opaque 500.
func respondReportError(c *gin.Context, funcName string, err error) {
	switch {
	case errors.Is(err, utils.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, utils.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Organization not found!"})
	default:
		config.LogError(config.GetLogger(), "server.go", funcName, "report", nil, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error."})
	}
}

func overviewHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var query dashboardQuery
		if !bindQuery(c, &query) {
			return
		}
		resp, err := reports.GetOverviewData(c.Request.Context(), query.Date, query.FilterType)
		if err != nil {
			respondReportError(c, "overviewHandler", err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

func salesOverTimeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var query dashboardQuery
		if !bindQuery(c, &query) {
			return
		}
		resp, err := reports.GetSalesOverTime(c.Request.Context(), query.Date, query.FilterType)
		if err != nil {
			respondReportError(c, "salesOverTimeHandler", err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

func expensesByCategoryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var query dashboardQuery
		if !bindQuery(c, &query) {
			return
		}
		resp, err := reports.GetExpenseByCategory(c.Request.Context(), query.Date, query.FilterType)
		if err != nil {
			respondReportError(c, "expensesByCategoryHandler", err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

func topProductCustomerHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var query dashboardQuery
		if !bindQuery(c, &query) {
			return
		}
		resp, err := reports.GetTopProductCustomer(c.Request.Context(), query.Date, query.FilterType)
		if err != nil {
			respondReportError(c, "topProductCustomerHandler", err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

func topSellingProductsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var query monthQuery
		if !bindQuery(c, &query) {
			return
		}
		resp, err := reports.GetTopSellingProducts(c.Request.Context(), query.Date)
		if err != nil {
			respondReportError(c, "topSellingProductsHandler", err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

func inventoryOverviewHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var query monthQuery
		if !bindQuery(c, &query) {
			return
		}
		resp, err := reports.GetInventoryOverview(c.Request.Context(), query.Date)
		if err != nil {
			respondReportError(c, "inventoryOverviewHandler", err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

func customerRetentionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var query monthQuery
		if !bindQuery(c, &query) {
			return
		}
		resp, err := reports.GetCustomerRetention(c.Request.Context(), query.Date)
		if err != nil {
			respondReportError(c, "customerRetentionHandler", err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

func averageOrderValueHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var query dashboardQuery
		if !bindQuery(c, &query) {
			return
		}
		resp, err := reports.GetAverageOrderValue(c.Request.Context(), query.Date, query.FilterType)
		if err != nil {
			respondReportError(c, "averageOrderValueHandler", err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

func customNotFoundHandler(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
}

func main() {
	port := os.Getenv("API_PORT")
	if port == "" {
		// Cloud Run standard env var.
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = defaultPort
	}

	logger := config.GetLogger()

	// Monetary fields serialize as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true

	// Cloud Run sends SIGTERM on revision shutdown; handle it for graceful drain.
	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	// Start the HTTP server ASAP so Cloud Run considers the revision healthy.
	// Until DB/Redis are ready, we return 503 for app endpoints.
	r := gin.New()
	// Correlation IDs: generate once per request and attach to context.
	r.Use(func(c *gin.Context) {
		cid := c.GetHeader("x-correlation-id")
		if cid == "" {
			cid = uuid.NewString()
		}
		c.Request = c.Request.WithContext(utils.SetCorrelationIdInContext(c.Request.Context(), cid))
		c.Next()
	})
	r.Use(func(c *gin.Context) {
		// Always allow Cloud Run startup probe.
		if c.Request.URL.Path == "/healthz" {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}
		// Gate critical endpoints on dependency readiness.
		if config.GetDB() == nil || config.GetRedisDB() == nil {
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}
		c.Next()
	})

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	corsConfig := cors.DefaultConfig()
	// Production-safe CORS:
	// - In production, require explicit allowlist via CORS_ALLOWED_ORIGINS (comma-separated).
	// - In non-production, allow all (developer convenience).
	allowedOrigins := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if strings.EqualFold(strings.TrimSpace(os.Getenv("GO_ENV")), "production") {
		if allowedOrigins == "" {
			// Safer default: deny all if not configured in production.
			corsConfig.AllowOrigins = []string{}
		} else {
			corsConfig.AllowOrigins = splitAndTrim(allowedOrigins)
		}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "PUT", "DELETE", "OPTIONS")
	corsConfig.AddAllowHeaders("token", "Origin", "Content-Type", "Authorization")
	corsConfig.AddExposeHeaders("Content-Length")
	corsConfig.AllowCredentials = true

	r.Use(cors.New(corsConfig))

	// Optional rate limiting (recommended for production).
	// Env:
	// - RATE_LIMIT_ENABLED=true
	// - RATE_LIMIT_WINDOW_SECONDS=60
	// - RATE_LIMIT_MAX_REQUESTS=600
	if strings.EqualFold(strings.TrimSpace(os.Getenv("RATE_LIMIT_ENABLED")), "true") {
		client := getRedisClient(os.Getenv("REDIS_ADDRESS"))
		limit := int64(600)
		if v := strings.TrimSpace(os.Getenv("RATE_LIMIT_MAX_REQUESTS")); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
				limit = n
			}
		}
		windowSec := int64(60)
		if v := strings.TrimSpace(os.Getenv("RATE_LIMIT_WINDOW_SECONDS")); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
				windowSec = n
			}
		}
		rateLimiter := NewRateLimiter(client, limit, time.Duration(windowSec)*time.Second)
		r.Use(rateLimiter.RateLimitMiddleware)
	}

	r.Use(customErrorLogger(logger))
	r.Use(gin.Recovery())

	dashboard := r.Group("/api/dashboard", middlewares.AuthMiddleware())
	dashboard.GET("/overview", overviewHandler())
	dashboard.GET("/sales-over-time", salesOverTimeHandler())
	dashboard.GET("/expenses-by-category", expensesByCategoryHandler())
	dashboard.GET("/top-products-customers", topProductCustomerHandler())
	dashboard.GET("/top-selling-products", topSellingProductsHandler())
	dashboard.GET("/inventory-overview", inventoryOverviewHandler())
	dashboard.GET("/customer-retention", customerRetentionHandler())
	dashboard.GET("/average-order-value", averageOrderValueHandler())

	r.NoRoute(customNotFoundHandler)

	// Start listening immediately (Cloud Run startup probe is TCP based).
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		// ListenAndServe returns http.ErrServerClosed on graceful shutdown.
		serverErrCh <- srv.ListenAndServe()
	}()

	// Connect dependencies after the port is open.
	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()

	// Now DB is ready; run migrations.
	db := config.GetDB()
	sqlDB, _ := db.DB()
	defer func() {
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
	}()
	// IMPORTANT: AutoMigrate can run DDL that blocks tables and causes 504/502 timeouts.
	// Allow disabling migrations on startup (run them as a separate job instead).
	if !strings.EqualFold(strings.TrimSpace(os.Getenv("SKIP_MIGRATIONS")), "true") {
		models.MigrateTable()
	} else {
		logger.WithFields(logrus.Fields{"field": "migrations"}).Warn("SKIP_MIGRATIONS=true; skipping AutoMigrate on startup")
	}

	// Set the session isolation level to READ COMMITTED
	for attempt := 1; ; attempt++ {
		err := db.Exec("SET SESSION TRANSACTION ISOLATION LEVEL READ COMMITTED").Error
		if err == nil {
			break
		}
		sleep := time.Second * time.Duration(1<<min(attempt, 5))
		if sleep > 30*time.Second {
			sleep = 30 * time.Second
		}
		logger.WithFields(logrus.Fields{
			"field":   "database",
			"attempt": attempt,
		}).Warn("failed to set isolation level; retrying in " + sleep.String() + ": " + err.Error())
		time.Sleep(sleep)
	}

	logger.WithFields(logrus.Fields{
		"info": "Connection Established",
	}).Info("dashboard API listening on http://localhost:", port)
	log.Println("Server started successfully")

	// Block until shutdown or server error.
	select {
	case <-sigCtx.Done():
		// graceful shutdown below
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithFields(logrus.Fields{"field": "http"}).Error("server stopped unexpectedly: " + err.Error())
		}
	}

	// Drain HTTP requests.
	shutdownTimeout := 30 * time.Second
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithFields(logrus.Fields{"field": "http"}).Error("graceful shutdown failed: " + err.Error())
	}

	// Close Redis (best-effort).
	if rdb := config.GetRedisDB(); rdb != nil {
		_ = rdb.Close()
	}
}

// customErrorLogger is a custom Gin middleware that logs only errors
func customErrorLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Only log when there are errors
		if len(c.Errors) > 0 {
			logger.Error(c.Errors.String())
		}
	}
}

// Initialize a new RateLimiter instance.
func NewRateLimiter(client *redis.Client, limit int64, window time.Duration) *RateLimiter {
	return &RateLimiter{
		client: client,
		limit:  limit,
		window: window,
	}
}

// Middleware function to check rate limits.
func (rl *RateLimiter) RateLimitMiddleware(c *gin.Context) {
	// Get the IP address or user identifier from the request.
	key := c.ClientIP() // Assuming IP-based rate limiting

	// Check if the key exists in Redis.
	exists, err := rl.client.Exists(c.Request.Context(), key).Result()
	if err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	// If the key doesn't exist, create it and set expiry.
	if exists == 0 {
		err := rl.client.Set(c.Request.Context(), key, 1, rl.window).Err()
		if err != nil {
			c.AbortWithError(http.StatusInternalServerError, err)
			return
		}
		c.Next()
		return
	}

	// If the key exists, get the current count.
	count, err := rl.client.Incr(c.Request.Context(), key).Result()
	if err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	// If the count exceeds the limit, return an error response.
	if count > rl.limit {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error": fmt.Sprintf("Rate limit exceeded. Try again in %d seconds", int(rl.window.Seconds())),
		})
		return
	}

	c.Next()
}

func splitAndTrim(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
