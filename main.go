package main

import (
	"encoding/json"
	stdlog "log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/username/goldbooks/backend/src/config"
	"github.com/username/goldbooks/backend/src/database"
	"github.com/username/goldbooks/backend/src/handlers"
	"github.com/username/goldbooks/backend/src/logger"
	"github.com/username/goldbooks/backend/src/security"
	"github.com/username/goldbooks/backend/src/services"
	"github.com/username/goldbooks/backend/src/store"
)

var limiter = rate.NewLimiter(rate.Every(100*time.Millisecond), 30)

func rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			logger.L.Warn("Rate limit exceeded",
				"method", r.Method,
				"path", r.URL.Path,
				"remoteAddr", r.RemoteAddr)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		allowedOrigins := map[string]bool{
			"http://localhost:3000": true,
		}

		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization, X-Requested-With")
		} else if origin == "" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		if r.Method == "OPTIONS" {
			logger.L.Debug("Handling OPTIONS preflight request", "path", r.URL.Path, "origin", origin)
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)
	logger.L.Info("GoldBooks backend server starting...")

	if len(config.Cfg.JWTSecret) < 32 {
		logger.L.Error("JWT_SECRET configuration invalid. Must be at least 32 bytes.")
		os.Exit(1)
	}

	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	database.InitDB(config.Cfg.DatabasePath)
	logger.L.Info("Database initialized successfully.")

	logger.L.Info("Initializing report cache...")
	reportCache := cache.New(config.Cfg.ReportCacheExpiry, config.Cfg.ReportCacheCleanup)

	logger.L.Info("Initializing stores, services and handlers...")
	receiptLog := store.NewReceiptLog(config.Cfg.ReceiptLogPath)
	chartStore := store.NewChartStore(config.Cfg.ChartPath, config.Cfg.RoleMapPath)

	authService := security.NewAuthService(config.Cfg.JWTSecret, config.Cfg.AccessTokenExpiry)
	reportService := services.NewReportService(receiptLog, chartStore, config.Cfg.OrgTaxID, config.Cfg.ReceiptReadTimeout, reportCache)

	userHandler := handlers.NewUserHandler(authService, config.Cfg.RefreshTokenExpiry)
	reportHandler := handlers.NewReportHandler(reportService)
	receiptHandler := handlers.NewReceiptHandler(receiptLog, config.Cfg.ReceiptReadTimeout)
	accountHandler := handlers.NewAccountHandler(chartStore)

	logger.L.Info("Configuring routes...")
	rootMux := http.NewServeMux()
	apiRouter := http.NewServeMux()

	apiRouter.HandleFunc("POST /api/auth/register", userHandler.RegisterUserHandler)
	apiRouter.HandleFunc("POST /api/auth/login", userHandler.LoginUserHandler)
	apiRouter.Handle("POST /api/auth/logout", userHandler.AuthMiddleware(http.HandlerFunc(userHandler.LogoutUserHandler)))

	protected := func(handler http.HandlerFunc) http.Handler {
		return userHandler.AuthMiddleware(handler)
	}

	apiRouter.Handle("GET /api/reports/ledger", protected(reportHandler.HandleLedgerReport))
	apiRouter.Handle("GET /api/reports/stock-movements", protected(reportHandler.HandleStockMovements))
	apiRouter.Handle("GET /api/reports/trial-balance", protected(reportHandler.HandleTrialBalance))
	apiRouter.Handle("GET /api/reports/vat-sales", protected(reportHandler.HandleVatSales))
	apiRouter.Handle("GET /api/reports/vat-purchases", protected(reportHandler.HandleVatPurchases))
	apiRouter.Handle("GET /api/reports/journal", protected(reportHandler.HandleJournal))

	apiRouter.Handle("GET /api/receipts", protected(receiptHandler.HandleListReceipts))
	apiRouter.Handle("POST /api/receipts", protected(receiptHandler.HandleCreateReceipt))
	apiRouter.Handle("PUT /api/receipts/{receiptNo}", protected(receiptHandler.HandleUpdateReceipt))
	apiRouter.Handle("DELETE /api/receipts/{receiptNo}", protected(receiptHandler.HandleDeleteReceipt))

	apiRouter.Handle("GET /api/accounts", protected(accountHandler.HandleGetAccounts))
	apiRouter.Handle("PUT /api/accounts", protected(accountHandler.HandlePutAccounts))
	apiRouter.Handle("GET /api/accounts/roles", protected(accountHandler.HandleGetRoles))
	apiRouter.Handle("PUT /api/accounts/roles", protected(accountHandler.HandlePutRoles))

	rootMux.Handle("/api/", apiRouter)

	rootMux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" && r.Method == http.MethodGet {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{"message": "GoldBooks Backend is running"})
		} else if !strings.HasPrefix(r.URL.Path, "/api/") {
			logger.L.Warn("Root level path not found", "method", r.Method, "path", r.URL.Path)
			http.NotFound(w, r)
		}
	})

	logger.L.Info("Applying global middleware...")
	finalHandler := enableCORS(rateLimitMiddleware(rootMux))

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      finalHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.L.Error("Failed to start server", "error", err)
		stdlog.Fatalf("Failed to start server: %v", err)
	}
}
