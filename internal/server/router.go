package server

import (
	"log"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/mfalcon/shop-api/internal/config"
	"github.com/mfalcon/shop-api/internal/handlers"
	"github.com/mfalcon/shop-api/internal/httpx"
	"github.com/mfalcon/shop-api/internal/notifier"
	"github.com/mfalcon/shop-api/internal/services"
)

// New constructs the root http.Handler with all routes and middlewares applied.
func New(db *gorm.DB, cfg config.Config, n notifier.Notifier) http.Handler {
	mux := http.NewServeMux()

	// --- Health endpoints ---
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		// Lightweight DB check (SELECT 1) – detailed errors stay out of the body
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Customer endpoints
	ch := handlers.NewCustomerHandler(db)
	mux.HandleFunc("POST /customers", ch.Create)
	mux.HandleFunc("GET /customers", ch.List)
	mux.HandleFunc("GET /customers/{id}", ch.Get)
	mux.HandleFunc("PUT /customers/{id}", ch.Update)
	mux.HandleFunc("DELETE /customers/{id}", ch.Delete)

	// Account endpoints
	accountSvc := services.NewAccountService(db, cfg.StoreTimeout)
	ah := handlers.NewAccountHandler(db, accountSvc)
	mux.HandleFunc("POST /customer_accounts", ah.Create)
	mux.HandleFunc("GET /customer_accounts", ah.List)
	mux.HandleFunc("GET /customer_accounts/{id}", ah.Get)
	mux.HandleFunc("PUT /customer_accounts/{id}", ah.Update)
	mux.HandleFunc("DELETE /customer_accounts/{id}", ah.Delete)

	// Product endpoints
	ph := handlers.NewProductHandler(db)
	mux.HandleFunc("POST /products", ph.Create)
	mux.HandleFunc("GET /products", ph.List)
	mux.HandleFunc("GET /products/{id}", ph.Get)
	mux.HandleFunc("PUT /products/{id}", ph.Update)
	mux.HandleFunc("DELETE /products/{id}", ph.Delete)

	// Order endpoints (placement + status transition go through the workflow)
	orderSvc := services.NewOrderService(db, n, cfg.StoreTimeout)
	oh := handlers.NewOrderHandler(orderSvc)
	mux.HandleFunc("POST /orders", oh.Create)
	mux.HandleFunc("GET /orders", oh.List)
	mux.HandleFunc("GET /orders/{id}", oh.Get)
	mux.HandleFunc("PUT /orders/{id}/status", oh.UpdateStatus)
	mux.HandleFunc("DELETE /orders/{id}", oh.Delete)

	return withRecover(withLogging(mux))
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("panic serving %s %s: %v", r.Method, r.URL.Path, rec)
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
