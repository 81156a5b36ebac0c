package main

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	generate_excel "ops-console/http-server/generate-report/generate-excel"
	monitoring "ops-console/http-server/monitoring/get"
	saveorder "ops-console/http-server/orders/save"
	uporder "ops-console/http-server/orders/update"
	getpicklist "ops-console/http-server/picklists/get"
	uppicklist "ops-console/http-server/picklists/update"
	getsession "ops-console/http-server/session/get"
	"ops-console/http-server/session/login"
	"ops-console/http-server/session/logout"
	savestock "ops-console/http-server/stocks/save"
	savetransfer "ops-console/http-server/transfers/save"
	uptransfer "ops-console/http-server/transfers/update"
	getview "ops-console/http-server/views/get"
	"ops-console/internal/config"
	"ops-console/internal/console"
	"ops-console/internal/metrics"
	"ops-console/internal/middleware/auth"
	"ops-console/internal/render"
	"ops-console/internal/service/export"
	"ops-console/internal/storage"
)

const frontendDir = "./frontend-dist"

func routes(cfg config.Config, log *slog.Logger, store storage.SessionStore, ops *console.Console, exporter *export.Service, m *metrics.Metrics) *chi.Mux {
	router := chi.NewRouter()

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:8081", "http://localhost:5173"}
	}
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	router.Use(corsHandler.Handler)
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(m.Middleware)

	router.With(auth.BasicAuth(cfg.AdminLogin, cfg.AdminPass)).Handle("/metrics", m.Handler())

	router.Route("/api", func(api chi.Router) {
		api.Use(auth.LoadSession(log, cfg.Session.CookieName, store))

		api.Post("/session", login.Login(log, store, cfg.Session))
		api.Get("/session", getsession.Current())
		api.Delete("/session", logout.Logout(log, store, ops, cfg.Session.CookieName))

		api.Post("/orders", saveorder.CreateOrder(log, ops))
		api.Get("/orders", getview.List(log, ops, render.ViewOrders))
		api.Patch("/orders/{id}/status", uporder.UpdateOrderStatus(log, ops))

		api.Get("/picklists", getview.List(log, ops, render.ViewPicklists))
		api.Patch("/picklists/{id}/status", uppicklist.UpdatePicklistStatus(log, ops))
		api.Get("/picklists/{id}/route", getpicklist.OptimizeRoute(ops))
		api.Get("/picklists/{id}/qr", getpicklist.PicklistQR(ops))

		api.Get("/stocks", getview.List(log, ops, render.ViewStocks))
		api.Post("/stocks/goods-receipt", savestock.ReceiveGoods(log, ops))
		api.Get("/stocks/goods-receipts", getview.List(log, ops, render.ViewGoodsReceipts))

		api.Post("/stock-transfers", savetransfer.CreateTransfer(log, ops))
		api.Get("/stock-transfers", getview.List(log, ops, render.ViewTransfers))
		api.Patch("/stock-transfers/{id}/approve", uptransfer.ApproveTransfer(ops))

		api.Get("/monitoring/{view}", monitoring.Monitoring(log, ops))
		api.Get("/metrics/dashboard", monitoring.Metrics(ops))
		api.Get("/overview", monitoring.Overview(log, ops))

		api.Get("/views/{view}", getview.Latest(ops))
		api.Get("/export/{view}", generate_excel.ExportView(log, exporter))
	})

	if _, err := os.Stat(frontendDir); err != nil {
		log.Info("frontend bundle not found, serving API only", slog.String("path", frontendDir))
		return router
	}

	fileServer := http.FileServer(http.Dir(frontendDir))
	router.Handle("/assets/*", fileServer)

	// SPA fallback: unknown paths get index.html
	router.HandleFunc("/*", func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(frontendDir, filepath.Clean("/"+r.URL.Path))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			http.ServeFile(w, r, path)
			return
		}
		http.ServeFile(w, r, filepath.Join(frontendDir, "index.html"))
	})

	return router
}
