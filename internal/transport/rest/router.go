package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/investment-manager/internal/account"
	"github.com/frahmantamala/investment-manager/internal/auth"
	"github.com/frahmantamala/investment-manager/internal/transaction"
	"github.com/frahmantamala/investment-manager/internal/transport/middleware"
	"github.com/frahmantamala/investment-manager/internal/transport/swagger"
	"github.com/frahmantamala/investment-manager/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, authHandler *auth.Handler, userHandler *user.Handler, accountHandler *account.Handler, transactionHandler *transaction.Handler, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	// Apply global middleware
	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", authHandler.Login)
			sr.Post("/refresh", authHandler.RefreshToken)
			sr.Post("/logout", authHandler.Logout)
		})

		// Everything below requires an authenticated caller.
		r.Group(func(pr chi.Router) {
			pr.Use(authHandler.AuthMiddleware)

			pr.Get("/users/me", userHandler.GetCurrentUser)

			pr.Route("/accounts", func(ar chi.Router) {
				ar.Get("/", accountHandler.ListAccounts)
				ar.Post("/", accountHandler.CreateAccount)
				ar.Get("/{id}", accountHandler.GetAccount)
				ar.Put("/{id}", accountHandler.UpdateAccount)
				ar.Patch("/{id}", accountHandler.UpdateAccount)
				ar.Delete("/{id}", accountHandler.DeleteAccount)
			})

			pr.Route("/transactions", func(tr chi.Router) {
				tr.Get("/", transactionHandler.ListTransactions)
				tr.Post("/", transactionHandler.CreateTransaction)
				tr.Get("/{id}", transactionHandler.GetTransaction)
			})

			// Admin-only cross-user report.
			pr.Group(func(mr chi.Router) {
				mr.Use(middleware.RequireAdmin(logger))
				mr.Get("/admin-transactions", transactionHandler.AdminTransactions)
			})
		})
	})
}
