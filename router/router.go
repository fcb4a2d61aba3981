package router

import (
	"bankdash-api/handler"
	"bankdash-api/repository"
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter assembles the public, authenticated and admin route trees.
func NewRouter(
	userRepo repository.IUserRepository,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	accountHandler *handler.AccountHandler,
	transferHandler *handler.TransferHandler,
	adminHandler *handler.AdminHandler,
) http.Handler {
	r := mux.NewRouter()

	// Public routes
	r.HandleFunc("/health", handler.HealthCheck).Methods("GET")
	r.Handle("/register", handler.ErrorHandlingMiddleware(authHandler.Register)).Methods("POST")
	r.Handle("/login", handler.ErrorHandlingMiddleware(authHandler.Login)).Methods("POST")

	// Authenticated routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(handler.AuthMiddleware(userRepo))

	api.Handle("/me", handler.ErrorHandlingMiddleware(userHandler.Me)).Methods("GET")
	api.Handle("/account", handler.ErrorHandlingMiddleware(accountHandler.GetMyAccount)).Methods("GET")
	api.Handle("/transactions", handler.ErrorHandlingMiddleware(accountHandler.ListMyTransactions)).Methods("GET")
	api.Handle("/stats", handler.ErrorHandlingMiddleware(accountHandler.GetMyStats)).Methods("GET")
	api.Handle("/routing-countries", handler.ErrorHandlingMiddleware(transferHandler.ListRoutingCountries)).Methods("GET")
	api.Handle("/transfers", handler.ErrorHandlingMiddleware(transferHandler.InitiateTransfer)).Methods("POST")
	api.Handle("/transfers/complete", handler.ErrorHandlingMiddleware(transferHandler.CompleteTransfer)).Methods("POST")
	api.Handle("/transfers/{codeId}/cancel", handler.ErrorHandlingMiddleware(transferHandler.CancelTransfer)).Methods("POST")

	// Admin console routes
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(handler.AdminMiddleware)

	admin.Handle("/transactions", handler.ErrorHandlingMiddleware(adminHandler.ListTransactions)).Methods("GET")
	admin.Handle("/transactions/pending", handler.ErrorHandlingMiddleware(adminHandler.ListPendingTransactions)).Methods("GET")
	admin.Handle("/transactions/{id}/approve", handler.ErrorHandlingMiddleware(adminHandler.ApproveTransaction)).Methods("POST")
	admin.Handle("/transactions/{id}/reject", handler.ErrorHandlingMiddleware(adminHandler.RejectTransaction)).Methods("POST")
	admin.Handle("/stats", handler.ErrorHandlingMiddleware(adminHandler.GetStats)).Methods("GET")
	admin.Handle("/users", handler.ErrorHandlingMiddleware(adminHandler.ListUsers)).Methods("GET")
	admin.Handle("/users", handler.ErrorHandlingMiddleware(adminHandler.CreateUser)).Methods("POST")
	admin.Handle("/users/{id}/role", handler.ErrorHandlingMiddleware(adminHandler.UpdateUserRole)).Methods("PUT")
	admin.Handle("/users/{id}/active", handler.ErrorHandlingMiddleware(adminHandler.SetUserActive)).Methods("PUT")
	admin.Handle("/notices", handler.ErrorHandlingMiddleware(adminHandler.ListNotices)).Methods("GET")

	return r
}
