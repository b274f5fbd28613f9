package router

import (
	"go-shop-api/handler"
	"go-shop-api/model"
	"net/http"
)

func NewRouter(userHandler *handler.UserHandler, itemHandler *handler.ItemHandler, session *handler.SessionMiddleware) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.HealthCheck)

	// Public identity endpoints.
	mux.Handle("POST /api/v1/users/register", handler.ErrorHandlingMiddleware(userHandler.Register))
	mux.Handle("PATCH /api/v1/users/verify", handler.ErrorHandlingMiddleware(userHandler.VerifyEmail))
	mux.Handle("POST /api/v1/users/login", handler.ErrorHandlingMiddleware(userHandler.Login))
	mux.Handle("POST /api/v1/users/google", handler.ErrorHandlingMiddleware(userHandler.GoogleLogin))
	mux.Handle("POST /api/v1/users/refresh", handler.ErrorHandlingMiddleware(userHandler.Refresh))

	// Session-gated endpoints.
	protected := func(h handler.AppHandlerFunc) http.Handler {
		return session.Handle(handler.ErrorHandlingMiddleware(h))
	}
	mux.Handle("POST /api/v1/users/logout", protected(userHandler.Logout))
	mux.Handle("GET /api/v1/users/me", protected(userHandler.Me))
	mux.Handle("PATCH /api/v1/users/me", protected(userHandler.UpdateMe))
	mux.Handle("DELETE /api/v1/users/me", protected(userHandler.DeleteMe))

	// Admin-only endpoints.
	admin := func(h handler.AppHandlerFunc) http.Handler {
		return session.Handle(handler.RequireRoles(model.RoleAdmin)(handler.ErrorHandlingMiddleware(h)))
	}
	mux.Handle("GET /api/v1/users", admin(userHandler.ListUsers))
	mux.Handle("POST /api/v1/items", admin(itemHandler.CreateItem))

	// Public catalog endpoints.
	mux.Handle("GET /api/v1/items", handler.ErrorHandlingMiddleware(itemHandler.ListItems))
	mux.Handle("GET /api/v1/items/search", handler.ErrorHandlingMiddleware(itemHandler.SearchItems))
	mux.Handle("GET /api/v1/items/{id}", handler.ErrorHandlingMiddleware(itemHandler.GetItem))

	return mux
}
