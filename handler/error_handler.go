package handler

import (
	"go-shop-api/common"
	"net/http"
)

// AppHandlerFunc is a handler that reports failures as an *AppError
// instead of writing them to the response itself.
type AppHandlerFunc func(http.ResponseWriter, *http.Request) *common.AppError

// ErrorHandlingMiddleware adapts an AppHandlerFunc into a standard
// http.HandlerFunc, sending any returned AppError as the response.
func ErrorHandlingMiddleware(next AppHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if appErr := next(w, r); appErr != nil {
			appErr.Send(w)
		}
	}
}
