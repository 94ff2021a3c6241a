package handlers

import (
	"log/slog"
	"net/http"
	"runtime"
)

// RecoverWrapper turns a handler panic into a logged 500 response.
func RecoverWrapper(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				stack := make([]byte, 8*1024)
				stack = stack[:runtime.Stack(stack, false)]
				slog.Error("panic recovered", "error", rec, "method", r.Method, "path", r.URL.Path, "stack", string(stack))
				writeJSON(w, http.StatusInternalServerError, ApiResponse{
					Success: false,
					Message: "internal server error",
				})
			}
		}()

		next.ServeHTTP(w, r)
	})
}
