package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/Basel-Alghamdi/HRMS/internal/handler/http/response"
)

func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.Unauthorized(w, "Failed to extract claims from context")
			return
		}

		admin, ok := claims["is_admin"].(bool)
		if !ok || !admin {
			response.Forbidden(w, "Admin privilege required")
			return
		}

		next.ServeHTTP(w, r)
	})
}
