// Package middleware provides HTTP middleware for request validation and processing.
package middleware

import (
	"net/http"

	"github.com/damiad/net-worth-tracker/internal/api/response"
	"github.com/damiad/net-worth-tracker/internal/validation"
	"github.com/go-chi/chi/v5"
)

// ValidateUUIDParams returns middleware that checks each named URL parameter
// is present and is a valid UUID. Returns 400 Bad Request otherwise.
//
// Example usage in router:
//
//	r.Route("/user/{userId}", func(r chi.Router) {
//	    r.Use(middleware.ValidateUUIDParams("userId"))
//	    r.Get("/overview", handler.Overview)
//	})
func ValidateUUIDParams(params ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, name := range params {
				value := chi.URLParam(r, name)

				if value == "" {
					response.RespondError(w, http.StatusBadRequest, "valid "+name+" is required", "")
					return
				}

				if err := validation.ValidateUUID(value); err != nil {
					response.RespondError(w, http.StatusBadRequest, "invalid "+name+" format", err.Error())
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ValidateUUIDMiddleware validates the "uuid" URL parameter.
func ValidateUUIDMiddleware(next http.Handler) http.Handler {
	return ValidateUUIDParams("uuid")(next)
}
