package app

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/spendwell/spendwell/pkg/household"
	"github.com/spendwell/spendwell/pkg/user"
)

// SetupMiddleware wires all HTTP middlewares for the application.
func SetupMiddleware(r *mux.Router, deps *Dependencies) {

	// Resolve the X-User-Id header into the current user and their household
	// for downstream services
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			userIdHeader := req.Header.Get("X-User-Id")
			ctx := req.Context()

			if userIdHeader != "" {
				u, err := deps.UserService.GetUserByUid(ctx, userIdHeader)
				if err != nil {
					if errors.Is(err, user.ErrUserNotFound) {
						log.Debugf("user not found: %s", userIdHeader)
						http.Error(w, "user not found", http.StatusForbidden)
						return
					}
					log.Errorf("failed to get user: %v", err)
					http.Error(w, err.Error(), http.StatusBadRequest)
					return
				}
				ctx = user.WithUser(ctx, u)

				h, err := deps.HouseholdService.EnsureForUser(ctx, u)
				if err != nil {
					log.Errorf("failed to resolve household for user %s: %v", u.Uid, err)
					http.Error(w, err.Error(), http.StatusInternalServerError)
					return
				}
				ctx = household.WithHousehold(ctx, h)
			}
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
}
