package get

import (
	"net/http"

	"github.com/go-chi/render"

	"ops-console/internal/session"
)

func Current() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := session.FromContext(r.Context())
		if !ok || !s.Authenticated() {
			http.Error(w, "not signed in", http.StatusUnauthorized)
			return
		}

		render.JSON(w, r, s)
	}
}
