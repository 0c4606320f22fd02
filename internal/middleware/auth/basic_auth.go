package auth

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
)

// BasicAuth закрывает админские маршруты. Пустой логин в конфиге
// блокирует все запросы.
func BasicAuth(log *slog.Logger, username, password string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, pass, ok := r.BasicAuth()
			if !ok || username == "" {
				requireAuth(w)
				return
			}

			userOK := subtle.ConstantTimeCompare([]byte(user), []byte(username)) == 1
			passOK := subtle.ConstantTimeCompare([]byte(pass), []byte(password)) == 1
			if !userOK || !passOK {
				log.Warn("admin auth failed",
					slog.String("user", user),
					slog.String("path", r.URL.Path),
					slog.String("remote", r.RemoteAddr),
				)
				requireAuth(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func requireAuth(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Basic realm="Admin Area"`)
	http.Error(w, "Unauthorized", http.StatusUnauthorized)
}
