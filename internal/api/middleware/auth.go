package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/m04kA/AutoBooker-Service/internal/api/handlers"
	"github.com/m04kA/AutoBooker-Service/pkg/jwtauth"
)

// AuthCookieName cookie, в которую login кладет токен
const AuthCookieName = "auth-token"

const msgUnauthorized = "требуется авторизация"

type claimsKey struct{}

// TokenParser проверка access-токена
type TokenParser interface {
	Parse(token string) (*jwtauth.Claims, error)
}

// Auth пропускает запрос только с валидным токеном из Authorization: Bearer или cookie auth-token
func Auth(parser TokenParser, logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				logger.Warn("%s %s - Missing token", r.Method, r.URL.Path)
				handlers.RespondUnauthorized(w, msgUnauthorized)
				return
			}

			claims, err := parser.Parse(token)
			if err != nil {
				logger.Warn("%s %s - Invalid token: %v", r.Method, r.URL.Path, err)
				handlers.RespondUnauthorized(w, msgUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetClaims возвращает данные пользователя, положенные Auth
func GetClaims(ctx context.Context) (*jwtauth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*jwtauth.Claims)
	return claims, ok
}

func extractToken(r *http.Request) string {
	// Не-Bearer заголовок (например Basic) не мешает авторизации по cookie
	const prefix = "bearer "
	if h := r.Header.Get("Authorization"); len(h) > len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) {
		if token := strings.TrimSpace(h[len(prefix):]); token != "" {
			return token
		}
	}
	if c, err := r.Cookie(AuthCookieName); err == nil {
		return c.Value
	}
	return ""
}
