package middleware

import (
    "fmt"
    "log"
    "net/http"
    "strings"

    "github.com/golang-jwt/jwt/v5"

    "tripay-ppob-api/utils"
)

// AuthMiddleware guards the admin API with a bearer JWT signed with the
// configured secret (HS256).
func AuthMiddleware(secret string) func(http.Handler) http.Handler {
    return func(next http.Handler) http.Handler {
        return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
            authHeader := r.Header.Get("Authorization")
            if authHeader == "" {
                log.Printf("Missing Authorization header from %s", r.RemoteAddr)
                utils.SendErrorResponse(w, http.StatusUnauthorized, "Missing authorization header")
                return
            }

            parts := strings.Split(authHeader, " ")
            if len(parts) != 2 || parts[0] != "Bearer" {
                log.Printf("Invalid Authorization header format from %s", r.RemoteAddr)
                utils.SendErrorResponse(w, http.StatusUnauthorized, "Invalid authorization header format")
                return
            }

            token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
                if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
                    return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
                }
                return []byte(secret), nil
            })
            if err != nil || !token.Valid {
                log.Printf("Token validation failed from %s: %v", r.RemoteAddr, err)
                utils.SendErrorResponse(w, http.StatusUnauthorized, "Invalid or expired token")
                return
            }

            next.ServeHTTP(w, r)
        })
    }
}
