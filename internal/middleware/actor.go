package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rzkmi/payoutdesk/internal/models"
)

type contextKey string

const ActorKey contextKey = "actor"

// ActorMiddleware resolves the acting admin from a bearer token issued by the
// external auth service. The token is trusted once its signature verifies;
// this service performs no authorization beyond identity.
func ActorMiddleware(secretKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "authorization header missing", http.StatusUnauthorized)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "authorization header format must be Bearer {token}", http.StatusUnauthorized)
				return
			}
			tokenString := parts[1]

			token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method")
				}
				return []byte(secretKey), nil
			})

			if err != nil || !token.Valid {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				http.Error(w, "invalid token claims", http.StatusUnauthorized)
				return
			}

			actorID, ok := claims["actor_id"].(string)
			if !ok || actorID == "" {
				http.Error(w, "actor_id missing in token claims", http.StatusUnauthorized)
				return
			}

			actorName, _ := claims["actor_name"].(string)
			if actorName == "" {
				actorName = actorID
			}

			actor := models.Actor{ID: actorID, Name: actorName}
			ctx := context.WithValue(r.Context(), ActorKey, actor)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetActor(ctx context.Context) (models.Actor, bool) {
	actor, ok := ctx.Value(ActorKey).(models.Actor)
	return actor, ok
}
