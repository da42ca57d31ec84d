package middleware

import (
	"context"
	"net/http"

	"github.com/paselsoft/MediCoppia-Tracker/internal/domain/household"
)

type ctxKey string

const userKey ctxKey = "user"

// UserContext:
// - Si viene header X-User-ID y es uno de los dos usuarios del hogar,
//   setea el usuario en el contexto.
// - Si no hay header (o no es válido), el request sigue igual; cada
//   handler decide si exige usuario.
// No hay verificación de identidad: el hogar son dos personas fijas y el
// cliente declara quién está usando la app.
func UserContext() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id, ok := household.Parse(r.Header.Get("X-User-ID")); ok {
				ctx := context.WithValue(r.Context(), userKey, id)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func GetUser(ctx context.Context) (household.UserID, bool) {
	v := ctx.Value(userKey)
	if v == nil {
		return "", false
	}
	id, ok := v.(household.UserID)
	return id, ok
}
