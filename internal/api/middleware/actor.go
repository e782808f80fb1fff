package middleware

import (
	"context"
	"net/http"
	"strings"
)

// ActorHeader заголовок с идентификатором оператора
const ActorHeader = "X-User-ID"

type actorKey struct{}

// Actor кладёт идентификатор оператора из X-User-ID в контекст.
// Заголовок необязателен: без него изменения записываются без автора.
func Actor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if actor := strings.TrimSpace(r.Header.Get(ActorHeader)); actor != "" {
			r = r.WithContext(context.WithValue(r.Context(), actorKey{}, actor))
		}
		next.ServeHTTP(w, r)
	})
}

// ActorFromContext возвращает оператора или nil
func ActorFromContext(ctx context.Context) *string {
	actor, ok := ctx.Value(actorKey{}).(string)
	if !ok {
		return nil
	}
	return &actor
}
