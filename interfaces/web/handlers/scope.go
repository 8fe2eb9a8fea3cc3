package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"listkeeper/domain/lists"
)

// Headers the chat gateway sets on every forwarded command.
const (
	HeaderCommunityID  = "X-Guild-ID"
	HeaderIndividualID = "X-User-ID"
)

type scopeKey struct{}

// ScopeMiddleware resolves the request scope once, from the community header
// when present and the individual header otherwise.
func ScopeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		communityID, err := parseIDHeader(r, HeaderCommunityID)
		if err != nil {
			http.Error(w, "invalid "+HeaderCommunityID+" header", http.StatusBadRequest)
			return
		}
		individualID, err := parseIDHeader(r, HeaderIndividualID)
		if err != nil {
			http.Error(w, "invalid "+HeaderIndividualID+" header", http.StatusBadRequest)
			return
		}
		if communityID == 0 && individualID == 0 {
			http.Error(w, "missing "+HeaderCommunityID+" or "+HeaderIndividualID+" header", http.StatusBadRequest)
			return
		}

		scope := lists.ResolveScope(communityID, individualID)
		ctx := context.WithValue(r.Context(), scopeKey{}, scope)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ScopeFromContext returns the scope resolved by ScopeMiddleware.
func ScopeFromContext(ctx context.Context) (lists.Scope, bool) {
	scope, ok := ctx.Value(scopeKey{}).(lists.Scope)
	return scope, ok
}

func parseIDHeader(r *http.Request, name string) (int64, error) {
	value := strings.TrimSpace(r.Header.Get(name))
	if value == "" {
		return 0, nil
	}
	return strconv.ParseInt(value, 10, 64)
}
