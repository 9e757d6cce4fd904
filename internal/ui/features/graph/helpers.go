package graph

import (
	"net/http"
	"strings"

	"github.com/gorilla/sessions"

	"github.com/leapstack-labs/blockgraph/internal/theme"
)

// SessionName is the cookie session holding per-browser preferences.
const SessionName = "blockgraph"

const themeKey = "theme"

// splitParam returns the comma-separated ids of a query parameter.
func splitParam(r *http.Request, name string) []string {
	var ids []string
	for _, v := range r.URL.Query()[name] {
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// sessionTheme returns the theme stored in the request's session, or fallback.
func sessionTheme(store sessions.Store, r *http.Request, fallback string) string {
	sess, err := store.Get(r, SessionName)
	if err != nil {
		return fallback
	}
	if name, ok := sess.Values[themeKey].(string); ok && theme.Valid(name) {
		return name
	}
	return fallback
}
