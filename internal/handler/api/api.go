// Package api serves the storefront over JSON. Every handler resolves the
// caller's session from the request context and dispatches typed commands.
package api

import (
	"net/http"

	"github.com/dukerupert/vitrine/internal/domain"
	"github.com/dukerupert/vitrine/internal/handler"
	"github.com/dukerupert/vitrine/internal/middleware"
	"github.com/dukerupert/vitrine/internal/storefront"
)

// Sessions resolves a session id to its state. *storefront.Registry
// satisfies it.
type Sessions interface {
	Get(id string) *storefront.Session
}

var errNoSession = domain.Internal(nil, "api.session", "request reached a handler without a session")

// session returns the caller's session, writing an error when the Session
// middleware did not run.
func session(w http.ResponseWriter, r *http.Request, sessions Sessions) (*storefront.Session, bool) {
	id := middleware.GetSessionID(r.Context())
	if id == "" {
		handler.ErrorResponse(w, r, errNoSession)
		return nil, false
	}
	return sessions.Get(id), true
}

// dispatch runs cmd against the caller's session and hands back the view.
func dispatch(w http.ResponseWriter, r *http.Request, sessions Sessions, cmd storefront.Command) (storefront.View, bool) {
	s, ok := session(w, r, sessions)
	if !ok {
		return storefront.View{}, false
	}

	v, err := s.Dispatch(r.Context(), cmd)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return storefront.View{}, false
	}

	for _, ev := range v.Events {
		middleware.GetLogger(r.Context()).Debug().
			Str("op", ev.Op).
			Str("key", ev.Key).
			Int("count", ev.Count).
			Msg("cart changed")
	}
	return v, true
}
