package server

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/bryan-buckman/rewind365/internal/session"
)

// SessionCookie names the cookie carrying the session id.
const SessionCookie = "rewind365_session"

type sessionKey struct{}

// withSession loads the caller's session, creating one when the cookie is
// missing or the session has been purged.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		st := s.lookupSession(r)
		if st == nil {
			st = session.NewState(s.now())
			s.setSessionCookie(w, r, st.ID)
		}
		ctx := context.WithValue(r.Context(), sessionKey{}, st)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) lookupSession(r *http.Request) *session.State {
	c, err := r.Cookie(SessionCookie)
	if err != nil || c.Value == "" {
		return nil
	}
	st, err := s.sessions.Get(r.Context(), c.Value)
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			log.Printf("Session lookup failed: %v", err)
		}
		return nil
	}
	return st
}

// setSessionCookie issues the session cookie. Inside the Teams iframe the
// cookie is third-party, which browsers only send with SameSite=None over
// TLS.
func (s *Server) setSessionCookie(w http.ResponseWriter, r *http.Request, id string) {
	c := &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		c.Secure = true
		c.SameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, c)
}

func sessionFrom(r *http.Request) *session.State {
	st, _ := r.Context().Value(sessionKey{}).(*session.State)
	return st
}

// saveSession persists st. On failure it writes a 500 and returns false.
func (s *Server) saveSession(w http.ResponseWriter, r *http.Request, st *session.State) bool {
	st.UpdatedAt = s.now()
	if err := s.sessions.Save(r.Context(), st); err != nil {
		log.Printf("Session save failed: %v", err)
		http.Error(w, "Failed to save session", http.StatusInternalServerError)
		return false
	}
	return true
}
