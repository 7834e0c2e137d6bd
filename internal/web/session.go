package web

import (
	"net/http"

	"github.com/JonMunkholm/distsort/internal/core"
	"github.com/JonMunkholm/distsort/internal/logging"
)

// SessionCookie names the cookie carrying the session id.
const SessionCookie = "distsort_session"

// sessionOrNew returns the caller's session, starting a new one (and
// setting the cookie) when there is none or it has expired.
func (s *Server) sessionOrNew(w http.ResponseWriter, r *http.Request) (*core.Session, *http.Request) {
	var id string
	if c, err := r.Cookie(SessionCookie); err == nil {
		id = c.Value
	}

	sess, created := s.service.SessionOrNew(id)
	if created {
		s.setSessionCookie(w, sess.ID)
	}
	return sess, r.WithContext(logging.WithSessionID(r.Context(), sess.ID))
}

// requireSession returns the caller's existing session, or
// core.ErrSessionNotFound.
func (s *Server) requireSession(r *http.Request) (*core.Session, *http.Request, error) {
	c, err := r.Cookie(SessionCookie)
	if err != nil || c.Value == "" {
		return nil, r, core.ErrSessionNotFound
	}
	sess, err := s.service.Session(c.Value)
	if err != nil {
		return nil, r, err
	}
	return sess, r.WithContext(logging.WithSessionID(r.Context(), sess.ID)), nil
}

func (s *Server) setSessionCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(s.cfg.Session.TTL.Seconds()),
		HttpOnly: true,
		Secure:   s.cfg.Session.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
