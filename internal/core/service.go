package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/JonMunkholm/distsort/internal/config"
	"github.com/google/uuid"
)

// Service owns the in-memory sessions and the shared upload machinery.
type Service struct {
	cfg      *config.Config
	loader   *Loader
	limiter  *Limiter
	features Features
	roles    []RoleKeywords

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewService creates a Service from configuration.
func NewService(cfg *config.Config) *Service {
	var sheets SheetReader
	if cfg.Upload.Spreadsheets {
		sheets = NewExcelReader()
	}

	return &Service{
		cfg:      cfg,
		loader:   NewLoader(sheets),
		limiter:  NewLimiter(cfg.Upload.MaxConcurrent, cfg.Upload.MaxWaitTime),
		features: FeaturesFromConfig(cfg.Features),
		roles:    RoleKeywordsFromConfig(cfg.Columns),
		sessions: make(map[string]*Session),
	}
}

// FeaturesFromConfig maps the feature flags section to Features.
func FeaturesFromConfig(c config.FeatureConfig) Features {
	return Features{
		Neighborhood: c.Neighborhood,
		Search:       c.Search,
		Download:     c.Download,
		Analyze:      c.Analyze,
	}
}

// RoleKeywordsFromConfig returns the default guessing table with any
// configured keyword lists swapped in.
func RoleKeywordsFromConfig(c config.ColumnConfig) []RoleKeywords {
	roles := DefaultRoleKeywords()
	for i := range roles {
		var kw []string
		switch roles[i].Role {
		case RoleName:
			kw = c.NameKeywords
		case RoleDistance:
			kw = c.DistanceKeywords
		case RoleNeighborhood:
			kw = c.NeighborhoodKeywords
		}
		if len(kw) > 0 {
			roles[i].Keywords = kw
		}
	}
	return roles
}

// Loader returns the shared table loader.
func (s *Service) Loader() *Loader {
	return s.loader
}

// Features returns the configured feature switches.
func (s *Service) Features() Features {
	return s.features
}

// NewSession creates and registers an empty session.
func (s *Service) NewSession() *Session {
	sess := NewSession(uuid.NewString(), s.features, s.roles)

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	slog.Debug("session created", "session_id", sess.ID)
	return sess
}

// Session looks up a session by id.
func (s *Service) Session(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return sess, nil
}

// SessionOrNew returns the session for id, creating a fresh one when id is
// empty or unknown. The bool is true when a new session was created.
func (s *Service) SessionOrNew(id string) (*Session, bool) {
	if id != "" {
		if sess, err := s.Session(id); err == nil {
			return sess, false
		}
	}
	return s.NewSession(), true
}

// SessionCount returns the number of live sessions.
func (s *Service) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Upload reads an uploaded file under a limiter slot and loads it into sess.
func (s *Service) Upload(ctx context.Context, sess *Session, fileName string, r io.Reader) error {
	if err := s.limiter.Acquire(ctx); err != nil {
		return err
	}
	defer s.limiter.Release()

	data, err := ReadAllLimited(r, s.cfg.Upload.MaxFileSize)
	if err != nil {
		return err
	}

	slog.Debug("upload received",
		"session_id", sess.ID,
		"file", fileName,
		"bytes", len(data),
		"client_ip", ClientIPFromContext(ctx),
		"user_agent", UserAgentFromContext(ctx),
	)
	return sess.Upload(s.loader, fileName, data)
}

// LimiterStatus reports upload slot usage.
func (s *Service) LimiterStatus() LimiterStatus {
	return s.limiter.Status()
}

// WaitForUploads blocks until in-flight uploads finish or ctx ends.
func (s *Service) WaitForUploads(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}
