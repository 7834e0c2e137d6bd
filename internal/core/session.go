package core

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Features switches the optional parts of the pipeline on or off.
type Features struct {
	Neighborhood bool // Guess and show a neighborhood column
	Search       bool // Offer the search box that narrows candidate names
	Download     bool // Allow exporting the sorted result
	Analyze      bool // Allow "Sort & Analyze" summaries
}

// AllFeatures enables every optional feature.
func AllFeatures() Features {
	return Features{Neighborhood: true, Search: true, Download: true, Analyze: true}
}

// RunRequest is one press of the Sort button.
type RunRequest struct {
	Selection Selection
	Order     SortOrder
	Analyze   bool
}

// Session holds the state of one user's upload-and-sort cycle. All methods
// are safe for concurrent use, though a session normally serves one user.
type Session struct {
	ID string

	mu        sync.Mutex
	features  Features
	roles     []RoleKeywords
	notes     string
	fileName  string
	encoding  Encoding
	table     *Table
	binding   Binding
	search    string
	selection Selection
	order     SortOrder
	result    *Result
	summary   *Summary
	createdAt time.Time
	updatedAt time.Time
}

// NewSession creates an empty session.
func NewSession(id string, features Features, roles []RoleKeywords) *Session {
	if len(roles) == 0 {
		roles = DefaultRoleKeywords()
	}
	now := time.Now()
	return &Session{
		ID:        id,
		features:  features,
		roles:     roles,
		selection: NewSelection(),
		createdAt: now,
		updatedAt: now,
	}
}

// SessionSnapshot is a read-only copy of session state for rendering.
type SessionSnapshot struct {
	ID         string    `json:"id"`
	Features   Features  `json:"features"`
	Notes      string    `json:"notes"`
	FileName   string    `json:"file_name,omitempty"`
	Encoding   Encoding  `json:"encoding,omitempty"`
	Rows       int       `json:"rows"`
	Columns    []string  `json:"columns,omitempty"`
	Binding    Binding   `json:"binding"`
	Unresolved []Role    `json:"unresolved,omitempty"`
	Search     string    `json:"search,omitempty"`
	Candidates []string  `json:"candidates,omitempty"`
	Selected   []string  `json:"selected,omitempty"`
	Order      string    `json:"order"`
	Result     *Result   `json:"result,omitempty"`
	Numbered   []string  `json:"numbered,omitempty"`
	Summary    *Summary  `json:"summary,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Snapshot returns the current state.
func (s *Session) Snapshot() SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := SessionSnapshot{
		ID:        s.ID,
		Features:  s.features,
		Notes:     s.notes,
		FileName:  s.fileName,
		Encoding:  s.encoding,
		Rows:      s.table.Len(),
		Binding:   s.binding,
		Search:    s.search,
		Order:     s.order.Param(),
		Result:    s.result,
		Summary:   s.summary,
		UpdatedAt: s.updatedAt,
	}
	if s.table != nil {
		snap.Columns = s.table.Columns
		snap.Unresolved = s.binding.Missing()
		if s.binding.Name != "" {
			snap.Candidates, _ = CandidateNames(s.table, s.binding.Name, s.activeSearch())
			all, _ := CandidateNames(s.table, s.binding.Name, "")
			snap.Selected = s.selection.Names(all)
		}
	}
	if s.result != nil {
		snap.Numbered = s.result.Numbered()
	}
	return snap
}

// Upload loads a new file into the session. On failure the previous table,
// binding and result are left untouched.
func (s *Session) Upload(loader *Loader, fileName string, data []byte) error {
	kind, err := KindFromFilename(fileName)
	if err != nil {
		return err
	}
	t, err := loader.Load(data, kind)
	if err != nil {
		return fmt.Errorf("load %s: %w", fileName, err)
	}

	var enc Encoding
	if kind == KindCSV {
		enc = DetectEncoding(data)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.fileName = fileName
	s.encoding = enc
	s.table = t
	s.binding = s.resolve(t.Columns)
	s.search = ""
	s.selection = NewSelection()
	s.result = nil
	s.summary = nil
	s.touch()

	slog.Info("table uploaded",
		"session_id", s.ID,
		"file", fileName,
		"rows", t.Len(),
		"name_col", s.binding.Name,
		"distance_col", s.binding.Distance,
	)
	return nil
}

// resolve guesses the binding, skipping the neighborhood role when the
// feature is off.
func (s *Session) resolve(columns []string) Binding {
	roles := make([]RoleKeywords, 0, len(s.roles))
	for _, rk := range s.roles {
		if rk.Role == RoleNeighborhood && !s.features.Neighborhood {
			continue
		}
		roles = append(roles, rk)
	}
	return ResolveColumns(columns, roles)
}

// SetColumn overrides the column bound to role.
func (s *Session) SetColumn(role Role, column string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.table == nil {
		return ErrNoTable
	}
	if role == RoleNeighborhood && !s.features.Neighborhood {
		slog.Debug("neighborhood column rejected, feature off", "session_id", s.ID, "column", column)
		return fmt.Errorf("%w: neighborhood", ErrFeatureDisabled)
	}
	b, err := s.binding.With(role, column, s.table.Columns)
	if err != nil {
		return err
	}
	if b != s.binding {
		s.binding = b
		s.result = nil
		s.summary = nil
	}
	s.touch()
	return nil
}

// SetSearch stores the search text used to narrow candidate names.
// It never changes the selection.
func (s *Session) SetSearch(search string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.search = search
	s.touch()
}

// SetNotes stores the free-form notes shown above the upload form.
func (s *Session) SetNotes(notes string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = notes
	s.touch()
}

// Candidates returns the names offered for selection, narrowed by search
// when the search feature is on.
func (s *Session) Candidates(search string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.table == nil {
		return nil, ErrNoTable
	}
	if s.binding.Name == "" {
		return nil, &ResolutionError{Roles: []Role{RoleName}}
	}
	if !s.features.Search {
		search = ""
	}
	return CandidateNames(s.table, s.binding.Name, search)
}

func (s *Session) activeSearch() string {
	if !s.features.Search {
		return ""
	}
	return s.search
}

// Run executes normalize, select, sort and (optionally) analyze. Any error
// halts the run and keeps the previous result.
func (s *Session) Run(req RunRequest) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.table == nil {
		return nil, ErrNoTable
	}
	if err := s.binding.Validate(); err != nil {
		return nil, err
	}

	// The selection and order are remembered even when the run is halted,
	// so the form keeps what the user entered.
	s.selection = req.Selection
	if s.selection == nil {
		s.selection = NewSelection()
	}
	s.order = req.Order
	s.touch()

	if s.selection.Len() == 0 {
		return nil, ErrEmptySelection
	}

	normalized, err := NormalizeDistance(s.table, s.binding.Distance)
	if err != nil {
		return nil, err
	}
	selected, err := Select(normalized, s.binding.Name, s.selection)
	if err != nil {
		return nil, err
	}
	result, err := SortRows(selected, s.binding, req.Order)
	if err != nil {
		return nil, err
	}

	var summary *Summary
	if req.Analyze && s.features.Analyze {
		if summary, err = Analyze(result); err != nil {
			return nil, err
		}
	}

	s.result = result
	s.summary = summary

	slog.Info("sort complete",
		"session_id", s.ID,
		"selected", s.selection.Len(),
		"rows", result.Len(),
		"dropped", result.Dropped,
		"order", req.Order.Param(),
	)
	return result, nil
}

// Result returns the last successful result, or ErrNoResult.
func (s *Session) Result() (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return nil, ErrNoResult
	}
	return s.result, nil
}

// Features returns the feature switches for this session.
func (s *Session) Features() Features {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.features
}

// Table returns the uploaded table, or nil.
func (s *Session) Table() *Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table
}

// LastActive returns the time of the last change.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}

func (s *Session) touch() {
	s.updatedAt = time.Now()
}
