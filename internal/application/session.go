package application

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"vired/internal/domain"
	"vired/internal/logging"
	"vired/internal/metrics"
	"vired/internal/ports"
)

// DefaultHeaderLines is the number of non-entry lines above a listing
const DefaultHeaderLines = 1

// SessionConfig wires a SessionManager to its collaborators.
// VCS and Suppressor are optional.
type SessionConfig struct {
	Fs          afero.Fs
	Lister      ports.DirectoryLister
	Trash       ports.TrashStore
	VCS         ports.VersionControl
	VCSTimeout  time.Duration
	Suppressor  ports.ChangeSuppressor
	Layout      domain.ColumnLayout
	HeaderLines int
	HistoryMax  int
}

// Session is one directory context: an optional edit in progress plus the
// undo history of everything applied from it
type Session struct {
	Handle string
	Dir    string

	snapshot *domain.Snapshot
	editing  bool
	log      *UndoLog
	fileOps  *FileOps
	executor *Executor
}

// Editing reports whether the session is in edit mode
func (s *Session) Editing() bool {
	return s.editing
}

// Preview is what a commit would do right now
type Preview struct {
	Ops      []domain.Operation
	Warnings []Warning
	Notes    []*domain.ParseError
}

// Empty reports whether the buffer has no pending changes
func (p *Preview) Empty() bool {
	return len(p.Ops) == 0
}

// SessionInfo is a read-only view of a session
type SessionInfo struct {
	Handle  string
	Dir     string
	Editing bool
	Undo    int
	Redo    int
}

// SessionManager owns every open session. All session mutations go through
// it and are serialised.
type SessionManager struct {
	mu        sync.Mutex
	cfg       SessionConfig
	validator *Validator
	sessions  map[string]*Session
	byDir     map[string]string
	logger    *zap.Logger
}

// NewSessionManager creates a manager
func NewSessionManager(cfg SessionConfig) *SessionManager {
	if cfg.HeaderLines < 0 {
		cfg.HeaderLines = 0
	}
	return &SessionManager{
		cfg:       cfg,
		validator: NewValidator(cfg.Fs),
		sessions:  make(map[string]*Session),
		byDir:     make(map[string]string),
		logger:    logging.Named("session"),
	}
}

// Layout is the column layout listings are rendered with
func (m *SessionManager) Layout() domain.ColumnLayout {
	return m.cfg.Layout
}

// Open returns the session for dir, creating it if needed
func (m *SessionManager) Open(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", dir, err)
	}
	info, err := m.cfg.Fs.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", abs, err)
	}
	if !info.IsDir() {
		return "", &ValidationError{Path: abs, Field: "dir", Message: "not a directory"}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if handle, ok := m.byDir[abs]; ok {
		return handle, nil
	}

	log := NewUndoLog(m.cfg.Fs, m.cfg.Trash, m.cfg.HistoryMax)
	var opts []FileOpsOption
	if m.cfg.VCS != nil {
		opts = append(opts, WithVersionControl(m.cfg.VCS, m.cfg.VCSTimeout))
	}
	fileOps := NewFileOps(m.cfg.Fs, m.cfg.Trash, log, opts...)

	s := &Session{
		Handle:   uuid.NewString(),
		Dir:      abs,
		log:      log,
		fileOps:  fileOps,
		executor: NewExecutor(m.cfg.Fs, fileOps),
	}
	m.sessions[s.Handle] = s
	m.byDir[abs] = s.Handle
	m.logger.Debug("session opened", zap.String("handle", s.Handle), zap.String("dir", abs))
	return s.Handle, nil
}

// Close forgets a session. An edit in progress is discarded.
func (m *SessionManager) Close(handle string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[handle]
	if !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, handle)
	delete(m.byDir, s.Dir)
	m.updateGauge()
	return nil
}

// Sessions lists open sessions ordered by directory
func (m *SessionManager) Sessions() []SessionInfo {
	m.mu.Lock()
	defer m.mu.Unlock()

	infos := make([]SessionInfo, 0, len(m.sessions))
	for _, s := range m.sessions {
		undo, redo := s.log.Len()
		infos = append(infos, SessionInfo{Handle: s.Handle, Dir: s.Dir, Editing: s.editing, Undo: undo, Redo: redo})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Dir < infos[j].Dir })
	return infos
}

// Info describes one session
func (m *SessionManager) Info(handle string) (SessionInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[handle]
	if !ok {
		return SessionInfo{}, ErrSessionNotFound
	}
	undo, redo := s.log.Len()
	return SessionInfo{Handle: s.Handle, Dir: s.Dir, Editing: s.editing, Undo: undo, Redo: redo}, nil
}

// Listing renders the directory as it is on disk now. It never touches the snapshot.
func (m *SessionManager) Listing(ctx context.Context, handle string) ([]string, error) {
	s, err := m.get(handle)
	if err != nil {
		return nil, err
	}
	entries, err := m.cfg.Lister.List(ctx, s.Dir)
	if err != nil {
		return nil, err
	}
	return domain.Render(s.Dir, entries, m.cfg.Layout, m.cfg.HeaderLines), nil
}

// BeginEdit freezes the current listing and returns the buffer to edit
func (m *SessionManager) BeginEdit(ctx context.Context, handle string) ([]string, error) {
	s, err := m.get(handle)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	if s.editing {
		m.mu.Unlock()
		return nil, fmt.Errorf("%s: %w", s.Dir, ErrAlreadyEditing)
	}
	s.editing = true
	m.mu.Unlock()

	entries, err := m.cfg.Lister.List(ctx, s.Dir)
	if err != nil {
		m.mu.Lock()
		s.editing = false
		m.mu.Unlock()
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	s.snapshot = domain.Capture(s.Dir, entries, m.cfg.Layout, m.cfg.HeaderLines)
	m.updateGauge()
	m.logger.Info("edit started", zap.String("dir", s.Dir), zap.Int("entries", s.snapshot.Count()))
	return s.snapshot.Lines(), nil
}

// Snapshot returns the frozen listing of an edit in progress
func (m *SessionManager) Snapshot(handle string) (*domain.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[handle]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if !s.editing || s.snapshot == nil {
		return nil, fmt.Errorf("%s: %w", s.Dir, ErrNotEditing)
	}
	return s.snapshot, nil
}

// Preview diffs lines against the snapshot and validates the result
func (m *SessionManager) Preview(handle string, lines []string) (*Preview, error) {
	snap, err := m.Snapshot(handle)
	if err != nil {
		return nil, err
	}
	ops, notes := domain.DiffWithNotes(snap, lines)
	return &Preview{
		Ops:      ops,
		Warnings: m.validator.ValidateAll(ops),
		Notes:    notes,
	}, nil
}

// Commit applies the edit and leaves edit mode. Change notifications for the
// directory are held back until the batch is done.
func (m *SessionManager) Commit(ctx context.Context, handle string, lines []string) (*BatchResult, error) {
	m.mu.Lock()
	s, ok := m.sessions[handle]
	if !ok {
		m.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	if !s.editing || s.snapshot == nil {
		m.mu.Unlock()
		return nil, fmt.Errorf("%s: %w", s.Dir, ErrNotEditing)
	}
	// edit mode stays on until the batch is done so nothing can re-enter
	snap := s.snapshot
	s.snapshot = nil
	m.mu.Unlock()

	ops := domain.Diff(snap, lines)

	if m.cfg.Suppressor != nil {
		resume := m.cfg.Suppressor.Suppress(s.Dir)
		defer resume()
	}

	result := s.executor.Execute(ctx, ops)

	m.mu.Lock()
	s.editing = false
	m.updateGauge()
	m.mu.Unlock()

	m.logger.Info("edit committed", zap.String("dir", s.Dir), zap.Int("operations", len(ops)))
	return result, nil
}

// Cancel leaves edit mode without touching the filesystem
func (m *SessionManager) Cancel(handle string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[handle]
	if !ok {
		return ErrSessionNotFound
	}
	if !s.editing {
		return fmt.Errorf("%s: %w", s.Dir, ErrNotEditing)
	}
	s.editing = false
	s.snapshot = nil
	m.updateGauge()
	m.logger.Info("edit cancelled", zap.String("dir", s.Dir))
	return nil
}

// Undo reverses the most recent change made from this session
func (m *SessionManager) Undo(ctx context.Context, handle string) (domain.UndoOperation, error) {
	s, err := m.idle(handle)
	if err != nil {
		return domain.UndoOperation{}, err
	}
	return s.log.Undo(ctx)
}

// Redo re-applies the most recently undone change
func (m *SessionManager) Redo(ctx context.Context, handle string) (domain.UndoOperation, error) {
	s, err := m.idle(handle)
	if err != nil {
		return domain.UndoOperation{}, err
	}
	return s.log.Redo(ctx)
}

// Log returns the session's undo log
func (m *SessionManager) Log(handle string) (*UndoLog, error) {
	s, err := m.get(handle)
	if err != nil {
		return nil, err
	}
	return s.log, nil
}

// FileOps returns the undo-recording file operations bound to the session
func (m *SessionManager) FileOps(handle string) (*FileOps, error) {
	s, err := m.idle(handle)
	if err != nil {
		return nil, err
	}
	return s.fileOps, nil
}

// Dir returns the directory a session is bound to
func (m *SessionManager) Dir(handle string) (string, error) {
	s, err := m.get(handle)
	if err != nil {
		return "", err
	}
	return s.Dir, nil
}

func (m *SessionManager) get(handle string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[handle]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// idle returns a session that is not in edit mode. History changes while a
// snapshot is open would make the snapshot lie about the directory.
func (m *SessionManager) idle(handle string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[handle]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if s.editing {
		return nil, fmt.Errorf("%s: %w", s.Dir, ErrAlreadyEditing)
	}
	return s, nil
}

func (m *SessionManager) updateGauge() {
	n := 0
	for _, s := range m.sessions {
		if s.editing {
			n++
		}
	}
	metrics.SetActiveSessions(n)
}
