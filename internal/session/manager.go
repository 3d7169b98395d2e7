package session

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Manager owns the live session of every chat. Sessions missing from memory
// are resumed from the snapshot store, if one is configured.
type Manager struct {
	mu       sync.Mutex
	sessions map[int64]*Session
	store    SnapshotStore
	deps     Deps
	logger   *zap.Logger
}

func NewManager(deps Deps, store SnapshotStore) *Manager {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &Manager{
		sessions: make(map[int64]*Session),
		store:    store,
		deps:     deps,
		logger:   deps.Logger,
	}
}

func (m *Manager) Get(ctx context.Context, chatID int64) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[chatID]; ok {
		return s
	}

	s := New(chatID, m.deps)
	if m.store != nil {
		snap, err := m.store.Load(ctx, chatID)
		if err != nil {
			m.logger.Error("Failed to load session snapshot",
				zap.Int64("chat_id", chatID),
				zap.Error(err))
		} else if snap != nil {
			s.restore(*snap)
			m.logger.Info("Session resumed",
				zap.Int64("chat_id", chatID),
				zap.String("screen", string(s.Screen())))
		}
	}

	m.sessions[chatID] = s
	return s
}

// Persist stores the session's snapshot while a dialog is open and drops it
// once the chat is back on a screen without state.
func (m *Manager) Persist(ctx context.Context, s *Session) {
	if m.store == nil {
		return
	}

	snap := s.Snapshot()
	if !snap.Resumable() {
		if err := m.store.Drop(ctx, s.ChatID()); err != nil {
			m.logger.Error("Failed to drop session snapshot",
				zap.Int64("chat_id", s.ChatID()),
				zap.Error(err))
		}
		return
	}

	if err := m.store.Save(ctx, s.ChatID(), snap); err != nil {
		m.logger.Error("Failed to save session snapshot",
			zap.Int64("chat_id", s.ChatID()),
			zap.Error(err))
	}
}

// Close tears down every live session.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, s := range m.sessions {
		s.Teardown()
		delete(m.sessions, id)
	}
}
