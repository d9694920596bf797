/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package sessions

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/nspersist/nspersist/pkg/goutils/logger"
	imetrics "github.com/nspersist/nspersist/pkg/metrics"
	"github.com/nspersist/nspersist/pkg/objcache"
	"github.com/nspersist/nspersist/pkg/pdata"
	"github.com/nspersist/nspersist/pkg/pdef"
)

// Keeps sessions of players which are currently in game.
//
// Schema and enabled sources may be changed only when no session is active.
type Manager struct {
	params  Params
	lock    sync.Mutex
	active  map[string]*Session
	parked  objcache.ICache[string, *parkedData]
	metrics imetrics.IMetrics
}

func newManager(params Params) *Manager {
	if params.ParkedSize <= 0 {
		params.ParkedSize = DefaultParkedSize
	}
	m := &Manager{
		params:  params,
		active:  make(map[string]*Session),
		metrics: params.Metrics,
	}
	if m.metrics == nil {
		m.metrics = imetrics.Provide()
	}
	m.parked = m.newParked()
	return m
}

func (m *Manager) newParked() objcache.ICache[string, *parkedData] {
	return objcache.NewProvider[string, *parkedData](m.params.ParkedProvider, m.params.ParkedSize, func(player string, _ *parkedData) {
		if logger.IsTrace() {
			logger.Trace("parked data of player", player, "evicted")
		}
	})
}

func (m *Manager) Schema() pdef.ISchema { return m.params.Schema }

// Loads and resolves player data, returns new session.
//
// Blob which can not be parsed is replaced by schema defaults, this is
// reported by warning log. Returns ErrSessionExists if player already joined
func (m *Manager) Join(ctx context.Context, player string) (*Session, error) {
	ctx = logger.WithContextAttrs(ctx, logger.LogAttr_Player, player)

	m.lock.Lock()
	defer m.lock.Unlock()

	if _, ok := m.active[player]; ok {
		return nil, fmt.Errorf("%w: player «%s»", ErrSessionExists, player)
	}
	schema := m.params.Schema
	if !schema.Finalised() {
		return nil, pdef.ErrNotFinalised
	}

	s := &Session{id: uuid.New(), player: player, generation: schema.Generation(), mgr: m}
	ctx = logger.WithContextAttrs(ctx, logger.LogAttr_Session, s.id.String())

	if p, ok := m.parked.Get(player); ok {
		m.parked.Delete(player)
		if p.generation == s.generation {
			s.data = p.data
			m.metrics.Increase(joinParkedTotal, "", 1)
			logger.VerboseCtx(ctx, "joined with parked data")
		}
	}

	if s.data == nil {
		data, err := m.load(ctx, player)
		if err != nil {
			return nil, err
		}
		resets, err := data.ProcessData(schema, m.params.Enabled)
		if err != nil {
			return nil, err
		}
		for _, r := range resets {
			logger.WarningCtx(ctx, r.String())
		}
		m.metrics.Increase(resetsTotal, "", float64(len(resets)))
		s.data, s.resets = data, resets
	}

	m.active[player] = s
	m.metrics.Increase(joinTotal, "", 1)
	m.metrics.Increase(activeSessions, "", 1)
	logger.InfoCtx(ctx, "player joined")
	return s, nil
}

func (m *Manager) load(ctx context.Context, player string) (*pdata.Instance, error) {
	blob, ok, err := m.params.Storage.Get(ctx, player)
	if err != nil {
		return nil, err
	}
	data := pdata.New()
	if !ok {
		logger.VerboseCtx(ctx, "no stored data, defaults are used")
		return data, nil
	}
	if err := data.UnmarshalBinary(blob); err != nil {
		if !errors.Is(err, pdata.ErrFormat) {
			return nil, err
		}
		logger.WarningCtx(ctx, "stored data is damaged, defaults are used:", err)
		m.metrics.Increase(formatErrorsTotal, "", 1)
		return pdata.New(), nil
	}
	return data, nil
}

// Gives exclusive access to session of the player.
// Returns ErrSessionNotFound or ErrSessionBusy
func (m *Manager) Acquire(player string) (*Session, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	s, ok := m.active[player]
	if !ok {
		return nil, fmt.Errorf("%w: player «%s»", ErrSessionNotFound, player)
	}
	if s.busy {
		return nil, fmt.Errorf("%w: player «%s»", ErrSessionBusy, player)
	}
	s.busy = true
	return s, nil
}

func (m *Manager) release(s *Session) {
	m.lock.Lock()
	defer m.lock.Unlock()
	s.busy = false
}

// Commits and stores player data, closes the session.
// Session must not be acquired. Session stays active if data can not be stored
func (m *Manager) Leave(ctx context.Context, player string) error {
	ctx = logger.WithContextAttrs(ctx, logger.LogAttr_Player, player)

	m.lock.Lock()
	defer m.lock.Unlock()
	return m.leave(ctx, player)
}

func (m *Manager) leave(ctx context.Context, player string) error {
	s, ok := m.active[player]
	if !ok {
		return fmt.Errorf("%w: player «%s»", ErrSessionNotFound, player)
	}
	if s.busy {
		return fmt.Errorf("%w: player «%s»", ErrSessionBusy, player)
	}
	ctx = logger.WithContextAttrs(ctx, logger.LogAttr_Session, s.id.String())

	blob, err := s.data.MarshalBinary()
	if err != nil {
		return err
	}
	if err := m.params.Storage.Put(ctx, player, blob); err != nil {
		logger.ErrorCtx(ctx, "failed to store player data:", err)
		return err
	}

	delete(m.active, player)
	m.parked.Put(player, &parkedData{data: s.data, generation: s.generation})
	m.metrics.Increase(leaveTotal, "", 1)
	m.metrics.Increase(activeSessions, "", -1)
	logger.InfoCtx(ctx, "player left,", len(blob), "bytes stored")
	return nil
}

// Leaves all active sessions, returns joined errors
func (m *Manager) LeaveAll(ctx context.Context) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	var errs []error
	for _, player := range m.players() {
		if err := m.leave(logger.WithContextAttrs(ctx, logger.LogAttr_Player, player), player); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Returns sorted names of players with active sessions
func (m *Manager) Players() []string {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.players()
}

func (m *Manager) players() []string {
	players := maps.Keys(m.active)
	slices.Sort(players)
	return players
}

// Calls reload for schema. Allowed only if there are no active sessions,
// returns ErrSessionsActive otherwise. Parked data is dropped
func (m *Manager) ReloadSchema(reload func(pdef.ISchema) error) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	if len(m.active) > 0 {
		return fmt.Errorf("%w: %d", ErrSessionsActive, len(m.active))
	}
	m.parked = m.newParked()
	err := reload(m.params.Schema)
	logger.Info("schema reloaded, generation", m.params.Schema.Generation())
	return err
}

// Replaces enabled sources. Allowed only if there are no active sessions,
// returns ErrSessionsActive otherwise. Parked data is dropped
func (m *Manager) SetEnabled(enabled pdata.IEnabledSources) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	if len(m.active) > 0 {
		return fmt.Errorf("%w: %d", ErrSessionsActive, len(m.active))
	}
	m.parked = m.newParked()
	m.params.Enabled = enabled
	return nil
}

func (s *Session) ID() uuid.UUID         { return s.id }
func (s *Session) Player() string        { return s.player }
func (s *Session) Data() *pdata.Instance { return s.data }
func (s *Session) Resets() []pdata.Reset { return s.resets }
func (s *Session) Release()              { s.mgr.release(s) }
