package session

import (
	"log"
	"strings"
	"time"

	"ecolearn/internal/config"
	"ecolearn/internal/explorer"
	"ecolearn/internal/httpmw"
	"ecolearn/internal/telemetry"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Store keeps one Explorer per session in memory. It is bounded: the least
// recently used session is evicted when full, and idle sessions expire.
type Store struct {
	cache    *expirable.LRU[string, *explorer.Explorer]
	balance  config.Balance
	recorder telemetry.Recorder
	logger   *log.Logger
	newID    func() string
}

type StoreOptions struct {
	MaxSessions int
	IdleTTL     time.Duration
	Balance     config.Balance
	Recorder    telemetry.Recorder
	Logger      *log.Logger
}

func NewStore(opts StoreOptions) *Store {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Recorder == nil {
		opts.Recorder = telemetry.Nop{}
	}
	s := &Store{
		balance:  opts.Balance,
		recorder: opts.Recorder,
		logger:   opts.Logger,
		newID:    uuid.NewString,
	}
	s.cache = expirable.NewLRU[string, *explorer.Explorer](opts.MaxSessions, s.onEvict, opts.IdleTTL)
	return s
}

func (s *Store) onEvict(id string, _ *explorer.Explorer) {
	httpmw.LogJSON(s.logger, map[string]any{
		"ts":      time.Now().UTC().Format(time.RFC3339Nano),
		"level":   "info",
		"msg":     "session_evicted",
		"session": id,
	})
}

// Get returns the session's Explorer and refreshes its idle timer.
func (s *Store) Get(id string) (*explorer.Explorer, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, false
	}
	e, ok := s.cache.Get(id)
	if !ok {
		return nil, false
	}
	s.cache.Add(id, e)
	return e, true
}

// Create starts a new session with a fresh Explorer.
func (s *Store) Create() *explorer.Explorer {
	id := s.newID()
	e := explorer.New(explorer.Options{
		ID:       id,
		Balance:  s.balance,
		Recorder: s.recorder,
		Logger:   s.logger,
	})
	s.cache.Add(id, e)
	if err := s.recorder.RecordEvent(telemetry.EventSessionStarted, telemetry.EventMetadata{
		telemetry.KeySession: id,
	}); err != nil {
		httpmw.LogJSON(s.logger, map[string]any{
			"ts":      time.Now().UTC().Format(time.RFC3339Nano),
			"level":   "warn",
			"msg":     "event_record_failed",
			"session": id,
			"event":   string(telemetry.EventSessionStarted),
			"error":   err.Error(),
		})
	}
	httpmw.LogJSON(s.logger, map[string]any{
		"ts":      time.Now().UTC().Format(time.RFC3339Nano),
		"level":   "info",
		"msg":     "session_created",
		"session": id,
	})
	return e
}

func (s *Store) Remove(id string) bool {
	return s.cache.Remove(id)
}

func (s *Store) Len() int {
	return s.cache.Len()
}
