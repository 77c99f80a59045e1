package core

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/shirou/gopsutil/mem"

	"github.com/dbobbgit/room-of-requirement/internal/clients/catalog"
	"github.com/dbobbgit/room-of-requirement/internal/clients/notifications"
	"github.com/dbobbgit/room-of-requirement/internal/config"
	"github.com/dbobbgit/room-of-requirement/internal/models"
	"github.com/dbobbgit/room-of-requirement/internal/search"
	"github.com/dbobbgit/room-of-requirement/internal/utils"
)

// Manager wires the catalog providers, search sessions and the submit
// pipeline together. Records are logged on submit, never persisted.
type Manager struct {
	logger    *utils.Logger
	scheduler *cron.Cron
	startedAt time.Time

	mu        sync.RWMutex
	config    *config.Config
	providers map[models.MediaType]catalog.Provider
	notifiers []notifications.Notifier
	sessions  map[string]*search.Panel
}

func NewManager(cfg *config.Config, logger *utils.Logger) *Manager {
	m := &Manager{
		logger:    logger,
		scheduler: cron.New(),
		startedAt: time.Now(),
		sessions:  make(map[string]*search.Panel),
	}
	m.applyConfig(cfg)
	return m
}

// applyConfig rebuilds providers and notifiers from cfg. Callers must not
// hold m.mu.
func (m *Manager) applyConfig(cfg *config.Config) {
	tmdb := catalog.NewTMDBClient(
		cfg.Catalog.TMDB.APIKey,
		cfg.Catalog.TMDB.APIToken,
		cfg.Catalog.TMDB.Language,
		cfg.Catalog.TMDB.PosterSize,
	)
	if cfg.Catalog.TMDB.BaseURL != "" {
		tmdb.SetBaseURL(cfg.Catalog.TMDB.BaseURL, cfg.Catalog.TMDB.ImageBaseURL)
	}
	rawg := catalog.NewRAWGClient(cfg.Catalog.RAWG.APIKey)
	if cfg.Catalog.RAWG.BaseURL != "" {
		rawg.SetBaseURL(cfg.Catalog.RAWG.BaseURL)
	}

	var notifiers []notifications.Notifier
	if cfg.Notifications.Pushbullet.Enabled && cfg.Notifications.Pushbullet.APIKey != "" {
		notifiers = append(notifiers, notifications.NewPushbulletClient(cfg.Notifications.Pushbullet.APIKey, m.logger))
	}

	m.mu.Lock()
	m.config = cfg
	m.providers = map[models.MediaType]catalog.Provider{
		models.MediaTypeMovie: tmdb,
		models.MediaTypeGame:  rawg,
	}
	m.notifiers = notifiers
	m.mu.Unlock()
}

// AddNotifier registers an extra notifier alongside the configured ones.
func (m *Manager) AddNotifier(n notifications.Notifier) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifiers = append(m.notifiers, n)
}

// Reload swaps in a fresh configuration, typically after the config file
// changed on disk. Open search sessions keep their old provider until they
// are closed.
func (m *Manager) Reload(cfg *config.Config) {
	m.applyConfig(cfg)
	m.logger.Info("Configuration reloaded")
}

// Provider returns the catalog provider for a media type. Books and music
// are manual-entry only.
func (m *Manager) Provider(mediaType models.MediaType) (catalog.Provider, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.providers[mediaType]
	if !ok {
		return nil, fmt.Errorf("no catalog provider for media type %q", mediaType)
	}
	return p, nil
}

// SearchCatalog is the stateless search path: one query, one request.
func (m *Manager) SearchCatalog(ctx context.Context, mediaType models.MediaType, query string) ([]catalog.SearchResult, error) {
	p, err := m.Provider(mediaType)
	if err != nil {
		return nil, err
	}
	return p.Search(ctx, query)
}

// Autofill fetches one entry's details and maps them to a form prefill.
func (m *Manager) Autofill(ctx context.Context, mediaType models.MediaType, id string) (models.Prefill, error) {
	p, err := m.Provider(mediaType)
	if err != nil {
		return models.Prefill{}, err
	}
	return p.Lookup(ctx, id)
}

// OpenSearch creates a debounced search session for one media type and
// returns its id alongside the panel.
func (m *Manager) OpenSearch(mediaType models.MediaType) (string, *search.Panel, error) {
	provider, err := m.Provider(mediaType)
	if err != nil {
		return "", nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	panel := search.NewPanel(provider, search.Options{
		Debounce:    m.config.Debounce(),
		MinQueryLen: m.config.Search.MinQueryLength,
	})
	id := uuid.NewString()
	m.sessions[id] = panel
	m.logger.Debug("Opened search session", id, "for", mediaType)
	return id, panel, nil
}

func (m *Manager) CloseSearch(id string) {
	m.mu.Lock()
	panel, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if ok {
		panel.Close()
		m.logger.Debug("Closed search session", id)
	}
}

// SubmitMedia receives a finalized record from the entry form. There is no
// storage layer: the record is logged and announced, and its lifetime
// beyond that is the caller's concern.
func (m *Manager) SubmitMedia(record *models.MediaRecord) {
	m.logger.Info(fmt.Sprintf("Submitted %s %q (%d) by %s, rating %.1f stars, shared with %d users",
		record.Type, record.Title, record.Year, record.AddedBy.Name, record.Stars(), len(record.SharedWith)))

	m.mu.RLock()
	notifiers := m.notifiers
	m.mu.RUnlock()
	for _, n := range notifiers {
		n.NotifyMediaAdded(record)
	}
}

// CurrentUser returns the configured acting user.
func (m *Manager) CurrentUser() models.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.config.Users {
		if u.ID == m.config.CurrentUser {
			return u
		}
	}
	return m.config.Users[0]
}

// Users returns everyone the collection can be shared with.
func (m *Manager) Users() []models.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.User(nil), m.config.Users...)
}

func (m *Manager) StartScheduler() {
	m.scheduler.AddFunc("@every 1m", m.reapIdleSessions)
	m.scheduler.Start()
	m.logger.Info("Scheduler started.")
}

func (m *Manager) Stop() {
	if m.scheduler != nil {
		m.scheduler.Stop()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, panel := range m.sessions {
		panel.Close()
		delete(m.sessions, id)
	}
}

// reapIdleSessions closes search sessions with no input activity for
// longer than the configured idle timeout.
func (m *Manager) reapIdleSessions() {
	m.mu.Lock()
	timeout := m.config.IdleTimeout()
	cutoff := time.Now().Add(-timeout)
	var reaped []string
	for id, panel := range m.sessions {
		if panel.LastActive().Before(cutoff) {
			panel.Close()
			delete(m.sessions, id)
			reaped = append(reaped, id)
		}
	}
	m.mu.Unlock()

	if len(reaped) > 0 {
		m.logger.Info(fmt.Sprintf("Reaped %d idle search sessions", len(reaped)))
	}
}

// SessionCount reports the number of open search sessions.
func (m *Manager) SessionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// SystemStatus reports which providers are usable plus basic process
// health for the status endpoint.
func (m *Manager) SystemStatus() map[string]interface{} {
	m.mu.RLock()
	cfg := m.config
	sessions := len(m.sessions)
	m.mu.RUnlock()

	status := map[string]interface{}{
		"tmdb":            cfg.Catalog.TMDB.APIKey != "" || cfg.Catalog.TMDB.APIToken != "",
		"rawg":            cfg.Catalog.RAWG.APIKey != "",
		"search_sessions": sessions,
		"goroutines":      runtime.NumGoroutine(),
		"uptime":          time.Since(m.startedAt).Round(time.Second).String(),
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		status["memory_used_percent"] = vm.UsedPercent
	}
	return status
}
