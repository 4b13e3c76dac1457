package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/saiset-co/sai-pipeline/types"
	"github.com/saiset-co/sai-pipeline/utils"
)

const (
	MaxTTL     = 24 * time.Hour
	DefaultTTL = 1 * time.Hour
)

type MemoryConfig struct {
	MaxEntries      int    `json:"max_entries"`
	CleanupInterval string `json:"cleanup_interval"`
}

type MemoryCache struct {
	ctx         context.Context
	cancel      context.CancelFunc
	config      *MemoryConfig
	logger      types.Logger
	defaultTTL  time.Duration
	data        map[string]*types.CacheEntry
	mu          sync.RWMutex
	running     int32
	cleanupDone chan struct{}
}

func NewMemoryCache(ctx context.Context, logger types.Logger, config *types.CacheConfig) (types.CacheManager, error) {
	mConfig := &MemoryConfig{
		MaxEntries:      10000,
		CleanupInterval: "1m",
	}

	if config.Config != nil {
		if err := utils.UnmarshalConfig(config.Config, mConfig); err != nil {
			return nil, types.WrapError(err, "failed to unmarshal memory cache config")
		}
	}

	cacheCtx, cancel := context.WithCancel(ctx)

	defaultTTL := config.DefaultTTL
	if defaultTTL <= 0 || defaultTTL > MaxTTL {
		defaultTTL = DefaultTTL
	}

	return &MemoryCache{
		ctx:         cacheCtx,
		cancel:      cancel,
		config:      mConfig,
		logger:      logger,
		defaultTTL:  defaultTTL,
		data:        make(map[string]*types.CacheEntry),
		cleanupDone: make(chan struct{}),
	}, nil
}

func (m *MemoryCache) Start() error {
	if !atomic.CompareAndSwapInt32(&m.running, 0, 1) {
		return types.ErrServerAlreadyRunning
	}

	interval, err := time.ParseDuration(m.config.CleanupInterval)
	if err != nil || interval <= 0 {
		interval = time.Minute
	}

	go m.cleanupLoop(interval)

	return nil
}

func (m *MemoryCache) Stop() error {
	if !atomic.CompareAndSwapInt32(&m.running, 1, 0) {
		return types.ErrServerNotRunning
	}

	m.cancel()
	<-m.cleanupDone

	m.mu.Lock()
	m.data = make(map[string]*types.CacheEntry)
	m.mu.Unlock()

	return nil
}

func (m *MemoryCache) IsRunning() bool {
	return atomic.LoadInt32(&m.running) == 1
}

func (m *MemoryCache) Get(key string) (interface{}, bool) {
	m.mu.RLock()
	entry, exists := m.data[key]
	m.mu.RUnlock()

	if !exists {
		return nil, false
	}

	if time.Now().After(entry.ExpiresAt) {
		m.mu.Lock()
		delete(m.data, key)
		m.mu.Unlock()
		return nil, false
	}

	return entry.Value, true
}

func (m *MemoryCache) Set(key string, value interface{}, ttl time.Duration) error {
	if key == "" {
		return types.ErrCacheKeyEmpty
	}

	if ttl <= 0 || ttl > MaxTTL {
		ttl = m.defaultTTL
	}

	now := time.Now()
	entry := &types.CacheEntry{
		Key:       key,
		Value:     value,
		TTL:       ttl,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.data) >= m.config.MaxEntries {
		m.evictOldest()
	}

	m.data[key] = entry
	return nil
}

func (m *MemoryCache) Delete(key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}

// evictOldest runs under the write lock.
func (m *MemoryCache) evictOldest() {
	var oldestKey string
	var oldestTime time.Time

	for key, entry := range m.data {
		if oldestKey == "" || entry.CreatedAt.Before(oldestTime) {
			oldestKey = key
			oldestTime = entry.CreatedAt
		}
	}

	if oldestKey != "" {
		delete(m.data, oldestKey)
	}
}

func (m *MemoryCache) cleanupLoop(interval time.Duration) {
	defer close(m.cleanupDone)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			m.removeExpired()
		}
	}
}

func (m *MemoryCache) removeExpired() {
	now := time.Now()
	removed := 0

	m.mu.Lock()
	for key, entry := range m.data {
		if now.After(entry.ExpiresAt) {
			delete(m.data, key)
			removed++
		}
	}
	m.mu.Unlock()

	if removed > 0 && m.logger != nil {
		m.logger.Debug("memory cache cleanup", zap.Int("removed", removed))
	}
}
