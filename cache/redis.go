package cache

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/saiset-co/sai-pipeline/types"
	"github.com/saiset-co/sai-pipeline/utils"
)

type RedisConfig struct {
	Host         string        `json:"host"`
	Port         int           `json:"port"`
	Password     string        `json:"password"`
	DB           int           `json:"db"`
	PoolSize     int           `json:"pool_size"`
	DialTimeout  time.Duration `json:"dial_timeout"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
	KeyPrefix    string        `json:"key_prefix"`
}

type RedisCache struct {
	ctx        context.Context
	cancel     context.CancelFunc
	logger     types.Logger
	config     *RedisConfig
	client     *redis.Client
	defaultTTL time.Duration
	running    int32
}

func NewRedisCache(ctx context.Context, logger types.Logger, config *types.CacheConfig) (types.CacheManager, error) {
	rConfig := &RedisConfig{
		Host:         "localhost",
		Port:         6379,
		DB:           0,
		PoolSize:     10,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		KeyPrefix:    "sai-pipeline",
	}

	if config.Config != nil {
		if err := utils.UnmarshalConfig(config.Config, rConfig); err != nil {
			return nil, types.WrapError(err, "failed to unmarshal redis cache config")
		}
	}

	cacheCtx, cancel := context.WithCancel(ctx)

	defaultTTL := config.DefaultTTL
	if defaultTTL <= 0 || defaultTTL > MaxTTL {
		defaultTTL = DefaultTTL
	}

	cache := &RedisCache{
		ctx:        cacheCtx,
		cancel:     cancel,
		logger:     logger,
		config:     rConfig,
		defaultTTL: defaultTTL,
	}

	cache.client = redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", rConfig.Host, rConfig.Port),
		Password:     rConfig.Password,
		DB:           rConfig.DB,
		PoolSize:     rConfig.PoolSize,
		DialTimeout:  rConfig.DialTimeout,
		ReadTimeout:  rConfig.ReadTimeout,
		WriteTimeout: rConfig.WriteTimeout,
	})

	return cache, nil
}

func (r *RedisCache) Start() error {
	if !atomic.CompareAndSwapInt32(&r.running, 0, 1) {
		return types.ErrServerAlreadyRunning
	}

	pingCtx, cancel := context.WithTimeout(r.ctx, r.config.DialTimeout)
	defer cancel()

	if err := r.client.Ping(pingCtx).Err(); err != nil {
		atomic.StoreInt32(&r.running, 0)
		return types.Errorf(types.ErrCacheConnectionFailed, "%v", err)
	}

	return nil
}

func (r *RedisCache) Stop() error {
	if !atomic.CompareAndSwapInt32(&r.running, 1, 0) {
		return types.ErrServerNotRunning
	}

	r.cancel()
	return r.client.Close()
}

func (r *RedisCache) IsRunning() bool {
	return atomic.LoadInt32(&r.running) == 1
}

func (r *RedisCache) Get(key string) (interface{}, bool) {
	data, err := r.client.Get(r.ctx, r.prefixed(key)).Bytes()
	if err != nil {
		return nil, false
	}

	var value interface{}
	if err := utils.Unmarshal(data, &value); err != nil {
		return nil, false
	}

	return value, true
}

func (r *RedisCache) Set(key string, value interface{}, ttl time.Duration) error {
	if key == "" {
		return types.ErrCacheKeyEmpty
	}

	if ttl <= 0 || ttl > MaxTTL {
		ttl = r.defaultTTL
	}

	data, err := utils.Marshal(value)
	if err != nil {
		return types.WrapError(err, "failed to marshal cache value")
	}

	return r.client.Set(r.ctx, r.prefixed(key), data, ttl).Err()
}

func (r *RedisCache) Delete(key string) error {
	return r.client.Del(r.ctx, r.prefixed(key)).Err()
}

func (r *RedisCache) prefixed(key string) string {
	return r.config.KeyPrefix + ":" + key
}
