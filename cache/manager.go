package cache

import (
	"context"

	"github.com/saiset-co/sai-pipeline/types"
)

func NewCacheManager(ctx context.Context, logger types.Logger, config *types.CacheConfig) (types.CacheManager, error) {
	if config == nil || !config.Enabled {
		return nil, types.ErrCacheIsDisabled
	}

	switch config.Type {
	case "memory":
		return NewMemoryCache(ctx, logger, config)
	case "redis":
		return NewRedisCache(ctx, logger, config)
	default:
		return nil, types.Errorf(types.ErrCacheTypeUnknown, "type: %s", config.Type)
	}
}
