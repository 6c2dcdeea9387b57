package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"projectnest/internal/domain/model"
	"projectnest/internal/domain/ports/repository"
	"projectnest/internal/infra/metrics"
	red "projectnest/internal/infra/redis"
)

var _ repository.PremiumPackRepository = (*packRepoCacheDecorator)(nil)

const packListKey = "packs:all"

type packRepoCacheDecorator struct {
	inner repository.PremiumPackRepository
	cache red.RedisClient
	ttl   time.Duration
	log   *zerolog.Logger
}

func NewPackRepoCacheDecorator(inner repository.PremiumPackRepository, cache red.RedisClient, ttl time.Duration, log *zerolog.Logger) repository.PremiumPackRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &packRepoCacheDecorator{
		inner: inner,
		cache: cache,
		ttl:   ttl,
		log:   log,
	}
}

func packKey(id int64) string { return fmt.Sprintf("pack:%d", id) }

// FindByID reads through the cache unless the caller holds a transaction.
func (d *packRepoCacheDecorator) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.PremiumPack, error) {
	if tx != nil {
		return d.inner.FindByID(ctx, tx, id)
	}
	key := packKey(id)
	val, err := d.cache.Get(ctx, key)
	if err == nil {
		var pack model.PremiumPack
		if json.Unmarshal([]byte(val), &pack) == nil {
			metrics.IncCacheRequest("pack", "hit")
			return &pack, nil
		}
	} else if err != red.Nil {
		d.log.Warn().Err(err).Str("key", key).Msg("pack cache read failed")
	}

	metrics.IncCacheRequest("pack", "miss")
	pack, err := d.inner.FindByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if pack != nil {
		bytes, _ := json.Marshal(pack)
		if err := d.cache.Set(ctx, key, bytes, d.ttl); err != nil {
			d.log.Warn().Err(err).Str("key", key).Msg("pack cache write failed")
		}
	}
	return pack, nil
}

// Save invalidates both the pack key and the list.
func (d *packRepoCacheDecorator) Save(ctx context.Context, tx repository.Tx, pack *model.PremiumPack) error {
	if err := d.inner.Save(ctx, tx, pack); err != nil {
		return err
	}
	if err := d.cache.Del(ctx, packKey(pack.ID), packListKey); err != nil {
		d.log.Warn().Err(err).Int64("pack_id", pack.ID).Msg("pack cache invalidation failed")
	}
	return nil
}

func (d *packRepoCacheDecorator) ListAll(ctx context.Context, tx repository.Tx) ([]*model.PremiumPack, error) {
	if tx != nil {
		return d.inner.ListAll(ctx, tx)
	}
	val, err := d.cache.Get(ctx, packListKey)
	if err == nil {
		var packs []*model.PremiumPack
		if json.Unmarshal([]byte(val), &packs) == nil {
			metrics.IncCacheRequest("pack_list", "hit")
			return packs, nil
		}
	} else if err != red.Nil {
		d.log.Warn().Err(err).Str("key", packListKey).Msg("pack cache read failed")
	}

	metrics.IncCacheRequest("pack_list", "miss")
	packs, err := d.inner.ListAll(ctx, tx)
	if err != nil {
		return nil, err
	}
	if len(packs) > 0 {
		bytes, _ := json.Marshal(packs)
		if err := d.cache.Set(ctx, packListKey, bytes, d.ttl); err != nil {
			d.log.Warn().Err(err).Str("key", packListKey).Msg("pack cache write failed")
		}
	}
	return packs, nil
}
