// Package redislock serializa liquidaciones por producto entre varias instancias usando Redis.
package redislock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	bsmlock "github.com/bsm/redislock"
	"github.com/jhoicas/tokokita-api/internal/application/inventory"
	"github.com/jhoicas/tokokita-api/internal/domain"
	"github.com/jhoicas/tokokita-api/pkg/config"
	"github.com/jhoicas/tokokita-api/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix     = "lock:product:"
	retryInterval = 50 * time.Millisecond
	releaseWait   = 2 * time.Second
)

var _ inventory.ProductLocker = (*ProductLocker)(nil)

// lease es lo que se necesita de *bsmlock.Lock para liberar.
type lease interface {
	Release(ctx context.Context) error
}

type obtainFunc func(ctx context.Context, key string, ttl time.Duration, opt *bsmlock.Options) (lease, error)

// ProductLocker implementa inventory.ProductLocker con bsm/redislock.
// Un lock vive a lo sumo ttl; si la liquidación tarda más, Redis lo libera solo.
type ProductLocker struct {
	obtain obtainFunc
	ttl    time.Duration
	log    *logger.Logger
}

// NewClient conecta a Redis y verifica con PING.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Addr, err)
	}
	return rdb, nil
}

// NewProductLocker construye el locker sobre un cliente go-redis.
func NewProductLocker(client *redis.Client, ttl time.Duration, log *logger.Logger) *ProductLocker {
	c := bsmlock.New(client)
	return newProductLocker(func(ctx context.Context, key string, ttl time.Duration, opt *bsmlock.Options) (lease, error) {
		l, err := c.Obtain(ctx, key, ttl, opt)
		if err != nil {
			return nil, err
		}
		return l, nil
	}, ttl, log)
}

func newProductLocker(obtain obtainFunc, ttl time.Duration, log *logger.Logger) *ProductLocker {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &ProductLocker{obtain: obtain, ttl: ttl, log: log}
}

// Lock espera hasta ttl por el lock del producto.
// Si no lo obtiene devuelve ErrConcurrentModification (transitorio).
func (p *ProductLocker) Lock(ctx context.Context, productID string) (func(), error) {
	key := keyPrefix + productID
	retries := int(p.ttl / retryInterval)
	opt := &bsmlock.Options{
		RetryStrategy: bsmlock.LimitRetry(bsmlock.LinearBackoff(retryInterval), retries),
	}

	l, err := p.obtain(ctx, key, p.ttl, opt)
	if errors.Is(err, bsmlock.ErrNotObtained) {
		p.log.Warn().Str("product_id", productID).Msg("lock de producto ocupado")
		return nil, fmt.Errorf("%w: producto %s bloqueado por otra liquidación", domain.ErrConcurrentModification, productID)
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: obtener lock redis: %w", domain.ErrPersistence, err)
	}

	var once sync.Once
	unlock := func() {
		once.Do(func() {
			// ctx del request puede estar cancelado; la liberación usa su propio plazo.
			rctx, cancel := context.WithTimeout(context.Background(), releaseWait)
			defer cancel()
			if err := l.Release(rctx); err != nil && !errors.Is(err, bsmlock.ErrLockNotHeld) {
				p.log.Warn().Err(err).Str("product_id", productID).Msg("liberar lock redis")
			}
		})
	}
	return unlock, nil
}
