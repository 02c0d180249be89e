package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/xiebiao/horizon-library/internal/domain/book"
	"github.com/xiebiao/horizon-library/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/horizon-library/pkg/circuitbreaker"
	"github.com/xiebiao/horizon-library/pkg/metrics"
)

const (
	bookKeyPrefix = "horizon:book:"
	breakerName   = "redis"
)

// CachedBookRepository 带详情缓存的图书仓储（装饰器）
// 设计说明：
// 1. Cache-Aside：FindByID先查缓存，未命中查数据库后回填
// 2. Update/Delete成功后删除缓存，不更新缓存；在事务中时COMMIT后再删除一次，
//    清掉并发读在提交前回填的旧数据
// 3. 所有Redis调用经过熔断器，Redis故障或熔断打开时直接查数据库
// 4. 其余方法直接委托给内层仓储
type CachedBookRepository struct {
	book.Repository

	client  *redis.Client
	ttl     time.Duration
	breaker *circuitbreaker.CircuitBreaker
	logger  *zap.Logger
}

// NewCachedBookRepository 创建带缓存的图书仓储
func NewCachedBookRepository(inner book.Repository, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedBookRepository {
	if logger == nil {
		logger = zap.NewNop()
	}

	cfg := circuitbreaker.DefaultConfig()
	// 缓存未命中不算失败
	cfg.IsSuccessful = func(err error) bool {
		return err == nil || errors.Is(err, redis.Nil)
	}

	r := &CachedBookRepository{
		Repository: inner,
		client:     client,
		ttl:        ttl,
		breaker:    circuitbreaker.NewCircuitBreaker(breakerName, cfg),
		logger:     logger.Named("book_cache"),
	}
	r.breaker.SetStateChangeCallback(func(name string, from, to circuitbreaker.State) {
		r.logger.Warn("circuit breaker state changed",
			zap.String("name", name),
			zap.String("from", from.String()),
			zap.String("to", to.String()),
		)
		metrics.SetBreakerState(name, float64(to))
	})
	metrics.SetBreakerState(breakerName, float64(circuitbreaker.StateClosed))

	return r
}

// cachedBook 缓存中的JSON结构
type cachedBook struct {
	ID            uint      `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	ISBN          string    `json:"isbn"`
	PublishedDate time.Time `json:"published_date"`
	Description   string    `json:"description"`
	CoverImage    string    `json:"cover_image"`
	ShelfNumber   string    `json:"shelf_number"`
	RowPosition   string    `json:"row_position"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// FindByID 根据ID查找图书（优先读缓存）
func (r *CachedBookRepository) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	key := bookKey(id)

	var raw []byte
	err := r.call(func() error {
		var err error
		raw, err = r.client.Get(ctx, key).Bytes()
		return err
	})

	switch {
	case err == nil:
		b, decodeErr := decodeBook(raw)
		if decodeErr == nil {
			metrics.RecordCacheRequest("hit")
			return b, nil
		}
		// 缓存内容损坏：查库后覆盖
		r.logger.Warn("decode cached book failed", zap.String("key", key), zap.Error(decodeErr))
		metrics.RecordCacheRequest("error")
	case errors.Is(err, redis.Nil):
		metrics.RecordCacheRequest("miss")
	case errors.Is(err, circuitbreaker.ErrOpenState):
		metrics.RecordCacheRequest("bypass")
		return r.Repository.FindByID(ctx, id)
	default:
		r.logger.Warn("read book cache failed", zap.String("key", key), zap.Error(err))
		metrics.RecordCacheRequest("error")
		return r.Repository.FindByID(ctx, id)
	}

	b, err := r.Repository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	r.store(ctx, key, b)
	return b, nil
}

// Update 更新图书并删除缓存
func (r *CachedBookRepository) Update(ctx context.Context, b *book.Book) error {
	if err := r.Repository.Update(ctx, b); err != nil {
		return err
	}
	r.invalidateTwice(ctx, b.ID)
	return nil
}

// Delete 删除图书并删除缓存
func (r *CachedBookRepository) Delete(ctx context.Context, id uint) error {
	if err := r.Repository.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidateTwice(ctx, id)
	return nil
}

// store 回填缓存，失败只记录日志
func (r *CachedBookRepository) store(ctx context.Context, key string, b *book.Book) {
	raw, err := json.Marshal(toCachedBook(b))
	if err != nil {
		r.logger.Warn("encode book failed", zap.Uint("id", b.ID), zap.Error(err))
		return
	}

	err = r.call(func() error {
		return r.client.Set(ctx, key, raw, r.ttl).Err()
	})
	if err != nil && !errors.Is(err, circuitbreaker.ErrOpenState) {
		r.logger.Warn("write book cache failed", zap.String("key", key), zap.Error(err))
	}
}

// invalidateTwice 立即删除缓存，并在事务提交后再删除一次
func (r *CachedBookRepository) invalidateTwice(ctx context.Context, id uint) {
	r.invalidate(ctx, id)
	if mysql.InTransaction(ctx) {
		mysql.AfterCommit(ctx, func() { r.invalidate(ctx, id) })
	}
}

func (r *CachedBookRepository) invalidate(ctx context.Context, id uint) {
	key := bookKey(id)
	err := r.call(func() error {
		return r.client.Del(context.WithoutCancel(ctx), key).Err()
	})
	if err != nil {
		// 删除失败时缓存最多在TTL后过期
		r.logger.Warn("invalidate book cache failed", zap.String("key", key), zap.Error(err))
	}
}

// call 经过熔断器执行Redis调用并记录结果
func (r *CachedBookRepository) call(fn func() error) error {
	err := r.breaker.Execute(fn)
	switch {
	case err == nil, errors.Is(err, redis.Nil):
		metrics.RecordBreakerRequest(breakerName, "success")
	case errors.Is(err, circuitbreaker.ErrOpenState):
		metrics.RecordBreakerRequest(breakerName, "rejected")
	default:
		metrics.RecordBreakerRequest(breakerName, "failure")
	}
	return err
}

func bookKey(id uint) string {
	return fmt.Sprintf("%s%d", bookKeyPrefix, id)
}

func toCachedBook(b *book.Book) cachedBook {
	return cachedBook{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		ISBN:          b.ISBN,
		PublishedDate: b.PublishedDate,
		Description:   b.Description,
		CoverImage:    b.CoverImage,
		ShelfNumber:   b.ShelfNumber,
		RowPosition:   b.RowPosition,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func decodeBook(raw []byte) (*book.Book, error) {
	var c cachedBook
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	return &book.Book{
		ID:            c.ID,
		Title:         c.Title,
		Author:        c.Author,
		ISBN:          c.ISBN,
		PublishedDate: c.PublishedDate,
		Description:   c.Description,
		CoverImage:    c.CoverImage,
		ShelfNumber:   c.ShelfNumber,
		RowPosition:   c.RowPosition,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}, nil
}
