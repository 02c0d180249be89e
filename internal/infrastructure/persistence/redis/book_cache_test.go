package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/horizon-library/internal/domain/book"
	"github.com/xiebiao/horizon-library/pkg/circuitbreaker"
)

// stubRepo 只实现缓存装饰器会用到的方法，记录FindByID调用次数
type stubRepo struct {
	book.Repository

	books map[uint]book.Book
	finds int
}

func (r *stubRepo) FindByID(_ context.Context, id uint) (*book.Book, error) {
	r.finds++
	b, ok := r.books[id]
	if !ok {
		return nil, book.ErrBookNotFound
	}
	return &b, nil
}

func (r *stubRepo) Update(_ context.Context, b *book.Book) error {
	if _, ok := r.books[b.ID]; !ok {
		return book.ErrBookNotFound
	}
	r.books[b.ID] = *b
	return nil
}

func (r *stubRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.books[id]; !ok {
		return book.ErrBookNotFound
	}
	delete(r.books, id)
	return nil
}

func setup(t *testing.T) (*miniredis.Miniredis, *stubRepo, *CachedBookRepository) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	inner := &stubRepo{books: map[uint]book.Book{
		1: {
			ID:            1,
			Title:         "Go语言圣经",
			Author:        "Alan",
			ISBN:          "978-1",
			PublishedDate: time.Date(2016, time.January, 1, 0, 0, 0, 0, time.UTC),
			CoverImage:    "/uploads/c.jpg",
		},
	}}
	return mr, inner, NewCachedBookRepository(inner, client, 10*time.Minute, nil)
}

func TestCachedBookRepository_FindByID(t *testing.T) {
	mr, inner, repo := setup(t)
	ctx := context.Background()

	first, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, inner.finds, "未命中时查询数据库")
	assert.True(t, mr.Exists("horizon:book:1"), "查询后回填缓存")
	assert.Equal(t, 10*time.Minute, mr.TTL("horizon:book:1"))

	second, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, inner.finds, "命中时不查数据库")
	assert.Equal(t, first.Title, second.Title)
	assert.Equal(t, "/uploads/c.jpg", second.CoverImage)
	assert.True(t, first.PublishedDate.Equal(second.PublishedDate))

	_, err = repo.FindByID(ctx, 42)
	assert.ErrorIs(t, err, book.ErrBookNotFound)
	assert.False(t, mr.Exists("horizon:book:42"), "不存在的记录不缓存")
}

func TestCachedBookRepository_CorruptEntry(t *testing.T) {
	mr, inner, repo := setup(t)
	require.NoError(t, mr.Set("horizon:book:1", "{not json"))

	b, err := repo.FindByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Go语言圣经", b.Title)
	assert.Equal(t, 1, inner.finds)

	raw, err := mr.Get("horizon:book:1")
	require.NoError(t, err)
	assert.Contains(t, raw, "978-1", "损坏的缓存被覆盖")
}

func TestCachedBookRepository_Invalidate(t *testing.T) {
	mr, inner, repo := setup(t)
	ctx := context.Background()

	_, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	require.True(t, mr.Exists("horizon:book:1"))

	t.Run("更新后删除缓存", func(t *testing.T) {
		b := inner.books[1]
		b.Title = "新书名"
		require.NoError(t, repo.Update(ctx, &b))
		assert.False(t, mr.Exists("horizon:book:1"))

		got, err := repo.FindByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "新书名", got.Title)
	})

	t.Run("更新失败不删除缓存", func(t *testing.T) {
		require.True(t, mr.Exists("horizon:book:1"))
		err := repo.Update(ctx, &book.Book{ID: 99})
		assert.ErrorIs(t, err, book.ErrBookNotFound)
		assert.True(t, mr.Exists("horizon:book:1"))
	})

	t.Run("删除后删除缓存", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, 1))
		assert.False(t, mr.Exists("horizon:book:1"))

		_, err := repo.FindByID(ctx, 1)
		assert.ErrorIs(t, err, book.ErrBookNotFound)
	})
}

func TestCachedBookRepository_RedisDown(t *testing.T) {
	mr, inner, repo := setup(t)
	ctx := context.Background()
	mr.Close()

	// Redis不可用时每次都回退到数据库
	for i := 0; i < 5; i++ {
		b, err := repo.FindByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "Go语言圣经", b.Title)
	}
	assert.Equal(t, 5, inner.finds)
	assert.Equal(t, circuitbreaker.StateOpen, repo.breaker.State(), "连续失败后熔断打开")

	// 熔断打开后不再访问Redis，写操作仍然成功
	b, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, uint(1), b.ID)

	updated := inner.books[1]
	updated.Title = "熔断期间更新"
	require.NoError(t, repo.Update(ctx, &updated))
}
