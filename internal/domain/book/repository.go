package book

import (
	"context"
	"io"
	"time"
)

// Repository 图书仓储接口（依赖倒置原则）
// 设计说明：
// 1. 由domain层定义接口，infrastructure层实现（MySQL + 可选的Redis缓存装饰器）
// 2. 找不到记录统一返回ErrBookNotFound，违反ISBN唯一索引统一返回ErrISBNDuplicate
// 3. 通过ctx参与Transactor开启的事务
type Repository interface {
	// Create 创建图书，成功后book.ID为数据库分配的ID
	Create(ctx context.Context, book *Book) error

	// FindByID 根据ID查找图书
	FindByID(ctx context.Context, id uint) (*Book, error)

	// FindByISBN 根据ISBN查找图书
	FindByISBN(ctx context.Context, isbn string) (*Book, error)

	// Update 保存图书的全部可变字段
	Update(ctx context.Context, book *Book) error

	// Delete 删除图书（物理删除，ISBN可以被重新使用）
	Delete(ctx context.Context, id uint) error

	// List 查询图书列表，返回当前页数据和总数
	List(ctx context.Context, params ListParams) ([]*Book, int64, error)

	// LockByID 悲观锁查询图书（SELECT ... FOR UPDATE）
	// 必须在事务中调用，更新/删除前锁定行，防止并发修改同一条记录
	LockByID(ctx context.Context, id uint) (*Book, error)
}

// 排序方式
const (
	SortTitleAsc      = "title_asc"
	SortPublishedDesc = "published_desc"
	SortCreatedAtDesc = "created_at_desc" // 默认
)

// ListParams 列表查询参数
type ListParams struct {
	Page     int    // 页码(从1开始)
	PageSize int    // 每页数量,<=0表示不分页返回全部
	Keyword  string // 搜索关键词(模糊匹配书名、作者、ISBN)
	SortBy   string // 排序方式
}

// Paged 是否分页
func (p ListParams) Paged() bool {
	return p.PageSize > 0
}

// Offset 分页偏移量
func (p ListParams) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// Transactor 事务管理接口
// fn中使用传入的ctx调用Repository，即可参与同一个事务
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// CoverStore 封面文件存储接口
// 引用（ref）是对外可访问的路径，如/uploads/coverImage-1700000000000-1a2b3c4d.jpg
type CoverStore interface {
	// Store 保存文件并返回引用，suggestedName只用于推断扩展名
	// 非图片内容返回ErrUnsupportedCover，超过大小限制返回ErrCoverTooLarge
	Store(ctx context.Context, content io.Reader, suggestedName string) (string, error)

	// Delete 删除引用指向的文件，文件不存在视为成功
	Delete(ctx context.Context, ref string) error
}

// 领域事件类型（同时作为MQ的routing key）
const (
	EventCreated = "book.created"
	EventUpdated = "book.updated"
	EventDeleted = "book.deleted"
)

// Event 图书变更事件
type Event struct {
	Type       string    `json:"type"`
	BookID     uint      `json:"book_id"`
	ISBN       string    `json:"isbn"`
	Title      string    `json:"title"`
	CoverImage string    `json:"cover_image,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher 领域事件发布接口（尽力而为，失败不影响写操作结果）
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher 不发布任何事件（未启用MQ时使用）
type NopPublisher struct{}

// Publish 实现EventPublisher
func (NopPublisher) Publish(context.Context, Event) error { return nil }
