package book

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/horizon-library/pkg/metrics"
	"github.com/xiebiao/horizon-library/pkg/saga"
	"github.com/xiebiao/horizon-library/pkg/tracing"
)

const (
	tracerName = "book"

	maxPageSize = 100
)

// Service 图书领域服务接口
// 设计说明：
// 1. 封装图书记录与封面文件的完整生命周期（记录写入 + 文件写入/释放）
// 2. 只依赖领域层定义的端口（Repository、Transactor、CoverStore、EventPublisher）
// 3. 更新和删除在事务中先锁定行，对调用方而言是原子的
type Service interface {
	// Create 创建图书
	// - 必填字段缺失或出版日期无法解析：ValidationError
	// - ISBN已存在：ErrISBNDuplicate
	// - upload非nil时先保存文件，记录写入失败会删除刚保存的文件
	Create(ctx context.Context, f Fields, upload *Upload) (*Book, error)

	// Update 更新图书，未提供的字段保持不变
	// - 图书不存在：ErrBookNotFound
	// - 新ISBN属于另一本书：ErrISBNDuplicate（保持自身ISBN不算重复）
	// - 封面按CoverChange处理，被替换/移除的旧文件在提交后删除
	Update(ctx context.Context, id uint, f Fields, cover CoverChange) (*Book, error)

	// Delete 删除图书，记录删除成功后再释放封面文件
	Delete(ctx context.Context, id uint) error

	// Get 获取图书详情
	Get(ctx context.Context, id uint) (*Book, error)

	// List 查询图书列表，不分页时返回全部
	List(ctx context.Context, params ListParams) ([]*Book, int64, error)
}

type service struct {
	repo   Repository
	tx     Transactor
	covers CoverStore
	events EventPublisher
	logger *zap.Logger
}

// NewService 创建图书领域服务
// events为nil时不发布事件，logger为nil时不输出日志
func NewService(repo Repository, tx Transactor, covers CoverStore, events EventPublisher, logger *zap.Logger) Service {
	if events == nil {
		events = NopPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{
		repo:   repo,
		tx:     tx,
		covers: covers,
		events: events,
		logger: logger.Named("book"),
	}
}

// Create 创建图书
// 执行顺序：字段校验 → ISBN预检查 → [保存封面] → 写入记录
// 校验和预检查都在保存文件之前，失败时不会产生任何文件
func (s *service) Create(ctx context.Context, f Fields, upload *Upload) (b *Book, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "BookService.Create")
	defer func() {
		tracing.RecordError(span, err)
		span.End()
		recordMutation("create", err)
	}()

	f = f.Normalize()
	publishedDate, err := f.ValidateForCreate()
	if err != nil {
		return nil, err
	}

	if err := s.ensureISBNAvailable(ctx, *f.ISBN, 0); err != nil {
		return nil, err
	}

	created := NewBook(f, publishedDate)

	sg := s.newSaga()
	if upload != nil {
		sg.AddStep("store cover",
			func(ctx context.Context) error {
				ref, err := s.covers.Store(ctx, upload.Content, upload.Filename)
				if err != nil {
					return err
				}
				created.CoverImage = ref
				return nil
			},
			func(ctx context.Context) error {
				return s.covers.Delete(ctx, created.CoverImage)
			},
		)
	}
	sg.AddStep("write record", func(ctx context.Context) error {
		return s.repo.Create(ctx, created)
	}, nil)

	if err := sg.Execute(ctx); err != nil {
		return nil, stepCause(err)
	}

	s.logger.Info("book created",
		zap.Uint("id", created.ID),
		zap.String("isbn", created.ISBN),
		zap.Bool("has_cover", created.HasCover()),
	)
	s.publish(ctx, EventCreated, created)

	return created, nil
}

// Update 更新图书
// 执行顺序：字段校验 → 事务{锁定行 → ISBN检查 → [保存新封面] → 写入记录} → 删除旧封面
func (s *service) Update(ctx context.Context, id uint, f Fields, cover CoverChange) (b *Book, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "BookService.Update")
	defer func() {
		tracing.RecordError(span, err)
		span.End()
		recordMutation("update", err)
	}()

	f = f.Normalize()
	publishedDate, err := f.ValidateForUpdate()
	if err != nil {
		return nil, err
	}

	var (
		updated  *Book
		oldCover string
		newRef   string // 本次保存且尚未被记录引用成功的文件
	)

	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		current, err := s.repo.LockByID(ctx, id)
		if err != nil {
			return err
		}

		if f.ISBN != nil && *f.ISBN != current.ISBN {
			if err := s.ensureISBNAvailable(ctx, *f.ISBN, id); err != nil {
				return err
			}
		}

		oldCover = current.CoverImage
		current.Apply(f, publishedDate)

		sg := s.newSaga()
		switch {
		case cover.Upload != nil:
			sg.AddStep("store cover",
				func(ctx context.Context) error {
					ref, err := s.covers.Store(ctx, cover.Upload.Content, cover.Upload.Filename)
					if err != nil {
						return err
					}
					newRef = ref
					current.CoverImage = ref
					return nil
				},
				func(ctx context.Context) error {
					if err := s.covers.Delete(ctx, newRef); err != nil {
						return err
					}
					newRef = ""
					return nil
				},
			)
		case cover.Clear:
			current.CoverImage = ""
		}
		sg.AddStep("write record", func(ctx context.Context) error {
			return s.repo.Update(ctx, current)
		}, nil)

		if err := sg.Execute(ctx); err != nil {
			return stepCause(err)
		}

		updated = current
		return nil
	})
	if err != nil {
		// 事务提交失败：新文件没有任何记录引用
		if newRef != "" {
			s.removeCover(ctx, "compensate", newRef)
		}
		return nil, err
	}

	if oldCover != "" && oldCover != updated.CoverImage {
		s.removeCover(ctx, "update", oldCover)
	}

	s.logger.Info("book updated",
		zap.Uint("id", updated.ID),
		zap.String("isbn", updated.ISBN),
		zap.Bool("cover_changed", oldCover != updated.CoverImage),
	)
	s.publish(ctx, EventUpdated, updated)

	return updated, nil
}

// Delete 删除图书
// 先删除记录再删除文件：删除失败时文件仍被记录引用且存在
func (s *service) Delete(ctx context.Context, id uint) (err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "BookService.Delete")
	defer func() {
		tracing.RecordError(span, err)
		span.End()
		recordMutation("delete", err)
	}()

	var removed *Book
	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		current, err := s.repo.LockByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, id); err != nil {
			return err
		}
		removed = current
		return nil
	})
	if err != nil {
		return err
	}

	if removed.HasCover() {
		s.removeCover(ctx, "delete", removed.CoverImage)
	}

	s.logger.Info("book deleted", zap.Uint("id", removed.ID), zap.String("isbn", removed.ISBN))
	s.publish(ctx, EventDeleted, removed)

	return nil
}

// Get 获取图书详情
func (s *service) Get(ctx context.Context, id uint) (b *Book, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "BookService.Get")
	defer func() {
		tracing.RecordError(span, err)
		span.End()
	}()

	return s.repo.FindByID(ctx, id)
}

// List 查询图书列表
// 未知的排序方式按默认排序（创建时间倒序）处理
func (s *service) List(ctx context.Context, params ListParams) (books []*Book, total int64, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "BookService.List")
	defer func() {
		tracing.RecordError(span, err)
		span.End()
	}()

	switch params.SortBy {
	case SortTitleAsc, SortPublishedDesc, SortCreatedAtDesc:
	default:
		params.SortBy = SortCreatedAtDesc
	}
	if params.Paged() {
		if params.Page < 1 {
			params.Page = 1
		}
		if params.PageSize > maxPageSize {
			params.PageSize = maxPageSize
		}
	}

	return s.repo.List(ctx, params)
}

// =========================================
// 辅助函数
// =========================================

// ensureISBNAvailable ISBN预检查，selfID为当前图书ID（创建时为0）
// 并发写入时由数据库唯一索引兜底，Repository同样返回ErrISBNDuplicate
func (s *service) ensureISBNAvailable(ctx context.Context, isbn string, selfID uint) error {
	existing, err := s.repo.FindByISBN(ctx, isbn)
	switch {
	case err == nil:
		if existing.ID != selfID {
			return ErrISBNDuplicate
		}
		return nil
	case errors.Is(err, ErrBookNotFound):
		return nil
	default:
		return err
	}
}

// newSaga 封面写入 + 记录写入的编排，不设超时
func (s *service) newSaga() *saga.Saga {
	return saga.NewSaga(0).OnCompensateError(func(step string, err error) {
		s.logger.Warn("cover compensation failed", zap.String("step", step), zap.Error(err))
		metrics.RecordCoverCleanupFailure("compensate")
	})
}

// removeCover 尽力删除封面文件，失败只记录日志和指标，不影响操作结果
// 记录已经提交，客户端断开也要继续清理
func (s *service) removeCover(ctx context.Context, op, ref string) {
	if err := s.covers.Delete(context.WithoutCancel(ctx), ref); err != nil {
		s.logger.Warn("cover cleanup failed",
			zap.String("op", op),
			zap.String("ref", ref),
			zap.Error(err),
		)
		metrics.RecordCoverCleanupFailure(op)
	}
}

func (s *service) publish(ctx context.Context, eventType string, b *Book) {
	event := Event{
		Type:       eventType,
		BookID:     b.ID,
		ISBN:       b.ISBN,
		Title:      b.Title,
		CoverImage: b.CoverImage,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.events.Publish(context.WithoutCancel(ctx), event); err != nil {
		s.logger.Warn("publish book event failed",
			zap.String("type", eventType),
			zap.Uint("book_id", b.ID),
			zap.Error(err),
		)
	}
}

// stepCause 取出saga步骤的原始错误，保留业务错误码和提示
func stepCause(err error) error {
	var stepErr *saga.StepError
	if errors.As(err, &stepErr) {
		return stepErr.Err
	}
	return err
}

func recordMutation(op string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	metrics.RecordBookMutation(op, result)
}
