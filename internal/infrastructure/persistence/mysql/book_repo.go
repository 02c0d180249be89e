package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/horizon-library/internal/domain/book"
)

// bookRepository 图书仓储实现（MySQL）
// 设计说明：
// 1. 实现domain/book/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 数据库错误转换为业务错误（ISBN重复 → ErrISBNDuplicate，记录不存在 → ErrBookNotFound）
// 4. 所有方法都通过getDB（ctx）参与TxManager开启的事务
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

// Create 创建图书
func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	model := toBookModel(b)
	model.ID = 0

	if err := r.getDB(ctx).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return book.ErrISBNDuplicate
		}
		return dbError(err, "创建图书失败")
	}

	// 回填自增ID
	b.ID = model.ID
	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt

	return nil
}

// FindByID 根据ID查找图书
func (r *bookRepository) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	if err := r.getDB(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, dbError(err, "查询图书失败")
	}

	return toBookEntity(&model), nil
}

// FindByISBN 根据ISBN查找图书
func (r *bookRepository) FindByISBN(ctx context.Context, isbn string) (*book.Book, error) {
	var model BookModel
	if err := r.getDB(ctx).Where("isbn = ?", isbn).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, dbError(err, "查询图书失败")
	}

	return toBookEntity(&model), nil
}

// Update 更新图书的全部可变字段
// 不用Save：Save在记录不存在时会插入新行
// Select（"*"）让零值（清空的简介、NULL封面）也被写入
func (r *bookRepository) Update(ctx context.Context, b *book.Book) error {
	model := toBookModel(b)
	model.UpdatedAt = time.Now()

	err := r.getDB(ctx).Model(&BookModel{ID: b.ID}).
		Select("*").
		Omit("id", "created_at").
		Updates(model).Error
	if err != nil {
		if isDuplicateError(err) {
			return book.ErrISBNDuplicate
		}
		return dbError(err, "更新图书失败")
	}

	b.UpdatedAt = model.UpdatedAt
	return nil
}

// Delete 删除图书（物理删除）
func (r *bookRepository) Delete(ctx context.Context, id uint) error {
	result := r.getDB(ctx).Delete(&BookModel{}, id)
	if result.Error != nil {
		return dbError(result.Error, "删除图书失败")
	}

	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}

	return nil
}

// List 查询图书列表
// 关键词模糊匹配书名、作者、ISBN;PageSize<=0时不分页
func (r *bookRepository) List(ctx context.Context, params book.ListParams) ([]*book.Book, int64, error) {
	var models []BookModel
	var total int64

	query := r.getDB(ctx).Model(&BookModel{})

	if params.Keyword != "" {
		keyword := "%" + params.Keyword + "%"
		query = query.Where("title LIKE ? OR author LIKE ? OR isbn LIKE ?", keyword, keyword, keyword)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, dbError(err, "查询图书总数失败")
	}

	// 第二排序键保证同值时顺序稳定
	switch params.SortBy {
	case book.SortTitleAsc:
		query = query.Order("title ASC").Order("id ASC")
	case book.SortPublishedDesc:
		query = query.Order("published_date DESC").Order("id DESC")
	default:
		query = query.Order("created_at DESC").Order("id DESC")
	}

	if params.Paged() {
		query = query.Limit(params.PageSize).Offset(params.Offset())
	}

	if err := query.Find(&models).Error; err != nil {
		return nil, 0, dbError(err, "查询图书列表失败")
	}

	books := make([]*book.Book, len(models))
	for i := range models {
		books[i] = toBookEntity(&models[i])
	}

	return books, total, nil
}

// LockByID 悲观锁查询图书
// SELECT ... FOR UPDATE，必须在事务中调用才有意义
func (r *bookRepository) LockByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	err := r.getDB(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, dbError(err, "锁定图书失败")
	}

	return toBookEntity(&model), nil
}

// =========================================
// 辅助函数：模型转换
// =========================================

// toBookModel 领域实体 → GORM模型
// 出版日期按连接时区的零点写入，避免DATE列因时区换算变成前一天
func toBookModel(b *book.Book) *BookModel {
	model := &BookModel{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		ISBN:          b.ISBN,
		PublishedDate: dateIn(b.PublishedDate, time.Local),
		Description:   b.Description,
		ShelfNumber:   b.ShelfNumber,
		RowPosition:   b.RowPosition,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
	if b.CoverImage != "" {
		cover := b.CoverImage
		model.CoverImage = &cover
	}
	return model
}

// toBookEntity GORM模型 → 领域实体
func toBookEntity(model *BookModel) *book.Book {
	b := &book.Book{
		ID:            model.ID,
		Title:         model.Title,
		Author:        model.Author,
		ISBN:          model.ISBN,
		PublishedDate: dateIn(model.PublishedDate, time.UTC),
		Description:   model.Description,
		ShelfNumber:   model.ShelfNumber,
		RowPosition:   model.RowPosition,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
	if model.CoverImage != nil {
		b.CoverImage = *model.CoverImage
	}
	return b
}

// dateIn 保留t的日历日期，换到loc的零点
func dateIn(t time.Time, loc *time.Location) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// getDB 从context获取事务DB，如果没有则使用默认DB
func (r *bookRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).WithContext(ctx)
}
