package book

import (
	"time"
)

// DateLayout 出版日期的对外格式
const DateLayout = "2006-01-02"

// Book 图书实体（聚合根）
// DDD设计说明：
// 1. ISBN是业务唯一标识（预检查 + 数据库唯一索引双重保证）
// 2. PublishedDate只有日期部分有意义，时间部分固定为UTC零点
// 3. CoverImage是封面文件的引用（/uploads/<文件名>），空字符串表示没有封面
// 4. 一个封面文件只属于一条图书记录，删除记录即释放文件
type Book struct {
	ID            uint
	Title         string    // 书名
	Author        string    // 作者
	ISBN          string    // ISBN号(不校验格式,只要求非空且唯一)
	PublishedDate time.Time // 出版日期
	Description   string    // 简介
	CoverImage    string    // 封面引用
	ShelfNumber   string    // 书架号
	RowPosition   string    // 排号
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewBook 创建新图书（工厂方法）
// 字段必须已经通过Fields.ValidateForCreate校验
func NewBook(f Fields, publishedDate time.Time) *Book {
	now := time.Now()
	return &Book{
		Title:         value(f.Title),
		Author:        value(f.Author),
		ISBN:          value(f.ISBN),
		PublishedDate: publishedDate,
		Description:   value(f.Description),
		ShelfNumber:   value(f.ShelfNumber),
		RowPosition:   value(f.RowPosition),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Apply 用提供的字段覆盖当前值，未提供的字段保持不变
// publishedDate只在f.PublishedDate非nil时使用
func (b *Book) Apply(f Fields, publishedDate time.Time) {
	if f.Title != nil {
		b.Title = *f.Title
	}
	if f.Author != nil {
		b.Author = *f.Author
	}
	if f.ISBN != nil {
		b.ISBN = *f.ISBN
	}
	if f.PublishedDate != nil {
		b.PublishedDate = publishedDate
	}
	if f.Description != nil {
		b.Description = *f.Description
	}
	if f.ShelfNumber != nil {
		b.ShelfNumber = *f.ShelfNumber
	}
	if f.RowPosition != nil {
		b.RowPosition = *f.RowPosition
	}
	b.UpdatedAt = time.Now()
}

// HasCover 是否有封面
func (b *Book) HasCover() bool {
	return b.CoverImage != ""
}

// PublishedDateString 按DateLayout格式化出版日期
func (b *Book) PublishedDateString() string {
	if b.PublishedDate.IsZero() {
		return ""
	}
	return b.PublishedDate.Format(DateLayout)
}
