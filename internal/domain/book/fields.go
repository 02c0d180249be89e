package book

import (
	"io"
	"strings"
	"time"
)

// Fields 创建/更新图书时提交的字段
// nil表示"未提供"，指向空字符串表示"提供了空值"，两者语义不同：
// - 创建：必填字段（书名、作者、ISBN、出版日期）必须提供且非空
// - 更新：未提供的字段保持不变;必填字段提供了空值视为校验失败
type Fields struct {
	Title         *string
	Author        *string
	ISBN          *string
	PublishedDate *string // YYYY-MM-DD 或 RFC3339
	Description   *string
	ShelfNumber   *string
	RowPosition   *string
}

// Upload 本次请求上传的封面文件
type Upload struct {
	Filename string // 客户端文件名,只用于推断扩展名
	Content  io.Reader
}

// CoverChange 更新图书时对封面的操作
// - Upload非nil:替换为新文件
// - Upload为nil且Clear:移除封面
// - 都没有：封面不变
type CoverChange struct {
	Upload *Upload
	Clear  bool
}

// StringPtr 返回s的指针（构造Fields用）
func StringPtr(s string) *string {
	return &s
}

// Normalize 去掉所有已提供字段的首尾空白
func (f Fields) Normalize() Fields {
	trim := func(p *string) *string {
		if p == nil {
			return nil
		}
		s := strings.TrimSpace(*p)
		return &s
	}
	return Fields{
		Title:         trim(f.Title),
		Author:        trim(f.Author),
		ISBN:          trim(f.ISBN),
		PublishedDate: trim(f.PublishedDate),
		Description:   trim(f.Description),
		ShelfNumber:   trim(f.ShelfNumber),
		RowPosition:   trim(f.RowPosition),
	}
}

// ValidateForCreate 校验创建所需字段，返回解析后的出版日期
// 调用前应先Normalize
func (f Fields) ValidateForCreate() (time.Time, error) {
	switch {
	case value(f.Title) == "":
		return time.Time{}, ErrTitleRequired
	case value(f.Author) == "":
		return time.Time{}, ErrAuthorRequired
	case value(f.ISBN) == "":
		return time.Time{}, ErrISBNRequired
	case value(f.PublishedDate) == "":
		return time.Time{}, ErrPublishedDateRequired
	}
	return ParsePublishedDate(*f.PublishedDate)
}

// ValidateForUpdate 校验更新字段：已提供的必填字段不能为空
// f.PublishedDate为nil时返回零值日期
func (f Fields) ValidateForUpdate() (time.Time, error) {
	switch {
	case f.Title != nil && *f.Title == "":
		return time.Time{}, ErrTitleRequired
	case f.Author != nil && *f.Author == "":
		return time.Time{}, ErrAuthorRequired
	case f.ISBN != nil && *f.ISBN == "":
		return time.Time{}, ErrISBNRequired
	case f.PublishedDate != nil && *f.PublishedDate == "":
		return time.Time{}, ErrPublishedDateRequired
	}
	if f.PublishedDate == nil {
		return time.Time{}, nil
	}
	return ParsePublishedDate(*f.PublishedDate)
}

// ParsePublishedDate 解析出版日期，接受YYYY-MM-DD或RFC3339
// RFC3339只保留其日历日期部分
func ParsePublishedDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, ErrInvalidPublishedDate
}

func value(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
