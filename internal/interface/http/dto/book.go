package dto

import (
	"github.com/xiebiao/horizon-library/internal/domain/book"
)

// BookRequest JSON格式的创建/更新请求（不带封面文件）
// 指针字段：未提供为nil，与提供了空字符串区分
// 必填校验由领域服务负责（创建与更新规则不同）
type BookRequest struct {
	Title         *string `json:"title" example:"Go语言程序设计"`
	Author        *string `json:"author" example:"Alan A. A. Donovan"`
	ISBN          *string `json:"isbn" example:"9787111558422"`
	PublishedDate *string `json:"published_date" example:"2016-02-01"`
	Description   *string `json:"description" example:"Go语言圣经"`
	ShelfNumber   *string `json:"shelf_number" example:"A3"`
	RowPosition   *string `json:"row_position" example:"2"`
	CoverImageURL *string `json:"cover_image_url" example:""` // 传空字符串表示移除封面（仅更新）
}

// ToFields 转换为领域字段
func (r BookRequest) ToFields() book.Fields {
	return book.Fields{
		Title:         r.Title,
		Author:        r.Author,
		ISBN:          r.ISBN,
		PublishedDate: r.PublishedDate,
		Description:   r.Description,
		ShelfNumber:   r.ShelfNumber,
		RowPosition:   r.RowPosition,
	}
}

// ClearCover 是否请求移除封面
func (r BookRequest) ClearCover() bool {
	return r.CoverImageURL != nil && *r.CoverImageURL == ""
}

// 表单字段名（multipart/form-data 与 application/x-www-form-urlencoded）
const (
	FormTitle         = "title"
	FormAuthor        = "author"
	FormISBN          = "isbn"
	FormPublishedDate = "published_date"
	FormDescription   = "description"
	FormShelfNumber   = "shelf_number"
	FormRowPosition   = "row_position"
	FormCoverImage    = "coverImage"      // 文件字段
	FormCoverImageURL = "cover_image_url" // 值为空且没有上传文件时表示移除封面
)

// FieldsFromForm 从表单值构造领域字段，表单中没有的字段为nil
func FieldsFromForm(values map[string][]string) book.Fields {
	get := func(key string) *string {
		v, ok := values[key]
		if !ok || len(v) == 0 {
			return nil
		}
		return book.StringPtr(v[0])
	}
	return book.Fields{
		Title:         get(FormTitle),
		Author:        get(FormAuthor),
		ISBN:          get(FormISBN),
		PublishedDate: get(FormPublishedDate),
		Description:   get(FormDescription),
		ShelfNumber:   get(FormShelfNumber),
		RowPosition:   get(FormRowPosition),
	}
}

// ClearCoverInForm 表单是否带有移除封面的信号
func ClearCoverInForm(values map[string][]string) bool {
	v, ok := values[FormCoverImageURL]
	return ok && (len(v) == 0 || v[0] == "")
}

// ListBooksRequest 图书列表查询参数
// page_size不传表示返回全部
type ListBooksRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1" example:"20"`
	Keyword  string `form:"keyword" binding:"omitempty,max=100" example:"Go"`
	SortBy   string `form:"sort_by" example:"created_at_desc"` // title_asc | published_desc | created_at_desc
}

// DeleteBookResponse 删除响应
type DeleteBookResponse struct {
	ID uint `json:"id" example:"1"`
}
