package book

import (
	"context"

	"github.com/xiebiao/horizon-library/internal/domain/book"
)

// UpdateBookUseCase 更新图书用例
type UpdateBookUseCase struct {
	bookService book.Service
}

// NewUpdateBookUseCase 创建用例
func NewUpdateBookUseCase(bookService book.Service) *UpdateBookUseCase {
	return &UpdateBookUseCase{bookService: bookService}
}

// UpdateBookRequest 更新请求
type UpdateBookRequest struct {
	ID     uint
	Fields book.Fields      // 未提供的字段为nil
	Cover  book.CoverChange // 上传新封面 / 清除 / 不变
}

// Execute 执行更新
func (uc *UpdateBookUseCase) Execute(ctx context.Context, req UpdateBookRequest) (*BookDTO, error) {
	b, err := uc.bookService.Update(ctx, req.ID, req.Fields, req.Cover)
	if err != nil {
		return nil, err
	}

	dto := ToBookDTO(b)
	return &dto, nil
}
