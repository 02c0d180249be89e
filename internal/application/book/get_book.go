package book

import (
	"context"

	"github.com/xiebiao/horizon-library/internal/domain/book"
)

// GetBookUseCase 图书详情用例（公开接口）
type GetBookUseCase struct {
	bookService book.Service
}

// NewGetBookUseCase 创建用例
func NewGetBookUseCase(bookService book.Service) *GetBookUseCase {
	return &GetBookUseCase{bookService: bookService}
}

// Execute 查询详情
func (uc *GetBookUseCase) Execute(ctx context.Context, id uint) (*BookDTO, error) {
	b, err := uc.bookService.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	dto := ToBookDTO(b)
	return &dto, nil
}
