package book

import (
	"context"

	"github.com/xiebiao/horizon-library/internal/domain/book"
)

// DeleteBookUseCase 删除图书用例
type DeleteBookUseCase struct {
	bookService book.Service
}

// NewDeleteBookUseCase 创建用例
func NewDeleteBookUseCase(bookService book.Service) *DeleteBookUseCase {
	return &DeleteBookUseCase{bookService: bookService}
}

// Execute 执行删除
func (uc *DeleteBookUseCase) Execute(ctx context.Context, id uint) error {
	return uc.bookService.Delete(ctx, id)
}
