package book

import (
	"context"

	"github.com/xiebiao/horizon-library/internal/domain/book"
)

// CreateBookUseCase 创建图书用例
// 设计说明：
// 1. 应用层负责用例编排，业务规则（必填字段、ISBN唯一、封面生命周期）由领域服务负责
// 2. 输入输出使用DTO，与HTTP层解耦
type CreateBookUseCase struct {
	bookService book.Service
}

// NewCreateBookUseCase 创建用例
func NewCreateBookUseCase(bookService book.Service) *CreateBookUseCase {
	return &CreateBookUseCase{bookService: bookService}
}

// CreateBookRequest 创建请求
type CreateBookRequest struct {
	Fields book.Fields
	Cover  *book.Upload // 没有上传封面时为nil
}

// Execute 执行创建
func (uc *CreateBookUseCase) Execute(ctx context.Context, req CreateBookRequest) (*BookDTO, error) {
	b, err := uc.bookService.Create(ctx, req.Fields, req.Cover)
	if err != nil {
		return nil, err
	}

	dto := ToBookDTO(b)
	return &dto, nil
}
