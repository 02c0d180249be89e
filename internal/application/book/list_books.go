package book

import (
	"context"

	"github.com/xiebiao/horizon-library/internal/domain/book"
)

// ListBooksUseCase 图书列表查询用例（公开接口）
// 设计说明：
// 1. 支持关键词搜索、排序和可选分页
// 2. 不传page_size时返回全部图书（馆藏规模小，前端一次性加载）
type ListBooksUseCase struct {
	bookService book.Service
}

// NewListBooksUseCase 创建列表查询用例
func NewListBooksUseCase(bookService book.Service) *ListBooksUseCase {
	return &ListBooksUseCase{
		bookService: bookService,
	}
}

// ListBooksRequest 列表查询请求
type ListBooksRequest struct {
	Page     int    // 页码(从1开始)
	PageSize int    // 每页数量,0表示不分页
	Keyword  string // 搜索关键词(书名、作者、ISBN)
	SortBy   string // title_asc | published_desc | created_at_desc
}

// ListBooksResponse 列表查询响应
type ListBooksResponse struct {
	List     []BookDTO
	Total    int64
	Page     int
	PageSize int
}

// Execute 执行列表查询用例
func (uc *ListBooksUseCase) Execute(ctx context.Context, req ListBooksRequest) (*ListBooksResponse, error) {
	params := book.ListParams{
		Page:     req.Page,
		PageSize: req.PageSize,
		Keyword:  req.Keyword,
		SortBy:   req.SortBy,
	}
	if params.Paged() && params.Page < 1 {
		params.Page = 1
	}

	books, total, err := uc.bookService.List(ctx, params)
	if err != nil {
		return nil, err
	}

	list := make([]BookDTO, len(books))
	for i, b := range books {
		list[i] = ToBookDTO(b)
	}

	return &ListBooksResponse{
		List:     list,
		Total:    total,
		Page:     params.Page,
		PageSize: params.PageSize,
	}, nil
}
