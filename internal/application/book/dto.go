package book

import (
	"time"

	"github.com/xiebiao/horizon-library/internal/domain/book"
)

// BookDTO 图书响应DTO
// cover_image没有封面时输出null
type BookDTO struct {
	ID            uint    `json:"id"`
	Title         string  `json:"title"`
	Author        string  `json:"author"`
	ISBN          string  `json:"isbn"`
	PublishedDate string  `json:"published_date"` // YYYY-MM-DD
	Description   string  `json:"description"`
	CoverImage    *string `json:"cover_image"`
	ShelfNumber   string  `json:"shelf_number"`
	RowPosition   string  `json:"row_position"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

// ToBookDTO 领域实体 → 响应DTO
func ToBookDTO(b *book.Book) BookDTO {
	dto := BookDTO{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		ISBN:          b.ISBN,
		PublishedDate: b.PublishedDateString(),
		Description:   b.Description,
		ShelfNumber:   b.ShelfNumber,
		RowPosition:   b.RowPosition,
		CreatedAt:     b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     b.UpdatedAt.Format(time.RFC3339),
	}
	if b.HasCover() {
		cover := b.CoverImage
		dto.CoverImage = &cover
	}
	return dto
}
