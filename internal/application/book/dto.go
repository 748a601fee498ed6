package book

import (
	"github.com/xiebiao/bookcatalog/internal/domain/book"
)

// BookItem 图书输出DTO
// 日期统一输出为yyyy-MM-dd,零值日期输出空字符串
type BookItem struct {
	ID          string  `json:"id" example:"B1"`
	Author      string  `json:"author" example:"Gambardella, Matthew"`
	Title       string  `json:"title" example:"XML Developer's Guide"`
	Genre       string  `json:"genre" example:"Computer"`
	Price       float64 `json:"price" example:"44.95"`
	PublishDate string  `json:"publish_date" example:"2000-10-01"`
	Description string  `json:"description" example:"An in-depth look at creating applications with XML."`
}

func toBookItem(b *book.Book) *BookItem {
	date := ""
	if !b.PublishDate.IsZero() {
		date = b.PublishDateString()
	}
	return &BookItem{
		ID:          b.ID,
		Author:      b.Author,
		Title:       b.Title,
		Genre:       b.Genre,
		Price:       b.Price,
		PublishDate: date,
		Description: b.Description,
	}
}

func toBookItems(books []*book.Book) []*BookItem {
	items := make([]*BookItem, len(books))
	for i, b := range books {
		items[i] = toBookItem(b)
	}
	return items
}
