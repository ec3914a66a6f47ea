package database

import "github.com/thereayou/microblog/internal/models"

const MaxPageSize = 100

// Page задаёт номер страницы (с 1) и её размер
type Page struct {
	Number int
	Size   int
}

// NewPage нормализует параметры пагинации из запроса
func NewPage(number, size, defaultSize int) Page {
	if number < 1 {
		number = 1
	}
	if size < 1 {
		size = defaultSize
	}
	if size < 1 {
		size = 1
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return Page{Number: number, Size: size}
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

func (p Page) HasNext(total int64) bool {
	return int64(p.Number*p.Size) < total
}

func (p Page) HasPrev() bool {
	return p.Number > 1
}

type PostPage struct {
	Posts []models.Post
	Page  Page
	Total int64
}

type UserPage struct {
	Users []models.User
	Page  Page
	Total int64
}
