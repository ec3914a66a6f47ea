package dto

import (
	"time"

	"github.com/thereayou/microblog/internal/database"
	"github.com/thereayou/microblog/internal/models"
)

type CreatePostRequest struct {
	Body string `json:"body" binding:"required,max=140"`
}

type PostResponse struct {
	ID        uint      `json:"id"`
	Body      string    `json:"body"`
	Timestamp time.Time `json:"timestamp"`
	Author    UserInfo  `json:"author"`
}

type Pagination struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
	HasNext bool  `json:"has_next"`
	HasPrev bool  `json:"has_prev"`
}

type PostPageResponse struct {
	Items []PostResponse `json:"items"`
	Pagination
}

func NewPostResponse(p *models.Post) PostResponse {
	return PostResponse{
		ID:        p.ID,
		Body:      p.Body,
		Timestamp: p.Timestamp,
		Author:    NewUserInfo(&p.Author),
	}
}

func NewPagination(page database.Page, total int64) Pagination {
	return Pagination{
		Page:    page.Number,
		PerPage: page.Size,
		Total:   total,
		HasNext: page.HasNext(total),
		HasPrev: page.HasPrev(),
	}
}

func NewPostPageResponse(p *database.PostPage) PostPageResponse {
	items := make([]PostResponse, len(p.Posts))
	for i := range p.Posts {
		items[i] = NewPostResponse(&p.Posts[i])
	}
	return PostPageResponse{Items: items, Pagination: NewPagination(p.Page, p.Total)}
}

func NewUserListResponse(p *database.UserPage) UserListResponse {
	items := make([]UserInfo, len(p.Users))
	for i := range p.Users {
		items[i] = NewUserInfo(&p.Users[i])
	}
	return UserListResponse{Items: items, Pagination: NewPagination(p.Page, p.Total)}
}
