package database

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/thereayou/microblog/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreatePost сохраняет пост и подгружает автора.
// При заданном IdempotencyKey повтор с тем же ключом возвращает уже сохранённый пост.
func (d *Database) CreatePost(ctx context.Context, post *models.Post) error {
	post.Body = strings.TrimSpace(post.Body)
	if err := validateBody(post.Body); err != nil {
		return err
	}

	err := d.transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.First(&post.Author, "id = ?", post.UserID).Error; err != nil {
			return err
		}

		if post.IdempotencyKey != nil {
			found, err := findByIdempotencyKey(tx, post)
			if err != nil || found {
				return err
			}
		}

		return tx.Omit(clause.Associations).Create(post).Error
	})

	err = translateError(err)
	if errors.Is(err, ErrConflict) && post.IdempotencyKey != nil {
		// Ключ успел занять параллельный запрос
		_, err = findByIdempotencyKey(d.conn(ctx), post)
		return translateError(err)
	}
	return err
}

func (d *Database) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := d.conn(ctx).Joins("Author").First(&post, "posts.id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &post, nil
}

// FollowedPosts возвращает ленту пользователя: его посты и посты тех, на кого он подписан,
// от новых к старым. Выборка делается одним запросом с подзапросом по follows.
func (d *Database) FollowedPosts(ctx context.Context, userID uuid.UUID, page Page) (*PostPage, error) {
	db := d.conn(ctx)
	followed := db.Model(&models.Follow{}).Select("followed_id").Where("follower_id = ?", userID)
	query := db.Model(&models.Post{}).Where("posts.user_id IN (?) OR posts.user_id = ?", followed, userID)
	return postPage(query, page)
}

// UserPosts возвращает посты одного автора
func (d *Database) UserPosts(ctx context.Context, userID uuid.UUID, page Page) (*PostPage, error) {
	query := d.conn(ctx).Model(&models.Post{}).Where("posts.user_id = ?", userID)
	return postPage(query, page)
}

// ExplorePosts возвращает все посты всех пользователей
func (d *Database) ExplorePosts(ctx context.Context, page Page) (*PostPage, error) {
	return postPage(d.conn(ctx).Model(&models.Post{}), page)
}

func postPage(query *gorm.DB, page Page) (*PostPage, error) {
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, translateError(err)
	}

	var posts []models.Post
	err := query.Joins("Author").
		Order("posts.timestamp DESC").
		Order("posts.id DESC").
		Limit(page.Size).
		Offset(page.Offset()).
		Find(&posts).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &PostPage{Posts: posts, Page: page, Total: total}, nil
}

func findByIdempotencyKey(tx *gorm.DB, post *models.Post) (bool, error) {
	var existing models.Post
	err := tx.Joins("Author").
		Where("posts.user_id = ? AND posts.idempotency_key = ?", post.UserID, *post.IdempotencyKey).
		First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	*post = existing
	return true, nil
}
