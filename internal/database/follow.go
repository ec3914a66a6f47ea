package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/thereayou/microblog/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Follow создаёт ребро follower → followed. Повторный вызов ничего не меняет.
func (d *Database) Follow(ctx context.Context, followerID, followedID uuid.UUID) error {
	if followerID == followedID {
		return ErrSelfFollow
	}

	err := d.transaction(ctx, func(tx *gorm.DB) error {
		if err := requireUsers(tx, followerID, followedID); err != nil {
			return err
		}

		following, err := isFollowing(tx, followerID, followedID)
		if err != nil || following {
			return err
		}

		edge := models.Follow{FollowerID: followerID, FollowedID: followedID}
		// Параллельная вставка той же пары упирается в первичный ключ
		return tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&edge).Error
	})

	err = translateError(err)
	if errors.Is(err, ErrConflict) {
		return nil
	}
	return err
}

// Unfollow удаляет ребро, если оно есть
func (d *Database) Unfollow(ctx context.Context, followerID, followedID uuid.UUID) error {
	err := d.transaction(ctx, func(tx *gorm.DB) error {
		if err := requireUsers(tx, followerID, followedID); err != nil {
			return err
		}
		return tx.Where("follower_id = ? AND followed_id = ?", followerID, followedID).
			Delete(&models.Follow{}).Error
	})
	return translateError(err)
}

func (d *Database) IsFollowing(ctx context.Context, followerID, followedID uuid.UUID) (bool, error) {
	following, err := isFollowing(d.conn(ctx), followerID, followedID)
	return following, translateError(err)
}

// FollowedCount считает пользователей, на которых подписан userID
func (d *Database) FollowedCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := d.conn(ctx).Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&count).Error
	return count, translateError(err)
}

// FollowerCount считает подписчиков userID
func (d *Database) FollowerCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := d.conn(ctx).Model(&models.Follow{}).Where("followed_id = ?", userID).Count(&count).Error
	return count, translateError(err)
}

func (d *Database) FollowerIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := d.conn(ctx).Model(&models.Follow{}).
		Where("followed_id = ?", userID).
		Pluck("follower_id", &ids).Error
	return ids, translateError(err)
}

// ListFollowed возвращает страницу пользователей, на которых подписан userID
func (d *Database) ListFollowed(ctx context.Context, userID uuid.UUID, page Page) (*UserPage, error) {
	query := d.conn(ctx).Model(&models.User{}).
		Joins("JOIN follows ON follows.followed_id = users.id").
		Where("follows.follower_id = ?", userID)
	return userPage(query, page)
}

// ListFollowers возвращает страницу подписчиков userID
func (d *Database) ListFollowers(ctx context.Context, userID uuid.UUID, page Page) (*UserPage, error) {
	query := d.conn(ctx).Model(&models.User{}).
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.followed_id = ?", userID)
	return userPage(query, page)
}

func userPage(query *gorm.DB, page Page) (*UserPage, error) {
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, translateError(err)
	}

	var users []models.User
	err := query.Order("users.username ASC").
		Limit(page.Size).
		Offset(page.Offset()).
		Find(&users).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &UserPage{Users: users, Page: page, Total: total}, nil
}

func isFollowing(tx *gorm.DB, followerID, followedID uuid.UUID) (bool, error) {
	var count int64
	err := tx.Model(&models.Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&count).Error
	return count > 0, err
}

func requireUsers(tx *gorm.DB, ids ...uuid.UUID) error {
	unique := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		unique[id] = struct{}{}
	}

	var count int64
	if err := tx.Model(&models.User{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return err
	}
	if int(count) != len(unique) {
		return ErrNotFound
	}
	return nil
}
