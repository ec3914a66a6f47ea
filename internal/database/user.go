package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/thereayou/microblog/internal/models"
	"gorm.io/gorm"
)

func (d *Database) CreateUser(ctx context.Context, user *models.User) error {
	if err := validateUsername(user.Username); err != nil {
		return err
	}
	user.Email = models.NormalizeEmail(user.Email)
	if err := validateEmail(user.Email); err != nil {
		return err
	}
	if err := validateAboutMe(user.AboutMe); err != nil {
		return err
	}
	return translateError(d.conn(ctx).Create(user).Error)
}

func (d *Database) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user := models.User{}
	if err := d.conn(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

func (d *Database) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	user := models.User{}
	if err := d.conn(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

func (d *Database) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user := models.User{}
	if err := d.conn(ctx).Where("email = ?", models.NormalizeEmail(email)).First(&user).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// FindUserByLogin ищет пользователя по username или email.
// Username не может содержать '@', поэтому совпадение однозначно.
func (d *Database) FindUserByLogin(ctx context.Context, login string) (*models.User, error) {
	user := models.User{}
	err := d.conn(ctx).
		Where("username = ? OR email = ?", login, models.NormalizeEmail(login)).
		First(&user).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// UpdateProfile меняет username и about_me; пустой username оставляет текущий
func (d *Database) UpdateProfile(ctx context.Context, id uuid.UUID, username, aboutMe string) (*models.User, error) {
	if username != "" {
		if err := validateUsername(username); err != nil {
			return nil, err
		}
	}
	if err := validateAboutMe(aboutMe); err != nil {
		return nil, err
	}

	var user models.User
	err := d.transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.First(&user, "id = ?", id).Error; err != nil {
			return err
		}
		if username != "" {
			user.Username = username
		}
		user.AboutMe = aboutMe
		return tx.Model(&user).Updates(map[string]interface{}{
			"username": user.Username,
			"about_me": user.AboutMe,
		}).Error
	})
	if err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// SetPassword хеширует и сохраняет новый пароль; повтор безопасен
func (d *Database) SetPassword(ctx context.Context, id uuid.UUID, password string) error {
	err := d.transaction(ctx, func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", id).Error; err != nil {
			return err
		}
		if err := user.SetPassword(password); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return tx.Model(&user).Update("password_hash", user.PasswordHash).Error
	})
	return translateError(err)
}

func (d *Database) UpdateLastSeen(ctx context.Context, id uuid.UUID) error {
	res := d.conn(ctx).Model(&models.User{}).Where("id = ?", id).Update("last_seen", time.Now().UTC())
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
