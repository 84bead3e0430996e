package database

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/harborlist/harborlist/internal/usecase"
)

type AuthUser struct {
	UID        string          `gorm:"column:uid;primaryKey;type:varchar(255)"`
	UserID     uuid.UUID       `gorm:"column:user_id;type:uuid;uniqueIndex"`
	User       *User           `gorm:"foreignKey:UserID;references:ID"`
	GlobalRole string          `gorm:"column:global_role;check:global_role IN ('ADMIN', 'USER');default:'USER'"`
	CreatedAt  time.Time       `gorm:"column:created_at"`
	UpdatedAt  time.Time       `gorm:"column:updated_at"`
	DeletedAt  *gorm.DeletedAt `gorm:"column:deleted_at"`
}

func (AuthUser) TableName() string {
	return "auth_users"
}

func (a AuthUser) ConvertToUsecase() usecase.AuthUser {
	return usecase.AuthUser{
		UID:        a.UID,
		UserID:     a.UserID,
		GlobalRole: a.GlobalRole,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

func (s *service) GetAuthUserByUID(ctx context.Context, uid string) (usecase.AuthUser, error) {
	var u AuthUser

	err := s.db.
		WithContext(ctx).
		Where("uid = ?", uid).
		First(&u).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return usecase.AuthUser{}, usecase.ErrNotFound
		}
		return usecase.AuthUser{}, err
	}

	return u.ConvertToUsecase(), nil
}
