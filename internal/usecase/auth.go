package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type AuthUser struct {
	UID        string
	UserID     uuid.UUID
	GlobalRole string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  *time.Time
}

// used by middleware
func (u Usecase) VerifyIDToken(ctx context.Context, token string) (string, error) {
	return u.identityProvider.VerifyIDToken(ctx, token)
}

// get auth user by firebase uid
func (u Usecase) GetAuthUserByUID(ctx context.Context, uid string) (AuthUser, error) {
	return u.repo.GetAuthUserByUID(ctx, uid)
}
