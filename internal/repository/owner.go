package repository

import (
	"context"

	"github.com/minsu-lee/agenda-api/internal/model"
)

type OwnerRepository interface {
	GetOrCreate(ctx context.Context, cognitoSub, email string) (model.Owner, error)
	GetByCognitoSub(ctx context.Context, cognitoSub string) (model.Owner, error)
}
