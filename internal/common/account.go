package common

import (
	"context"
	"errors"

	"github.com/creatorx-lab/settlement/internal/entity"
	"github.com/creatorx-lab/settlement/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrCreateAccount returns the account of a checksummed address, creating
// it on first sight. A concurrent creation of the same address is resolved by
// reading the winner's row.
func GetOrCreateAccount(
	ctx context.Context, accountRepo repository.AccountRepository, address string,
) (*entity.Account, error) {
	account, err := accountRepo.GetByAddress(ctx, address)
	if err == nil {
		return account, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	account = &entity.Account{Base: entity.Base{ID: uuid.NewString()}, Address: address}
	if err := accountRepo.Create(ctx, account); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return accountRepo.GetByAddress(ctx, address)
		}

		return nil, err
	}

	return account, nil
}
