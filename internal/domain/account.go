package domain

import (
	"context"
	"errors"

	"github.com/creatorx-lab/settlement/internal/model"
	"github.com/creatorx-lab/settlement/internal/repository"
	"github.com/creatorx-lab/settlement/pkg/errorx"
	"github.com/creatorx-lab/settlement/pkg/xcontext"
	"gorm.io/gorm"
)

type AccountDomain interface {
	GetMyAccount(context.Context, *model.GetMyAccountRequest) (*model.GetMyAccountResponse, error)
}

type accountDomain struct {
	accountRepo repository.AccountRepository
}

func NewAccountDomain(accountRepo repository.AccountRepository) *accountDomain {
	return &accountDomain{accountRepo: accountRepo}
}

func (d *accountDomain) GetMyAccount(
	ctx context.Context, req *model.GetMyAccountRequest,
) (*model.GetMyAccountResponse, error) {
	account, err := d.accountRepo.GetByID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found account")
		}

		xcontext.Logger(ctx).Errorf("Cannot get account: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetMyAccountResponse{Account: convertAccount(account)}, nil
}
