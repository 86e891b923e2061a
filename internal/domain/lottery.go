package domain

import (
	"context"
	"errors"

	"github.com/creatorx-lab/settlement/internal/common"
	"github.com/creatorx-lab/settlement/internal/model"
	"github.com/creatorx-lab/settlement/internal/repository"
	"github.com/creatorx-lab/settlement/pkg/errorx"
	"github.com/creatorx-lab/settlement/pkg/xcontext"
	"gorm.io/gorm"
)

type LotteryDomain interface {
	GetPools(context.Context, *model.GetLotteryPoolsRequest) (*model.GetLotteryPoolsResponse, error)
	AssignWinner(context.Context, *model.AssignLotteryWinnerRequest) (*model.AssignLotteryWinnerResponse, error)
}

type lotteryDomain struct {
	accountRepo      repository.AccountRepository
	contentRepo      repository.ContentRepository
	lotteryRepo      repository.LotteryRepository
	platformVerifier *common.PlatformVerifier
}

func NewLotteryDomain(
	accountRepo repository.AccountRepository,
	contentRepo repository.ContentRepository,
	lotteryRepo repository.LotteryRepository,
	platformVerifier *common.PlatformVerifier,
) *lotteryDomain {
	return &lotteryDomain{
		accountRepo:      accountRepo,
		contentRepo:      contentRepo,
		lotteryRepo:      lotteryRepo,
		platformVerifier: platformVerifier,
	}
}

func (d *lotteryDomain) GetPools(
	ctx context.Context, req *model.GetLotteryPoolsRequest,
) (*model.GetLotteryPoolsResponse, error) {
	content, err := d.contentRepo.GetByID(ctx, req.ContentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found content")
		}

		xcontext.Logger(ctx).Errorf("Cannot get content: %v", err)
		return nil, errorx.Unknown
	}

	pools, err := d.lotteryRepo.GetPoolsByContentID(ctx, content.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get lottery pools: %v", err)
		return nil, errorx.Unknown
	}

	// The current pool is only created by its first contribution.
	resp := &model.GetLotteryPoolsResponse{
		Current: model.LotteryPool{ContentID: content.ID, Round: content.LotteryRound},
		History: []model.LotteryPool{},
	}

	for i := range pools {
		switch {
		case pools[i].Round == content.LotteryRound:
			resp.Current = convertLotteryPool(&pools[i])
		case pools[i].Round < content.LotteryRound:
			resp.History = append(resp.History, convertLotteryPool(&pools[i]))
		}
	}

	return resp, nil
}

// AssignWinner records the outcome of the drawing process. Assigning the
// current pool closes it, further contributions go to the next round.
func (d *lotteryDomain) AssignWinner(
	ctx context.Context, req *model.AssignLotteryWinnerRequest,
) (*model.AssignLotteryWinnerResponse, error) {
	if err := d.platformVerifier.Verify(ctx); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.Unauthorized, "Only the platform operator can assign a winner")
	}

	address, err := common.NormalizeAddress(req.WinnerAddress)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid winner address")
	}

	winner, err := common.GetOrCreateAccount(ctx, d.accountRepo, address)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get winner account: %v", err)
		return nil, errorx.Unknown
	}

	pool, err := d.lotteryRepo.GetPoolByID(ctx, req.PoolID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found lottery pool")
		}

		xcontext.Logger(ctx).Errorf("Cannot get lottery pool: %v", err)
		return nil, errorx.Unknown
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	// Contributions lock the content row too, so the pool amount is final once
	// the round advances below.
	content, err := d.contentRepo.GetByIDForUpdate(ctx, pool.ContentID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get content: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.lotteryRepo.AssignWinner(ctx, pool.ID, winner.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.AlreadyAssigned, "Lottery pool already has a winner")
		}

		xcontext.Logger(ctx).Errorf("Cannot assign lottery winner: %v", err)
		return nil, errorx.Unknown
	}

	if pool.Round == content.LotteryRound {
		if err := d.contentRepo.IncreaseLotteryRound(ctx, content.ID, content.LotteryRound); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot increase lottery round: %v", err)
			return nil, errorx.Unknown
		}
	}

	pool, err = d.lotteryRepo.GetPoolByID(ctx, pool.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get lottery pool: %v", err)
		return nil, errorx.Unknown
	}

	if err := commit(ctx); err != nil {
		return nil, err
	}

	return &model.AssignLotteryWinnerResponse{Pool: convertLotteryPool(pool)}, nil
}
