package domain

import (
	"context"
	"errors"

	"github.com/creatorx-lab/settlement/internal/common"
	"github.com/creatorx-lab/settlement/internal/entity"
	"github.com/creatorx-lab/settlement/internal/model"
	"github.com/creatorx-lab/settlement/internal/repository"
	"github.com/creatorx-lab/settlement/pkg/errorx"
	"github.com/creatorx-lab/settlement/pkg/pubsub"
	"github.com/creatorx-lab/settlement/pkg/xcontext"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RewardDomain interface {
	Tip(context.Context, *model.TipRequest) (*model.TipResponse, error)
	GetReferralToken(context.Context, *model.GetReferralTokenRequest) (*model.GetReferralTokenResponse, error)
}

type rewardDomain struct {
	accountRepo      repository.AccountRepository
	contentRepo      repository.ContentRepository
	rewardRepo       repository.RewardRepository
	lotteryRepo      repository.LotteryRepository
	settlementTxRepo repository.SettlementTransactionRepository
	referralVerifier *common.ReferralVerifier
	publisher        pubsub.Publisher
}

func NewRewardDomain(
	accountRepo repository.AccountRepository,
	contentRepo repository.ContentRepository,
	rewardRepo repository.RewardRepository,
	lotteryRepo repository.LotteryRepository,
	settlementTxRepo repository.SettlementTransactionRepository,
	referralVerifier *common.ReferralVerifier,
	publisher pubsub.Publisher,
) *rewardDomain {
	return &rewardDomain{
		accountRepo:      accountRepo,
		contentRepo:      contentRepo,
		rewardRepo:       rewardRepo,
		lotteryRepo:      lotteryRepo,
		settlementTxRepo: settlementTxRepo,
		referralVerifier: referralVerifier,
		publisher:        publisher,
	}
}

func (d *rewardDomain) Tip(ctx context.Context, req *model.TipRequest) (*model.TipResponse, error) {
	if req.Amount <= 0 {
		return nil, errorx.New(errorx.BadRequest, "Amount must be a positive number")
	}

	if err := checkProof(req.Proof); err != nil {
		return nil, err
	}

	userID := xcontext.RequestUserID(ctx)

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	content, err := d.contentRepo.GetByIDForUpdate(ctx, req.ContentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found content")
		}

		xcontext.Logger(ctx).Errorf("Cannot get content: %v", err)
		return nil, errorx.Unknown
	}

	if content.OwnerID == userID {
		return nil, errorx.New(errorx.Unauthorized, "Owner cannot tip their own content")
	}

	referrerID := d.referralVerifier.Verify(ctx, req.ReferralToken, content, userID, content.OwnerID)
	split := ComputeSplit(req.Amount, referrerID.Valid)

	reward := &entity.Reward{
		Base:            entity.Base{ID: uuid.NewString()},
		Kind:            entity.RewardTip,
		ContentID:       content.ID,
		Round:           content.LotteryRound,
		SenderID:        userID,
		RecipientID:     content.OwnerID,
		ReferrerID:      referrerID,
		GrossAmount:     req.Amount,
		RecipientAmount: split.Recipient,
		ReferrerAmount:  split.Referrer,
		LotteryAmount:   split.Lottery,
		PlatformAmount:  split.Platform,
		LotteryClaimed:  true,
	}

	err = d.settlementTxRepo.Create(ctx, &entity.SettlementTransaction{
		Base:        entity.Base{ID: uuid.NewString()},
		Proof:       req.Proof,
		Operation:   entity.SettlementOperationTip,
		AccountID:   userID,
		ReferenceID: reward.ID,
		Amount:      req.Amount,
	})
	if err != nil {
		if isDuplicated(err) {
			return nil, errorx.New(errorx.DuplicateProof, "Proof has already been used")
		}

		xcontext.Logger(ctx).Errorf("Cannot create settlement transaction: %v", err)
		return nil, errorx.Unknown
	}

	pool, err := d.lotteryRepo.Contribute(ctx, content.ID, content.LotteryRound, split.Lottery)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot contribute to lottery pool: %v", err)
		return nil, errorx.Unknown
	}

	reward.LotteryPoolID = pool.ID
	if err := d.rewardRepo.Create(ctx, reward); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create tip reward: %v", err)
		return nil, errorx.Unknown
	}

	if err := commit(ctx); err != nil {
		return nil, err
	}

	common.PromCounters[common.RewardIssuedTotal].WithLabelValues(string(entity.RewardTip)).Inc()
	common.PromCounters[common.RewardIssuedAmount].WithLabelValues(string(entity.RewardTip)).Add(float64(req.Amount))

	modelReward := convertReward(reward)
	publishEvent(ctx, d.publisher, content.ID, model.SettlementEvent{
		Type:      model.EventTipIssued,
		ContentID: content.ID,
		AccountID: content.OwnerID,
		Amount:    req.Amount,
		Data:      modelReward,
	})

	return &model.TipResponse{Reward: modelReward}, nil
}

func (d *rewardDomain) GetReferralToken(
	ctx context.Context, req *model.GetReferralTokenRequest,
) (*model.GetReferralTokenResponse, error) {
	content, err := d.contentRepo.GetByID(ctx, req.ContentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found content")
		}

		xcontext.Logger(ctx).Errorf("Cannot get content: %v", err)
		return nil, errorx.Unknown
	}

	account, err := d.accountRepo.GetByID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get account: %v", err)
		return nil, errorx.Unknown
	}

	expiration := xcontext.Configs(ctx).Referral.Expiration.Duration
	token, err := d.referralVerifier.Generate(account.Address, content.ShareCode, expiration)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate referral token: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetReferralTokenResponse{Token: token}, nil
}
