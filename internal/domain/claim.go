package domain

import (
	"context"
	"fmt"

	"github.com/creatorx-lab/settlement/internal/common"
	"github.com/creatorx-lab/settlement/internal/entity"
	"github.com/creatorx-lab/settlement/internal/model"
	"github.com/creatorx-lab/settlement/internal/repository"
	"github.com/creatorx-lab/settlement/pkg/enum"
	"github.com/creatorx-lab/settlement/pkg/errorx"
	"github.com/creatorx-lab/settlement/pkg/pubsub"
	"github.com/creatorx-lab/settlement/pkg/xcontext"
	"github.com/google/uuid"
)

type claimKey struct {
	source entity.ClaimSource
	role   entity.ClaimRole
}

// claimRule describes which share of which rows a (source, role) pair claims
// and which earnings counter receives the total. Lottery claims have no
// reward filter, they claim won pools.
type claimRule struct {
	filter       func(accountID string) repository.RewardShareFilter
	amount       func(reward *entity.Reward) int64
	counter      repository.EarningColumn
	platformOnly bool
}

func recipientShare(kind entity.RewardKind) func(string) repository.RewardShareFilter {
	return func(accountID string) repository.RewardShareFilter {
		return repository.RewardShareFilter{
			Kind:          kind,
			AccountColumn: "recipient_id",
			AccountID:     accountID,
			AmountColumn:  "recipient_amount",
			ClaimedColumn: "recipient_claimed",
		}
	}
}

func referrerShare(kind entity.RewardKind) func(string) repository.RewardShareFilter {
	return func(accountID string) repository.RewardShareFilter {
		return repository.RewardShareFilter{
			Kind:          kind,
			AccountColumn: "referrer_id",
			AccountID:     accountID,
			AmountColumn:  "referrer_amount",
			ClaimedColumn: "referrer_claimed",
		}
	}
}

func platformShare(kind entity.RewardKind) func(string) repository.RewardShareFilter {
	return func(string) repository.RewardShareFilter {
		return repository.RewardShareFilter{
			Kind:          kind,
			AmountColumn:  "platform_amount",
			ClaimedColumn: "platform_claimed",
		}
	}
}

func recipientAmount(r *entity.Reward) int64 { return r.RecipientAmount }
func referrerAmount(r *entity.Reward) int64  { return r.ReferrerAmount }
func platformAmount(r *entity.Reward) int64  { return r.PlatformAmount }

var claimRules = map[claimKey]claimRule{
	{entity.ClaimSourceReward, entity.ClaimRoleRecipient}: {
		filter:  recipientShare(entity.RewardTip),
		amount:  recipientAmount,
		counter: repository.TipEarnings,
	},
	{entity.ClaimSourceReward, entity.ClaimRoleReferrer}: {
		filter:  referrerShare(entity.RewardTip),
		amount:  referrerAmount,
		counter: repository.ReferredTipEarnings,
	},
	{entity.ClaimSourceReward, entity.ClaimRolePlatform}: {
		filter:       platformShare(entity.RewardTip),
		amount:       platformAmount,
		counter:      repository.PlatformEarnings,
		platformOnly: true,
	},
	{entity.ClaimSourceBid, entity.ClaimRoleCreator}: {
		filter:  recipientShare(entity.RewardAuction),
		amount:  recipientAmount,
		counter: repository.AuctionEarnings,
	},
	{entity.ClaimSourceBid, entity.ClaimRoleReferrer}: {
		filter:  referrerShare(entity.RewardAuction),
		amount:  referrerAmount,
		counter: repository.ReferredAuctionEarnings,
	},
	{entity.ClaimSourceBid, entity.ClaimRolePlatform}: {
		filter:       platformShare(entity.RewardAuction),
		amount:       platformAmount,
		counter:      repository.PlatformEarnings,
		platformOnly: true,
	},
	{entity.ClaimSourceLottery, entity.ClaimRoleWinner}: {
		counter: repository.LotteryEarnings,
	},
}

type ClaimDomain interface {
	Claim(context.Context, *model.ClaimRequest) (*model.ClaimResponse, error)
	GetClaimable(context.Context, *model.GetClaimableRequest) (*model.GetClaimableResponse, error)
}

type claimDomain struct {
	accountRepo      repository.AccountRepository
	rewardRepo       repository.RewardRepository
	lotteryRepo      repository.LotteryRepository
	settlementTxRepo repository.SettlementTransactionRepository
	platformVerifier *common.PlatformVerifier
	publisher        pubsub.Publisher
}

func NewClaimDomain(
	accountRepo repository.AccountRepository,
	rewardRepo repository.RewardRepository,
	lotteryRepo repository.LotteryRepository,
	settlementTxRepo repository.SettlementTransactionRepository,
	platformVerifier *common.PlatformVerifier,
	publisher pubsub.Publisher,
) *claimDomain {
	return &claimDomain{
		accountRepo:      accountRepo,
		rewardRepo:       rewardRepo,
		lotteryRepo:      lotteryRepo,
		settlementTxRepo: settlementTxRepo,
		platformVerifier: platformVerifier,
		publisher:        publisher,
	}
}

func (d *claimDomain) rule(ctx context.Context, source, role string) (claimKey, claimRule, error) {
	claimSource, err := enum.ToEnum[entity.ClaimSource](source)
	if err != nil {
		return claimKey{}, claimRule{}, errorx.New(errorx.BadRequest, "Invalid claim source")
	}

	claimRole, err := enum.ToEnum[entity.ClaimRole](role)
	if err != nil {
		return claimKey{}, claimRule{}, errorx.New(errorx.BadRequest, "Invalid claim role")
	}

	key := claimKey{source: claimSource, role: claimRole}
	rule, ok := claimRules[key]
	if !ok {
		return claimKey{}, claimRule{}, errorx.New(errorx.BadRequest,
			"Role %s cannot claim from %s", claimRole, claimSource)
	}

	if rule.platformOnly {
		if err := d.platformVerifier.Verify(ctx); err != nil {
			xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
			return claimKey{}, claimRule{}, errorx.New(errorx.Unauthorized,
				"Only the platform operator can claim the platform share")
		}
	}

	return key, rule, nil
}

// Claim converts every claimable row of the caller for one (source, role)
// into a claimed state in one transaction. The proof row is written first,
// so a concurrent claim with the same proof blocks on the unique index and
// fails once this one commits.
func (d *claimDomain) Claim(ctx context.Context, req *model.ClaimRequest) (*model.ClaimResponse, error) {
	if err := checkProof(req.Proof); err != nil {
		return nil, err
	}

	key, rule, err := d.rule(ctx, req.Source, req.Role)
	if err != nil {
		return nil, err
	}

	resp, err := d.claim(ctx, key, rule, req.Proof)
	if err != nil {
		common.PromCounters[common.ClaimTotal].
			WithLabelValues(string(key.source), string(key.role), fmt.Sprint(errorx.CodeOf(err))).Inc()
		return nil, err
	}

	common.PromCounters[common.ClaimTotal].
		WithLabelValues(string(key.source), string(key.role), "ok").Inc()

	publishEvent(ctx, d.publisher, xcontext.RequestUserID(ctx), model.SettlementEvent{
		Type:      model.EventClaimProcessed,
		AccountID: xcontext.RequestUserID(ctx),
		Amount:    resp.Amount,
		Data:      map[string]any{"source": key.source, "role": key.role, "count": resp.Count},
	})

	return resp, nil
}

func (d *claimDomain) claim(
	ctx context.Context, key claimKey, rule claimRule, proof string,
) (*model.ClaimResponse, error) {
	userID := xcontext.RequestUserID(ctx)

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	settlementTx := &entity.SettlementTransaction{
		Base:        entity.Base{ID: uuid.NewString()},
		Proof:       proof,
		Operation:   entity.SettlementOperationClaim,
		AccountID:   userID,
		ClaimSource: key.source,
		ClaimRole:   key.role,
	}

	if err := d.settlementTxRepo.Create(ctx, settlementTx); err != nil {
		if isDuplicated(err) {
			return nil, errorx.New(errorx.DuplicateProof, "Proof has already been used")
		}

		xcontext.Logger(ctx).Errorf("Cannot create settlement transaction: %v", err)
		return nil, errorx.Unknown
	}

	var count int
	var total int64
	var err error
	if rule.filter == nil {
		count, total, err = d.claimLotteryPools(ctx, userID)
	} else {
		count, total, err = d.claimRewards(ctx, rule, rule.filter(userID))
	}
	if err != nil {
		return nil, err
	}

	if count == 0 {
		return nil, errorx.New(errorx.NothingToClaim, "Nothing to claim")
	}

	if err := d.accountRepo.IncreaseEarnings(ctx, userID, rule.counter, total); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot increase %s: %v", rule.counter, err)
		return nil, errorx.Unknown
	}

	if err := d.settlementTxRepo.UpdateClaimResult(ctx, settlementTx.ID, count, total); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update claim result: %v", err)
		return nil, errorx.Unknown
	}

	if err := commit(ctx); err != nil {
		return nil, err
	}

	return &model.ClaimResponse{Count: count, Amount: total}, nil
}

func (d *claimDomain) claimRewards(
	ctx context.Context, rule claimRule, filter repository.RewardShareFilter,
) (int, int64, error) {
	rewards, err := d.rewardRepo.GetUnclaimedForUpdate(ctx, filter)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get unclaimed rewards: %v", err)
		return 0, 0, errorx.Unknown
	}

	ids := []string{}
	total := int64(0)
	for i := range rewards {
		ids = append(ids, rewards[i].ID)
		total += rule.amount(&rewards[i])
	}

	if len(ids) == 0 {
		return 0, 0, nil
	}

	affected, err := d.rewardRepo.MarkClaimed(ctx, filter, ids)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot mark rewards as claimed: %v", err)
		return 0, 0, errorx.Unknown
	}

	if affected != int64(len(ids)) {
		xcontext.Logger(ctx).Errorf("Claimed %d rewards, but expected %d", affected, len(ids))
		return 0, 0, errorx.Unknown
	}

	return len(ids), total, nil
}

func (d *claimDomain) claimLotteryPools(ctx context.Context, winnerID string) (int, int64, error) {
	pools, err := d.lotteryRepo.GetNotClaimedPoolsForUpdate(ctx, winnerID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get won lottery pools: %v", err)
		return 0, 0, errorx.Unknown
	}

	ids := []string{}
	total := int64(0)
	for _, pool := range pools {
		ids = append(ids, pool.ID)
		total += pool.Amount
	}

	if len(ids) == 0 {
		return 0, 0, nil
	}

	affected, err := d.lotteryRepo.ClaimPools(ctx, winnerID, ids)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot mark lottery pools as claimed: %v", err)
		return 0, 0, errorx.Unknown
	}

	if affected != int64(len(ids)) {
		xcontext.Logger(ctx).Errorf("Claimed %d lottery pools, but expected %d", affected, len(ids))
		return 0, 0, errorx.Unknown
	}

	return len(ids), total, nil
}

func (d *claimDomain) GetClaimable(
	ctx context.Context, req *model.GetClaimableRequest,
) (*model.GetClaimableResponse, error) {
	_, rule, err := d.rule(ctx, req.Source, req.Role)
	if err != nil {
		return nil, err
	}

	userID := xcontext.RequestUserID(ctx)
	var count, amount int64
	if rule.filter == nil {
		count, amount, err = d.lotteryRepo.SumNotClaimed(ctx, userID)
	} else {
		count, amount, err = d.rewardRepo.SumUnclaimed(ctx, rule.filter(userID))
	}
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot sum claimable amount: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetClaimableResponse{Count: int(count), Amount: amount}, nil
}
