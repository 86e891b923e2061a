package domain

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

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

const (
	settleTriggerManual = "manual"
	settleTriggerSweep  = "sweep"
)

type AuctionDomain interface {
	Start(context.Context, *model.StartAuctionRequest) (*model.StartAuctionResponse, error)
	Settle(context.Context, *model.SettleAuctionRequest) (*model.SettleAuctionResponse, error)
	GetHistory(context.Context, *model.GetAuctionHistoryRequest) (*model.GetAuctionHistoryResponse, error)

	// SettleExpired settles the open round of a content whose due time has
	// passed. It is called by the background sweep, without a request user.
	SettleExpired(ctx context.Context, contentID string) (*model.AuctionSettlement, error)
}

type auctionDomain struct {
	contentRepo        repository.ContentRepository
	auctionHistoryRepo repository.AuctionHistoryRepository
	bidRepo            repository.BidRepository
	rewardRepo         repository.RewardRepository
	lotteryRepo        repository.LotteryRepository
	settlementTxRepo   repository.SettlementTransactionRepository
	publisher          pubsub.Publisher
}

func NewAuctionDomain(
	contentRepo repository.ContentRepository,
	auctionHistoryRepo repository.AuctionHistoryRepository,
	bidRepo repository.BidRepository,
	rewardRepo repository.RewardRepository,
	lotteryRepo repository.LotteryRepository,
	settlementTxRepo repository.SettlementTransactionRepository,
	publisher pubsub.Publisher,
) *auctionDomain {
	return &auctionDomain{
		contentRepo:        contentRepo,
		auctionHistoryRepo: auctionHistoryRepo,
		bidRepo:            bidRepo,
		rewardRepo:         rewardRepo,
		lotteryRepo:        lotteryRepo,
		settlementTxRepo:   settlementTxRepo,
		publisher:          publisher,
	}
}

func (d *auctionDomain) Start(
	ctx context.Context, req *model.StartAuctionRequest,
) (*model.StartAuctionResponse, error) {
	if req.StartPrice < 0 {
		return nil, errorx.New(errorx.BadRequest, "Start price must not be negative")
	}

	if req.Duration < 0 {
		return nil, errorx.New(errorx.BadRequest, "Duration must not be negative")
	}

	maxDuration := int64(xcontext.Configs(ctx).Settlement.MaxAuctionDuration.Seconds())
	if req.Duration > maxDuration {
		return nil, errorx.New(errorx.BadRequest, "Duration too long (at most %d seconds)", maxDuration)
	}

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

	if content.OwnerID != xcontext.RequestUserID(ctx) {
		return nil, errorx.New(errorx.Unauthorized, "Only the owner can start an auction")
	}

	if content.AuctionState == entity.AuctionOpen {
		return nil, errorx.New(errorx.AlreadyOpen, "Auction is already open")
	}

	history := &entity.AuctionHistory{
		Base:       entity.Base{ID: uuid.NewString()},
		ContentID:  content.ID,
		Seq:        content.AuctionSeq + 1,
		Round:      content.AuctionRound,
		SellerID:   content.OwnerID,
		State:      entity.AuctionHistoryOpen,
		StartPrice: req.StartPrice,
		HighestBid: req.StartPrice,
	}

	if req.Duration > 0 {
		dueTime := time.Now().Add(time.Duration(req.Duration) * time.Second)
		history.DueTime = sql.NullTime{Valid: true, Time: dueTime}
	}

	if err := d.auctionHistoryRepo.Create(ctx, history); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create auction history: %v", err)
		return nil, errorx.Unknown
	}

	err = d.contentRepo.OpenAuction(ctx, content.ID, repository.OpenAuctionData{
		AuctionID:  history.ID,
		Seq:        history.Seq,
		StartPrice: history.StartPrice,
		DueTime:    history.DueTime,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.AlreadyOpen, "Auction is already open")
		}

		xcontext.Logger(ctx).Errorf("Cannot open auction: %v", err)
		return nil, errorx.Unknown
	}

	if err := commit(ctx); err != nil {
		return nil, err
	}

	return &model.StartAuctionResponse{Auction: convertAuctionHistory(history)}, nil
}

func (d *auctionDomain) Settle(
	ctx context.Context, req *model.SettleAuctionRequest,
) (*model.SettleAuctionResponse, error) {
	settlement, err := d.settle(ctx, req.ContentID, settleTriggerManual)
	if err != nil {
		return nil, err
	}

	return &model.SettleAuctionResponse{Settlement: *settlement}, nil
}

func (d *auctionDomain) SettleExpired(ctx context.Context, contentID string) (*model.AuctionSettlement, error) {
	return d.settle(ctx, contentID, settleTriggerSweep)
}

func (d *auctionDomain) GetHistory(
	ctx context.Context, req *model.GetAuctionHistoryRequest,
) (*model.GetAuctionHistoryResponse, error) {
	if _, err := d.contentRepo.GetByID(ctx, req.ContentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found content")
		}

		xcontext.Logger(ctx).Errorf("Cannot get content: %v", err)
		return nil, errorx.Unknown
	}

	histories, err := d.auctionHistoryRepo.GetByContentID(ctx, req.ContentID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get auction histories: %v", err)
		return nil, errorx.Unknown
	}

	auctions := []model.AuctionHistory{}
	for i := range histories {
		auctions = append(auctions, convertAuctionHistory(&histories[i]))
	}

	return &model.GetAuctionHistoryResponse{Auctions: auctions}, nil
}

// settle moves the latest round of a content out of the open state, exactly
// once. Later calls return the stored outcome with AlreadySettled set.
func (d *auctionDomain) settle(
	ctx context.Context, contentID string, trigger string,
) (*model.AuctionSettlement, error) {
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	content, err := d.contentRepo.GetByIDForUpdate(ctx, contentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found content")
		}

		xcontext.Logger(ctx).Errorf("Cannot get content: %v", err)
		return nil, errorx.Unknown
	}

	history, err := d.auctionHistoryRepo.GetLastByContentID(ctx, content.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.InvalidState, "No auction has been started")
		}

		xcontext.Logger(ctx).Errorf("Cannot get auction history: %v", err)
		return nil, errorx.Unknown
	}

	// The seller keeps the right to settle after ownership moved away.
	if trigger == settleTriggerManual && history.SellerID != xcontext.RequestUserID(ctx) {
		return nil, errorx.New(errorx.Unauthorized, "Only the owner can settle the auction")
	}

	if history.State != entity.AuctionHistoryOpen {
		return d.settledSummary(ctx, history)
	}

	now := time.Now()
	if history.DueTime.Valid && now.Before(history.DueTime.Time) {
		return nil, errorx.New(errorx.NotExpired, "Auction has not expired yet")
	}

	if !history.DueTime.Valid && trigger == settleTriggerSweep {
		return nil, errorx.New(errorx.InvalidState, "Auction without due time must be settled by the owner")
	}

	settlement := &model.AuctionSettlement{
		ContentID: content.ID,
		AuctionID: history.ID,
		Seq:       history.Seq,
		Round:     history.Round,
		BidCount:  history.BidCount,
	}

	winner, err := d.bidRepo.GetHighest(ctx, history.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get the highest bid: %v", err)
		return nil, errorx.Unknown
	}

	if winner == nil {
		err = d.auctionHistoryRepo.Settle(ctx, history.ID, repository.SettleAuctionData{
			State:     entity.AuctionHistoryUnsold,
			SettledAt: now,
		})
		if err != nil {
			return d.handleSettleConflict(ctx, history.ID, err)
		}

		settlement.State = string(entity.AuctionHistoryUnsold)
	} else {
		reward, err := d.payout(ctx, content, history, winner)
		if err != nil {
			return nil, err
		}

		err = d.auctionHistoryRepo.Settle(ctx, history.ID, repository.SettleAuctionData{
			State:       entity.AuctionHistorySettled,
			FinalPrice:  winner.Amount,
			WinnerID:    sql.NullString{Valid: true, String: winner.BidderID},
			WinnerBidID: sql.NullInt64{Valid: true, Int64: winner.ID},
			RewardID:    sql.NullString{Valid: true, String: reward.ID},
			SettledAt:   now,
		})
		if err != nil {
			return d.handleSettleConflict(ctx, history.ID, err)
		}

		err = d.contentRepo.TransferOwnership(ctx, content.ID, winner.BidderID, generateShareCode())
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot transfer ownership: %v", err)
			return nil, errorx.Unknown
		}

		modelReward := convertReward(reward)
		settlement.State = string(entity.AuctionHistorySettled)
		settlement.FinalPrice = winner.Amount
		settlement.WinnerID = winner.BidderID
		settlement.WinnerBidID = strconv.FormatInt(winner.ID, 10)
		settlement.Reward = &modelReward
	}

	if err := d.contentRepo.CloseAuction(ctx, content.ID, history.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot close auction: %v", err)
		return nil, errorx.Unknown
	}

	err = d.settlementTxRepo.Create(ctx, &entity.SettlementTransaction{
		Base:        entity.Base{ID: uuid.NewString()},
		Proof:       fmt.Sprintf("settlement:%s:%d", content.ID, history.Seq),
		Operation:   entity.SettlementOperationSettlement,
		AccountID:   history.SellerID,
		ReferenceID: history.ID,
		Amount:      settlement.FinalPrice,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create settlement transaction: %v", err)
		return nil, errorx.Unknown
	}

	if err := commit(ctx); err != nil {
		return nil, err
	}

	common.PromCounters[common.AuctionSettlementTotal].WithLabelValues(settlement.State, trigger).Inc()
	if settlement.Reward != nil {
		common.PromCounters[common.RewardIssuedTotal].WithLabelValues(string(entity.RewardAuction)).Inc()
		common.PromCounters[common.RewardIssuedAmount].
			WithLabelValues(string(entity.RewardAuction)).Add(float64(settlement.FinalPrice))
	}

	xcontext.Logger(ctx).Infof("Auction %s of content %s is %s by %s",
		history.ID, content.ID, settlement.State, trigger)

	publishEvent(ctx, d.publisher, content.ID, model.SettlementEvent{
		Type:      model.EventAuctionSettled,
		ContentID: content.ID,
		AccountID: settlement.WinnerID,
		Amount:    settlement.FinalPrice,
		Data:      settlement,
	})

	return settlement, nil
}

// payout flags the winning bid and writes the split of its amount: the
// auction reward row for the seller and the lottery contribution.
func (d *auctionDomain) payout(
	ctx context.Context,
	content *entity.Content,
	history *entity.AuctionHistory,
	winner *entity.Bid,
) (*entity.Reward, error) {
	if err := d.bidRepo.SetWinner(ctx, winner.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot flag the winning bid: %v", err)
		return nil, errorx.Unknown
	}

	split := ComputeSplit(winner.Amount, winner.ReferrerID.Valid)
	pool, err := d.lotteryRepo.Contribute(ctx, content.ID, content.LotteryRound, split.Lottery)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot contribute to lottery pool: %v", err)
		return nil, errorx.Unknown
	}

	reward := &entity.Reward{
		Base:            entity.Base{ID: uuid.NewString()},
		Kind:            entity.RewardAuction,
		ContentID:       content.ID,
		Round:           history.Round,
		SenderID:        winner.BidderID,
		RecipientID:     history.SellerID,
		ReferrerID:      winner.ReferrerID,
		BidID:           sql.NullInt64{Valid: true, Int64: winner.ID},
		LotteryPoolID:   pool.ID,
		GrossAmount:     winner.Amount,
		RecipientAmount: split.Recipient,
		ReferrerAmount:  split.Referrer,
		LotteryAmount:   split.Lottery,
		PlatformAmount:  split.Platform,
		LotteryClaimed:  true,
	}

	if err := d.rewardRepo.Create(ctx, reward); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create auction reward: %v", err)
		return nil, errorx.Unknown
	}

	return reward, nil
}

// handleSettleConflict is reached when the conditional update on the round
// state affected no row, meaning another settlement won the race.
func (d *auctionDomain) handleSettleConflict(
	ctx context.Context, historyID string, err error,
) (*model.AuctionSettlement, error) {
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot settle auction: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithRollbackDBTransaction(ctx)
	history, err := d.auctionHistoryRepo.GetByID(ctx, historyID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get auction history: %v", err)
		return nil, errorx.Unknown
	}

	return d.settledSummary(ctx, history)
}

func (d *auctionDomain) settledSummary(
	ctx context.Context, history *entity.AuctionHistory,
) (*model.AuctionSettlement, error) {
	settlement := &model.AuctionSettlement{
		ContentID:      history.ContentID,
		AuctionID:      history.ID,
		Seq:            history.Seq,
		Round:          history.Round,
		State:          string(history.State),
		AlreadySettled: true,
		BidCount:       history.BidCount,
		FinalPrice:     history.FinalPrice,
		WinnerID:       history.WinnerID.String,
		WinnerBidID:    convertNullInt64(history.WinnerBidID),
	}

	if history.RewardID.Valid {
		reward, err := d.rewardRepo.GetByID(ctx, history.RewardID.String)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get auction reward: %v", err)
			return nil, errorx.Unknown
		}

		modelReward := convertReward(reward)
		settlement.Reward = &modelReward
	}

	return settlement, nil
}
