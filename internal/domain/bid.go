package domain

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/creatorx-lab/settlement/internal/common"
	"github.com/creatorx-lab/settlement/internal/entity"
	"github.com/creatorx-lab/settlement/internal/model"
	"github.com/creatorx-lab/settlement/internal/repository"
	"github.com/creatorx-lab/settlement/pkg/errorx"
	"github.com/creatorx-lab/settlement/pkg/xcontext"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BidDomain interface {
	PlaceBid(context.Context, *model.PlaceBidRequest) (*model.PlaceBidResponse, error)
	GetBids(context.Context, *model.GetBidsRequest) (*model.GetBidsResponse, error)
}

type bidDomain struct {
	contentRepo        repository.ContentRepository
	auctionHistoryRepo repository.AuctionHistoryRepository
	bidRepo            repository.BidRepository
	settlementTxRepo   repository.SettlementTransactionRepository
	referralVerifier   *common.ReferralVerifier
}

func NewBidDomain(
	contentRepo repository.ContentRepository,
	auctionHistoryRepo repository.AuctionHistoryRepository,
	bidRepo repository.BidRepository,
	settlementTxRepo repository.SettlementTransactionRepository,
	referralVerifier *common.ReferralVerifier,
) *bidDomain {
	return &bidDomain{
		contentRepo:        contentRepo,
		auctionHistoryRepo: auctionHistoryRepo,
		bidRepo:            bidRepo,
		settlementTxRepo:   settlementTxRepo,
		referralVerifier:   referralVerifier,
	}
}

func (d *bidDomain) PlaceBid(
	ctx context.Context, req *model.PlaceBidRequest,
) (*model.PlaceBidResponse, error) {
	if err := checkProof(req.Proof); err != nil {
		return nil, err
	}

	bid, err := d.placeBid(ctx, req)
	if err != nil {
		common.PromCounters[common.BidTotal].WithLabelValues("rejected").Inc()
		return nil, err
	}

	common.PromCounters[common.BidTotal].WithLabelValues("accepted").Inc()
	return &model.PlaceBidResponse{Bid: convertBid(bid)}, nil
}

// placeBid holds the content row lock while checking the floor, and raises
// the floor with a conditional update, so two bids can never be accepted
// against the same floor.
func (d *bidDomain) placeBid(ctx context.Context, req *model.PlaceBidRequest) (*entity.Bid, error) {
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

	if content.AuctionState != entity.AuctionOpen || !content.CurrentAuctionID.Valid {
		return nil, errorx.New(errorx.InvalidState, "Bidding is closed")
	}

	if content.DueTime.Valid && !time.Now().Before(content.DueTime.Time) {
		return nil, errorx.New(errorx.InvalidState, "Auction has expired")
	}

	if content.OwnerID == userID {
		return nil, errorx.New(errorx.Unauthorized, "Owner cannot bid on its own content")
	}

	history, err := d.auctionHistoryRepo.GetByID(ctx, content.CurrentAuctionID.String)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get current auction: %v", err)
		return nil, errorx.Unknown
	}

	if req.Amount <= history.HighestBid {
		return nil, errorx.New(errorx.InsufficientAmount, "Bid must be greater than %d", history.HighestBid)
	}

	bid := &entity.Bid{
		SnowFlakeBase:    entity.SnowFlakeBase{ID: xcontext.SnowFlake(ctx).Generate().Int64()},
		ContentID:        content.ID,
		Round:            content.AuctionRound,
		AuctionHistoryID: history.ID,
		BidderID:         userID,
		ReferrerID:       d.referralVerifier.Verify(ctx, req.ReferralToken, content, userID, content.OwnerID),
		Amount:           req.Amount,
	}

	err = d.settlementTxRepo.Create(ctx, &entity.SettlementTransaction{
		Base:        entity.Base{ID: uuid.NewString()},
		Proof:       req.Proof,
		Operation:   entity.SettlementOperationBid,
		AccountID:   userID,
		ReferenceID: strconv.FormatInt(bid.ID, 10),
		Amount:      req.Amount,
	})
	if err != nil {
		if isDuplicated(err) {
			return nil, errorx.New(errorx.DuplicateProof, "Proof has already been used")
		}

		xcontext.Logger(ctx).Errorf("Cannot create settlement transaction: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.auctionHistoryRepo.RaiseHighestBid(ctx, history.ID, req.Amount); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.InsufficientAmount, "Bid must be greater than the highest bid")
		}

		xcontext.Logger(ctx).Errorf("Cannot raise the highest bid: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.bidRepo.Create(ctx, bid); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create bid: %v", err)
		return nil, errorx.Unknown
	}

	if err := commit(ctx); err != nil {
		return nil, err
	}

	return bid, nil
}

func (d *bidDomain) GetBids(
	ctx context.Context, req *model.GetBidsRequest,
) (*model.GetBidsResponse, error) {
	if req.Seq < 0 {
		return nil, errorx.New(errorx.BadRequest, "Invalid auction sequence")
	}

	content, err := d.contentRepo.GetByID(ctx, req.ContentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found content")
		}

		xcontext.Logger(ctx).Errorf("Cannot get content: %v", err)
		return nil, errorx.Unknown
	}

	histories, err := d.auctionHistoryRepo.GetByContentID(ctx, content.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get auction histories: %v", err)
		return nil, errorx.Unknown
	}

	var history *entity.AuctionHistory
	for i := range histories {
		if req.Seq == 0 || histories[i].Seq == req.Seq {
			history = &histories[i]
			break
		}
	}

	if history == nil {
		return nil, errorx.New(errorx.NotFound, "Not found auction")
	}

	bids, err := d.bidRepo.GetByAuctionHistoryID(ctx, history.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get bids: %v", err)
		return nil, errorx.Unknown
	}

	clientBids := []model.Bid{}
	for i := range bids {
		clientBids = append(clientBids, convertBid(&bids[i]))
	}

	return &model.GetBidsResponse{
		Auction: convertAuctionHistory(history),
		Bids:    clientBids,
	}, nil
}
