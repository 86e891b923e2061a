package domain

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/creatorx-lab/settlement/internal/entity"
	"github.com/creatorx-lab/settlement/internal/model"
)

const defaultTimeLayout string = time.RFC3339Nano

func convertNullTime(t sql.NullTime) string {
	if !t.Valid {
		return ""
	}

	return t.Time.Format(defaultTimeLayout)
}

func convertNullInt64(i sql.NullInt64) string {
	if !i.Valid {
		return ""
	}

	return strconv.FormatInt(i.Int64, 10)
}

func convertAccount(account *entity.Account) model.Account {
	if account == nil {
		return model.Account{}
	}

	return model.Account{
		ID:                      account.ID,
		Address:                 account.Address,
		AuctionEarnings:         account.AuctionEarnings,
		TipEarnings:             account.TipEarnings,
		ReferredAuctionEarnings: account.ReferredAuctionEarnings,
		ReferredTipEarnings:     account.ReferredTipEarnings,
		LotteryEarnings:         account.LotteryEarnings,
		PlatformEarnings:        account.PlatformEarnings,
		CreatedAt:               account.CreatedAt.Format(defaultTimeLayout),
	}
}

func convertContent(content *entity.Content) model.Content {
	if content == nil {
		return model.Content{}
	}

	return model.Content{
		ID:               content.ID,
		CreatorID:        content.CreatorID,
		OwnerID:          content.OwnerID,
		Title:            content.Title,
		AuctionState:     string(content.AuctionState),
		AuctionRound:     content.AuctionRound,
		AuctionSeq:       content.AuctionSeq,
		LotteryRound:     content.LotteryRound,
		StartPrice:       content.StartPrice,
		DueTime:          convertNullTime(content.DueTime),
		CurrentAuctionID: content.CurrentAuctionID.String,
		CreatedAt:        content.CreatedAt.Format(defaultTimeLayout),
	}
}

func convertAuctionHistory(history *entity.AuctionHistory) model.AuctionHistory {
	if history == nil {
		return model.AuctionHistory{}
	}

	return model.AuctionHistory{
		ID:          history.ID,
		ContentID:   history.ContentID,
		Seq:         history.Seq,
		Round:       history.Round,
		SellerID:    history.SellerID,
		State:       string(history.State),
		StartPrice:  history.StartPrice,
		DueTime:     convertNullTime(history.DueTime),
		HighestBid:  history.HighestBid,
		BidCount:    history.BidCount,
		FinalPrice:  history.FinalPrice,
		WinnerID:    history.WinnerID.String,
		WinnerBidID: convertNullInt64(history.WinnerBidID),
		RewardID:    history.RewardID.String,
		SettledAt:   convertNullTime(history.SettledAt),
		CreatedAt:   history.CreatedAt.Format(defaultTimeLayout),
	}
}

func convertBid(bid *entity.Bid) model.Bid {
	if bid == nil {
		return model.Bid{}
	}

	return model.Bid{
		ID:               strconv.FormatInt(bid.ID, 10),
		ContentID:        bid.ContentID,
		Round:            bid.Round,
		AuctionHistoryID: bid.AuctionHistoryID,
		BidderID:         bid.BidderID,
		ReferrerID:       bid.ReferrerID.String,
		Amount:           bid.Amount,
		IsWinner:         bid.IsWinner,
		CreatedAt:        bid.CreatedAt.Format(defaultTimeLayout),
	}
}

func convertReward(reward *entity.Reward) model.Reward {
	if reward == nil {
		return model.Reward{}
	}

	return model.Reward{
		ID:            reward.ID,
		Kind:          string(reward.Kind),
		ContentID:     reward.ContentID,
		Round:         reward.Round,
		SenderID:      reward.SenderID,
		RecipientID:   reward.RecipientID,
		ReferrerID:    reward.ReferrerID.String,
		BidID:         convertNullInt64(reward.BidID),
		LotteryPoolID: reward.LotteryPoolID,
		GrossAmount:   reward.GrossAmount,
		Split: model.Split{
			Recipient: reward.RecipientAmount,
			Referrer:  reward.ReferrerAmount,
			Lottery:   reward.LotteryAmount,
			Platform:  reward.PlatformAmount,
		},
		RecipientClaimed: reward.RecipientClaimed,
		ReferrerClaimed:  reward.ReferrerClaimed,
		PlatformClaimed:  reward.PlatformClaimed,
		LotteryClaimed:   reward.LotteryClaimed,
		CreatedAt:        reward.CreatedAt.Format(defaultTimeLayout),
	}
}

func convertLotteryPool(pool *entity.LotteryPool) model.LotteryPool {
	if pool == nil {
		return model.LotteryPool{}
	}

	return model.LotteryPool{
		ID:        pool.ID,
		ContentID: pool.ContentID,
		Round:     pool.Round,
		Amount:    pool.Amount,
		WinnerID:  pool.WinnerID.String,
		IsClaimed: pool.IsClaimed,
	}
}
