package domain

import (
	"testing"

	"github.com/creatorx-lab/settlement/internal/entity"
	"github.com/creatorx-lab/settlement/internal/model"
	"github.com/creatorx-lab/settlement/pkg/errorx"
	"github.com/creatorx-lab/settlement/pkg/testutil"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func Test_auctionDomain_Start(t *testing.T) {
	tests := []struct {
		name    string
		user    entity.Account
		req     *model.StartAuctionRequest
		opened  bool
		wantErr error
	}{
		{
			name: "happy case",
			user: testutil.Creator,
			req:  &model.StartAuctionRequest{ContentID: testutil.Content1.ID, StartPrice: 10, Duration: 60},
		},
		{
			name: "no due time",
			user: testutil.Creator,
			req:  &model.StartAuctionRequest{ContentID: testutil.Content1.ID, StartPrice: 10},
		},
		{
			name:    "not found content",
			user:    testutil.Creator,
			req:     &model.StartAuctionRequest{ContentID: "invalid-content", StartPrice: 10, Duration: 60},
			wantErr: errorx.New(errorx.NotFound, "Not found content"),
		},
		{
			name:    "not owner",
			user:    testutil.Bidder1,
			req:     &model.StartAuctionRequest{ContentID: testutil.Content1.ID, StartPrice: 10, Duration: 60},
			wantErr: errorx.New(errorx.Unauthorized, "Only the owner can start an auction"),
		},
		{
			name:    "negative start price",
			user:    testutil.Creator,
			req:     &model.StartAuctionRequest{ContentID: testutil.Content1.ID, StartPrice: -1, Duration: 60},
			wantErr: errorx.New(errorx.BadRequest, "Start price must not be negative"),
		},
		{
			name:    "negative duration",
			user:    testutil.Creator,
			req:     &model.StartAuctionRequest{ContentID: testutil.Content1.ID, StartPrice: 10, Duration: -1},
			wantErr: errorx.New(errorx.BadRequest, "Duration must not be negative"),
		},
		{
			name:    "duration too long",
			user:    testutil.Creator,
			req:     &model.StartAuctionRequest{ContentID: testutil.Content1.ID, StartPrice: 10, Duration: 86401},
			wantErr: errorx.New(errorx.BadRequest, "Duration too long (at most 86400 seconds)"),
		},
		{
			name:    "already open",
			user:    testutil.Creator,
			req:     &model.StartAuctionRequest{ContentID: testutil.Content1.ID, StartPrice: 10, Duration: 60},
			opened:  true,
			wantErr: errorx.New(errorx.AlreadyOpen, "Auction is already open"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := newFixtureContext()
			d := newTestDomains(ctx)
			if tt.opened {
				startAuction(t, d, ctx, testutil.Content1, 5, 60)
			}

			got, err := d.auction.Start(as(ctx, tt.user), tt.req)
			if tt.wantErr != nil {
				require.Error(t, err)
				require.Equal(t, tt.wantErr, err)
				return
			}

			require.NoError(t, err)
			require.Equal(t, 1, got.Auction.Seq)
			require.Equal(t, 1, got.Auction.Round)
			require.Equal(t, string(entity.AuctionHistoryOpen), got.Auction.State)
			require.Equal(t, tt.req.StartPrice, got.Auction.HighestBid)
			require.Equal(t, tt.req.Duration == 0, got.Auction.DueTime == "")

			content := getContent(t, ctx, tt.req.ContentID)
			require.Equal(t, entity.AuctionOpen, content.AuctionState)
			require.Equal(t, 1, content.AuctionSeq)
			require.Equal(t, 1, content.AuctionRound)
			require.Equal(t, got.Auction.ID, content.CurrentAuctionID.String)
		})
	}
}

func Test_auctionDomain_Settle_Scenario(t *testing.T) {
	ctx := newFixtureContext()
	d := newTestDomains(ctx)
	startAuction(t, d, ctx, testutil.Content1, 10, 60)

	_, err := placeBid(t, d, ctx, testutil.Bidder1, testutil.Content1.ID, 12, "", "proof-a")
	require.NoError(t, err)

	_, err = placeBid(t, d, ctx, testutil.Bidder2, testutil.Content1.ID, 11, "", "proof-b")
	require.ErrorIs(t, err, errorx.Error{Code: errorx.InsufficientAmount})

	referral := referralTokenOf(t, ctx, testutil.Referrer, testutil.Content1.ShareCode)
	bid, err := placeBid(t, d, ctx, testutil.Bidder3, testutil.Content1.ID, 20, referral, "proof-c")
	require.NoError(t, err)
	require.Equal(t, testutil.Referrer.ID, bid.Bid.ReferrerID)

	_, err = d.auction.Settle(as(ctx, testutil.Creator), &model.SettleAuctionRequest{ContentID: testutil.Content1.ID})
	require.ErrorIs(t, err, errorx.Error{Code: errorx.NotExpired})

	expireAuction(t, ctx, testutil.Content1.ID)
	resp, err := d.auction.Settle(as(ctx, testutil.Creator), &model.SettleAuctionRequest{ContentID: testutil.Content1.ID})
	require.NoError(t, err)

	settlement := resp.Settlement
	require.False(t, settlement.AlreadySettled)
	require.Equal(t, string(entity.AuctionHistorySettled), settlement.State)
	require.Equal(t, testutil.Bidder3.ID, settlement.WinnerID)
	require.Equal(t, bid.Bid.ID, settlement.WinnerBidID)
	require.Equal(t, int64(20), settlement.FinalPrice)
	require.Equal(t, 2, settlement.BidCount)
	require.NotNil(t, settlement.Reward)
	require.Equal(t, model.Split{Recipient: 16, Referrer: 1, Lottery: 1, Platform: 2}, settlement.Reward.Split)
	require.Equal(t, testutil.Creator.ID, settlement.Reward.RecipientID)
	require.Equal(t, testutil.Referrer.ID, settlement.Reward.ReferrerID)
	require.True(t, settlement.Reward.LotteryClaimed)
	require.False(t, settlement.Reward.RecipientClaimed)

	content := getContent(t, ctx, testutil.Content1.ID)
	require.Equal(t, testutil.Bidder3.ID, content.OwnerID)
	require.Equal(t, 2, content.AuctionRound)
	require.Equal(t, entity.AuctionClosed, content.AuctionState)
	require.NotEqual(t, testutil.Content1.ShareCode, content.ShareCode)

	pools, err := d.lottery.GetPools(ctx, &model.GetLotteryPoolsRequest{ContentID: testutil.Content1.ID})
	require.NoError(t, err)
	require.Equal(t, 1, pools.Current.Round)
	require.Equal(t, int64(1), pools.Current.Amount)

	bids, err := d.bid.GetBids(ctx, &model.GetBidsRequest{ContentID: testutil.Content1.ID})
	require.NoError(t, err)
	require.Len(t, bids.Bids, 2)
	require.True(t, bids.Bids[0].IsWinner)
	require.Equal(t, int64(20), bids.Bids[0].Amount)
	require.False(t, bids.Bids[1].IsWinner)

	require.Equal(t, int64(1), countRows(t, ctx, &entity.SettlementTransaction{},
		"operation=?", entity.SettlementOperationSettlement))
	require.Len(t, d.publisher.Packs(), 1)
}

func Test_auctionDomain_Settle_NoBids(t *testing.T) {
	ctx := newFixtureContext()
	d := newTestDomains(ctx)
	startAuction(t, d, ctx, testutil.Content1, 10, 60)
	expireAuction(t, ctx, testutil.Content1.ID)

	settlement, err := d.auction.SettleExpired(ctx, testutil.Content1.ID)
	require.NoError(t, err)
	require.Equal(t, string(entity.AuctionHistoryUnsold), settlement.State)
	require.Empty(t, settlement.WinnerID)
	require.Nil(t, settlement.Reward)

	content := getContent(t, ctx, testutil.Content1.ID)
	require.Equal(t, testutil.Creator.ID, content.OwnerID)
	require.Equal(t, 1, content.AuctionRound)
	require.Equal(t, entity.AuctionClosed, content.AuctionState)
	require.Equal(t, testutil.Content1.ShareCode, content.ShareCode)
	require.Zero(t, countRows(t, ctx, &entity.Reward{}, "content_id=?", testutil.Content1.ID))

	_, err = placeBid(t, d, ctx, testutil.Bidder1, testutil.Content1.ID, 100, "", "proof-closed")
	require.ErrorIs(t, err, errorx.Error{Code: errorx.InvalidState})

	// A new round gets a new sequence but keeps the auction round.
	next := startAuction(t, d, ctx, testutil.Content1, 10, 60)
	require.Equal(t, 2, next.Seq)
	require.Equal(t, 1, next.Round)
}

func Test_auctionDomain_Settle_Errors(t *testing.T) {
	ctx := newFixtureContext()
	d := newTestDomains(ctx)

	_, err := d.auction.Settle(as(ctx, testutil.Creator), &model.SettleAuctionRequest{ContentID: testutil.Content1.ID})
	require.Equal(t, errorx.New(errorx.InvalidState, "No auction has been started"), err)

	_, err = d.auction.Settle(as(ctx, testutil.Creator), &model.SettleAuctionRequest{ContentID: "invalid-content"})
	require.Equal(t, errorx.New(errorx.NotFound, "Not found content"), err)

	startAuction(t, d, ctx, testutil.Content1, 10, 60)
	expireAuction(t, ctx, testutil.Content1.ID)

	_, err = d.auction.Settle(as(ctx, testutil.Bidder1), &model.SettleAuctionRequest{ContentID: testutil.Content1.ID})
	require.Equal(t, errorx.New(errorx.Unauthorized, "Only the owner can settle the auction"), err)
}

func Test_auctionDomain_Settle_WithoutDueTime(t *testing.T) {
	ctx := newFixtureContext()
	d := newTestDomains(ctx)
	startAuction(t, d, ctx, testutil.Content1, 10, 0)

	_, err := placeBid(t, d, ctx, testutil.Bidder1, testutil.Content1.ID, 15, "", "proof-1")
	require.NoError(t, err)

	_, err = d.auction.SettleExpired(ctx, testutil.Content1.ID)
	require.ErrorIs(t, err, errorx.Error{Code: errorx.InvalidState})

	resp, err := d.auction.Settle(as(ctx, testutil.Creator), &model.SettleAuctionRequest{ContentID: testutil.Content1.ID})
	require.NoError(t, err)
	require.Equal(t, testutil.Bidder1.ID, resp.Settlement.WinnerID)
	require.Equal(t, model.Split{Recipient: 12, Referrer: 0, Lottery: 0, Platform: 3}, resp.Settlement.Reward.Split)
}

func Test_auctionDomain_Settle_Twice(t *testing.T) {
	ctx := newFixtureContext()
	d := newTestDomains(ctx)
	startAuction(t, d, ctx, testutil.Content1, 10, 60)

	_, err := placeBid(t, d, ctx, testutil.Bidder1, testutil.Content1.ID, 100, "", "proof-1")
	require.NoError(t, err)
	expireAuction(t, ctx, testutil.Content1.ID)

	first, err := d.auction.Settle(as(ctx, testutil.Creator), &model.SettleAuctionRequest{ContentID: testutil.Content1.ID})
	require.NoError(t, err)
	require.False(t, first.Settlement.AlreadySettled)

	// The seller can still read the outcome after ownership moved away.
	second, err := d.auction.Settle(as(ctx, testutil.Creator), &model.SettleAuctionRequest{ContentID: testutil.Content1.ID})
	require.NoError(t, err)
	require.True(t, second.Settlement.AlreadySettled)
	require.Equal(t, first.Settlement.Reward.ID, second.Settlement.Reward.ID)
	require.Equal(t, first.Settlement.WinnerID, second.Settlement.WinnerID)
	require.Equal(t, first.Settlement.FinalPrice, second.Settlement.FinalPrice)

	third, err := d.auction.SettleExpired(ctx, testutil.Content1.ID)
	require.NoError(t, err)
	require.True(t, third.AlreadySettled)

	content := getContent(t, ctx, testutil.Content1.ID)
	require.Equal(t, 2, content.AuctionRound)
	require.Equal(t, int64(1), countRows(t, ctx, &entity.Reward{}, "content_id=?", testutil.Content1.ID))

	pools, err := d.lottery.GetPools(ctx, &model.GetLotteryPoolsRequest{ContentID: testutil.Content1.ID})
	require.NoError(t, err)
	require.Equal(t, int64(5), pools.Current.Amount)
}

func Test_auctionDomain_Settle_Concurrent(t *testing.T) {
	ctx := newFixtureContext()
	d := newTestDomains(ctx)
	startAuction(t, d, ctx, testutil.Content1, 10, 60)

	_, err := placeBid(t, d, ctx, testutil.Bidder1, testutil.Content1.ID, 50, "", "proof-1")
	require.NoError(t, err)
	expireAuction(t, ctx, testutil.Content1.ID)

	const n = 8
	results := make([]*model.AuctionSettlement, n)
	eg := errgroup.Group{}
	for i := 0; i < n; i++ {
		i := i
		eg.Go(func() error {
			if i%2 == 0 {
				resp, err := d.auction.Settle(as(ctx, testutil.Creator),
					&model.SettleAuctionRequest{ContentID: testutil.Content1.ID})
				if err != nil {
					return err
				}
				results[i] = &resp.Settlement
				return nil
			}

			settlement, err := d.auction.SettleExpired(ctx, testutil.Content1.ID)
			results[i] = settlement
			return err
		})
	}
	require.NoError(t, eg.Wait())

	fresh := 0
	for _, result := range results {
		require.Equal(t, testutil.Bidder1.ID, result.WinnerID)
		if !result.AlreadySettled {
			fresh++
		}
	}
	require.Equal(t, 1, fresh)

	content := getContent(t, ctx, testutil.Content1.ID)
	require.Equal(t, testutil.Bidder1.ID, content.OwnerID)
	require.Equal(t, 2, content.AuctionRound)
	require.Equal(t, int64(1), countRows(t, ctx, &entity.Reward{}, "content_id=?", testutil.Content1.ID))
}

func Test_auctionDomain_GetHistory_Immutable(t *testing.T) {
	ctx := newFixtureContext()
	d := newTestDomains(ctx)
	startAuction(t, d, ctx, testutil.Content1, 10, 60)

	_, err := placeBid(t, d, ctx, testutil.Bidder1, testutil.Content1.ID, 30, "", "proof-1")
	require.NoError(t, err)
	expireAuction(t, ctx, testutil.Content1.ID)

	_, err = d.auction.SettleExpired(ctx, testutil.Content1.ID)
	require.NoError(t, err)

	before, err := d.auction.GetHistory(ctx, &model.GetAuctionHistoryRequest{ContentID: testutil.Content1.ID})
	require.NoError(t, err)
	require.Len(t, before.Auctions, 1)

	// The new owner opens the next round and receives a bid.
	startAuction(t, d, ctx, testutil.Content1, 40, 60)
	_, err = placeBid(t, d, ctx, testutil.Bidder2, testutil.Content1.ID, 45, "", "proof-2")
	require.NoError(t, err)

	after, err := d.auction.GetHistory(ctx, &model.GetAuctionHistoryRequest{ContentID: testutil.Content1.ID})
	require.NoError(t, err)
	require.Len(t, after.Auctions, 2)
	require.Equal(t, before.Auctions[0], after.Auctions[1])

	current := after.Auctions[0]
	require.Equal(t, 2, current.Seq)
	require.Equal(t, 2, current.Round)
	require.Equal(t, testutil.Bidder1.ID, current.SellerID)
	require.Equal(t, int64(45), current.HighestBid)

	_, err = d.auction.GetHistory(ctx, &model.GetAuctionHistoryRequest{ContentID: "invalid-content"})
	require.ErrorIs(t, err, errorx.Error{Code: errorx.NotFound})
}

func Test_auctionDomain_Settle_AfterNextRoundStarted(t *testing.T) {
	ctx := newFixtureContext()
	d := newTestDomains(ctx)
	startAuction(t, d, ctx, testutil.Content1, 10, 60)

	_, err := placeBid(t, d, ctx, testutil.Bidder1, testutil.Content1.ID, 30, "", "proof-1")
	require.NoError(t, err)
	expireAuction(t, ctx, testutil.Content1.ID)

	_, err = d.auction.Settle(as(ctx, testutil.Creator), &model.SettleAuctionRequest{ContentID: testutil.Content1.ID})
	require.NoError(t, err)

	// Once the new owner opens the next round, settle always targets that
	// round, so the previous seller is no longer allowed to call it.
	startAuction(t, d, ctx, testutil.Content1, 40, 60)
	_, err = d.auction.Settle(as(ctx, testutil.Creator), &model.SettleAuctionRequest{ContentID: testutil.Content1.ID})
	require.Equal(t, errorx.New(errorx.Unauthorized, "Only the owner can settle the auction"), err)

	// The previous result stays readable from the history.
	history, err := d.auction.GetHistory(ctx, &model.GetAuctionHistoryRequest{ContentID: testutil.Content1.ID})
	require.NoError(t, err)
	require.Len(t, history.Auctions, 2)
	require.Equal(t, string(entity.AuctionHistorySettled), history.Auctions[1].State)
	require.Equal(t, testutil.Bidder1.ID, history.Auctions[1].WinnerID)

	_, err = d.auction.Settle(as(ctx, testutil.Bidder1), &model.SettleAuctionRequest{ContentID: testutil.Content1.ID})
	require.ErrorIs(t, err, errorx.Error{Code: errorx.NotExpired})
}
