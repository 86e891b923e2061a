package domain

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/creatorx-lab/settlement/internal/common"
	"github.com/creatorx-lab/settlement/internal/entity"
	"github.com/creatorx-lab/settlement/internal/model"
	"github.com/creatorx-lab/settlement/internal/repository"
	"github.com/creatorx-lab/settlement/pkg/testutil"
	"github.com/creatorx-lab/settlement/pkg/token"
	"github.com/creatorx-lab/settlement/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

type testDomains struct {
	account   *accountDomain
	content   *contentDomain
	auction   *auctionDomain
	bid       *bidDomain
	reward    *rewardDomain
	lottery   *lotteryDomain
	claim     *claimDomain
	publisher *testutil.MockPublisher
}

func newTestDomains(ctx context.Context) *testDomains {
	accountRepo := repository.NewAccountRepository()
	contentRepo := repository.NewContentRepository()
	auctionHistoryRepo := repository.NewAuctionHistoryRepository()
	bidRepo := repository.NewBidRepository()
	rewardRepo := repository.NewRewardRepository()
	lotteryRepo := repository.NewLotteryRepository()
	settlementTxRepo := repository.NewSettlementTransactionRepository()

	referralEngine := token.NewEngine[model.ReferralToken](xcontext.Configs(ctx).Referral.TokenSecret)
	referralVerifier := common.NewReferralVerifier(accountRepo, referralEngine)
	platformVerifier := common.NewPlatformVerifier(accountRepo)
	publisher := &testutil.MockPublisher{}

	return &testDomains{
		account: NewAccountDomain(accountRepo),
		content: NewContentDomain(contentRepo),
		auction: NewAuctionDomain(contentRepo, auctionHistoryRepo, bidRepo, rewardRepo,
			lotteryRepo, settlementTxRepo, publisher),
		bid: NewBidDomain(contentRepo, auctionHistoryRepo, bidRepo, settlementTxRepo, referralVerifier),
		reward: NewRewardDomain(accountRepo, contentRepo, rewardRepo, lotteryRepo,
			settlementTxRepo, referralVerifier, publisher),
		lottery:   NewLotteryDomain(accountRepo, contentRepo, lotteryRepo, platformVerifier),
		claim:     NewClaimDomain(accountRepo, rewardRepo, lotteryRepo, settlementTxRepo, platformVerifier, publisher),
		publisher: publisher,
	}
}

// newFixtureContext returns a context of a fresh database filled with the
// fixture accounts and contents.
func newFixtureContext() context.Context {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	return ctx
}

func as(ctx context.Context, account entity.Account) context.Context {
	return xcontext.WithRequestUserID(ctx, account.ID)
}

func referralTokenOf(t *testing.T, ctx context.Context, account entity.Account, shareCode string) string {
	engine := token.NewEngine[model.ReferralToken](xcontext.Configs(ctx).Referral.TokenSecret)
	referralToken, err := engine.Generate(time.Hour, model.ReferralToken{
		Address:   account.Address,
		ShareCode: shareCode,
	})
	require.NoError(t, err)
	return referralToken
}

// expireAuction moves the due time of the open round of a content into the
// past.
func expireAuction(t *testing.T, ctx context.Context, contentID string) {
	past := sql.NullTime{Valid: true, Time: time.Now().Add(-time.Minute)}
	require.NoError(t, xcontext.DB(ctx).Model(&entity.Content{}).
		Where("id=?", contentID).
		Update("due_time", past).Error)
	require.NoError(t, xcontext.DB(ctx).Model(&entity.AuctionHistory{}).
		Where("content_id=? AND state=?", contentID, entity.AuctionHistoryOpen).
		Update("due_time", past).Error)
}

func getContent(t *testing.T, ctx context.Context, contentID string) *entity.Content {
	content, err := repository.NewContentRepository().GetByID(ctx, contentID)
	require.NoError(t, err)
	return content
}

func getAccount(t *testing.T, ctx context.Context, accountID string) *entity.Account {
	account, err := repository.NewAccountRepository().GetByID(ctx, accountID)
	require.NoError(t, err)
	return account
}

func countRows(t *testing.T, ctx context.Context, value any, query string, args ...any) int64 {
	var count int64
	require.NoError(t, xcontext.DB(ctx).Model(value).Where(query, args...).Count(&count).Error)
	return count
}

func startAuction(
	t *testing.T, d *testDomains, ctx context.Context, content entity.Content, startPrice, duration int64,
) model.AuctionHistory {
	owner := getContent(t, ctx, content.ID).OwnerID
	resp, err := d.auction.Start(xcontext.WithRequestUserID(ctx, owner), &model.StartAuctionRequest{
		ContentID:  content.ID,
		StartPrice: startPrice,
		Duration:   duration,
	})
	require.NoError(t, err)
	return resp.Auction
}

func placeBid(
	t *testing.T, d *testDomains, ctx context.Context, bidder entity.Account, contentID string, amount int64,
	referralToken, proof string,
) (*model.PlaceBidResponse, error) {
	return d.bid.PlaceBid(as(ctx, bidder), &model.PlaceBidRequest{
		ContentID:     contentID,
		Amount:        amount,
		ReferralToken: referralToken,
		Proof:         proof,
	})
}
