package repository_test

import (
	"database/sql"
	"testing"

	"github.com/creatorx-lab/settlement/internal/entity"
	"github.com/creatorx-lab/settlement/internal/repository"
	"github.com/creatorx-lab/settlement/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func Test_rewardRepository_Claim(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	repo := repository.NewRewardRepository()

	rewards := []entity.Reward{
		{
			Base: entity.Base{ID: "reward1"}, Kind: entity.RewardTip, ContentID: testutil.Content1.ID,
			SenderID: testutil.Bidder1.ID, RecipientID: testutil.Creator.ID,
			ReferrerID:  sql.NullString{Valid: true, String: testutil.Referrer.ID},
			GrossAmount: 100, RecipientAmount: 80, ReferrerAmount: 5, LotteryAmount: 5, PlatformAmount: 10,
		},
		{
			Base: entity.Base{ID: "reward2"}, Kind: entity.RewardTip, ContentID: testutil.Content1.ID,
			SenderID: testutil.Bidder2.ID, RecipientID: testutil.Creator.ID,
			GrossAmount: 20, RecipientAmount: 17, LotteryAmount: 1, PlatformAmount: 2,
		},
		{
			Base: entity.Base{ID: "reward3"}, Kind: entity.RewardAuction, ContentID: testutil.Content1.ID,
			SenderID: testutil.Bidder2.ID, RecipientID: testutil.Creator.ID,
			BidID:       sql.NullInt64{Valid: true, Int64: 1},
			GrossAmount: 50, RecipientAmount: 42, LotteryAmount: 3, PlatformAmount: 5,
		},
	}
	for i := range rewards {
		require.NoError(t, repo.Create(ctx, &rewards[i]))
	}

	recipient := repository.RewardShareFilter{
		Kind:          entity.RewardTip,
		AccountColumn: "recipient_id",
		AccountID:     testutil.Creator.ID,
		AmountColumn:  "recipient_amount",
		ClaimedColumn: "recipient_claimed",
	}
	referrer := repository.RewardShareFilter{
		Kind:          entity.RewardTip,
		AccountColumn: "referrer_id",
		AccountID:     testutil.Referrer.ID,
		AmountColumn:  "referrer_amount",
		ClaimedColumn: "referrer_claimed",
	}
	platform := repository.RewardShareFilter{
		Kind:          entity.RewardAuction,
		AmountColumn:  "platform_amount",
		ClaimedColumn: "platform_claimed",
	}

	tests := []struct {
		name       string
		filter     repository.RewardShareFilter
		wantIDs    []string
		wantAmount int64
	}{
		{name: "tip recipient", filter: recipient, wantIDs: []string{"reward1", "reward2"}, wantAmount: 97},
		{name: "tip referrer", filter: referrer, wantIDs: []string{"reward1"}, wantAmount: 5},
		{name: "auction platform", filter: platform, wantIDs: []string{"reward3"}, wantAmount: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count, amount, err := repo.SumUnclaimed(ctx, tt.filter)
			require.NoError(t, err)
			require.Equal(t, int64(len(tt.wantIDs)), count)
			require.Equal(t, tt.wantAmount, amount)

			got, err := repo.GetUnclaimedForUpdate(ctx, tt.filter)
			require.NoError(t, err)
			ids := []string{}
			for _, r := range got {
				ids = append(ids, r.ID)
			}
			require.Equal(t, tt.wantIDs, ids)

			affected, err := repo.MarkClaimed(ctx, tt.filter, ids)
			require.NoError(t, err)
			require.Equal(t, int64(len(ids)), affected)

			affected, err = repo.MarkClaimed(ctx, tt.filter, ids)
			require.NoError(t, err)
			require.Zero(t, affected)

			count, amount, err = repo.SumUnclaimed(ctx, tt.filter)
			require.NoError(t, err)
			require.Zero(t, count)
			require.Zero(t, amount)
		})
	}

	// Claiming one share leaves the other shares of the row untouched.
	reward, err := repo.GetByID(ctx, "reward1")
	require.NoError(t, err)
	require.True(t, reward.RecipientClaimed)
	require.True(t, reward.ReferrerClaimed)
	require.False(t, reward.PlatformClaimed)
	require.False(t, reward.LotteryClaimed)
}
