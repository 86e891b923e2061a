package domain

import (
	"encoding/json"
	"testing"

	"github.com/creatorx-lab/settlement/internal/entity"
	"github.com/creatorx-lab/settlement/internal/model"
	"github.com/creatorx-lab/settlement/pkg/errorx"
	"github.com/creatorx-lab/settlement/pkg/testutil"
	"github.com/creatorx-lab/settlement/pkg/token"
	"github.com/creatorx-lab/settlement/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func Test_rewardDomain_Tip(t *testing.T) {
	ctx := newFixtureContext()
	d := newTestDomains(ctx)

	tests := []struct {
		name    string
		user    entity.Account
		req     *model.TipRequest
		want    model.Split
		wantErr error
	}{
		{
			name: "without referrer",
			req:  &model.TipRequest{ContentID: testutil.Content1.ID, Amount: 100, Proof: "tip-1"},
			want: model.Split{Recipient: 85, Referrer: 0, Lottery: 5, Platform: 10},
		},
		{
			name: "with referrer",
			req: &model.TipRequest{
				ContentID:     testutil.Content1.ID,
				Amount:        20,
				ReferralToken: referralTokenOf(t, ctx, testutil.Referrer, testutil.Content1.ShareCode),
				Proof:         "tip-2",
			},
			want: model.Split{Recipient: 16, Referrer: 1, Lottery: 1, Platform: 2},
		},
		{
			name: "invalid referral is ignored",
			req: &model.TipRequest{
				ContentID:     testutil.Content1.ID,
				Amount:        20,
				ReferralToken: referralTokenOf(t, ctx, testutil.Referrer, "oldShareCode"),
				Proof:         "tip-3",
			},
			want: model.Split{Recipient: 17, Referrer: 0, Lottery: 1, Platform: 2},
		},
		{
			name:    "zero amount",
			req:     &model.TipRequest{ContentID: testutil.Content1.ID, Amount: 0, Proof: "tip-4"},
			wantErr: errorx.New(errorx.BadRequest, "Amount must be a positive number"),
		},
		{
			name:    "not found content",
			req:     &model.TipRequest{ContentID: "invalid-content", Amount: 10, Proof: "tip-5"},
			wantErr: errorx.New(errorx.NotFound, "Not found content"),
		},
		{
			name:    "owner tips own content",
			user:    testutil.Creator,
			req:     &model.TipRequest{ContentID: testutil.Content1.ID, Amount: 10, Proof: "tip-6"},
			wantErr: errorx.New(errorx.Unauthorized, "Owner cannot tip their own content"),
		},
		{
			name:    "duplicate proof",
			req:     &model.TipRequest{ContentID: testutil.Content1.ID, Amount: 10, Proof: "tip-1"},
			wantErr: errorx.New(errorx.DuplicateProof, "Proof has already been used"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := tt.user
			if user.ID == "" {
				user = testutil.Bidder1
			}

			got, err := d.reward.Tip(as(ctx, user), tt.req)
			if tt.wantErr != nil {
				require.Error(t, err)
				require.Equal(t, tt.wantErr, err)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.want, got.Reward.Split)
			require.Equal(t, string(entity.RewardTip), got.Reward.Kind)
			require.Equal(t, tt.req.Amount, got.Reward.GrossAmount)
			require.Equal(t, testutil.Creator.ID, got.Reward.RecipientID)
			require.Equal(t, testutil.Bidder1.ID, got.Reward.SenderID)
			require.True(t, got.Reward.LotteryClaimed)
			require.False(t, got.Reward.RecipientClaimed)
			require.False(t, got.Reward.ReferrerClaimed)
			require.False(t, got.Reward.PlatformClaimed)
			require.NotEmpty(t, got.Reward.LotteryPoolID)
		})
	}

	pools, err := d.lottery.GetPools(ctx, &model.GetLotteryPoolsRequest{ContentID: testutil.Content1.ID})
	require.NoError(t, err)
	require.Equal(t, int64(7), pools.Current.Amount)
	require.Equal(t, int64(3), countRows(t, ctx, &entity.SettlementTransaction{},
		"operation=?", entity.SettlementOperationTip))

	packs := d.publisher.Packs()
	require.Len(t, packs, 3)

	var event model.SettlementEvent
	require.NoError(t, json.Unmarshal(packs[0].Msg, &event))
	require.Equal(t, model.EventTipIssued, event.Type)
	require.Equal(t, testutil.Content1.ID, event.ContentID)
	require.Equal(t, int64(100), event.Amount)
}

func Test_rewardDomain_GetReferralToken(t *testing.T) {
	ctx := newFixtureContext()
	d := newTestDomains(ctx)

	resp, err := d.reward.GetReferralToken(as(ctx, testutil.Referrer),
		&model.GetReferralTokenRequest{ContentID: testutil.Content1.ID})
	require.NoError(t, err)

	engine := token.NewEngine[model.ReferralToken](xcontext.Configs(ctx).Referral.TokenSecret)
	referral, err := engine.Verify(resp.Token)
	require.NoError(t, err)
	require.Equal(t, model.ReferralToken{
		Address:   testutil.Referrer.Address,
		ShareCode: testutil.Content1.ShareCode,
	}, referral)

	// The minted token is honored by a tip.
	tip, err := d.reward.Tip(as(ctx, testutil.Bidder1), &model.TipRequest{
		ContentID:     testutil.Content1.ID,
		Amount:        40,
		ReferralToken: resp.Token,
		Proof:         "tip-1",
	})
	require.NoError(t, err)
	require.Equal(t, testutil.Referrer.ID, tip.Reward.ReferrerID)

	_, err = d.reward.GetReferralToken(as(ctx, testutil.Referrer),
		&model.GetReferralTokenRequest{ContentID: "invalid-content"})
	require.Equal(t, errorx.New(errorx.NotFound, "Not found content"), err)
}
