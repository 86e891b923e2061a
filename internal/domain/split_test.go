package domain

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComputeSplit(t *testing.T) {
	tests := []struct {
		name        string
		gross       int64
		hasReferrer bool
		want        Split
	}{
		{
			name:        "with referrer",
			gross:       20,
			hasReferrer: true,
			want:        Split{Recipient: 16, Referrer: 1, Lottery: 1, Platform: 2},
		},
		{
			name:        "without referrer",
			gross:       20,
			hasReferrer: false,
			want:        Split{Recipient: 17, Referrer: 0, Lottery: 1, Platform: 2},
		},
		{
			name:        "remainder goes to platform",
			gross:       99,
			hasReferrer: true,
			want:        Split{Recipient: 79, Referrer: 4, Lottery: 4, Platform: 12},
		},
		{
			name:        "tiny amount",
			gross:       1,
			hasReferrer: true,
			want:        Split{Platform: 1},
		},
		{
			name:  "zero",
			gross: 0,
			want:  Split{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ComputeSplit(tt.gross, tt.hasReferrer))
		})
	}
}

func TestComputeSplitConservation(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	grosses := []int64{math.MaxInt64, math.MaxInt64 - 1, 100, 101, 199}
	for i := 0; i < 1000; i++ {
		grosses = append(grosses, r.Int63())
		grosses = append(grosses, r.Int63n(10000))
	}

	for _, gross := range grosses {
		for _, hasReferrer := range []bool{true, false} {
			split := ComputeSplit(gross, hasReferrer)
			require.Equal(t, gross, split.Total(), "gross=%d referrer=%v", gross, hasReferrer)
			require.GreaterOrEqual(t, split.Platform, gross/10)
			require.GreaterOrEqual(t, split.Recipient, int64(0))
			if !hasReferrer {
				require.Zero(t, split.Referrer)
			}
		}
	}
}
