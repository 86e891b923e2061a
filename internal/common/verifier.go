package common

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/creatorx-lab/settlement/internal/entity"
	"github.com/creatorx-lab/settlement/internal/model"
	"github.com/creatorx-lab/settlement/internal/repository"
	"github.com/creatorx-lab/settlement/pkg/token"
	"github.com/creatorx-lab/settlement/pkg/xcontext"
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/exp/slices"
)

// NormalizeAddress returns the checksummed form of a hex wallet address.
func NormalizeAddress(address string) (string, error) {
	if !common.IsHexAddress(address) {
		return "", fmt.Errorf("invalid address %q", address)
	}

	return common.HexToAddress(address).Hex(), nil
}

type PlatformVerifier struct {
	accountRepo repository.AccountRepository
}

func NewPlatformVerifier(accountRepo repository.AccountRepository) *PlatformVerifier {
	return &PlatformVerifier{accountRepo: accountRepo}
}

// Verify returns nil only if the request user is the platform operator.
func (verifier *PlatformVerifier) Verify(ctx context.Context) error {
	platformAddress, err := NormalizeAddress(xcontext.Configs(ctx).Settlement.PlatformAddress)
	if err != nil {
		return fmt.Errorf("platform address is not configured: %w", err)
	}

	account, err := verifier.accountRepo.GetByID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		return fmt.Errorf("account is not valid")
	}

	if account.Address != platformAddress {
		return errors.New("account is not the platform operator")
	}

	return nil
}

type ReferralVerifier struct {
	accountRepo repository.AccountRepository
	engine      token.Engine[model.ReferralToken]
}

func NewReferralVerifier(
	accountRepo repository.AccountRepository,
	engine token.Engine[model.ReferralToken],
) *ReferralVerifier {
	return &ReferralVerifier{accountRepo: accountRepo, engine: engine}
}

func (verifier *ReferralVerifier) Generate(
	address, shareCode string, expiration time.Duration,
) (string, error) {
	return verifier.engine.Generate(expiration, model.ReferralToken{
		Address:   address,
		ShareCode: shareCode,
	})
}

// Verify returns the referrer account id carried by referralToken. The result
// is invalid if the token cannot be decoded, names an unknown account or one
// of excludedIDs, or was minted for another share code of the content.
func (verifier *ReferralVerifier) Verify(
	ctx context.Context, referralToken string, content *entity.Content, excludedIDs ...string,
) sql.NullString {
	if referralToken == "" {
		return sql.NullString{}
	}

	referral, err := verifier.engine.Verify(referralToken)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Ignore invalid referral token: %v", err)
		return sql.NullString{}
	}

	if referral.ShareCode == "" || referral.ShareCode != content.ShareCode {
		xcontext.Logger(ctx).Debugf("Ignore referral token of stale share code")
		return sql.NullString{}
	}

	address, err := NormalizeAddress(referral.Address)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Ignore referral token: %v", err)
		return sql.NullString{}
	}

	referrer, err := verifier.accountRepo.GetByAddress(ctx, address)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Ignore referral token of unknown account: %v", err)
		return sql.NullString{}
	}

	if slices.Contains(excludedIDs, referrer.ID) {
		return sql.NullString{}
	}

	return sql.NullString{Valid: true, String: referrer.ID}
}
