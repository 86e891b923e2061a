package middleware

import (
	"context"
	"strings"

	"github.com/creatorx-lab/settlement/internal/common"
	"github.com/creatorx-lab/settlement/internal/model"
	"github.com/creatorx-lab/settlement/internal/repository"
	"github.com/creatorx-lab/settlement/pkg/errorx"
	"github.com/creatorx-lab/settlement/pkg/router"
	"github.com/creatorx-lab/settlement/pkg/token"
	"github.com/creatorx-lab/settlement/pkg/xcontext"
)

// AuthVerifier resolves the bearer access token of a request into an account
// id. Accounts are created on their first authenticated request.
type AuthVerifier struct {
	accountRepo       repository.AccountRepository
	accessTokenEngine token.Engine[model.AccessToken]
}

func NewAuthVerifier(
	accountRepo repository.AccountRepository,
	accessTokenEngine token.Engine[model.AccessToken],
) *AuthVerifier {
	return &AuthVerifier{
		accountRepo:       accountRepo,
		accessTokenEngine: accessTokenEngine,
	}
}

func (a *AuthVerifier) Middleware() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		authorization := xcontext.HTTPRequest(ctx).Header.Get("Authorization")
		scheme, accessToken, found := strings.Cut(authorization, " ")
		if !found || scheme != "Bearer" || accessToken == "" {
			return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
		}

		info, err := a.accessTokenEngine.Verify(accessToken)
		if err != nil {
			xcontext.Logger(ctx).Debugf("Cannot verify access token: %v", err)
			return nil, errorx.New(errorx.Unauthenticated, "Invalid access token")
		}

		address, err := common.NormalizeAddress(info.Address)
		if err != nil {
			return nil, errorx.New(errorx.Unauthenticated, "Invalid access token")
		}

		account, err := common.GetOrCreateAccount(ctx, a.accountRepo, address)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get account: %v", err)
			return nil, errorx.Unknown
		}

		return xcontext.WithRequestUserID(ctx, account.ID), nil
	}
}
