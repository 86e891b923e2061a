package domain

import (
	"context"
	"errors"

	"github.com/creatorx-lab/settlement/internal/entity"
	"github.com/creatorx-lab/settlement/internal/model"
	"github.com/creatorx-lab/settlement/internal/repository"
	"github.com/creatorx-lab/settlement/pkg/errorx"
	"github.com/creatorx-lab/settlement/pkg/xcontext"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxTitleLength = 256

type ContentDomain interface {
	Create(context.Context, *model.CreateContentRequest) (*model.CreateContentResponse, error)
	Get(context.Context, *model.GetContentRequest) (*model.GetContentResponse, error)
}

type contentDomain struct {
	contentRepo repository.ContentRepository
}

func NewContentDomain(contentRepo repository.ContentRepository) *contentDomain {
	return &contentDomain{contentRepo: contentRepo}
}

func (d *contentDomain) Create(
	ctx context.Context, req *model.CreateContentRequest,
) (*model.CreateContentResponse, error) {
	if req.Title == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty title")
	}

	if len(req.Title) > maxTitleLength {
		return nil, errorx.New(errorx.BadRequest, "Title too long (at most %d characters)", maxTitleLength)
	}

	userID := xcontext.RequestUserID(ctx)
	content := &entity.Content{
		Base:         entity.Base{ID: uuid.NewString()},
		CreatorID:    userID,
		OwnerID:      userID,
		Title:        req.Title,
		ShareCode:    generateShareCode(),
		AuctionState: entity.AuctionClosed,
		AuctionRound: 1,
		LotteryRound: 1,
	}

	if err := d.contentRepo.Create(ctx, content); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create content: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateContentResponse{ID: content.ID}, nil
}

func (d *contentDomain) Get(
	ctx context.Context, req *model.GetContentRequest,
) (*model.GetContentResponse, error) {
	content, err := d.contentRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found content")
		}

		xcontext.Logger(ctx).Errorf("Cannot get content: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetContentResponse{Content: convertContent(content)}, nil
}
