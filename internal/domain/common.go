package domain

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/creatorx-lab/settlement/internal/model"
	"github.com/creatorx-lab/settlement/pkg/crypto"
	"github.com/creatorx-lab/settlement/pkg/errorx"
	"github.com/creatorx-lab/settlement/pkg/pubsub"
	"github.com/creatorx-lab/settlement/pkg/xcontext"
	"gorm.io/gorm"
)

const shareCodeLength = 12

func generateShareCode() string {
	return crypto.GenerateShareCode(shareCodeLength)
}

func checkProof(proof string) error {
	if proof == "" {
		return errorx.New(errorx.BadRequest, "Not allow empty proof")
	}

	if len(proof) > 191 {
		return errorx.New(errorx.BadRequest, "Proof too long (at most 191 characters)")
	}

	return nil
}

func isDuplicated(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func commit(ctx context.Context) error {
	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return errorx.Unknown
	}

	return nil
}

// publishEvent must only be called after the transaction committed. A failed
// publish never fails the request, the ledger is the source of truth.
func publishEvent(ctx context.Context, publisher pubsub.Publisher, key string, event model.SettlementEvent) {
	event.CreatedAt = time.Now().Format(defaultTimeLayout)
	b, err := json.Marshal(event)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal %s event: %v", event.Type, err)
		return
	}

	topic := xcontext.Configs(ctx).Kafka.Topic
	if err := publisher.Publish(ctx, topic, &pubsub.Pack{Key: []byte(key), Msg: b}); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot publish %s event: %v", event.Type, err)
	}
}
