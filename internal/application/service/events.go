package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salonpro-api/internal/domain/repository"
	"go.uber.org/zap"
)

// changeNotifier announces committed writes on the change feed.
// Publishing is best-effort: failures are logged and never returned.
type changeNotifier struct {
	publisher repository.ChangePublisher
	log       *zap.Logger
}

func newChangeNotifier(publisher repository.ChangePublisher, log *zap.Logger) changeNotifier {
	return changeNotifier{publisher: publisher, log: log}
}

func (n changeNotifier) notify(ctx context.Context, table string, action repository.ChangeAction, id uuid.UUID) {
	if n.publisher == nil {
		return
	}
	event := repository.ChangeEvent{Table: table, Action: action, RecordID: id, At: time.Now().UTC()}
	if err := n.publisher.Publish(ctx, event); err != nil {
		n.log.Warn("Failed to publish change event",
			zap.String("table", table),
			zap.String("action", string(action)),
			zap.String("record_id", id.String()),
			zap.Error(err),
		)
	}
}
