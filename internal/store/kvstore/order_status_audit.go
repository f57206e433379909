package kvstore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Beka01247/food-ordering/internal/domain"
	"github.com/Beka01247/food-ordering/internal/store"
)

// OrderStatusAuditRepository keeps each order's audit trail under its own
// key, newest entry first. Used when the KV backend is not MongoDB.
type OrderStatusAuditRepository struct {
	kv     store.KV
	logger *zap.SugaredLogger
}

func NewOrderStatusAuditRepository(kv store.KV, logger *zap.SugaredLogger) *OrderStatusAuditRepository {
	return &OrderStatusAuditRepository{kv: kv, logger: logger}
}

func (r *OrderStatusAuditRepository) Create(ctx context.Context, audit *domain.OrderStatusAudit) error {
	if audit.ID == "" {
		audit.ID = uuid.NewString()
	}
	if audit.Timestamp.IsZero() {
		audit.Timestamp = time.Now()
	}

	key := auditKeyPrefix + audit.OrderID
	var trail []domain.OrderStatusAudit
	ok, err := readJSON(ctx, r.kv, r.logger, key, &trail)
	if err != nil {
		return err
	}
	if !ok {
		trail = nil
	}

	trail = append([]domain.OrderStatusAudit{*audit}, trail...)
	return writeJSON(ctx, r.kv, key, trail)
}

func (r *OrderStatusAuditRepository) GetByOrderID(ctx context.Context, orderID string, limit int) ([]domain.OrderStatusAudit, error) {
	trail := []domain.OrderStatusAudit{}
	ok, err := readJSON(ctx, r.kv, r.logger, auditKeyPrefix+orderID, &trail)
	if err != nil {
		return nil, err
	}
	if !ok || trail == nil {
		trail = []domain.OrderStatusAudit{}
	}
	if limit > 0 && len(trail) > limit {
		trail = trail[:limit]
	}
	return trail, nil
}
