package domain

import (
	"time"
)

type OrderStatusAudit struct {
	ID        string      `bson:"_id,omitempty" json:"id"`
	OrderID   string      `bson:"order_id" json:"order_id"`
	EventType string      `bson:"event_type" json:"event_type"`
	OldStatus OrderStatus `bson:"old_status" json:"old_status"`
	NewStatus OrderStatus `bson:"new_status" json:"new_status"`
	Reason    string      `bson:"reason" json:"reason"`
	UserID    string      `bson:"user_id" json:"user_id"`
	Timestamp time.Time   `bson:"timestamp" json:"timestamp"`
}
