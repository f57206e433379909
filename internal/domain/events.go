package domain

import "time"

type CatalogImportMessage struct {
	TaskID        string `json:"task_id"`
	SpreadsheetID string `json:"spreadsheet_id"`
	SheetRange    string `json:"sheet_range"`
}

type OrderStatusEvent struct {
	EventType string      `json:"event_type"`
	OrderID   string      `json:"order_id"`
	OldStatus OrderStatus `json:"old_status"`
	NewStatus OrderStatus `json:"new_status"`
	Reason    string      `json:"reason"`
	Timestamp time.Time   `json:"timestamp"`
	UserID    string      `json:"user_id"`
}

const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
	EventOrderPaid          = "order.paid"
)
