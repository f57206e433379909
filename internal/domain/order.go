package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCompleted, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusCompleted, OrderStatusCancelled},
}

func (s OrderStatus) Valid() bool {
	for _, v := range OrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Terminal statuses accept no further transitions.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextStatuses lists the statuses reachable from s in one step.
func NextStatuses(s OrderStatus) []OrderStatus {
	next := orderTransitions[s]
	out := make([]OrderStatus, len(next))
	copy(out, next)
	return out
}

// OrderItem is a snapshot of a menu item taken at checkout. It is never
// linked back to the catalog.
type OrderItem struct {
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
}

type Order struct {
	ID            string        `json:"id"`
	Items         []OrderItem   `json:"items"`
	Total         int64         `json:"total"`
	Status        OrderStatus   `json:"status"`
	UserID        string        `json:"userId"`
	UserName      string        `json:"userName"`
	UserEmail     string        `json:"userEmail"`
	UserPhone     string        `json:"userPhone"`
	TableNumber   string        `json:"tableNumber,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
	PaymentMethod PaymentMethod `json:"paymentMethod,omitempty"`
	PaidAt        *time.Time    `json:"paidAt,omitempty"`
}

func OrderTotal(items []OrderItem) int64 {
	var total int64
	for _, it := range items {
		total += it.Price * int64(it.Quantity)
	}
	return total
}

type OrderSortKey string

const (
	SortByCreatedAt OrderSortKey = "createdAt"
	SortByTotal     OrderSortKey = "total"
	SortByStatus    OrderSortKey = "status"
)

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// OrderFilter narrows an order listing. Zero values match everything.
type OrderFilter struct {
	Query  string
	Status OrderStatus
}

type OrderStats struct {
	Total            int                 `json:"total"`
	ByStatus         map[OrderStatus]int `json:"byStatus"`
	TotalRevenue     int64               `json:"totalRevenue"`
	CompletedRevenue int64               `json:"completedRevenue"`
}
