package service

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Beka01247/food-ordering/internal/domain"
	"github.com/Beka01247/food-ordering/internal/queue"
	"github.com/Beka01247/food-ordering/internal/repo"
)

type OrderService struct {
	orderRepo repo.OrderRepository
	cartRepo  repo.CartRepository
	auditRepo repo.OrderStatusAuditRepository
	broker    queue.Broker
	logger    *zap.SugaredLogger
	now       func() time.Time
	newID     func() string

	// mu serializes read-modify-write cycles on the order list within this
	// process. Writers in other processes still race, last write wins.
	mu sync.Mutex
}

func NewOrderService(
	orderRepo repo.OrderRepository,
	cartRepo repo.CartRepository,
	auditRepo repo.OrderStatusAuditRepository,
	broker queue.Broker,
	logger *zap.SugaredLogger,
) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		auditRepo: auditRepo,
		broker:    broker,
		logger:    logger,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

func (s *OrderService) Load(ctx context.Context) ([]domain.Order, error) {
	orders, err := s.orderRepo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}
	return orders, nil
}

func (s *OrderService) Get(ctx context.Context, id string) (*domain.Order, error) {
	orders, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	idx := indexOfOrder(orders, id)
	if idx < 0 {
		return nil, fmt.Errorf("order %s: %w", id, domain.ErrNotFound)
	}
	return &orders[idx], nil
}

// FilterAndSort loads the orders and returns the filtered, sorted view.
// The stored list is not modified.
func (s *OrderService) FilterAndSort(ctx context.Context, filter domain.OrderFilter, key domain.OrderSortKey, dir domain.SortDirection) ([]domain.Order, error) {
	orders, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return FilterAndSortOrders(orders, filter, key, dir), nil
}

// FilterAndSortOrders matches filter.Query case-insensitively against id,
// customer name, email and phone, then keeps orders with filter.Status, then
// sorts stably by key. Orders comparing equal keep their input order. The
// result is a new slice.
func FilterAndSortOrders(orders []domain.Order, filter domain.OrderFilter, key domain.OrderSortKey, dir domain.SortDirection) []domain.Order {
	query := strings.ToLower(strings.TrimSpace(filter.Query))

	out := make([]domain.Order, 0, len(orders))
	for _, o := range orders {
		if query != "" && !orderMatches(o, query) {
			continue
		}
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		out = append(out, o)
	}

	compare := orderComparator(key)
	if compare == nil {
		return out
	}
	if dir == domain.SortDesc {
		asc := compare
		compare = func(a, b domain.Order) int { return asc(b, a) }
	}
	slices.SortStableFunc(out, compare)

	return out
}

func orderMatches(o domain.Order, query string) bool {
	for _, field := range []string{o.ID, o.UserName, o.UserEmail, o.UserPhone} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

func orderComparator(key domain.OrderSortKey) func(a, b domain.Order) int {
	switch key {
	case domain.SortByCreatedAt:
		return func(a, b domain.Order) int { return a.CreatedAt.Compare(b.CreatedAt) }
	case domain.SortByTotal:
		return func(a, b domain.Order) int { return cmp.Compare(a.Total, b.Total) }
	case domain.SortByStatus:
		return func(a, b domain.Order) int { return cmp.Compare(statusRank(a.Status), statusRank(b.Status)) }
	}
	return nil
}

// statusRank orders statuses along the order lifecycle.
func statusRank(s domain.OrderStatus) int {
	if i := slices.Index(domain.OrderStatuses, s); i >= 0 {
		return i
	}
	return len(domain.OrderStatuses)
}

// UpdateStatus moves an order along the status graph and persists the whole
// list. Edges outside the graph fail with domain.ErrInvalidTransition and
// leave storage untouched.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus, actorID string) (*domain.Order, error) {
	order, old, err := s.transition(ctx, id, status, func(*domain.Order) {})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("order status updated", "order_id", id, "old_status", old, "new_status", status)

	s.publishEvent(ctx, domain.OrderStatusEvent{
		EventType: domain.EventOrderStatusChanged,
		OrderID:   id,
		OldStatus: old,
		NewStatus: status,
		UserID:    actorID,
		Timestamp: s.now(),
	})

	return order, nil
}

// MarkPaid completes an order and records how and when it was paid.
func (s *OrderService) MarkPaid(ctx context.Context, id string, method domain.PaymentMethod, paidAt time.Time) (*domain.Order, error) {
	order, old, err := s.transition(ctx, id, domain.OrderStatusCompleted, func(o *domain.Order) {
		o.PaymentMethod = method
		o.PaidAt = &paidAt
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("order paid", "order_id", id, "method", method, "total", order.Total)

	s.publishEvent(ctx, domain.OrderStatusEvent{
		EventType: domain.EventOrderPaid,
		OrderID:   id,
		OldStatus: old,
		NewStatus: domain.OrderStatusCompleted,
		Reason:    "paid by " + string(method),
		UserID:    order.UserID,
		Timestamp: paidAt,
	})

	return order, nil
}

func (s *OrderService) transition(ctx context.Context, id string, status domain.OrderStatus, mutate func(*domain.Order)) (*domain.Order, domain.OrderStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders, err := s.Load(ctx)
	if err != nil {
		return nil, "", err
	}

	idx := indexOfOrder(orders, id)
	if idx < 0 {
		return nil, "", fmt.Errorf("order %s: %w", id, domain.ErrNotFound)
	}

	old := orders[idx].Status
	if !domain.CanTransition(old, status) {
		return nil, "", fmt.Errorf("order %s from %s to %s: %w", id, old, status, domain.ErrInvalidTransition)
	}

	orders[idx].Status = status
	mutate(&orders[idx])

	if err := s.orderRepo.Save(ctx, orders); err != nil {
		return nil, "", fmt.Errorf("failed to save orders: %w", err)
	}

	order := orders[idx]
	return &order, old, nil
}

// ComputeOrderStats derives per-status counts and revenue from orders.
func ComputeOrderStats(orders []domain.Order) domain.OrderStats {
	stats := domain.OrderStats{
		Total:    len(orders),
		ByStatus: make(map[domain.OrderStatus]int, len(domain.OrderStatuses)),
	}
	for _, st := range domain.OrderStatuses {
		stats.ByStatus[st] = 0
	}

	for _, o := range orders {
		stats.ByStatus[o.Status]++
		stats.TotalRevenue += o.Total
		if o.Status == domain.OrderStatusCompleted {
			stats.CompletedRevenue += o.Total
		}
	}

	return stats
}

func (s *OrderService) Stats(ctx context.Context) (domain.OrderStats, error) {
	orders, err := s.Load(ctx)
	if err != nil {
		return domain.OrderStats{}, err
	}
	return ComputeOrderStats(orders), nil
}

type CheckoutInput struct {
	UserID      string
	UserName    string
	UserEmail   string
	UserPhone   string
	TableNumber string
}

// CartOwner is the cart key for a checkout: the user id, or the guest cart.
func (in CheckoutInput) CartOwner() string {
	return cartOwner(in.UserID)
}

func cartOwner(userID string) string {
	if userID == "" {
		return domain.GuestCartOwner
	}
	return userID
}

// Checkout turns the caller's cart into a pending order. The cart lines are
// copied by value, so later menu edits never reach the order. The cart
// itself is kept until the order is paid.
func (s *OrderService) Checkout(ctx context.Context, in CheckoutInput) (*domain.Order, error) {
	cart, err := s.cartRepo.Get(ctx, in.CartOwner())
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if len(cart.Items) == 0 {
		return nil, domain.ErrEmptyCart
	}

	items := cart.Snapshot()
	order := domain.Order{
		ID:          s.newID(),
		Items:       items,
		Total:       domain.OrderTotal(items),
		Status:      domain.OrderStatusPending,
		UserID:      in.UserID,
		UserName:    strings.TrimSpace(in.UserName),
		UserEmail:   strings.TrimSpace(in.UserEmail),
		UserPhone:   strings.TrimSpace(in.UserPhone),
		TableNumber: strings.TrimSpace(in.TableNumber),
		CreatedAt:   s.now(),
	}

	s.mu.Lock()
	orders, err := s.Load(ctx)
	if err == nil {
		orders = append(orders, order)
		err = s.orderRepo.Save(ctx, orders)
	}
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	if err := s.orderRepo.SetCurrent(ctx, in.CartOwner(), &order); err != nil {
		return nil, fmt.Errorf("failed to save current order: %w", err)
	}
	if err := s.orderRepo.SetLast(ctx, in.CartOwner(), &order); err != nil {
		return nil, fmt.Errorf("failed to save last order: %w", err)
	}

	s.logger.Infow("order created", "order_id", order.ID, "items", len(items), "total", order.Total)

	s.publishEvent(ctx, domain.OrderStatusEvent{
		EventType: domain.EventOrderCreated,
		OrderID:   order.ID,
		NewStatus: domain.OrderStatusPending,
		UserID:    order.UserID,
		Timestamp: order.CreatedAt,
	})

	return &order, nil
}

// Last returns the most recent order snapshot of userID, shown on the
// confirmation page. An empty userID selects the guest owner.
func (s *OrderService) Last(ctx context.Context, userID string) (*domain.Order, error) {
	order, err := s.orderRepo.GetLast(ctx, cartOwner(userID))
	if err != nil {
		return nil, fmt.Errorf("failed to get last order: %w", err)
	}
	return order, nil
}

// Current returns the order of userID awaiting payment, if any.
func (s *OrderService) Current(ctx context.Context, userID string) (*domain.Order, error) {
	order, err := s.orderRepo.GetCurrent(ctx, cartOwner(userID))
	if err != nil {
		return nil, fmt.Errorf("failed to get current order: %w", err)
	}
	return order, nil
}

// publishEvent hands a lifecycle event to the audit worker. The order is
// already persisted, so a broker failure is only logged.
func (s *OrderService) publishEvent(ctx context.Context, event domain.OrderStatusEvent) {
	if s.broker == nil {
		return
	}

	eventBytes, err := json.Marshal(event)
	if err != nil {
		s.logger.Errorw("failed to marshal order event", "order_id", event.OrderID, "error", err)
		return
	}

	if err := s.broker.Publish(ctx, queue.QueueOrderStatus, eventBytes); err != nil {
		s.logger.Errorw("failed to publish order event", "order_id", event.OrderID, "event_type", event.EventType, "error", err)
	}
}

func (s *OrderService) ProcessOrderStatusEvent(ctx context.Context, event domain.OrderStatusEvent) error {
	audit := &domain.OrderStatusAudit{
		OrderID:   event.OrderID,
		EventType: event.EventType,
		OldStatus: event.OldStatus,
		NewStatus: event.NewStatus,
		Reason:    event.Reason,
		UserID:    event.UserID,
		Timestamp: event.Timestamp,
	}

	if err := s.auditRepo.Create(ctx, audit); err != nil {
		s.logger.Errorw("failed to create audit record", "order_id", event.OrderID, "error", err)
		return fmt.Errorf("failed to create audit record: %w", err)
	}

	s.logger.Infow("order status audit created", "order_id", event.OrderID, "event_type", event.EventType)

	return nil
}

func (s *OrderService) GetOrderAudit(ctx context.Context, orderID string, limit int) ([]domain.OrderStatusAudit, error) {
	audits, err := s.auditRepo.GetByOrderID(ctx, orderID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get order audit: %w", err)
	}

	return audits, nil
}

func indexOfOrder(orders []domain.Order, id string) int {
	for i := range orders {
		if orders[i].ID == id {
			return i
		}
	}
	return -1
}

// closeCheckout drops the owner's pending-payment marker and refreshes their
// last order snapshot after a successful payment. The marker is only dropped
// when it still points at the paid order.
func (s *OrderService) closeCheckout(ctx context.Context, order *domain.Order) error {
	owner := cartOwner(order.UserID)

	current, err := s.orderRepo.GetCurrent(ctx, owner)
	switch {
	case err == nil && current.ID == order.ID:
		if err := s.orderRepo.ClearCurrent(ctx, owner); err != nil {
			return fmt.Errorf("failed to clear current order: %w", err)
		}
	case err != nil && !errors.Is(err, domain.ErrNotFound):
		return fmt.Errorf("failed to get current order: %w", err)
	}

	if err := s.orderRepo.SetLast(ctx, owner, order); err != nil {
		return fmt.Errorf("failed to save last order: %w", err)
	}
	return nil
}
