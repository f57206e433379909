package domain

// GuestCartOwner keys the cart of a visitor without a session.
const GuestCartOwner = "guest"

type CartItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
}

type Cart struct {
	Owner string     `json:"owner"`
	Items []CartItem `json:"items"`
}

func (c *Cart) Total() int64 {
	var total int64
	for _, it := range c.Items {
		total += it.Price * int64(it.Quantity)
	}
	return total
}

// Snapshot copies the cart lines into order items.
func (c *Cart) Snapshot() []OrderItem {
	items := make([]OrderItem, 0, len(c.Items))
	for _, it := range c.Items {
		items = append(items, OrderItem{Name: it.Name, Price: it.Price, Quantity: it.Quantity})
	}
	return items
}
