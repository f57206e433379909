package domain

type Category string

const (
	CategoryMain      Category = "main"
	CategoryAppetizer Category = "appetizer"
	CategoryGrilled   Category = "grilled"
	CategoryDessert   Category = "dessert"
	CategoryDrink     Category = "drink"
)

var Categories = []Category{
	CategoryMain,
	CategoryAppetizer,
	CategoryGrilled,
	CategoryDessert,
	CategoryDrink,
}

func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

const (
	MinMenuItemPrice int64 = 1_000
	MaxMenuItemPrice int64 = 10_000_000
)

// MenuItem prices are whole units of the shop currency (VND).
type MenuItem struct {
	ID          string   `json:"id"`
	Name        string   `json:"name" validate:"min=2"`
	Description string   `json:"description" validate:"min=10"`
	Price       int64    `json:"price" validate:"gte=1000,lte=10000000"`
	Category    Category `json:"category" validate:"category"`
	Image       string   `json:"image" validate:"menuimage"`
}
