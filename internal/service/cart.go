package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Beka01247/food-ordering/internal/domain"
	"github.com/Beka01247/food-ordering/internal/repo"
)

const maxCartQuantity = 99

type CartService struct {
	cartRepo repo.CartRepository
	catalog  *CatalogService
	logger   *zap.SugaredLogger
}

func NewCartService(cartRepo repo.CartRepository, catalog *CatalogService, logger *zap.SugaredLogger) *CartService {
	return &CartService{cartRepo: cartRepo, catalog: catalog, logger: logger}
}

func (s *CartService) Get(ctx context.Context, owner string) (*domain.Cart, error) {
	cart, err := s.cartRepo.Get(ctx, cartOwner(owner))
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return cart, nil
}

// AddItem copies the menu item's name and price into the cart, or bumps the
// quantity of an existing line.
func (s *CartService) AddItem(ctx context.Context, owner, menuItemID string, quantity int) (*domain.Cart, error) {
	if quantity < 1 || quantity > maxCartQuantity {
		return nil, domain.NewValidationError("quantity", fmt.Sprintf("Quantity must be between 1 and %d", maxCartQuantity))
	}

	item, err := s.catalog.Get(ctx, menuItemID)
	if err != nil {
		return nil, err
	}

	cart, err := s.Get(ctx, owner)
	if err != nil {
		return nil, err
	}

	idx := indexOfCartItem(cart.Items, menuItemID)
	if idx >= 0 {
		if cart.Items[idx].Quantity+quantity > maxCartQuantity {
			return nil, domain.NewValidationError("quantity", fmt.Sprintf("Quantity must be between 1 and %d", maxCartQuantity))
		}
		cart.Items[idx].Quantity += quantity
	} else {
		cart.Items = append(cart.Items, domain.CartItem{
			ID:       item.ID,
			Name:     item.Name,
			Price:    item.Price,
			Quantity: quantity,
		})
	}

	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}

	return cart, nil
}

// SetQuantity overwrites a line's quantity. Zero or less removes the line.
func (s *CartService) SetQuantity(ctx context.Context, owner, menuItemID string, quantity int) (*domain.Cart, error) {
	if quantity > maxCartQuantity {
		return nil, domain.NewValidationError("quantity", fmt.Sprintf("Quantity must be between 1 and %d", maxCartQuantity))
	}

	cart, err := s.Get(ctx, owner)
	if err != nil {
		return nil, err
	}

	idx := indexOfCartItem(cart.Items, menuItemID)
	if idx < 0 {
		return nil, fmt.Errorf("cart item %s: %w", menuItemID, domain.ErrNotFound)
	}

	if quantity <= 0 {
		cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
	} else {
		cart.Items[idx].Quantity = quantity
	}

	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}

	return cart, nil
}

func (s *CartService) Clear(ctx context.Context, owner string) error {
	if err := s.cartRepo.Delete(ctx, cartOwner(owner)); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

func indexOfCartItem(items []domain.CartItem, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}
