package dto

import (
	"github.com/GiacomoGonzales/shopifree-v2-sub002/internal/cart"
	"github.com/shopspring/decimal"
)

// AddItemRequest adds one unit of a configured product to the cart.
type AddItemRequest struct {
	Product           ProductPayload    `json:"product" validate:"required"`
	SelectedVariants  map[string]string `json:"selectedVariants,omitempty"`
	SelectedModifiers []ModifierPayload `json:"selectedModifiers,omitempty" validate:"dive"`
	CustomNote        string            `json:"customNote,omitempty" validate:"max=500"`
	ItemPrice         *decimal.Decimal  `json:"itemPrice,omitempty"`
}

type ProductPayload struct {
	ID    string          `json:"id" validate:"required"`
	Name  string          `json:"name" validate:"required"`
	Price decimal.Decimal `json:"price" validate:"required"`
	Image string          `json:"image,omitempty"`
}

type ModifierPayload struct {
	GroupID   string                  `json:"groupId" validate:"required"`
	GroupName string                  `json:"groupName" validate:"required"`
	Options   []ModifierOptionPayload `json:"options" validate:"min=1,dive"`
}

type ModifierOptionPayload struct {
	ID    string          `json:"id" validate:"required"`
	Name  string          `json:"name" validate:"required"`
	Price decimal.Decimal `json:"price"`
}

// UpdateQuantityRequest sets a line's absolute quantity; zero or less
// removes the line.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// CartResponse is the cart with its derived totals.
type CartResponse struct {
	Lines      []cart.Line     `json:"lines"`
	TotalItems int             `json:"totalItems"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

func NewCartResponse(state *cart.State) CartResponse {
	lines := state.Lines
	if lines == nil {
		lines = []cart.Line{}
	}
	return CartResponse{
		Lines:      lines,
		TotalItems: state.TotalItems(),
		TotalPrice: state.TotalPrice(),
	}
}

// CatalogProduct converts the payload to the cart's product snapshot.
func (r AddItemRequest) CatalogProduct() cart.Product {
	return cart.Product{
		ID:    r.Product.ID,
		Name:  r.Product.Name,
		Price: r.Product.Price,
		Image: r.Product.Image,
	}
}

// Extras converts the optional configuration to the cart's model, or nil
// when the payload carries none.
func (r AddItemRequest) Extras() *cart.Extras {
	if len(r.SelectedVariants) == 0 && len(r.SelectedModifiers) == 0 && r.CustomNote == "" && r.ItemPrice == nil {
		return nil
	}
	extras := &cart.Extras{
		SelectedVariants: r.SelectedVariants,
		CustomNote:       r.CustomNote,
		ItemPrice:        r.ItemPrice,
	}
	for _, modifier := range r.SelectedModifiers {
		group := cart.ModifierGroup{GroupID: modifier.GroupID, GroupName: modifier.GroupName}
		for _, option := range modifier.Options {
			group.Options = append(group.Options, cart.ModifierOption{
				ID:    option.ID,
				Name:  option.Name,
				Price: option.Price,
			})
		}
		extras.SelectedModifiers = append(extras.SelectedModifiers, group)
	}
	return extras
}
