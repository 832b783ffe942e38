package cart

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is the catalog snapshot a line is built from.
type Product struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image,omitempty"`
}

// ModifierOption is one selectable option inside a modifier group.
type ModifierOption struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// ModifierGroup captures a group of selected modifier options.
type ModifierGroup struct {
	GroupID   string           `json:"groupId"`
	GroupName string           `json:"groupName"`
	Options   []ModifierOption `json:"options"`
}

// Extras carries the optional configuration chosen alongside a product.
type Extras struct {
	SelectedVariants  map[string]string `json:"selectedVariants,omitempty"`
	SelectedModifiers []ModifierGroup   `json:"selectedModifiers,omitempty"`
	CustomNote        string            `json:"customNote,omitempty"`
	// ItemPrice is the unit price including modifier surcharges. Falls back
	// to the catalog price when nil.
	ItemPrice *decimal.Decimal `json:"itemPrice,omitempty"`
}

// Line is one cart entry. UnitPrice already includes modifier surcharges;
// Quantity is always >= 1 (a decrement to zero removes the line).
type Line struct {
	ID                string            `json:"id"`
	Product           Product           `json:"product"`
	Quantity          int               `json:"quantity"`
	SelectedVariants  map[string]string `json:"selectedVariants,omitempty"`
	SelectedModifiers []ModifierGroup   `json:"selectedModifiers,omitempty"`
	CustomNote        string            `json:"customNote,omitempty"`
	UnitPrice         decimal.Decimal   `json:"unitPrice"`
}

// IdentityKey returns the merge key for a line: two lines with the same
// product and the same variant/modifier selection must never coexist.
func (l Line) IdentityKey() string {
	return IdentityKey(l.Product.ID, l.SelectedVariants, l.SelectedModifiers)
}

// LineTotal is unitPrice x quantity.
func (l Line) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// IdentityKey derives the deterministic merge key from a product id plus
// sorted variant pairs and sorted modifier option ids.
func IdentityKey(productID string, variants map[string]string, modifiers []ModifierGroup) string {
	parts := []string{productID}

	if len(variants) > 0 {
		pairs := make([]string, 0, len(variants))
		for name, value := range variants {
			pairs = append(pairs, name+":"+value)
		}
		sort.Strings(pairs)
		parts = append(parts, pairs...)
	}

	if len(modifiers) > 0 {
		var optionIDs []string
		for _, group := range modifiers {
			for _, option := range group.Options {
				optionIDs = append(optionIDs, option.ID)
			}
		}
		sort.Strings(optionIDs)
		parts = append(parts, optionIDs...)
	}

	return strings.Join(parts, "|")
}

func newLine(product Product, extras *Extras) Line {
	line := Line{
		ID:        uuid.NewString(),
		Product:   product,
		Quantity:  1,
		UnitPrice: product.Price,
	}
	if extras == nil {
		return line
	}
	line.SelectedVariants = extras.SelectedVariants
	line.SelectedModifiers = extras.SelectedModifiers
	line.CustomNote = extras.CustomNote
	if extras.ItemPrice != nil {
		line.UnitPrice = *extras.ItemPrice
	}
	return line
}
