package orders

import (
	"sort"
	"strings"

	"github.com/GiacomoGonzales/shopifree-v2-sub002/internal/cart"
	pkgerrors "github.com/GiacomoGonzales/shopifree-v2-sub002/pkg/errors"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/pkg/types"
	"github.com/shopspring/decimal"
)

// ErrMissingCheckoutData marks the programming-contract violation of
// assembling an order before customer and delivery data are populated.
// The state machine guarantees both before payment dispatch.
func ErrMissingCheckoutData() *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeStateConflict, "missing customer or delivery data")
}

// Assemble converts a cart snapshot plus accumulated checkout data into a
// persistence-ready draft. Absent optional fields are omitted, never
// serialized as null.
func Assemble(state *cart.State, data types.CheckoutData, method types.PaymentMethod, storeID string, shippingCost decimal.Decimal) (*Draft, error) {
	if data.Customer == nil || data.Delivery == nil {
		return nil, ErrMissingCheckoutData()
	}

	subtotal := state.TotalPrice()
	total := subtotal.Add(shippingCost)

	draft := &Draft{
		StoreID: storeID,
		Items:   assembleItems(state.Lines),
		Customer: types.Customer{
			Name:  data.Customer.Name,
			Phone: data.Customer.Phone,
			Email: data.Customer.Email,
		},
		DeliveryMethod: data.Delivery.Method,
		Subtotal:       subtotal,
		Total:          total,
		PaymentMethod:  method,
		PaymentStatus:  PaymentPending,
		Status:         StatusPending,
	}

	if shippingCost.IsPositive() {
		cost := shippingCost
		draft.ShippingCost = &cost
	}

	if data.Delivery.Method == types.DeliveryDelivery && data.Delivery.Address != nil {
		address := &types.DeliveryAddress{
			Street: data.Delivery.Address.Street,
			City:   data.Delivery.Address.City,
		}
		if strings.TrimSpace(data.Delivery.Address.State) != "" {
			address.State = data.Delivery.Address.State
		}
		if strings.TrimSpace(data.Delivery.Address.Reference) != "" {
			address.Reference = data.Delivery.Address.Reference
		}
		draft.DeliveryAddress = address
	}

	if strings.TrimSpace(data.Delivery.Observations) != "" {
		draft.Notes = data.Delivery.Observations
	}

	return draft, nil
}

func assembleItems(lines []cart.Line) []Item {
	items := make([]Item, 0, len(lines))
	for _, line := range lines {
		item := Item{
			ProductID:   line.Product.ID,
			ProductName: line.Product.Name,
			Price:       line.Product.Price,
			Quantity:    line.Quantity,
			ItemTotal:   line.LineTotal(),
		}

		if line.Product.Image != "" {
			item.ProductImage = line.Product.Image
		}

		if len(line.SelectedVariants) > 0 {
			variations := make([]Variation, 0, len(line.SelectedVariants))
			for name, value := range line.SelectedVariants {
				variations = append(variations, Variation{Name: name, Value: value})
			}
			sort.Slice(variations, func(i, j int) bool { return variations[i].Name < variations[j].Name })
			item.SelectedVariations = variations
		}

		if len(line.SelectedModifiers) > 0 {
			modifiers := make([]Modifier, 0, len(line.SelectedModifiers))
			for _, group := range line.SelectedModifiers {
				modifier := Modifier{GroupName: group.GroupName}
				for _, option := range group.Options {
					modifier.Options = append(modifier.Options, ModifierOption{Name: option.Name, Price: option.Price})
				}
				modifiers = append(modifiers, modifier)
			}
			item.SelectedModifiers = modifiers
		}

		items = append(items, item)
	}
	return items
}
