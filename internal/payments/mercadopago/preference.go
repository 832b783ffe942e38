package mercadopago

import (
	"fmt"
	"net/url"

	"github.com/GiacomoGonzales/shopifree-v2-sub002/internal/orders"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/pkg/config"
	"github.com/shopspring/decimal"
)

// BuildPreference maps a persisted order onto a hosted checkout preference.
// Item unit prices carry the effective per-unit price, so modifier
// surcharges survive the handoff.
func BuildPreference(order *orders.Order, store config.StoreConfig) Preference {
	items := make([]PreferenceItem, 0, len(order.Items)+1)
	for _, item := range order.Items {
		unit := item.ItemTotal
		if item.Quantity > 0 {
			unit = item.ItemTotal.DivRound(decimal.NewFromInt(int64(item.Quantity)), 2)
		}
		items = append(items, PreferenceItem{
			Title:      item.ProductName,
			Quantity:   item.Quantity,
			UnitPrice:  unit.InexactFloat64(),
			CurrencyID: store.Currency,
		})
	}
	if order.ShippingCost != nil && order.ShippingCost.IsPositive() {
		items = append(items, PreferenceItem{
			Title:      "Envío",
			Quantity:   1,
			UnitPrice:  order.ShippingCost.Round(2).InexactFloat64(),
			CurrencyID: store.Currency,
		})
	}

	var payer PreferencePayer
	payer.Name = order.Customer.Name
	payer.Email = order.Customer.Email
	if order.Customer.Phone != "" {
		payer.Phone = &PreferencePhone{Number: order.Customer.Phone}
	}

	return Preference{
		Items:               items,
		Payer:               payer,
		BackURLs:            backURLs(order, store.Origin),
		AutoReturn:          "approved",
		ExternalReference:   order.ID,
		StatementDescriptor: "Shopifree",
	}
}

func backURLs(order *orders.Order, origin string) BackURLs {
	params := url.Values{}
	params.Set("orderId", order.ID)
	params.Set("storeId", order.StoreID)
	params.Set("orderNumber", order.OrderNumber)
	query := params.Encode()

	return BackURLs{
		Success: fmt.Sprintf("%s/checkout/success?%s", origin, query),
		Failure: fmt.Sprintf("%s/checkout/failure?%s", origin, query),
		Pending: fmt.Sprintf("%s/checkout/pending?%s", origin, query),
	}
}
