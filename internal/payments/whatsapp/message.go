package whatsapp

import (
	"fmt"
	"strings"

	"github.com/GiacomoGonzales/shopifree-v2-sub002/internal/orders"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/pkg/types"
)

type labels struct {
	newOrder     string
	customer     string
	name         string
	phone        string
	delivery     string
	pickup       string
	homeDelivery string
	ref          string
	items        string
	subtotal     string
	shipping     string
	total        string
	notes        string
}

// messageLabels localizes the order message; the items label adapts to the
// store's business type the same way the storefront does.
func messageLabels(language, businessType string) labels {
	if strings.EqualFold(language, "en") {
		items := "Products"
		switch businessType {
		case "food":
			items = "Items"
		case "beauty":
			items = "Services"
		}
		return labels{
			newOrder:     "New Order",
			customer:     "Customer",
			name:         "Name",
			phone:        "Phone",
			delivery:     "Delivery",
			pickup:       "Store pickup",
			homeDelivery: "Home delivery",
			ref:          "Ref",
			items:        items,
			subtotal:     "Subtotal",
			shipping:     "Shipping",
			total:        "Total",
			notes:        "Notes",
		}
	}

	// Spanish (default)
	items := "Productos"
	switch businessType {
	case "food":
		items = "Pedido"
	case "beauty":
		items = "Servicios"
	}
	return labels{
		newOrder:     "Nuevo Pedido",
		customer:     "Cliente",
		name:         "Nombre",
		phone:        "Tel",
		delivery:     "Entrega",
		pickup:       "Retiro en tienda",
		homeDelivery: "Delivery",
		ref:          "Ref",
		items:        items,
		subtotal:     "Subtotal",
		shipping:     "Envío",
		total:        "Total",
		notes:        "Notas",
	}
}

// currencySymbol mirrors the storefront's display rules.
func currencySymbol(currency string) string {
	if strings.EqualFold(currency, "PEN") {
		return "S/"
	}
	return "$"
}

// BuildMessage renders the line-itemized order message sent to the store's
// WhatsApp number.
func BuildMessage(order *orders.Order, currency, language, businessType string) string {
	symbol := currencySymbol(currency)
	l := messageLabels(language, businessType)

	var b strings.Builder
	fmt.Fprintf(&b, "*%s %s*\n\n", l.newOrder, order.OrderNumber)

	fmt.Fprintf(&b, "*%s:*\n", l.customer)
	fmt.Fprintf(&b, "%s: %s\n", l.name, order.Customer.Name)
	fmt.Fprintf(&b, "%s: %s\n", l.phone, order.Customer.Phone)
	if order.Customer.Email != "" {
		fmt.Fprintf(&b, "Email: %s\n", order.Customer.Email)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "*%s:*\n", l.delivery)
	switch {
	case order.DeliveryMethod == types.DeliveryPickup:
		b.WriteString(l.pickup + "\n")
	case order.DeliveryMethod == types.DeliveryDelivery && order.DeliveryAddress != nil:
		b.WriteString(l.homeDelivery + "\n")
		parts := []string{order.DeliveryAddress.Street, order.DeliveryAddress.City}
		if order.DeliveryAddress.State != "" {
			parts = append(parts, order.DeliveryAddress.State)
		}
		b.WriteString(strings.Join(parts, ", ") + "\n")
		if order.DeliveryAddress.Reference != "" {
			fmt.Fprintf(&b, "%s: %s\n", l.ref, order.DeliveryAddress.Reference)
		}
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "*%s:*\n", l.items)
	for _, item := range order.Items {
		fmt.Fprintf(&b, "%dx %s - %s%s\n", item.Quantity, item.ProductName, symbol, item.ItemTotal.StringFixed(2))
		for _, modifier := range item.SelectedModifiers {
			for _, option := range modifier.Options {
				if option.Price.IsPositive() {
					fmt.Fprintf(&b, "   + %s (+%s%s)\n", option.Name, symbol, option.Price.StringFixed(2))
				} else {
					fmt.Fprintf(&b, "   + %s\n", option.Name)
				}
			}
		}
		if len(item.SelectedVariations) > 0 {
			pairs := make([]string, 0, len(item.SelectedVariations))
			for _, variation := range item.SelectedVariations {
				pairs = append(pairs, variation.Name+": "+variation.Value)
			}
			fmt.Fprintf(&b, "   (%s)\n", strings.Join(pairs, ", "))
		}
	}
	b.WriteString("\n")

	if order.ShippingCost != nil && order.ShippingCost.IsPositive() {
		fmt.Fprintf(&b, "%s: %s%s\n", l.subtotal, symbol, order.Subtotal.StringFixed(2))
		fmt.Fprintf(&b, "%s: %s%s\n", l.shipping, symbol, order.ShippingCost.StringFixed(2))
	}
	fmt.Fprintf(&b, "*%s: %s%s*\n", l.total, symbol, order.Total.StringFixed(2))

	if order.Notes != "" {
		fmt.Fprintf(&b, "\n*%s:* %s\n", l.notes, order.Notes)
	}

	return b.String()
}
