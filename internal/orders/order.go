package orders

import (
	"time"

	"github.com/GiacomoGonzales/shopifree-v2-sub002/pkg/types"
	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
)

// Variation is one chosen variant pair snapshotted onto an order item.
type Variation struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ModifierOption is one chosen modifier option snapshotted onto an order item.
type ModifierOption struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// Modifier groups the chosen options of one modifier group.
type Modifier struct {
	GroupName string           `json:"groupName"`
	Options   []ModifierOption `json:"options"`
}

// Item is the persistence-ready snapshot of one cart line. Optional fields
// are omitted entirely when absent; the order store rejects payloads with
// null-valued keys.
type Item struct {
	ProductID          string          `json:"productId"`
	ProductName        string          `json:"productName"`
	Price              decimal.Decimal `json:"price"`
	Quantity           int             `json:"quantity"`
	ItemTotal          decimal.Decimal `json:"itemTotal"`
	ProductImage       string          `json:"productImage,omitempty"`
	SelectedVariations []Variation     `json:"selectedVariations,omitempty"`
	SelectedModifiers  []Modifier      `json:"selectedModifiers,omitempty"`
}

// Draft is the order payload handed to the order store. It carries no id
// or order number; the store assigns both.
type Draft struct {
	StoreID         string                 `json:"storeId"`
	Items           []Item                 `json:"items"`
	Customer        types.Customer         `json:"customer"`
	DeliveryMethod  types.DeliveryMethod   `json:"deliveryMethod"`
	DeliveryAddress *types.DeliveryAddress `json:"deliveryAddress,omitempty"`
	Notes           string                 `json:"notes,omitempty"`
	Subtotal        decimal.Decimal        `json:"subtotal"`
	ShippingCost    *decimal.Decimal       `json:"shippingCost,omitempty"`
	Total           decimal.Decimal        `json:"total"`
	PaymentMethod   types.PaymentMethod    `json:"paymentMethod"`
	PaymentStatus   PaymentStatus          `json:"paymentStatus"`
	Status          Status                 `json:"status"`
}

// Order is the persisted order as returned by the store.
type Order struct {
	ID          string    `json:"id"`
	OrderNumber string    `json:"orderNumber"`
	Draft
	PaymentID string    `json:"paymentId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
