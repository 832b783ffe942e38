package orders

import (
	"encoding/json"
	"testing"

	"github.com/GiacomoGonzales/shopifree-v2-sub002/internal/cart"
	pkgerrors "github.com/GiacomoGonzales/shopifree-v2-sub002/pkg/errors"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/pkg/types"
	"github.com/shopspring/decimal"
)

func snapshotWithModifier() *cart.State {
	state := &cart.State{}
	surcharge := decimal.NewFromFloat(45)
	state.Add(cart.Product{ID: "p1", Name: "Combo", Price: decimal.NewFromFloat(40), Image: "https://img/p1.jpg"}, &cart.Extras{
		SelectedModifiers: []cart.ModifierGroup{{
			GroupID:   "g1",
			GroupName: "Extras",
			Options:   []cart.ModifierOption{{ID: "m1", Name: "Extra sauce", Price: decimal.NewFromFloat(5)}},
		}},
		ItemPrice: &surcharge,
	})
	return state
}

func checkoutData(method types.DeliveryMethod) types.CheckoutData {
	data := types.CheckoutData{
		Customer: &types.Customer{Name: "Ana", Phone: "+51999888777"},
		Delivery: &types.Delivery{Method: method},
	}
	if method == types.DeliveryDelivery {
		data.Delivery.Address = &types.DeliveryAddress{Street: "Av. X 123", City: "Lima"}
	}
	return data
}

func TestAssembleRequiresCustomerAndDelivery(t *testing.T) {
	t.Parallel()

	state := snapshotWithModifier()

	_, err := Assemble(state, types.CheckoutData{}, types.PaymentWhatsApp, "store-1", decimal.Zero)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}

	_, err = Assemble(state, types.CheckoutData{Customer: &types.Customer{Name: "Ana", Phone: "1"}}, types.PaymentWhatsApp, "store-1", decimal.Zero)
	if err == nil {
		t.Fatal("expected error when delivery missing")
	}
}

func TestAssembleItemTotalsUseUnitPrice(t *testing.T) {
	t.Parallel()

	state := snapshotWithModifier()
	state.UpdateQuantity(state.Lines[0].ID, 2)

	draft, err := Assemble(state, checkoutData(types.DeliveryPickup), types.PaymentTransfer, "store-1", decimal.Zero)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	item := draft.Items[0]
	// catalog price is snapshotted as-is, the line total respects surcharges
	if !item.Price.Equal(decimal.NewFromFloat(40)) {
		t.Fatalf("expected catalog price 40, got %s", item.Price)
	}
	if !item.ItemTotal.Equal(decimal.NewFromFloat(90)) {
		t.Fatalf("expected item total 90 (45x2), got %s", item.ItemTotal)
	}
	if !draft.Subtotal.Equal(decimal.NewFromFloat(90)) || !draft.Total.Equal(decimal.NewFromFloat(90)) {
		t.Fatalf("unexpected totals: subtotal=%s total=%s", draft.Subtotal, draft.Total)
	}
	if len(item.SelectedModifiers) != 1 || item.SelectedModifiers[0].Options[0].Name != "Extra sauce" {
		t.Fatalf("expected modifier snapshot, got %+v", item.SelectedModifiers)
	}
}

func TestAssembleOmitsAbsentOptionalFields(t *testing.T) {
	t.Parallel()

	state := &cart.State{}
	state.Add(cart.Product{ID: "p1", Name: "Plain", Price: decimal.NewFromInt(10)}, nil)

	draft, err := Assemble(state, checkoutData(types.DeliveryPickup), types.PaymentWhatsApp, "store-1", decimal.Zero)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	payload, err := json.Marshal(draft)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(payload, &doc); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	for _, key := range []string{"deliveryAddress", "notes", "shippingCost"} {
		if _, present := doc[key]; present {
			t.Fatalf("absent optional field %q must be omitted, payload=%s", key, payload)
		}
	}
	item := doc["items"].([]any)[0].(map[string]any)
	for _, key := range []string{"productImage", "selectedVariations", "selectedModifiers"} {
		if _, present := item[key]; present {
			t.Fatalf("absent optional item field %q must be omitted", key)
		}
	}
	customer := doc["customer"].(map[string]any)
	if _, present := customer["email"]; present {
		t.Fatal("blank email must be omitted")
	}
}

func TestAssembleDeliveryAddressDiscipline(t *testing.T) {
	t.Parallel()

	state := &cart.State{}
	state.Add(cart.Product{ID: "p1", Name: "Plain", Price: decimal.NewFromInt(10)}, nil)

	data := checkoutData(types.DeliveryDelivery)
	data.Delivery.Address.Reference = "  "
	data.Delivery.Observations = "leave at the door"

	draft, err := Assemble(state, data, types.PaymentWhatsApp, "store-1", decimal.Zero)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if draft.DeliveryAddress == nil {
		t.Fatal("expected delivery address for home delivery")
	}
	if draft.DeliveryAddress.Reference != "" {
		t.Fatal("blank reference must be stripped")
	}
	if draft.Notes != "leave at the door" {
		t.Fatalf("expected notes, got %q", draft.Notes)
	}

	// pickup orders never carry an address even if one lingers in the data
	pickup := checkoutData(types.DeliveryPickup)
	pickup.Delivery.Address = &types.DeliveryAddress{Street: "Av. X", City: "Lima"}
	draft, err = Assemble(state, pickup, types.PaymentWhatsApp, "store-1", decimal.Zero)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if draft.DeliveryAddress != nil {
		t.Fatal("pickup must not carry a delivery address")
	}
}

func TestAssembleShippingCost(t *testing.T) {
	t.Parallel()

	state := &cart.State{}
	state.Add(cart.Product{ID: "p1", Name: "Plain", Price: decimal.NewFromInt(10)}, nil)

	draft, err := Assemble(state, checkoutData(types.DeliveryDelivery), types.PaymentWhatsApp, "store-1", decimal.NewFromInt(5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if draft.ShippingCost == nil || !draft.ShippingCost.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("expected shipping cost 5, got %v", draft.ShippingCost)
	}
	if !draft.Total.Equal(decimal.NewFromInt(15)) {
		t.Fatalf("expected total 15, got %s", draft.Total)
	}
}
