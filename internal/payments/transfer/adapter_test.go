package transfer

import (
	"context"
	"testing"

	"github.com/GiacomoGonzales/shopifree-v2-sub002/internal/orders"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/internal/payments"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/pkg/config"
	pkgerrors "github.com/GiacomoGonzales/shopifree-v2-sub002/pkg/errors"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/pkg/types"
)

func TestAttemptReturnsInstructions(t *testing.T) {
	t.Parallel()

	adapter := NewAdapter(config.BankConfig{
		Name:          "Banco de Credito",
		AccountHolder: "Tienda Demo SAC",
		AccountNumber: "123-456789-0-12",
	})

	outcome, err := adapter.Attempt(context.Background(), &orders.Order{}, types.CheckoutData{})
	if err != nil {
		t.Fatalf("Attempt() error = %v", err)
	}
	if outcome.Kind != payments.KindPendingManualAction {
		t.Errorf("Attempt() kind = %q, want %q", outcome.Kind, payments.KindPendingManualAction)
	}
	if outcome.Instructions == nil || outcome.Instructions.AccountNumber != "123-456789-0-12" {
		t.Errorf("Attempt() instructions = %+v", outcome.Instructions)
	}
}

func TestAttemptUnconfiguredBank(t *testing.T) {
	t.Parallel()

	adapter := NewAdapter(config.BankConfig{Name: "Banco de Credito"})
	_, err := adapter.Attempt(context.Background(), &orders.Order{}, types.CheckoutData{})
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeGatewayConfig {
		t.Errorf("Attempt() error = %v, want code %q", err, pkgerrors.CodeGatewayConfig)
	}
}
