// Package transfer completes checkout with manual bank transfer
// instructions; the store confirms receipt out of band.
package transfer

import (
	"context"
	"time"

	"github.com/GiacomoGonzales/shopifree-v2-sub002/internal/orders"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/internal/payments"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/pkg/config"
	pkgerrors "github.com/GiacomoGonzales/shopifree-v2-sub002/pkg/errors"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/pkg/types"
)

// CopiedAckWindow is how long the storefront shows the copied state
// after the buyer copies the account number.
const CopiedAckWindow = 2 * time.Second

type Adapter struct {
	bank config.BankConfig
}

func NewAdapter(bank config.BankConfig) *Adapter {
	return &Adapter{bank: bank}
}

func (a *Adapter) Method() types.PaymentMethod {
	return types.PaymentTransfer
}

func (a *Adapter) Preflight() error {
	if !a.bank.Configured() {
		return pkgerrors.New(pkgerrors.CodeGatewayConfig, "store has no bank account configured")
	}
	return nil
}

// Attempt surfaces the store's bank details. The order stays pending
// until the store matches the incoming transfer.
func (a *Adapter) Attempt(_ context.Context, _ *orders.Order, _ types.CheckoutData) (payments.Outcome, error) {
	if err := a.Preflight(); err != nil {
		return payments.Outcome{}, err
	}
	return payments.ManualAction("", &payments.BankInstructions{
		BankName:      a.bank.Name,
		AccountHolder: a.bank.AccountHolder,
		AccountNumber: a.bank.AccountNumber,
	}), nil
}
