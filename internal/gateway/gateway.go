package gateway

import (
	"context"

	"github.com/shopspring/decimal"
)

// PaymentGateway is the boundary to the remote payment provider. The remote
// side is asynchronous and not fully trusted: implementations must surface
// any non-success response as an error, never as a settled transaction.
type PaymentGateway interface {
	// InitializeTransaction registers txRef with the provider and returns the
	// checkout URL the purchaser is redirected to.
	InitializeTransaction(ctx context.Context, txRef string, amount decimal.Decimal, email, firstName, lastName string) (string, error)

	// VerifyTransaction asks the provider for the authoritative settlement
	// state of txRef. It returns (true, nil) only when the provider affirms
	// success, (false, nil) when the provider is reachable but reports the
	// transaction unsettled, and a non-nil error when the answer is unknown
	// (transport failure, non-2xx response).
	VerifyTransaction(ctx context.Context, txRef string) (bool, error)
}
