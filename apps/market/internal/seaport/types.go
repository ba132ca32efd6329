package seaport

import (
	"context"
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"
)

// Settlement prepares fulfillment intents for a buyer. The marketplace
// client treats the implementation as an external collaborator.
type Settlement interface {
	CreateFulfillment(ctx context.Context, order json.RawMessage, buyer common.Address) (Fulfillment, error)
}

// Fulfillment is a prepared, not-yet-submitted fulfillment intent. Its
// concrete shape varies between settlement implementations, so callers
// discover what it can do by probing for the capability interfaces below
// instead of assuming one fixed structure.
type Fulfillment interface{}

// ActionRunner executes the intent's action sequence and submits the
// resulting transaction.
type ActionRunner interface {
	ExecuteAllActions(ctx context.Context) (SubmittedTx, error)
}

// SubmittedTx is a transaction that has been handed to the network.
type SubmittedTx interface {
	Hash() string
}

// ConfirmationWaiter blocks until the submitted transaction is mined. Not
// every SubmittedTx supports it.
type ConfirmationWaiter interface {
	Wait(ctx context.Context) error
}
