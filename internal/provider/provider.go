// Package provider abstracts broadcast and transaction status queries over
// the per-chain network backends. Implementations translate transport
// failures into retryable Network errors; everything validation-shaped keeps
// its own kind. Callers own timeouts via context.
package provider

import (
	"context"
	"sync"

	"github.com/helioswallet/helios/internal/chain"
	"github.com/helioswallet/helios/internal/tx"
	"github.com/helioswallet/helios/internal/walleterr"
)

// Status is the lifecycle state of a broadcast transaction.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusFailed    Status = "failed"
)

// Receipt describes a transaction's on-chain outcome. Fields that a chain
// does not model stay zero.
type Receipt struct {
	Hash        string
	Status      Status
	BlockNumber uint64
	BlockHash   string
	Fee         uint64 // chain base units; gas*price for Ethereum
}

// Provider broadcasts signed transactions and answers status queries for
// one chain.
type Provider interface {
	// Broadcast submits a signed transaction and returns its hash.
	Broadcast(ctx context.Context, signed *tx.Signed) (string, error)

	// TransactionStatus reports the current lifecycle state of a
	// transaction. Unknown transactions report as pending.
	TransactionStatus(ctx context.Context, hash string) (Status, error)

	// TransactionReceipt returns the receipt of a confirmed or failed
	// transaction. Pending transactions have no receipt.
	TransactionReceipt(ctx context.Context, hash string) (*Receipt, error)
}

// Registry holds one provider per key type.
type Registry struct {
	mu        sync.RWMutex
	providers map[chain.KeyType]Provider
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[chain.KeyType]Provider)}
}

// Register installs a provider for a key type, replacing any previous one.
func (r *Registry) Register(keyType chain.KeyType, p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[keyType] = p
}

// Get returns the provider for a key type.
func (r *Registry) Get(keyType chain.KeyType) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[keyType]
	if !ok {
		return nil, walleterr.Errorf(walleterr.Network, "provider.Registry.Get",
			"no provider registered for %q", keyType)
	}
	return p, nil
}
