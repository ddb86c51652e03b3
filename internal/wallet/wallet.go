// Package wallet provides the account-level facade over the derivation
// engine: a seed-backed HD wallet with per-chain default paths, plus a
// Service that ties the keystore, providers and transaction builders
// together.
package wallet

import (
	"sync"

	"github.com/helioswallet/helios/internal/chain"
	"github.com/helioswallet/helios/internal/keys"
	"github.com/helioswallet/helios/internal/walleterr"
)

// Wallet manages HD keys derived from a BIP39 seed. One wallet serves all
// supported chains; the per-chain default paths come from the chain registry.
type Wallet struct {
	seed    []byte
	network chain.Network

	mu sync.Mutex
	// Cached derived pairs, keyed by "<keyType>:<path>".
	cache map[string]*keys.KeyPair
}

// NewFromMnemonic creates a wallet from a BIP39 mnemonic.
// The passphrase is optional (can be empty string).
func NewFromMnemonic(mnemonic, passphrase string, network chain.Network) (*Wallet, error) {
	seed, err := keys.MnemonicToSeed(mnemonic, passphrase)
	if err != nil {
		return nil, err
	}
	return NewFromSeed(seed, network)
}

// NewFromSeed creates a wallet from a raw BIP39 seed.
func NewFromSeed(seed []byte, network chain.Network) (*Wallet, error) {
	const op = "wallet.NewFromSeed"

	if len(seed) < 16 || len(seed) > keys.SeedSize {
		return nil, walleterr.Errorf(walleterr.KeyDerivation, op,
			"seed must be 16..%d bytes, got %d", keys.SeedSize, len(seed))
	}

	w := &Wallet{
		seed:    make([]byte, len(seed)),
		network: network,
		cache:   make(map[string]*keys.KeyPair),
	}
	copy(w.seed, seed)
	return w, nil
}

// Network returns the wallet's network (mainnet/testnet).
func (w *Wallet) Network() chain.Network {
	return w.network
}

// DerivationPath returns the default derivation path for a chain at the
// given account and index.
func (w *Wallet) DerivationPath(keyType chain.KeyType, account, index uint32) (string, error) {
	const op = "wallet.DerivationPath"

	params, ok := chain.Get(keyType, w.network)
	if !ok {
		return "", walleterr.Errorf(walleterr.KeyDerivation, op,
			"unsupported chain: %s on %s", keyType, w.network)
	}

	// Ed25519 chains rotate addresses in the last hardened slot
	// (m/44'/501'/account'/index'); BIP44 chains in the address index.
	if params.HardenedOnly {
		return params.DerivationPathString(account, index, 0), nil
	}
	return params.DerivationPathString(account, 0, index), nil
}

// DeriveKeyPair derives the key pair for a chain at the given account and
// index, using the chain's default path. Derived pairs are cached; callers
// must not Wipe them.
func (w *Wallet) DeriveKeyPair(keyType chain.KeyType, account, index uint32) (*keys.KeyPair, error) {
	path, err := w.DerivationPath(keyType, account, index)
	if err != nil {
		return nil, err
	}
	return w.DeriveKeyPairAt(keyType, path)
}

// DeriveKeyPairAt derives the key pair for a chain at an explicit path.
func (w *Wallet) DeriveKeyPairAt(keyType chain.KeyType, path string) (*keys.KeyPair, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	cacheKey := string(keyType) + ":" + path
	if kp, ok := w.cache[cacheKey]; ok {
		return kp, nil
	}

	kp, err := keys.DeriveKeyPair(w.seed, keyType, path)
	if err != nil {
		return nil, err
	}

	w.cache[cacheKey] = kp
	return kp, nil
}

// DeriveAddress derives an address for a chain at the given account and index.
func (w *Wallet) DeriveAddress(keyType chain.KeyType, account, index uint32) (string, error) {
	kp, err := w.DeriveKeyPair(keyType, account, index)
	if err != nil {
		return "", err
	}
	return kp.Address(w.network)
}

// Close wipes the seed and every cached key pair. The wallet is unusable
// afterwards.
func (w *Wallet) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()

	keys.SecureClear(w.seed)
	for k, kp := range w.cache {
		kp.Wipe()
		delete(w.cache, k)
	}
}
