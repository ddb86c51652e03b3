// Package chain defines key types, networks, and per-chain parameters for the
// supported blockchains. All chain-specific values are hardcoded here - no
// external configuration needed.
package chain

// Network represents mainnet or testnet.
type Network string

const (
	Mainnet Network = "mainnet"
	Testnet Network = "testnet"
)

// KeyType identifies which chain's cryptographic and encoding rules apply to
// a key pair, address, or transaction.
type KeyType string

const (
	KeyTypeEthereum KeyType = "ethereum" // secp256k1, Keccak/hex addresses
	KeyTypeBitcoin  KeyType = "bitcoin"  // secp256k1, Base58Check/bech32
	KeyTypeSolana   KeyType = "solana"   // Ed25519, Base58
)

// Curve identifies the signature curve behind a key type.
type Curve string

const (
	CurveSecp256k1 Curve = "secp256k1"
	CurveEd25519   Curve = "ed25519"
)

// Curve returns the signature curve for the key type.
func (k KeyType) Curve() Curve {
	if k == KeyTypeSolana {
		return CurveEd25519
	}
	return CurveSecp256k1
}

// Valid reports whether k names a supported key type.
func (k KeyType) Valid() bool {
	switch k {
	case KeyTypeEthereum, KeyTypeBitcoin, KeyTypeSolana:
		return true
	}
	return false
}

// KeyTypes returns all supported key types.
func KeyTypes() []KeyType {
	return []KeyType{KeyTypeEthereum, KeyTypeBitcoin, KeyTypeSolana}
}

// Params contains all parameters for a blockchain on a given network.
type Params struct {
	// Identity
	Symbol   string  // BTC, ETH, SOL
	Name     string  // Bitcoin, Ethereum, Solana
	KeyType  KeyType // key/address family
	Decimals uint8   // 8 for BTC, 18 for ETH, 9 for SOL

	// BIP44 derivation
	CoinType       uint32 // BIP44 coin type (0=BTC, 60=ETH, 501=SOL)
	DefaultPurpose uint32 // 44 for all supported chains

	// HardenedOnly requires every path segment to be hardened. Set for
	// Ed25519 chains, where non-hardened child derivation is undefined.
	HardenedOnly bool

	// Network params (Bitcoin)
	PubKeyHashAddrID byte   // Address prefix for P2PKH
	ScriptHashAddrID byte   // Address prefix for P2SH
	Bech32HRP        string // Bech32 human-readable prefix
	WIF              byte   // Private key prefix

	// EVM params
	ChainID uint64 // EVM chain ID
}

// DerivationPath returns the default BIP44 derivation path for this chain
// as raw indices. Hardened segments carry the 0x80000000 offset.
func (p *Params) DerivationPath(account, change, index uint32) []uint32 {
	if p.HardenedOnly {
		// Phantom/Solflare convention: m/44'/coin'/account'/change'
		return []uint32{
			p.DefaultPurpose + 0x80000000,
			p.CoinType + 0x80000000,
			account + 0x80000000,
			change + 0x80000000,
		}
	}
	return []uint32{
		p.DefaultPurpose + 0x80000000, // purpose' (hardened)
		p.CoinType + 0x80000000,       // coin_type' (hardened)
		account + 0x80000000,          // account' (hardened)
		change,                        // change (0=external, 1=internal)
		index,                         // address_index
	}
}

// DerivationPathString returns the default derivation path as a string.
func (p *Params) DerivationPathString(account, change, index uint32) string {
	if p.HardenedOnly {
		return "m/" +
			itoa(p.DefaultPurpose) + "'/" +
			itoa(p.CoinType) + "'/" +
			itoa(account) + "'/" +
			itoa(change) + "'"
	}
	return "m/" +
		itoa(p.DefaultPurpose) + "'/" +
		itoa(p.CoinType) + "'/" +
		itoa(account) + "'/" +
		itoa(change) + "/" +
		itoa(index)
}

func itoa(n uint32) string {
	if n == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

// Registry holds all chain parameters indexed by key type.
var registry = make(map[KeyType]map[Network]*Params)

// Register adds chain params to the registry.
func Register(keyType KeyType, network Network, params *Params) {
	if registry[keyType] == nil {
		registry[keyType] = make(map[Network]*Params)
	}
	registry[keyType][network] = params
}

// Get returns chain params for a key type and network.
func Get(keyType KeyType, network Network) (*Params, bool) {
	nets, ok := registry[keyType]
	if !ok {
		return nil, false
	}
	params, ok := nets[network]
	return params, ok
}

// List returns all registered key types.
func List() []KeyType {
	keyTypes := make([]KeyType, 0, len(registry))
	for kt := range registry {
		keyTypes = append(keyTypes, kt)
	}
	return keyTypes
}

// IsSupported returns true if the key type is registered.
func IsSupported(keyType KeyType) bool {
	_, ok := registry[keyType]
	return ok
}

// GetByChainID returns chain params for an EVM chain ID.
func GetByChainID(chainID uint64, network Network) (*Params, bool) {
	for _, nets := range registry {
		if params, ok := nets[network]; ok {
			if params.KeyType == KeyTypeEthereum && params.ChainID == chainID {
				return params, true
			}
		}
	}
	return nil, false
}
