// Package tx builds, signs, and serializes transactions for the supported
// chains. Builders take a chain-agnostic Request and produce an Unsigned
// transaction holding the chain's native representation; Sign pairs it with
// a key pair of the matching key type. This layer is pure: no broadcasting,
// no retries, no logging.
package tx

import (
	"math/big"

	"github.com/btcsuite/btcd/wire"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/gagliardetto/solana-go"

	"github.com/helioswallet/helios/internal/chain"
	"github.com/helioswallet/helios/internal/keys"
	"github.com/helioswallet/helios/internal/walleterr"
)

// UTXO is an unspent output supplied by the caller for Bitcoin funding.
// Selection happens here; discovery is the provider's job.
type UTXO struct {
	TxID  string // funding transaction id, hex
	Vout  uint32 // output index
	Value int64  // satoshis
}

// Request describes a transfer in chain-agnostic terms. Value is a decimal
// string in the chain's base unit (wei, satoshi, lamport, or token base
// units when a token field is set).
type Request struct {
	KeyType chain.KeyType
	Network chain.Network
	From    string
	To      string
	Value   string

	// Ethereum fields. GasPrice selects a legacy transaction; MaxFee and
	// MaxTip select EIP-1559. Exactly one fee scheme must be populated.
	Nonce     uint64
	GasLimit  uint64
	GasPrice  string // wei
	MaxFee    string // wei
	MaxTip    string // wei
	Data      []byte
	TokenAddr string // ERC-20 contract; when set, builds a token transfer

	// Bitcoin fields.
	UTXOs   []UTXO
	FeeRate int64 // satoshis per vbyte

	// Solana fields.
	Blockhash     string // recent blockhash, Base58
	TokenMint     string // SPL mint; when set, builds a token transfer
	TokenDecimals uint8  // decimals for the SPL transfer (checked on chain)
}

// Unsigned holds a built but unsigned transaction in its chain's native
// form. It is produced by Build and consumed by Sign.
type Unsigned struct {
	KeyType chain.KeyType

	ethTx      *ethtypes.Transaction
	ethChainID *big.Int

	btcTx           *wire.MsgTx
	btcSourceScript []byte  // prevout script all inputs spend from
	btcInputValues  []int64 // satoshis per input, aligned with TxIn

	solTx *solana.Transaction
}

// Signed is a fully signed transaction ready for broadcast.
type Signed struct {
	KeyType chain.KeyType
	Raw     []byte // canonical wire encoding
	Hash    string // transaction id in the chain's native format
}

// Build validates a request and constructs the unsigned transaction for its
// key type.
func Build(req *Request) (*Unsigned, error) {
	const op = "tx.Build"

	switch req.KeyType {
	case chain.KeyTypeEthereum:
		return buildEthereum(req)
	case chain.KeyTypeBitcoin:
		return buildBitcoin(req)
	case chain.KeyTypeSolana:
		return buildSolana(req)
	}
	return nil, walleterr.Errorf(walleterr.Transaction, op,
		"unsupported key type %q", req.KeyType)
}

// Sign signs an unsigned transaction with the given key pair. The key type
// tag must match the transaction's chain; a mismatch is rejected before any
// cryptographic work happens.
func Sign(u *Unsigned, kp *keys.KeyPair) (*Signed, error) {
	const op = "tx.Sign"

	if kp.KeyType != u.KeyType {
		return nil, walleterr.Errorf(walleterr.Signing, op,
			"%s key cannot sign a %s transaction", kp.KeyType, u.KeyType)
	}

	switch u.KeyType {
	case chain.KeyTypeEthereum:
		return signEthereum(u, kp)
	case chain.KeyTypeBitcoin:
		return signBitcoin(u, kp)
	case chain.KeyTypeSolana:
		return signSolana(u, kp)
	}
	return nil, walleterr.Errorf(walleterr.Signing, op,
		"unsupported key type %q", u.KeyType)
}

// parseAmount parses a non-negative decimal base-unit amount.
func parseAmount(s, field string) (*big.Int, error) {
	const op = "tx.parseAmount"

	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, walleterr.Errorf(walleterr.Transaction, op,
			"%s %q is not a decimal integer", field, s)
	}
	if v.Sign() < 0 {
		return nil, walleterr.Errorf(walleterr.Transaction, op,
			"%s must not be negative", field)
	}
	return v, nil
}
