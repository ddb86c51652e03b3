package keys

import (
	"errors"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"

	"github.com/helioswallet/helios/internal/chain"
	"github.com/helioswallet/helios/internal/walleterr"
)

// BitcoinAddress converts a compressed secp256k1 public key to a legacy
// P2PKH address: Base58Check(version byte || RIPEMD160(SHA256(pubkey))).
// The version byte comes from the network params.
func BitcoinAddress(pub []byte, params *chain.Params) (string, error) {
	const op = "keys.BitcoinAddress"

	if _, err := btcec.ParsePubKey(pub); err != nil {
		return "", walleterr.E(walleterr.InvalidAddress, op, err)
	}

	pubKeyHash := btcutil.Hash160(pub)
	addr, err := btcutil.NewAddressPubKeyHash(pubKeyHash, ChainCfgParams(params))
	if err != nil {
		return "", walleterr.E(walleterr.InvalidAddress, op, err)
	}
	return addr.EncodeAddress(), nil
}

// ValidateBitcoinAddress decodes an address and checks it belongs to the
// given network. P2PKH, P2SH, and bech32 segwit forms all decode.
func ValidateBitcoinAddress(address string, params *chain.Params) error {
	const op = "keys.ValidateBitcoinAddress"

	cfg := ChainCfgParams(params)
	decoded, err := btcutil.DecodeAddress(address, cfg)
	if err != nil {
		return walleterr.E(walleterr.InvalidAddress, op, err)
	}
	if !decoded.IsForNet(cfg) {
		return walleterr.E(walleterr.InvalidAddress, op,
			errors.New("address is for a different network"))
	}
	return nil
}

// ChainCfgParams converts our chain params to btcd's chaincfg format, which
// btcutil address and script helpers expect.
func ChainCfgParams(p *chain.Params) *chaincfg.Params {
	return &chaincfg.Params{
		Name:             p.Name,
		PubKeyHashAddrID: p.PubKeyHashAddrID,
		ScriptHashAddrID: p.ScriptHashAddrID,
		Bech32HRPSegwit:  p.Bech32HRP,
		PrivateKeyID:     p.WIF,
	}
}
