package tx

import (
	"bytes"
	"errors"
	"sort"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"

	"github.com/helioswallet/helios/internal/chain"
	"github.com/helioswallet/helios/internal/keys"
	"github.com/helioswallet/helios/internal/walleterr"
)

// DustLimit is the minimum output value in satoshis. Outputs below it are
// non-standard and change below it is absorbed into the fee.
const DustLimit = 546

// Virtual size estimate components for fee calculation (P2PKH spends).
const (
	txOverheadVBytes = 10
	inputVBytes      = 148
	witnessInVBytes  = 68 // P2WPKH input
	outputVBytes     = 34
)

// buildBitcoin selects UTXOs greedily (largest first), pays the recipient,
// and returns change to the sender when it clears the dust limit. The caller
// supplies the UTXO set and fee rate; nothing is fetched here.
func buildBitcoin(req *Request) (*Unsigned, error) {
	const op = "tx.buildBitcoin"

	params, ok := chain.Get(chain.KeyTypeBitcoin, req.Network)
	if !ok {
		return nil, walleterr.Errorf(walleterr.Transaction, op,
			"no bitcoin params for network %q", req.Network)
	}
	cfg := keys.ChainCfgParams(params)

	if err := keys.ValidateBitcoinAddress(req.From, params); err != nil {
		return nil, err
	}
	if err := keys.ValidateBitcoinAddress(req.To, params); err != nil {
		return nil, err
	}

	amountBig, err := parseAmount(req.Value, "value")
	if err != nil {
		return nil, err
	}
	if !amountBig.IsInt64() {
		return nil, walleterr.E(walleterr.Transaction, op,
			errors.New("value exceeds int64 satoshi range"))
	}
	amount := amountBig.Int64()
	if amount < DustLimit {
		return nil, walleterr.Errorf(walleterr.Transaction, op,
			"amount %d below dust limit %d", amount, DustLimit)
	}
	if req.FeeRate <= 0 {
		return nil, walleterr.E(walleterr.Transaction, op,
			errors.New("fee rate (sat/vB) is required"))
	}
	if len(req.UTXOs) == 0 {
		return nil, walleterr.E(walleterr.Transaction, op,
			errors.New("no utxos supplied"))
	}

	fromAddr, err := btcutil.DecodeAddress(req.From, cfg)
	if err != nil {
		return nil, walleterr.E(walleterr.InvalidAddress, op, err)
	}
	sourceScript, err := txscript.PayToAddrScript(fromAddr)
	if err != nil {
		return nil, walleterr.E(walleterr.Transaction, op, err)
	}
	toAddr, err := btcutil.DecodeAddress(req.To, cfg)
	if err != nil {
		return nil, walleterr.E(walleterr.InvalidAddress, op, err)
	}
	toScript, err := txscript.PayToAddrScript(toAddr)
	if err != nil {
		return nil, walleterr.E(walleterr.Transaction, op, err)
	}

	inVBytes := int64(inputVBytes)
	if txscript.IsPayToWitnessPubKeyHash(sourceScript) {
		inVBytes = witnessInVBytes
	}
	estimateFee := func(inputs int) int64 {
		vsize := int64(txOverheadVBytes) + int64(inputs)*inVBytes + 2*outputVBytes
		return vsize * req.FeeRate
	}

	// Largest-first greedy selection.
	sorted := append([]UTXO(nil), req.UTXOs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Value > sorted[j].Value })

	var selected []UTXO
	var total int64
	for _, u := range sorted {
		selected = append(selected, u)
		total += u.Value
		if total >= amount+estimateFee(len(selected)) {
			break
		}
	}
	fee := estimateFee(len(selected))
	if total < amount+fee {
		return nil, walleterr.Errorf(walleterr.Transaction, op,
			"insufficient funds: have %d sat, need %d sat (amount %d + fee %d)",
			total, amount+fee, amount, fee)
	}

	msgTx := wire.NewMsgTx(wire.TxVersion)
	inputValues := make([]int64, 0, len(selected))
	for _, u := range selected {
		hash, err := chainhash.NewHashFromStr(u.TxID)
		if err != nil {
			return nil, walleterr.E(walleterr.Transaction, op, err)
		}
		txIn := wire.NewTxIn(wire.NewOutPoint(hash, u.Vout), nil, nil)
		// Opt in to RBF so a stuck transaction can be fee-bumped.
		txIn.Sequence = wire.MaxTxInSequenceNum - 2
		msgTx.AddTxIn(txIn)
		inputValues = append(inputValues, u.Value)
	}

	msgTx.AddTxOut(wire.NewTxOut(amount, toScript))
	if change := total - amount - fee; change >= DustLimit {
		msgTx.AddTxOut(wire.NewTxOut(change, sourceScript))
	}

	return &Unsigned{
		KeyType:         chain.KeyTypeBitcoin,
		btcTx:           msgTx,
		btcSourceScript: sourceScript,
		btcInputValues:  inputValues,
	}, nil
}

// signBitcoin signs every input against the sender's prevout script. P2WPKH
// scripts get a witness via the BIP143 sighash; everything else gets a
// legacy signature script.
func signBitcoin(u *Unsigned, kp *keys.KeyPair) (*Signed, error) {
	const op = "tx.signBitcoin"

	privKey, _ := btcec.PrivKeyFromBytes(kp.PrivateKey)
	defer privKey.Zero()

	if txscript.IsPayToWitnessPubKeyHash(u.btcSourceScript) {
		fetcher := txscript.NewMultiPrevOutFetcher(nil)
		for i, txIn := range u.btcTx.TxIn {
			fetcher.AddPrevOut(txIn.PreviousOutPoint,
				wire.NewTxOut(u.btcInputValues[i], u.btcSourceScript))
		}
		sigHashes := txscript.NewTxSigHashes(u.btcTx, fetcher)

		for i := range u.btcTx.TxIn {
			witness, err := txscript.WitnessSignature(u.btcTx, sigHashes, i,
				u.btcInputValues[i], u.btcSourceScript, txscript.SigHashAll, privKey, true)
			if err != nil {
				return nil, walleterr.E(walleterr.Signing, op, err)
			}
			u.btcTx.TxIn[i].Witness = witness
		}
	} else {
		for i := range u.btcTx.TxIn {
			sigScript, err := txscript.SignatureScript(u.btcTx, i,
				u.btcSourceScript, txscript.SigHashAll, privKey, true)
			if err != nil {
				return nil, walleterr.E(walleterr.Signing, op, err)
			}
			u.btcTx.TxIn[i].SignatureScript = sigScript
		}
	}

	var buf bytes.Buffer
	if err := u.btcTx.Serialize(&buf); err != nil {
		return nil, walleterr.E(walleterr.Signing, op, err)
	}

	return &Signed{
		KeyType: chain.KeyTypeBitcoin,
		Raw:     buf.Bytes(),
		Hash:    u.btcTx.TxHash().String(),
	}, nil
}
