package tx

import (
	"errors"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"

	"github.com/helioswallet/helios/internal/chain"
	"github.com/helioswallet/helios/internal/keys"
	"github.com/helioswallet/helios/internal/walleterr"
)

// buildSolana constructs a single-instruction transaction: a system transfer
// of lamports, or an SPL transfer between the associated token accounts of
// sender and recipient when a mint is set. The sender pays fees, so its key
// must be a real on-curve signer; destinations may be program derived.
func buildSolana(req *Request) (*Unsigned, error) {
	const op = "tx.buildSolana"

	if err := keys.ValidateSolanaAddress(req.From); err != nil {
		return nil, err
	}
	if err := keys.ValidateSolanaAddress(req.To); err != nil {
		return nil, err
	}

	from, err := solana.PublicKeyFromBase58(req.From)
	if err != nil {
		return nil, walleterr.E(walleterr.InvalidAddress, op, err)
	}
	to, err := solana.PublicKeyFromBase58(req.To)
	if err != nil {
		return nil, walleterr.E(walleterr.InvalidAddress, op, err)
	}
	if !keys.IsOnCurve(from.Bytes()) {
		return nil, walleterr.E(walleterr.Transaction, op,
			errors.New("fee payer key is not on the ed25519 curve"))
	}

	amountBig, err := parseAmount(req.Value, "value")
	if err != nil {
		return nil, err
	}
	if !amountBig.IsUint64() {
		return nil, walleterr.E(walleterr.Transaction, op,
			errors.New("value exceeds uint64 lamport range"))
	}
	amount := amountBig.Uint64()

	if req.Blockhash == "" {
		return nil, walleterr.E(walleterr.Transaction, op,
			errors.New("recent blockhash is required"))
	}
	blockhash, err := solana.HashFromBase58(req.Blockhash)
	if err != nil {
		return nil, walleterr.E(walleterr.Transaction, op, err)
	}

	var instrs []solana.Instruction
	if req.TokenMint != "" {
		mint, err := solana.PublicKeyFromBase58(req.TokenMint)
		if err != nil {
			return nil, walleterr.E(walleterr.InvalidAddress, op, err)
		}
		fromATA, _, err := solana.FindAssociatedTokenAddress(from, mint)
		if err != nil {
			return nil, walleterr.E(walleterr.Transaction, op, err)
		}
		toATA, _, err := solana.FindAssociatedTokenAddress(to, mint)
		if err != nil {
			return nil, walleterr.E(walleterr.Transaction, op, err)
		}
		instrs = append(instrs, token.NewTransferCheckedInstruction(
			amount, req.TokenDecimals, fromATA, mint, toATA, from, nil,
		).Build())
	} else {
		instrs = append(instrs, system.NewTransferInstruction(amount, from, to).Build())
	}

	solTx, err := solana.NewTransaction(instrs, blockhash, solana.TransactionPayer(from))
	if err != nil {
		return nil, walleterr.E(walleterr.Transaction, op, err)
	}

	return &Unsigned{
		KeyType: chain.KeyTypeSolana,
		solTx:   solTx,
	}, nil
}

func signSolana(u *Unsigned, kp *keys.KeyPair) (*Signed, error) {
	const op = "tx.signSolana"

	priv := solana.PrivateKey(kp.PrivateKey)
	pub := priv.PublicKey()

	if _, err := u.solTx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(pub) {
			return &priv
		}
		return nil
	}); err != nil {
		return nil, walleterr.E(walleterr.Signing, op, err)
	}

	raw, err := u.solTx.MarshalBinary()
	if err != nil {
		return nil, walleterr.E(walleterr.Signing, op, err)
	}

	// Solana identifies a transaction by its first (fee payer) signature.
	return &Signed{
		KeyType: chain.KeyTypeSolana,
		Raw:     raw,
		Hash:    u.solTx.Signatures[0].String(),
	}, nil
}
