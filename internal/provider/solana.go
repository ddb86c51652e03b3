package provider

import (
	"context"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/helioswallet/helios/internal/chain"
	"github.com/helioswallet/helios/internal/tx"
	"github.com/helioswallet/helios/internal/walleterr"
	"github.com/helioswallet/helios/pkg/logging"
)

// Solana talks to a Solana JSON-RPC endpoint.
type Solana struct {
	client *rpc.Client
	log    *logging.Logger
}

// NewSolana creates a Solana provider for an RPC endpoint
// (e.g. rpc.MainNetBeta_RPC or rpc.DevNet_RPC).
func NewSolana(endpoint string, log *logging.Logger) *Solana {
	if log == nil {
		log = logging.GetDefault()
	}
	return &Solana{
		client: rpc.New(endpoint),
		log:    log.Component("sol-provider"),
	}
}

func (s *Solana) Broadcast(ctx context.Context, signed *tx.Signed) (string, error) {
	const op = "provider.Solana.Broadcast"

	if signed.KeyType != chain.KeyTypeSolana {
		return "", walleterr.Errorf(walleterr.Transaction, op,
			"cannot broadcast a %s transaction", signed.KeyType)
	}

	decoded, err := solana.TransactionFromDecoder(bin.NewBinDecoder(signed.Raw))
	if err != nil {
		return "", walleterr.E(walleterr.Transaction, op, err)
	}

	sig, err := s.client.SendTransactionWithOpts(ctx, decoded, rpc.TransactionOpts{
		PreflightCommitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		return "", walleterr.E(walleterr.Network, op, err)
	}

	s.log.Info("transaction broadcast", "signature", sig.String())
	return sig.String(), nil
}

func (s *Solana) TransactionStatus(ctx context.Context, hash string) (Status, error) {
	const op = "provider.Solana.TransactionStatus"

	sig, err := solana.SignatureFromBase58(hash)
	if err != nil {
		return "", walleterr.E(walleterr.Transaction, op, err)
	}

	out, err := s.client.GetSignatureStatuses(ctx, true, sig)
	if err != nil {
		return "", walleterr.E(walleterr.Network, op, err)
	}
	if len(out.Value) == 0 || out.Value[0] == nil {
		return StatusPending, nil
	}

	st := out.Value[0]
	if st.Err != nil {
		return StatusFailed, nil
	}
	switch st.ConfirmationStatus {
	case rpc.ConfirmationStatusConfirmed, rpc.ConfirmationStatusFinalized:
		return StatusConfirmed, nil
	}
	return StatusPending, nil
}

func (s *Solana) TransactionReceipt(ctx context.Context, hash string) (*Receipt, error) {
	const op = "provider.Solana.TransactionReceipt"

	sig, err := solana.SignatureFromBase58(hash)
	if err != nil {
		return nil, walleterr.E(walleterr.Transaction, op, err)
	}

	out, err := s.client.GetTransaction(ctx, sig, &rpc.GetTransactionOpts{
		Commitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		return nil, walleterr.E(walleterr.Network, op, err)
	}

	status := StatusConfirmed
	var fee uint64
	if out.Meta != nil {
		fee = out.Meta.Fee
		if out.Meta.Err != nil {
			status = StatusFailed
		}
	}

	return &Receipt{
		Hash:        hash,
		Status:      status,
		BlockNumber: out.Slot,
		Fee:         fee,
	}, nil
}

// Balance returns the address balance in lamports.
func (s *Solana) Balance(ctx context.Context, address string) (uint64, error) {
	const op = "provider.Solana.Balance"

	pub, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return 0, walleterr.E(walleterr.InvalidAddress, op, err)
	}

	out, err := s.client.GetBalance(ctx, pub, rpc.CommitmentFinalized)
	if err != nil {
		return 0, walleterr.E(walleterr.Network, op, err)
	}
	return out.Value, nil
}

// RecentBlockhash fetches the latest blockhash for transaction building.
func (s *Solana) RecentBlockhash(ctx context.Context) (string, error) {
	const op = "provider.Solana.RecentBlockhash"

	out, err := s.client.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return "", walleterr.E(walleterr.Network, op, err)
	}
	return out.Value.Blockhash.String(), nil
}

var _ Provider = (*Solana)(nil)
