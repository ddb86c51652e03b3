package provider

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/helioswallet/helios/internal/chain"
	"github.com/helioswallet/helios/internal/tx"
	"github.com/helioswallet/helios/internal/walleterr"
	"github.com/helioswallet/helios/pkg/logging"
)

// Ethereum talks to a JSON-RPC node via go-ethereum's client.
type Ethereum struct {
	client *ethclient.Client
	log    *logging.Logger
}

// NewEthereum dials an Ethereum JSON-RPC endpoint.
func NewEthereum(ctx context.Context, rpcURL string, log *logging.Logger) (*Ethereum, error) {
	const op = "provider.NewEthereum"

	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, walleterr.E(walleterr.Network, op, err)
	}
	if log == nil {
		log = logging.GetDefault()
	}
	return &Ethereum{client: client, log: log.Component("eth-provider")}, nil
}

// Close releases the underlying RPC connection.
func (e *Ethereum) Close() {
	e.client.Close()
}

func (e *Ethereum) Broadcast(ctx context.Context, signed *tx.Signed) (string, error) {
	const op = "provider.Ethereum.Broadcast"

	if signed.KeyType != chain.KeyTypeEthereum {
		return "", walleterr.Errorf(walleterr.Transaction, op,
			"cannot broadcast a %s transaction", signed.KeyType)
	}

	var decoded ethtypes.Transaction
	if err := decoded.UnmarshalBinary(signed.Raw); err != nil {
		return "", walleterr.E(walleterr.Transaction, op, err)
	}

	if err := e.client.SendTransaction(ctx, &decoded); err != nil {
		return "", walleterr.E(walleterr.Network, op, err)
	}

	hash := decoded.Hash().Hex()
	e.log.Info("transaction broadcast", "hash", hash)
	return hash, nil
}

func (e *Ethereum) TransactionStatus(ctx context.Context, hash string) (Status, error) {
	const op = "provider.Ethereum.TransactionStatus"

	receipt, err := e.client.TransactionReceipt(ctx, common.HexToHash(hash))
	if err == nil {
		if receipt.Status == ethtypes.ReceiptStatusSuccessful {
			return StatusConfirmed, nil
		}
		return StatusFailed, nil
	}
	if !errors.Is(err, ethereum.NotFound) {
		return "", walleterr.E(walleterr.Network, op, err)
	}

	// No receipt yet: still pending whether it sits in the mempool or has
	// not reached this node at all.
	return StatusPending, nil
}

func (e *Ethereum) TransactionReceipt(ctx context.Context, hash string) (*Receipt, error) {
	const op = "provider.Ethereum.TransactionReceipt"

	receipt, err := e.client.TransactionReceipt(ctx, common.HexToHash(hash))
	if err != nil {
		return nil, walleterr.E(walleterr.Network, op, err)
	}

	status := StatusConfirmed
	if receipt.Status != ethtypes.ReceiptStatusSuccessful {
		status = StatusFailed
	}

	fee := receipt.GasUsed
	if receipt.EffectiveGasPrice != nil {
		fee = receipt.GasUsed * receipt.EffectiveGasPrice.Uint64()
	}

	return &Receipt{
		Hash:        hash,
		Status:      status,
		BlockNumber: receipt.BlockNumber.Uint64(),
		BlockHash:   receipt.BlockHash.Hex(),
		Fee:         fee,
	}, nil
}

// PendingNonce returns the next nonce for an address, counting mempool
// transactions.
func (e *Ethereum) PendingNonce(ctx context.Context, address string) (uint64, error) {
	const op = "provider.Ethereum.PendingNonce"

	nonce, err := e.client.PendingNonceAt(ctx, common.HexToAddress(address))
	if err != nil {
		return 0, walleterr.E(walleterr.Network, op, err)
	}
	return nonce, nil
}

// SuggestGasPrice returns the node's suggested gas price in wei.
func (e *Ethereum) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	const op = "provider.Ethereum.SuggestGasPrice"

	price, err := e.client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, walleterr.E(walleterr.Network, op, err)
	}
	return price, nil
}

// Balance returns the address balance in wei.
func (e *Ethereum) Balance(ctx context.Context, address string) (*big.Int, error) {
	const op = "provider.Ethereum.Balance"

	balance, err := e.client.BalanceAt(ctx, common.HexToAddress(address), nil)
	if err != nil {
		return nil, walleterr.E(walleterr.Network, op, err)
	}
	return balance, nil
}

var _ Provider = (*Ethereum)(nil)
