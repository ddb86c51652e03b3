package provider

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/helioswallet/helios/internal/chain"
	"github.com/helioswallet/helios/internal/tx"
	"github.com/helioswallet/helios/internal/walleterr"
	"github.com/helioswallet/helios/pkg/logging"
)

// Bitcoin talks to a mempool.space or Esplora style HTTP API. Both expose
// the same /tx and /address endpoints used here.
type Bitcoin struct {
	baseURL    string
	httpClient *http.Client
	log        *logging.Logger
}

// NewBitcoin creates a Bitcoin provider for an Esplora-compatible API base
// URL (e.g. https://mempool.space/api or https://blockstream.info/api).
func NewBitcoin(baseURL string, log *logging.Logger) *Bitcoin {
	if log == nil {
		log = logging.GetDefault()
	}
	return &Bitcoin{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log.Component("btc-provider"),
	}
}

// esploraTxStatus is the status object both APIs attach to a transaction.
type esploraTxStatus struct {
	Confirmed   bool   `json:"confirmed"`
	BlockHeight uint64 `json:"block_height"`
	BlockHash   string `json:"block_hash"`
}

func (b *Bitcoin) Broadcast(ctx context.Context, signed *tx.Signed) (string, error) {
	const op = "provider.Bitcoin.Broadcast"

	if signed.KeyType != chain.KeyTypeBitcoin {
		return "", walleterr.Errorf(walleterr.Transaction, op,
			"cannot broadcast a %s transaction", signed.KeyType)
	}

	rawHex := hex.EncodeToString(signed.Raw)
	req, err := http.NewRequestWithContext(ctx, "POST", b.baseURL+"/tx", strings.NewReader(rawHex))
	if err != nil {
		return "", walleterr.E(walleterr.Network, op, err)
	}
	req.Header.Set("Content-Type", "text/plain")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return "", walleterr.E(walleterr.Network, op, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", walleterr.Errorf(walleterr.Network, op,
			"broadcast rejected: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	// Response body is the txid.
	txid := strings.TrimSpace(string(body))
	b.log.Info("transaction broadcast", "txid", txid)
	return txid, nil
}

func (b *Bitcoin) TransactionStatus(ctx context.Context, hash string) (Status, error) {
	var result struct {
		Status esploraTxStatus `json:"status"`
	}

	err := b.get(ctx, "/tx/"+hash, &result)
	if err != nil {
		if isNotFound(err) {
			// Not in the mempool and not mined. It may still arrive,
			// so report pending rather than failed.
			return StatusPending, nil
		}
		return "", err
	}

	if result.Status.Confirmed {
		return StatusConfirmed, nil
	}
	return StatusPending, nil
}

func (b *Bitcoin) TransactionReceipt(ctx context.Context, hash string) (*Receipt, error) {
	var result struct {
		TxID   string          `json:"txid"`
		Fee    uint64          `json:"fee"`
		Status esploraTxStatus `json:"status"`
	}

	if err := b.get(ctx, "/tx/"+hash, &result); err != nil {
		return nil, err
	}

	status := StatusPending
	if result.Status.Confirmed {
		status = StatusConfirmed
	}

	return &Receipt{
		Hash:        result.TxID,
		Status:      status,
		BlockNumber: result.Status.BlockHeight,
		BlockHash:   result.Status.BlockHash,
		Fee:         result.Fee,
	}, nil
}

// ListUTXOs returns the spendable outputs of an address in builder form.
func (b *Bitcoin) ListUTXOs(ctx context.Context, address string) ([]tx.UTXO, error) {
	var result []struct {
		TxID   string          `json:"txid"`
		Vout   uint32          `json:"vout"`
		Value  int64           `json:"value"`
		Status esploraTxStatus `json:"status"`
	}

	if err := b.get(ctx, "/address/"+address+"/utxo", &result); err != nil {
		return nil, err
	}

	utxos := make([]tx.UTXO, 0, len(result))
	for _, u := range result {
		utxos = append(utxos, tx.UTXO{
			TxID:  u.TxID,
			Vout:  u.Vout,
			Value: u.Value,
		})
	}
	return utxos, nil
}

// FeeRate returns the recommended fee rate in sat/vB for roughly half-hour
// confirmation.
func (b *Bitcoin) FeeRate(ctx context.Context) (int64, error) {
	var result map[string]float64
	if err := b.get(ctx, "/v1/fees/recommended", &result); err != nil {
		return 0, err
	}

	rate := int64(result["halfHourFee"])
	if rate < 1 {
		rate = 1
	}
	return rate, nil
}

// Balance returns the spendable balance of an address in satoshis.
func (b *Bitcoin) Balance(ctx context.Context, address string) (uint64, error) {
	utxos, err := b.ListUTXOs(ctx, address)
	if err != nil {
		return 0, err
	}

	var total uint64
	for _, u := range utxos {
		total += uint64(u.Value)
	}
	return total, nil
}

type notFoundError struct{ path string }

func (e *notFoundError) Error() string { return "not found: " + e.path }

func isNotFound(err error) bool {
	var nf *notFoundError
	return errors.As(err, &nf)
}

// get performs a GET request and decodes the JSON response.
func (b *Bitcoin) get(ctx context.Context, path string, result interface{}) error {
	const op = "provider.Bitcoin.get"

	req, err := http.NewRequestWithContext(ctx, "GET", b.baseURL+path, nil)
	if err != nil {
		return walleterr.E(walleterr.Network, op, err)
	}
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return walleterr.E(walleterr.Network, op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return walleterr.E(walleterr.Network, op, &notFoundError{path: path})
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return walleterr.Errorf(walleterr.Network, op,
			"unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return walleterr.E(walleterr.Network, op, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

var _ Provider = (*Bitcoin)(nil)
