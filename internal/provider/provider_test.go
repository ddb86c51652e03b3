package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/helioswallet/helios/internal/chain"
	"github.com/helioswallet/helios/internal/tx"
	"github.com/helioswallet/helios/internal/walleterr"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	_, err := r.Get(chain.KeyTypeBitcoin)
	if err == nil {
		t.Fatal("empty registry should return an error")
	}
	if !walleterr.Is(err, walleterr.Network) {
		t.Errorf("kind = %q, want network", walleterr.KindOf(err))
	}

	btc := NewBitcoin("https://mempool.space/api", nil)
	r.Register(chain.KeyTypeBitcoin, btc)

	got, err := r.Get(chain.KeyTypeBitcoin)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != btc {
		t.Error("registry returned a different provider")
	}
}

func TestBitcoinBroadcast(t *testing.T) {
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/tx" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		buf := make([]byte, 1024)
		n, _ := r.Body.Read(buf)
		gotBody = string(buf[:n])
		w.Write([]byte("deadbeef00000000000000000000000000000000000000000000000000000000\n"))
	}))
	defer srv.Close()

	b := NewBitcoin(srv.URL, nil)
	txid, err := b.Broadcast(context.Background(), &tx.Signed{
		KeyType: chain.KeyTypeBitcoin,
		Raw:     []byte{0x01, 0x02},
	})
	if err != nil {
		t.Fatalf("Broadcast: %v", err)
	}
	if txid != "deadbeef00000000000000000000000000000000000000000000000000000000" {
		t.Errorf("txid = %s", txid)
	}
	if gotBody != "0102" {
		t.Errorf("posted body = %q, want hex 0102", gotBody)
	}
}

func TestBitcoinBroadcastRejectsWrongChain(t *testing.T) {
	b := NewBitcoin("http://unused", nil)
	_, err := b.Broadcast(context.Background(), &tx.Signed{
		KeyType: chain.KeyTypeEthereum,
		Raw:     []byte{0x01},
	})
	if !walleterr.Is(err, walleterr.Transaction) {
		t.Errorf("kind = %q, want transaction", walleterr.KindOf(err))
	}
}

func TestBitcoinTransactionStatus(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    Status
	}{
		{
			"confirmed",
			func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"txid":"abc","status":{"confirmed":true,"block_height":800000,"block_hash":"00aa"}}`))
			},
			StatusConfirmed,
		},
		{
			"in mempool",
			func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"txid":"abc","status":{"confirmed":false}}`))
			},
			StatusPending,
		},
		{
			"unknown",
			func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
			StatusPending,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()

			b := NewBitcoin(srv.URL, nil)
			status, err := b.TransactionStatus(context.Background(), "abc")
			if err != nil {
				t.Fatalf("TransactionStatus: %v", err)
			}
			if status != tc.want {
				t.Errorf("status = %s, want %s", status, tc.want)
			}
		})
	}
}

func TestBitcoinTransactionReceipt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"txid":"abc","fee":420,"status":{"confirmed":true,"block_height":800000,"block_hash":"00aa"}}`))
	}))
	defer srv.Close()

	b := NewBitcoin(srv.URL, nil)
	receipt, err := b.TransactionReceipt(context.Background(), "abc")
	if err != nil {
		t.Fatalf("TransactionReceipt: %v", err)
	}
	if receipt.Status != StatusConfirmed {
		t.Errorf("status = %s, want confirmed", receipt.Status)
	}
	if receipt.BlockNumber != 800000 {
		t.Errorf("block = %d, want 800000", receipt.BlockNumber)
	}
	if receipt.Fee != 420 {
		t.Errorf("fee = %d, want 420", receipt.Fee)
	}
}

func TestBitcoinListUTXOs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/address/1LqBGSKuX5yYUonjxT5qGfpUsXKYYWeabA/utxo" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`[{"txid":"aa","vout":1,"value":50000,"status":{"confirmed":true}}]`))
	}))
	defer srv.Close()

	b := NewBitcoin(srv.URL, nil)
	utxos, err := b.ListUTXOs(context.Background(), "1LqBGSKuX5yYUonjxT5qGfpUsXKYYWeabA")
	if err != nil {
		t.Fatalf("ListUTXOs: %v", err)
	}
	if len(utxos) != 1 {
		t.Fatalf("utxos = %d, want 1", len(utxos))
	}
	if utxos[0].Value != 50000 || utxos[0].Vout != 1 || utxos[0].TxID != "aa" {
		t.Errorf("utxo = %+v", utxos[0])
	}
}

func TestBitcoinBalance(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"txid":"aa","vout":0,"value":30000},{"txid":"bb","vout":1,"value":12000}]`))
	}))
	defer srv.Close()

	b := NewBitcoin(srv.URL, nil)
	balance, err := b.Balance(context.Background(), "1LqBGSKuX5yYUonjxT5qGfpUsXKYYWeabA")
	if err != nil {
		t.Fatalf("Balance: %v", err)
	}
	if balance != 42000 {
		t.Errorf("balance = %d, want 42000", balance)
	}
}

func TestBitcoinFeeRate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"fastestFee":30,"halfHourFee":20,"hourFee":10,"economyFee":5,"minimumFee":1}`))
	}))
	defer srv.Close()

	b := NewBitcoin(srv.URL, nil)
	rate, err := b.FeeRate(context.Background())
	if err != nil {
		t.Fatalf("FeeRate: %v", err)
	}
	if rate != 20 {
		t.Errorf("rate = %d, want 20 (halfHourFee)", rate)
	}
}

func TestBitcoinNetworkErrorsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	b := NewBitcoin(srv.URL, nil)
	_, err := b.TransactionReceipt(context.Background(), "abc")
	if err == nil {
		t.Fatal("expected error")
	}
	if !walleterr.Is(err, walleterr.Network) {
		t.Errorf("kind = %q, want network", walleterr.KindOf(err))
	}
	if !walleterr.Retryable(err) {
		t.Error("network errors should be retryable")
	}
}
