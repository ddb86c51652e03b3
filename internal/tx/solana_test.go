package tx

import (
	"testing"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/helioswallet/helios/internal/chain"
	"github.com/helioswallet/helios/internal/walleterr"
)

// Any valid Base58-encoded 32 bytes works as a recent blockhash for
// build/sign tests; the value is only checked on broadcast.
const testBlockhash = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"

const solRecipient = "Fg6PaFpoGXkYsidMpWTK6W2BeZ7FEfcYkg476zPFsLnS"

func TestSolanaTransferRoundTrip(t *testing.T) {
	kp := deriveTestKey(t, chain.KeyTypeSolana, "m/44'/501'/0'/0'")
	from := testAddress(t, kp, chain.Mainnet)

	unsigned, err := Build(&Request{
		KeyType:   chain.KeyTypeSolana,
		Network:   chain.Mainnet,
		From:      from,
		To:        solRecipient,
		Value:     "1000000000", // 1 SOL
		Blockhash: testBlockhash,
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	signed, err := Sign(unsigned, kp)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if signed.Hash == "" {
		t.Error("signed transaction has no hash")
	}

	decoded, err := solana.TransactionFromDecoder(bin.NewBinDecoder(signed.Raw))
	if err != nil {
		t.Fatalf("TransactionFromDecoder: %v", err)
	}

	if err := decoded.VerifySignatures(); err != nil {
		t.Errorf("signature verification failed: %v", err)
	}
	if decoded.Message.Header.NumRequiredSignatures != 1 {
		t.Errorf("required signatures = %d, want 1",
			decoded.Message.Header.NumRequiredSignatures)
	}
	if got := decoded.Message.AccountKeys[0].String(); got != from {
		t.Errorf("fee payer = %s, want %s", got, from)
	}
	if decoded.Signatures[0].String() != signed.Hash {
		t.Error("hash should be the fee payer signature")
	}

	found := false
	for _, key := range decoded.Message.AccountKeys {
		if key.String() == solRecipient {
			found = true
		}
	}
	if !found {
		t.Error("recipient missing from account keys")
	}
}

func TestSolanaSPLTransfer(t *testing.T) {
	kp := deriveTestKey(t, chain.KeyTypeSolana, "m/44'/501'/0'/0'")
	from := testAddress(t, kp, chain.Mainnet)
	usdc := chain.GetSPLToken(chain.Mainnet, "USDC")

	unsigned, err := Build(&Request{
		KeyType:       chain.KeyTypeSolana,
		Network:       chain.Mainnet,
		From:          from,
		To:            solRecipient,
		Value:         "1000000", // 1 USDC
		Blockhash:     testBlockhash,
		TokenMint:     usdc.Mint,
		TokenDecimals: usdc.Decimals,
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	signed, err := Sign(unsigned, kp)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	decoded, err := solana.TransactionFromDecoder(bin.NewBinDecoder(signed.Raw))
	if err != nil {
		t.Fatalf("TransactionFromDecoder: %v", err)
	}
	if err := decoded.VerifySignatures(); err != nil {
		t.Errorf("signature verification failed: %v", err)
	}

	// A token transfer moves funds between associated token accounts, so
	// the mint must appear among the account keys.
	foundMint := false
	for _, key := range decoded.Message.AccountKeys {
		if key.String() == usdc.Mint {
			foundMint = true
		}
	}
	if !foundMint {
		t.Error("mint missing from account keys")
	}
}

func TestSolanaDeterministicUnsigned(t *testing.T) {
	kp := deriveTestKey(t, chain.KeyTypeSolana, "m/44'/501'/0'/0'")
	from := testAddress(t, kp, chain.Mainnet)

	req := &Request{
		KeyType:   chain.KeyTypeSolana,
		Network:   chain.Mainnet,
		From:      from,
		To:        solRecipient,
		Value:     "42",
		Blockhash: testBlockhash,
	}

	u1, err := Build(req)
	if err != nil {
		t.Fatal(err)
	}
	u2, err := Build(req)
	if err != nil {
		t.Fatal(err)
	}

	s1, err := Sign(u1, kp)
	if err != nil {
		t.Fatal(err)
	}
	s2, err := Sign(u2, kp)
	if err != nil {
		t.Fatal(err)
	}
	if s1.Hash != s2.Hash {
		t.Error("same request should sign to the same transaction")
	}
}

func TestSolanaBuildErrors(t *testing.T) {
	kp := deriveTestKey(t, chain.KeyTypeSolana, "m/44'/501'/0'/0'")
	from := testAddress(t, kp, chain.Mainnet)

	tests := []struct {
		name string
		req  Request
		kind walleterr.Kind
	}{
		{
			"missing blockhash",
			Request{KeyType: chain.KeyTypeSolana, Network: chain.Mainnet,
				From: from, To: solRecipient, Value: "1"},
			walleterr.Transaction,
		},
		{
			"bad recipient",
			Request{KeyType: chain.KeyTypeSolana, Network: chain.Mainnet,
				From: from, To: "0OIl", Value: "1", Blockhash: testBlockhash},
			walleterr.InvalidAddress,
		},
		{
			"negative value",
			Request{KeyType: chain.KeyTypeSolana, Network: chain.Mainnet,
				From: from, To: solRecipient, Value: "-5", Blockhash: testBlockhash},
			walleterr.Transaction,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Build(&tc.req)
			if err == nil {
				t.Fatal("expected error")
			}
			if !walleterr.Is(err, tc.kind) {
				t.Errorf("kind = %q, want %q", walleterr.KindOf(err), tc.kind)
			}
		})
	}
}
