package wallet

import (
	"context"
	"testing"

	"github.com/helioswallet/helios/internal/chain"
	"github.com/helioswallet/helios/internal/walleterr"
)

const testPassword = "Correct-Horse-42"

func newTestService(t *testing.T) *Service {
	t.Helper()
	s, err := NewService(&ServiceConfig{
		DataDir: t.TempDir(),
		Network: chain.Mainnet,
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestServiceLifecycle(t *testing.T) {
	s := newTestService(t)

	if s.IsUnlocked() {
		t.Fatal("fresh service should be locked")
	}

	if err := s.CreateWallet("primary", testMnemonic, "", testPassword); err != nil {
		t.Fatalf("CreateWallet: %v", err)
	}
	if !s.IsUnlocked() {
		t.Fatal("service should unlock after create")
	}

	addr, err := s.Address(chain.KeyTypeEthereum, 0, 0)
	if err != nil {
		t.Fatalf("Address: %v", err)
	}
	if addr != "0x9858effd232b4033e47d90003d41ec34ecaeda94" {
		t.Errorf("address = %s", addr)
	}

	s.Lock()
	if s.IsUnlocked() {
		t.Fatal("service should be locked after Lock")
	}
	if _, err := s.Address(chain.KeyTypeEthereum, 0, 0); err == nil {
		t.Fatal("locked service should not derive addresses")
	}

	if err := s.OpenWallet("primary", testPassword, ""); err != nil {
		t.Fatalf("OpenWallet: %v", err)
	}
	reopened, err := s.Address(chain.KeyTypeEthereum, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if reopened != addr {
		t.Error("reopened wallet derives a different address")
	}
}

func TestOpenWalletWrongPassword(t *testing.T) {
	s := newTestService(t)

	if err := s.CreateWallet("primary", testMnemonic, "", testPassword); err != nil {
		t.Fatal(err)
	}
	s.Lock()

	if err := s.OpenWallet("primary", "Wrong-Password-9", ""); err == nil {
		t.Fatal("wrong password should fail")
	}
	if s.IsUnlocked() {
		t.Error("failed open must leave the service locked")
	}
}

func TestPassphraseChangesAddresses(t *testing.T) {
	s := newTestService(t)

	if err := s.UnlockWithMnemonic(testMnemonic, ""); err != nil {
		t.Fatal(err)
	}
	plain, err := s.Address(chain.KeyTypeBitcoin, 0, 0)
	if err != nil {
		t.Fatal(err)
	}

	if err := s.UnlockWithMnemonic(testMnemonic, "TREZOR"); err != nil {
		t.Fatal(err)
	}
	withPassphrase, err := s.Address(chain.KeyTypeBitcoin, 0, 0)
	if err != nil {
		t.Fatal(err)
	}

	if plain == withPassphrase {
		t.Error("passphrase should change the derived addresses")
	}
}

func TestListAndDeleteWallets(t *testing.T) {
	s := newTestService(t)

	if err := s.CreateWallet("first", testMnemonic, "", testPassword); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateWallet("second", testMnemonic, "", testPassword); err != nil {
		t.Fatal(err)
	}

	records, err := s.ListWallets()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}

	if err := s.DeleteWallet("first"); err != nil {
		t.Fatal(err)
	}
	records, err = s.ListWallets()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Errorf("records = %d, want 1", len(records))
	}
}

func TestCreateWalletRejectsInvalid(t *testing.T) {
	s := newTestService(t)

	if err := s.CreateWallet("w", "not a mnemonic", "", testPassword); err == nil {
		t.Error("invalid mnemonic should be rejected")
	}
	if err := s.CreateWallet("w", testMnemonic, "", "weak"); err == nil {
		t.Error("weak password should be rejected")
	}
	if s.IsUnlocked() {
		t.Error("failed create must leave the service locked")
	}
}

func TestSendRequiresUnlock(t *testing.T) {
	s := newTestService(t)

	_, err := s.Send(context.Background(), &SendRequest{
		KeyType: chain.KeyTypeEthereum,
		To:      "0x9858effd232b4033e47d90003d41ec34ecaeda94",
		Amount:  "1",
	})
	if err == nil {
		t.Fatal("locked service should not send")
	}
	if !walleterr.Is(err, walleterr.Signing) {
		t.Errorf("kind = %q, want signing", walleterr.KindOf(err))
	}
}

func TestSendRequiresProvider(t *testing.T) {
	s := newTestService(t)

	if err := s.UnlockWithMnemonic(testMnemonic, ""); err != nil {
		t.Fatal(err)
	}

	_, err := s.Send(context.Background(), &SendRequest{
		KeyType: chain.KeyTypeEthereum,
		To:      "0x9858effd232b4033e47d90003d41ec34ecaeda94",
		Amount:  "1",
	})
	if err == nil {
		t.Fatal("send without a registered provider should fail")
	}
	if !walleterr.Is(err, walleterr.Network) {
		t.Errorf("kind = %q, want network", walleterr.KindOf(err))
	}
}

func TestValidateAddress(t *testing.T) {
	s := newTestService(t)

	if err := s.ValidateAddress(chain.KeyTypeEthereum, "0x9858effd232b4033e47d90003d41ec34ecaeda94"); err != nil {
		t.Errorf("valid address rejected: %v", err)
	}
	err := s.ValidateAddress(chain.KeyTypeBitcoin, "0x9858effd232b4033e47d90003d41ec34ecaeda94")
	if !walleterr.Is(err, walleterr.InvalidAddress) {
		t.Errorf("kind = %q, want invalid address", walleterr.KindOf(err))
	}
}

func TestGenerateMnemonic(t *testing.T) {
	s := newTestService(t)

	mnemonic, err := s.GenerateMnemonic()
	if err != nil {
		t.Fatal(err)
	}
	if err := s.ValidateMnemonic(mnemonic); err != nil {
		t.Errorf("generated mnemonic should validate: %v", err)
	}
}
