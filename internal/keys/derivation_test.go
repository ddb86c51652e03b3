package keys

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/helioswallet/helios/internal/chain"
	"github.com/helioswallet/helios/internal/walleterr"
)

func mustSeed(t *testing.T, mnemonic, passphrase string) []byte {
	t.Helper()
	seed, err := MnemonicToSeed(mnemonic, passphrase)
	if err != nil {
		t.Fatalf("MnemonicToSeed: %v", err)
	}
	return seed
}

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad hex %q: %v", s, err)
	}
	return b
}

// BIP32 test vector 1, seed 000102030405060708090a0b0c0d0e0f.
func TestBIP32Vector1(t *testing.T) {
	seed := mustHex(t, "000102030405060708090a0b0c0d0e0f")

	tests := []struct {
		path string
		priv string
	}{
		{"m", "e8f32e723decf4051aefac8e2c93c9c5b214313817cdb01a1494b917c8436b35"},
		{"m/0'", "edb2e14f9ee77d26dd93b4ecede8d16ed408ce149b6cd80b0715a2d911a0afea"},
		{"m/0'/1", "3c6cb8d0f6a264c91ea8b5030fadaa8e538b020f0a387421a12de9319dc93368"},
	}

	for _, tc := range tests {
		kp, err := DeriveKeyPair(seed, chain.KeyTypeBitcoin, tc.path)
		if err != nil {
			t.Fatalf("DeriveKeyPair(%s): %v", tc.path, err)
		}
		if got := hex.EncodeToString(kp.PrivateKey); got != tc.priv {
			t.Errorf("%s private key = %s, want %s", tc.path, got, tc.priv)
		}
		if len(kp.PublicKey) != 33 {
			t.Errorf("%s public key length = %d, want 33", tc.path, len(kp.PublicKey))
		}
	}
}

// SLIP-10 Ed25519 test vector 1, seed 000102030405060708090a0b0c0d0e0f.
func TestSLIP10Ed25519Vector1(t *testing.T) {
	seed := mustHex(t, "000102030405060708090a0b0c0d0e0f")

	tests := []struct {
		path string
		priv string
		pub  string
	}{
		{
			"m",
			"2b4be7f19ee27bbf30c667b642d5f4aa69fd169872f8fc3059c08ebae2eb19e7",
			"a4b2856bfec510abab89753fac1ac0e1112364e7d250545963f135f2a33188ed",
		},
		{
			"m/0'",
			"68e0fe46dfb67e368c75379acec591dad19df3cde26e63b93a8e704f1dade7a3",
			"8c8a13df77a28f3445213a0f432fde644acaa215fc72dcdf300d5efaa85d350c",
		},
	}

	for _, tc := range tests {
		kp, err := DeriveKeyPair(seed, chain.KeyTypeSolana, tc.path)
		if err != nil {
			t.Fatalf("DeriveKeyPair(%s): %v", tc.path, err)
		}
		// Ed25519 private keys are seed || public key; the vector lists
		// the 32-byte seed half.
		if got := hex.EncodeToString(kp.PrivateKey[:32]); got != tc.priv {
			t.Errorf("%s private key = %s, want %s", tc.path, got, tc.priv)
		}
		if got := hex.EncodeToString(kp.PublicKey); got != tc.pub {
			t.Errorf("%s public key = %s, want %s", tc.path, got, tc.pub)
		}
	}
}

func TestDeriveEthereumKnownAddress(t *testing.T) {
	seed := mustSeed(t, testMnemonic, "")

	kp, err := DeriveKeyPair(seed, chain.KeyTypeEthereum, "m/44'/60'/0'/0/0")
	if err != nil {
		t.Fatalf("DeriveKeyPair: %v", err)
	}

	addr, err := kp.Address(chain.Mainnet)
	if err != nil {
		t.Fatalf("Address: %v", err)
	}
	if addr != "0x9858effd232b4033e47d90003d41ec34ecaeda94" {
		t.Errorf("address = %s, want 0x9858effd232b4033e47d90003d41ec34ecaeda94", addr)
	}
}

func TestDeriveBitcoinKnownAddress(t *testing.T) {
	seed := mustSeed(t, testMnemonic, "")

	kp, err := DeriveKeyPair(seed, chain.KeyTypeBitcoin, "m/44'/0'/0'/0/0")
	if err != nil {
		t.Fatalf("DeriveKeyPair: %v", err)
	}

	addr, err := kp.Address(chain.Mainnet)
	if err != nil {
		t.Fatalf("Address: %v", err)
	}
	if addr != "1LqBGSKuX5yYUonjxT5qGfpUsXKYYWeabA" {
		t.Errorf("address = %s, want 1LqBGSKuX5yYUonjxT5qGfpUsXKYYWeabA", addr)
	}
}

func TestDeriveSolanaDeterministic(t *testing.T) {
	seed := mustSeed(t, testMnemonic, "")

	kp1, err := DeriveKeyPair(seed, chain.KeyTypeSolana, "m/44'/501'/0'/0'")
	if err != nil {
		t.Fatalf("DeriveKeyPair: %v", err)
	}
	kp2, err := DeriveKeyPair(seed, chain.KeyTypeSolana, "m/44'/501'/0'/0'")
	if err != nil {
		t.Fatalf("DeriveKeyPair: %v", err)
	}

	if !bytes.Equal(kp1.PrivateKey, kp2.PrivateKey) {
		t.Error("same path produced different private keys")
	}
	if !bytes.Equal(kp1.PublicKey, kp2.PublicKey) {
		t.Error("same path produced different public keys")
	}
	if len(kp1.PrivateKey) != 64 {
		t.Errorf("private key length = %d, want 64", len(kp1.PrivateKey))
	}
	if len(kp1.PublicKey) != 32 {
		t.Errorf("public key length = %d, want 32", len(kp1.PublicKey))
	}
	if !IsOnCurve(kp1.PublicKey) {
		t.Error("derived public key should be on curve")
	}
}

func TestDeriveSolanaRejectsNonHardened(t *testing.T) {
	seed := mustSeed(t, testMnemonic, "")

	_, err := DeriveKeyPair(seed, chain.KeyTypeSolana, "m/44'/501'/0'/0/0")
	if err == nil {
		t.Fatal("non-hardened segment should be rejected")
	}
	if !walleterr.Is(err, walleterr.InvalidDerivationPath) {
		t.Errorf("error kind = %q, want invalid_derivation_path", walleterr.KindOf(err))
	}
}

func TestDeriveDifferentPathsDifferentKeys(t *testing.T) {
	seed := mustSeed(t, testMnemonic, "")

	kp0, err := DeriveKeyPair(seed, chain.KeyTypeEthereum, "m/44'/60'/0'/0/0")
	if err != nil {
		t.Fatal(err)
	}
	kp1, err := DeriveKeyPair(seed, chain.KeyTypeEthereum, "m/44'/60'/0'/0/1")
	if err != nil {
		t.Fatal(err)
	}

	if bytes.Equal(kp0.PrivateKey, kp1.PrivateKey) {
		t.Error("different paths produced the same private key")
	}
}

func TestDeriveErrors(t *testing.T) {
	seed := mustSeed(t, testMnemonic, "")

	_, err := DeriveKeyPair(seed, chain.KeyTypeEthereum, "44'/60'/0'/0/0")
	if !walleterr.Is(err, walleterr.InvalidDerivationPath) {
		t.Errorf("missing prefix: kind = %q, want invalid_derivation_path", walleterr.KindOf(err))
	}

	_, err = DeriveKeyPair([]byte{1, 2, 3}, chain.KeyTypeEthereum, "m/44'/60'/0'/0/0")
	if !walleterr.Is(err, walleterr.KeyDerivation) {
		t.Errorf("short seed: kind = %q, want key_derivation", walleterr.KindOf(err))
	}

	_, err = DeriveKeyPair(seed, chain.KeyType("monero"), "m/44'/128'/0'/0/0")
	if !walleterr.Is(err, walleterr.KeyDerivation) {
		t.Errorf("bad key type: kind = %q, want key_derivation", walleterr.KindOf(err))
	}
}

func TestFromPrivateKey(t *testing.T) {
	seed := mustSeed(t, testMnemonic, "")

	derived, err := DeriveKeyPair(seed, chain.KeyTypeEthereum, "m/44'/60'/0'/0/0")
	if err != nil {
		t.Fatal(err)
	}

	imported, err := FromPrivateKey(chain.KeyTypeEthereum, derived.PrivateKey)
	if err != nil {
		t.Fatalf("FromPrivateKey: %v", err)
	}
	if !bytes.Equal(imported.PublicKey, derived.PublicKey) {
		t.Error("imported key has different public key")
	}

	solDerived, err := DeriveKeyPair(seed, chain.KeyTypeSolana, "m/44'/501'/0'/0'")
	if err != nil {
		t.Fatal(err)
	}
	solImported, err := FromPrivateKey(chain.KeyTypeSolana, solDerived.PrivateKey)
	if err != nil {
		t.Fatalf("FromPrivateKey(solana): %v", err)
	}
	if !bytes.Equal(solImported.PublicKey, solDerived.PublicKey) {
		t.Error("imported solana key has different public key")
	}
}

func TestFromPrivateKeyInvalid(t *testing.T) {
	tests := []struct {
		name    string
		keyType chain.KeyType
		priv    []byte
	}{
		{"secp256k1 short", chain.KeyTypeEthereum, make([]byte, 16)},
		{"secp256k1 zero", chain.KeyTypeBitcoin, make([]byte, 32)},
		{"ed25519 wrong length", chain.KeyTypeSolana, make([]byte, 48)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FromPrivateKey(tc.keyType, tc.priv)
			if err == nil {
				t.Fatal("expected error")
			}
			if !walleterr.Is(err, walleterr.InvalidPrivateKey) {
				t.Errorf("kind = %q, want invalid_private_key", walleterr.KindOf(err))
			}
		})
	}
}

func TestKeyPairWipe(t *testing.T) {
	seed := mustSeed(t, testMnemonic, "")

	kp, err := DeriveKeyPair(seed, chain.KeyTypeEthereum, "m/44'/60'/0'/0/0")
	if err != nil {
		t.Fatal(err)
	}

	kp.Wipe()
	for _, b := range kp.PrivateKey {
		if b != 0 {
			t.Fatal("private key not zeroed after Wipe")
		}
	}
}
