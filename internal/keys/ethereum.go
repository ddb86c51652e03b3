package keys

import (
	"encoding/hex"
	"errors"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"golang.org/x/crypto/sha3"

	"github.com/helioswallet/helios/internal/walleterr"
)

// EthereumAddress converts a secp256k1 public key to a lowercase hex
// Ethereum address: 0x followed by the last 20 bytes of the Keccak-256 hash
// of the uncompressed public key without its 0x04 prefix. Use
// ChecksumAddress for EIP-55 display formatting.
func EthereumAddress(pub []byte) (string, error) {
	const op = "keys.EthereumAddress"

	pubKey, err := btcec.ParsePubKey(pub)
	if err != nil {
		return "", walleterr.E(walleterr.InvalidAddress, op, err)
	}

	uncompressed := pubKey.SerializeUncompressed()

	h := sha3.NewLegacyKeccak256()
	h.Write(uncompressed[1:])
	hash := h.Sum(nil)

	return "0x" + hex.EncodeToString(hash[12:]), nil
}

// ChecksumAddress applies EIP-55 mixed-case checksum encoding to an address.
func ChecksumAddress(address string) (string, error) {
	const op = "keys.ChecksumAddress"

	addr := strings.ToLower(strings.TrimPrefix(address, "0x"))
	if len(addr) != 40 {
		return "", walleterr.Errorf(walleterr.InvalidAddress, op,
			"address is %d hex chars, want 40", len(addr))
	}
	if _, err := hex.DecodeString(addr); err != nil {
		return "", walleterr.E(walleterr.InvalidAddress, op, err)
	}

	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(addr))
	hash := hex.EncodeToString(h.Sum(nil))

	result := make([]byte, 40)
	for i := 0; i < 40; i++ {
		c := addr[i]
		if c >= 'a' && c <= 'f' && hash[i] >= '8' {
			c -= 'a' - 'A'
		}
		result[i] = c
	}
	return "0x" + string(result), nil
}

// ValidateEthereumAddress checks the 0x prefix, length, and hex content of
// an address. Mixed-case addresses must additionally satisfy the EIP-55
// checksum; all-lowercase and all-uppercase addresses skip it.
func ValidateEthereumAddress(address string) error {
	const op = "keys.ValidateEthereumAddress"

	if !strings.HasPrefix(address, "0x") {
		return walleterr.E(walleterr.InvalidAddress, op,
			errors.New("address missing 0x prefix"))
	}
	hexPart := address[2:]
	if len(hexPart) != 40 {
		return walleterr.Errorf(walleterr.InvalidAddress, op,
			"address is %d hex chars, want 40", len(hexPart))
	}
	if _, err := hex.DecodeString(hexPart); err != nil {
		return walleterr.E(walleterr.InvalidAddress, op, err)
	}

	if hexPart == strings.ToLower(hexPart) || hexPart == strings.ToUpper(hexPart) {
		return nil
	}

	checksummed, err := ChecksumAddress(address)
	if err != nil {
		return err
	}
	if checksummed != address {
		return walleterr.E(walleterr.InvalidAddress, op,
			errors.New("EIP-55 checksum mismatch"))
	}
	return nil
}
