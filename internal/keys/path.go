package keys

import (
	"strconv"
	"strings"

	"github.com/helioswallet/helios/internal/walleterr"
)

// HardenedOffset marks a derivation index as hardened.
const HardenedOffset uint32 = 0x80000000

// DerivationPath is a parsed BIP32/SLIP-10 derivation path. Each element is
// a raw child index; hardened indices carry the HardenedOffset bit.
type DerivationPath []uint32

// ParsePath parses a path string like "m/44'/60'/0'/0/0" into indices.
// The "m/" prefix is required, segments are decimal and must be below 2^31,
// and a trailing ' or h marks a hardened segment.
func ParsePath(s string) (DerivationPath, error) {
	const op = "keys.ParsePath"

	if s == "m" {
		return DerivationPath{}, nil
	}
	if !strings.HasPrefix(s, "m/") {
		return nil, walleterr.Errorf(walleterr.InvalidDerivationPath, op,
			"path %q missing m/ prefix", s)
	}

	segments := strings.Split(s[2:], "/")
	path := make(DerivationPath, 0, len(segments))
	for _, seg := range segments {
		if seg == "" {
			return nil, walleterr.Errorf(walleterr.InvalidDerivationPath, op,
				"path %q has an empty segment", s)
		}

		hardened := false
		if strings.HasSuffix(seg, "'") || strings.HasSuffix(seg, "h") || strings.HasSuffix(seg, "H") {
			hardened = true
			seg = seg[:len(seg)-1]
		}

		index, err := strconv.ParseUint(seg, 10, 32)
		if err != nil {
			return nil, walleterr.Errorf(walleterr.InvalidDerivationPath, op,
				"path segment %q is not a decimal index", seg)
		}
		if index >= uint64(HardenedOffset) {
			return nil, walleterr.Errorf(walleterr.InvalidDerivationPath, op,
				"path index %d exceeds 2^31-1", index)
		}

		idx := uint32(index)
		if hardened {
			idx += HardenedOffset
		}
		path = append(path, idx)
	}
	return path, nil
}

// String renders the path in canonical form with ' hardened markers.
// ParsePath(p.String()) round-trips.
func (p DerivationPath) String() string {
	var b strings.Builder
	b.WriteString("m")
	for _, idx := range p {
		b.WriteString("/")
		if idx >= HardenedOffset {
			b.WriteString(strconv.FormatUint(uint64(idx-HardenedOffset), 10))
			b.WriteString("'")
		} else {
			b.WriteString(strconv.FormatUint(uint64(idx), 10))
		}
	}
	return b.String()
}

// AllHardened reports whether every segment carries the hardened bit.
// Ed25519 derivation requires this.
func (p DerivationPath) AllHardened() bool {
	for _, idx := range p {
		if idx < HardenedOffset {
			return false
		}
	}
	return true
}
