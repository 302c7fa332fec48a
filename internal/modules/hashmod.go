package modules

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/blake2b"

	"github.com/latch-lang/latch/internal/value"
)

// hashModule mixes two stdlib digests with golang.org/x/crypto/blake2b,
// the faster modern hash the pack reaches for once sha256 isn't fast
// enough for hashing large local files (SPEC_FULL.md §3's hash row).
func hashModule() *value.Dict {
	return dictOf(
		builtin("sha256", 1, func(a []value.V) (value.V, error) {
			s, err := wantString(a, 0, "hash.sha256")
			if err != nil {
				return nil, err
			}
			sum := sha256.Sum256([]byte(s))
			return value.String(hex.EncodeToString(sum[:])), nil
		}),
		builtin("md5", 1, func(a []value.V) (value.V, error) {
			s, err := wantString(a, 0, "hash.md5")
			if err != nil {
				return nil, err
			}
			sum := md5.Sum([]byte(s))
			return value.String(hex.EncodeToString(sum[:])), nil
		}),
		builtin("blake2b", 1, func(a []value.V) (value.V, error) {
			s, err := wantString(a, 0, "hash.blake2b")
			if err != nil {
				return nil, err
			}
			sum := blake2b.Sum256([]byte(s))
			return value.String(hex.EncodeToString(sum[:])), nil
		}),
	)
}
