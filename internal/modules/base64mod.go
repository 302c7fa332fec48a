package modules

import (
	"encoding/base64"

	"github.com/latch-lang/latch/internal/value"
)

func base64Module() *value.Dict {
	return dictOf(
		builtin("encode", 1, func(a []value.V) (value.V, error) {
			s, err := wantString(a, 0, "base64.encode")
			if err != nil {
				return nil, err
			}
			return value.String(base64.StdEncoding.EncodeToString([]byte(s))), nil
		}),
		builtin("decode", 1, func(a []value.V) (value.V, error) {
			s, err := wantString(a, 0, "base64.decode")
			if err != nil {
				return nil, err
			}
			b, decErr := base64.StdEncoding.DecodeString(s)
			if decErr != nil {
				return nil, valErr("base64.decode: %s", decErr)
			}
			return value.String(b), nil
		}),
	)
}
