package modules

import (
	"strings"
	"time"

	"github.com/latch-lang/latch/internal/value"
)

// timeModule wraps stdlib time; time.humanize is the one supplemental
// reader SPEC_FULL.md §4 adds (Duration.String() is good enough on its
// own, so it earns no new third-party dependency).
func timeModule() *value.Dict {
	return dictOf(
		builtin("now", 0, func(a []value.V) (value.V, error) {
			return value.Float(float64(time.Now().UnixNano()) / 1e9), nil
		}),
		builtin("sleep", 1, func(a []value.V) (value.V, error) {
			secs, err := wantNumber(a, 0, "time.sleep")
			if err != nil {
				return nil, err
			}
			time.Sleep(time.Duration(secs * float64(time.Second)))
			return value.Null, nil
		}),
		builtin("format", 2, func(a []value.V) (value.V, error) {
			secs, err := wantNumber(a, 0, "time.format")
			if err != nil {
				return nil, err
			}
			layout, err := wantString(a, 1, "time.format")
			if err != nil {
				return nil, err
			}
			t := time.Unix(0, int64(secs*1e9)).UTC()
			return value.String(t.Format(goLayout(layout))), nil
		}),
		builtin("humanize", 1, func(a []value.V) (value.V, error) {
			secs, err := wantNumber(a, 0, "time.humanize")
			if err != nil {
				return nil, err
			}
			return value.String(time.Duration(secs * float64(time.Second)).String()), nil
		}),
	)
}

// goLayout translates the small set of strftime-style tokens spec.md's
// examples use into Go's reference-time layout, since Latch scripts write
// format strings the shell-scripting way, not Go's.
func goLayout(pattern string) string {
	replacer := strings.NewReplacer(
		"%Y", "2006", "%m", "01", "%d", "02",
		"%H", "15", "%M", "04", "%S", "05",
	)
	return replacer.Replace(pattern)
}
