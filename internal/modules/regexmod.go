package modules

import (
	"github.com/dlclark/regexp2"

	"github.com/latch-lang/latch/internal/value"
)

// regexModule is grounded on the backtracking engine the pack's string
// processing examples reach for once lookaround/backreferences matter,
// rather than RE2-restricted regexp (SPEC_FULL.md §3's regex row).
func regexModule() *value.Dict {
	return dictOf(
		builtin("match", 2, func(a []value.V) (value.V, error) {
			re, s, err := compileAndSubject(a, "regex.match")
			if err != nil {
				return nil, err
			}
			m, matchErr := re.FindStringMatch(s)
			if matchErr != nil {
				return nil, parseErr("regex.match: %s", matchErr)
			}
			return value.Bool(m != nil), nil
		}),
		builtin("find", 2, func(a []value.V) (value.V, error) {
			re, s, err := compileAndSubject(a, "regex.find")
			if err != nil {
				return nil, err
			}
			m, matchErr := re.FindStringMatch(s)
			if matchErr != nil {
				return nil, parseErr("regex.find: %s", matchErr)
			}
			if m == nil {
				return value.Null, nil
			}
			return value.String(m.String()), nil
		}),
		builtin("findAll", 2, func(a []value.V) (value.V, error) {
			re, s, err := compileAndSubject(a, "regex.findAll")
			if err != nil {
				return nil, err
			}
			var out []value.V
			m, matchErr := re.FindStringMatch(s)
			for m != nil && matchErr == nil {
				out = append(out, value.String(m.String()))
				m, matchErr = re.FindNextMatch(m)
			}
			if matchErr != nil {
				return nil, parseErr("regex.findAll: %s", matchErr)
			}
			return value.NewList(out), nil
		}),
		builtin("replace", 3, func(a []value.V) (value.V, error) {
			re, s, err := compileAndSubject(a, "regex.replace")
			if err != nil {
				return nil, err
			}
			repl, err := wantString(a, 2, "regex.replace")
			if err != nil {
				return nil, err
			}
			out, replErr := re.Replace(s, repl, -1, -1)
			if replErr != nil {
				return nil, parseErr("regex.replace: %s", replErr)
			}
			return value.String(out), nil
		}),
		builtin("split", 2, func(a []value.V) (value.V, error) {
			re, s, err := compileAndSubject(a, "regex.split")
			if err != nil {
				return nil, err
			}
			var items []value.V
			last := 0
			m, matchErr := re.FindStringMatch(s)
			for m != nil && matchErr == nil {
				start, length := m.Index, m.Length
				items = append(items, value.String(s[last:start]))
				last = start + length
				m, matchErr = re.FindNextMatch(m)
			}
			if matchErr != nil {
				return nil, parseErr("regex.split: %s", matchErr)
			}
			items = append(items, value.String(s[last:]))
			return value.NewList(items), nil
		}),
	)
}

func compileAndSubject(a []value.V, fn string) (*regexp2.Regexp, string, error) {
	pattern, err := wantString(a, 0, fn)
	if err != nil {
		return nil, "", err
	}
	subject, err := wantString(a, 1, fn)
	if err != nil {
		return nil, "", err
	}
	re, compileErr := regexp2.Compile(pattern, regexp2.None)
	if compileErr != nil {
		return nil, "", parseErr("%s: bad pattern: %s", fn, compileErr)
	}
	return re, subject, nil
}
