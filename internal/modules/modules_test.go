package modules

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latch-lang/latch/internal/value"
)

func call(t *testing.T, d *value.Dict, name string, args ...value.V) (value.V, error) {
	t.Helper()
	v, ok := d.Get(name)
	require.True(t, ok, "module has no %q builtin", name)
	fn, ok := v.(*value.BuiltinFn)
	require.True(t, ok, "%q is not a builtin", name)
	return fn.Impl(args)
}

func TestJSONRoundTripPreservesIntVsFloat(t *testing.T) {
	m := jsonModule()
	parsed, err := call(t, m, "parse", value.String(`{"a": 1, "b": 1.5, "c": [1, 2, 3]}`))
	require.NoError(t, err)
	d := parsed.(*value.Dict)
	a, _ := d.Get("a")
	b, _ := d.Get("b")
	assert.IsType(t, value.Int(0), a)
	assert.IsType(t, value.Float(0), b)

	out, err := call(t, m, "stringify", parsed)
	require.NoError(t, err)
	assert.Contains(t, out.(value.String), `"a": 1`)
	assert.Contains(t, out.(value.String), `"b": 1.5`)
}

func TestJSONParseRejectsInvalidInput(t *testing.T) {
	m := jsonModule()
	_, err := call(t, m, "parse", value.String(`{not json`))
	require.Error(t, err)
	var me *ModErr
	require.ErrorAs(t, err, &me)
	assert.Equal(t, "ParseError", me.Kind)
}

func TestPathJoinIsVariadic(t *testing.T) {
	m := pathModule()
	out, err := call(t, m, "join", value.String("a"), value.String("b"), value.String("c"))
	require.NoError(t, err)
	assert.Equal(t, "a/b/c", string(out.(value.String)))

	out1, err := call(t, m, "join", value.String("solo"))
	require.NoError(t, err)
	assert.Equal(t, "solo", string(out1.(value.String)))
}

func TestPathBasenameAndExt(t *testing.T) {
	m := pathModule()
	base, err := call(t, m, "basename", value.String("/a/b/report.csv"))
	require.NoError(t, err)
	assert.Equal(t, "report.csv", string(base.(value.String)))

	ext, err := call(t, m, "ext", value.String("/a/b/report.csv"))
	require.NoError(t, err)
	assert.Equal(t, ".csv", string(ext.(value.String)))
}

func TestMathMinMaxAndRounding(t *testing.T) {
	m := mathModule()
	min, err := call(t, m, "min", value.Int(3), value.Int(-1))
	require.NoError(t, err)
	assert.Equal(t, value.Int(-1), min)

	max, err := call(t, m, "max", value.Float(2.5), value.Int(2))
	require.NoError(t, err)
	assert.Equal(t, value.Float(2.5), max)

	floor, err := call(t, m, "floor", value.Float(3.7))
	require.NoError(t, err)
	assert.Equal(t, value.Int(3), floor)

	abs, err := call(t, m, "abs", value.Int(-5))
	require.NoError(t, err)
	assert.Equal(t, value.Int(5), abs)
}

func TestSetDowngradesFromBitsetOnNonIntMember(t *testing.T) {
	m := setModule()
	handle, err := call(t, m, "new")
	require.NoError(t, err)

	_, err = call(t, m, "add", handle, value.Int(3))
	require.NoError(t, err)
	_, err = call(t, m, "add", handle, value.Int(7))
	require.NoError(t, err)

	has, err := call(t, m, "has", handle, value.Int(3))
	require.NoError(t, err)
	assert.Equal(t, value.Bool(true), has)

	s := liveSets[handle.(*value.Dict)]
	assert.True(t, s.useBits)

	_, err = call(t, m, "add", handle, value.String("x"))
	require.NoError(t, err)
	assert.False(t, s.useBits, "adding a non-int member must downgrade the bitset")

	hasStr, err := call(t, m, "has", handle, value.String("x"))
	require.NoError(t, err)
	assert.Equal(t, value.Bool(true), hasStr)

	stillHas3, err := call(t, m, "has", handle, value.Int(3))
	require.NoError(t, err)
	assert.Equal(t, value.Bool(true), stillHas3, "existing bitset members must survive the downgrade")
}

func TestSetOperationsOnNonSetDictError(t *testing.T) {
	m := setModule()
	_, err := call(t, m, "has", value.NewDict(), value.Int(1))
	require.Error(t, err)
	var me *ModErr
	require.ErrorAs(t, err, &me)
	assert.Equal(t, "TypeError", me.Kind)
}

func TestBase64RoundTrip(t *testing.T) {
	m := base64Module()
	enc, err := call(t, m, "encode", value.String("hello world"))
	require.NoError(t, err)
	dec, err := call(t, m, "decode", enc)
	require.NoError(t, err)
	assert.Equal(t, value.String("hello world"), dec)
}

func TestBase64DecodeRejectsInvalidInput(t *testing.T) {
	m := base64Module()
	_, err := call(t, m, "decode", value.String("not valid base64!!"))
	require.Error(t, err)
}

func TestHashFunctionsAreDeterministic(t *testing.T) {
	m := hashModule()
	a, err := call(t, m, "sha256", value.String("latch"))
	require.NoError(t, err)
	b, err := call(t, m, "sha256", value.String("latch"))
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, string(a.(value.String)), 64)

	md5sum, err := call(t, m, "md5", value.String("latch"))
	require.NoError(t, err)
	assert.Len(t, string(md5sum.(value.String)), 32)
}

func TestCSVRoundTrip(t *testing.T) {
	m := csvModule()
	rows, err := call(t, m, "parse", value.String("a,b\n1,2\n"))
	require.NoError(t, err)
	list := rows.(*value.List)
	require.Len(t, list.Items, 2)

	out, err := call(t, m, "stringify", rows)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", string(out.(value.String)))
}

func TestEnvGetFallsBackToDefault(t *testing.T) {
	m := envModule()
	os.Unsetenv("LATCH_TEST_UNSET_VAR")
	v, err := call(t, m, "get", value.String("LATCH_TEST_UNSET_VAR"), value.String("fallback"))
	require.NoError(t, err)
	assert.Equal(t, value.String("fallback"), v)

	os.Setenv("LATCH_TEST_INT_VAR", "42")
	defer os.Unsetenv("LATCH_TEST_INT_VAR")
	iv, err := call(t, m, "int", value.String("LATCH_TEST_INT_VAR"), value.Int(0))
	require.NoError(t, err)
	assert.Equal(t, value.Int(42), iv)
}

func TestEnvIntRejectsNonNumericValue(t *testing.T) {
	m := envModule()
	os.Setenv("LATCH_TEST_BAD_INT", "not-a-number")
	defer os.Unsetenv("LATCH_TEST_BAD_INT")
	_, err := call(t, m, "int", value.String("LATCH_TEST_BAD_INT"), value.Int(0))
	require.Error(t, err)
	var me *ModErr
	require.ErrorAs(t, err, &me)
	assert.Equal(t, "ValueError", me.Kind)
}

func TestTimeFormatUsesStrftimeStyleTokens(t *testing.T) {
	m := timeModule()
	out, err := call(t, m, "format", value.Float(0), value.String("%Y-%m-%d"))
	require.NoError(t, err)
	assert.Equal(t, "1970-01-01", string(out.(value.String)))
}

func TestRegexFindAndSplit(t *testing.T) {
	m := regexModule()
	found, err := call(t, m, "find", value.String(`\d+`), value.String("abc 123 def"))
	require.NoError(t, err)
	assert.Equal(t, value.String("123"), found)

	parts, err := call(t, m, "split", value.String(`\s+`), value.String("a  b c"))
	require.NoError(t, err)
	list := parts.(*value.List)
	want := []string{"a", "b", "c"}
	require.Len(t, list.Items, len(want))
	for i, w := range want {
		assert.Equal(t, value.String(w), list.Items[i])
	}
}

func TestRegexReplace(t *testing.T) {
	m := regexModule()
	out, err := call(t, m, "replace", value.String(`o`), value.String("foo"), value.String("0"))
	require.NoError(t, err)
	assert.Equal(t, value.String("f00"), out)
}
