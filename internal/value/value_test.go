package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFloatString(t *testing.T) {
	tests := []struct {
		name  string
		input Float
		want  string
	}{
		{"integral float keeps .0", Float(3), "3.0"},
		{"fractional float", Float(3.5), "3.5"},
		{"tiny magnitude uses exponent", Float(0.00001), "1e-05"},
		{"huge magnitude uses exponent", Float(1e16), "1e+16"},
		{"mid magnitude stays decimal", Float(123456.789), "123456.789"},
		{"zero stays decimal", Float(0), "0.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.input.String())
		})
	}
}

func TestTruthy(t *testing.T) {
	assert.False(t, Truthy(Bool(false)))
	assert.False(t, Truthy(Null))
	assert.False(t, Truthy(Int(0)))
	assert.False(t, Truthy(Float(0)))
	assert.False(t, Truthy(String("")))
	assert.True(t, Truthy(Int(1)))
	assert.True(t, Truthy(String("x")))
	assert.True(t, Truthy(NewList(nil)))
	assert.True(t, Truthy(NewDict()))
}

func TestEqualNumericCrossType(t *testing.T) {
	assert.True(t, Equal(Int(2), Float(2.0)))
	assert.True(t, Equal(Float(2.0), Int(2)))
	assert.False(t, Equal(Int(2), Float(2.1)))
	assert.False(t, Equal(Int(1), String("1")))
}

func TestEqualListsAndDictsDeep(t *testing.T) {
	a := NewList([]V{Int(1), NewList([]V{Int(2), Int(3)})})
	b := NewList([]V{Int(1), NewList([]V{Int(2), Int(3)})})
	c := NewList([]V{Int(1), NewList([]V{Int(2), Int(4)})})
	assert.True(t, Equal(a, b))
	assert.False(t, Equal(a, c))

	d1 := NewDict()
	d1.Set("b", Int(2))
	d1.Set("a", Int(1))
	d2 := NewDict()
	d2.Set("a", Int(1))
	d2.Set("b", Int(2))
	assert.True(t, Equal(d1, d2))
}

func TestDictSortedKeysAndFormatting(t *testing.T) {
	d := NewDict()
	d.Set("z", Int(1))
	d.Set("a", String("hi"))
	assert.Equal(t, []string{"a", "z"}, d.SortedKeys())
	assert.Equal(t, `{"a": "hi", "z": 1}`, d.String())
}

func TestReprQuotesNestedStringsNotBareOnes(t *testing.T) {
	assert.Equal(t, "hello", String("hello").String())
	assert.Equal(t, `"hello"`, Repr(String("hello")))
	l := NewList([]V{String("a"), Int(1)})
	assert.Equal(t, `["a", 1]`, l.String())
}
