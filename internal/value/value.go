// Package value defines the Latch runtime value model: the closed sum V
// from spec.md §3 plus its formatting and deep-equality rules.
package value

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/latch-lang/latch/internal/ast"
)

// Kind tags the dynamic type of a V for typeof() and type-error messages.
type Kind string

const (
	KInt      Kind = "int"
	KFloat    Kind = "float"
	KBool     Kind = "bool"
	KString   Kind = "string"
	KNull     Kind = "null"
	KList     Kind = "list"
	KDict     Kind = "dict"
	KFn       Kind = "fn"
	KBuiltin  Kind = "builtin"
	KProcess  Kind = "process"
	KResponse Kind = "response"
	KClass    Kind = "class"
	KInstance Kind = "instance"
)

// V is any Latch runtime value.
type V interface {
	Kind() Kind
	String() string
}

type Int int64

func (Int) Kind() Kind        { return KInt }
func (i Int) String() string  { return strconv.FormatInt(int64(i), 10) }

type Float float64

func (Float) Kind() Kind { return KFloat }
func (f Float) String() string {
	v := float64(f)
	if v != 0 && (math.Abs(v) < 1e-4 || math.Abs(v) >= 1e15) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

type Bool bool

func (Bool) Kind() Kind       { return KBool }
func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}

type String string

func (String) Kind() Kind       { return KString }
func (s String) String() string { return string(s) }

type nullT struct{}

func (nullT) Kind() Kind       { return KNull }
func (nullT) String() string   { return "null" }

// Null is the sole absence value.
var Null V = nullT{}

// List is reference-typed: sharing a *List aliases mutations.
type List struct {
	Items []V
}

func NewList(items []V) *List { return &List{Items: items} }

func (*List) Kind() Kind { return KList }
func (l *List) String() string {
	parts := make([]string, len(l.Items))
	for i, it := range l.Items {
		parts[i] = Repr(it)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Dict is reference-typed and string-keyed, backed by an insertion-ordered
// map; formatting and keys()/values()/items() re-sort ascending on read
// (spec.md §3: "iteration order of keys(d) ... is by sorted key").
type Dict struct {
	m *orderedmap.OrderedMap[string, V]
}

func NewDict() *Dict {
	return &Dict{m: orderedmap.New[string, V]()}
}

func (*Dict) Kind() Kind { return KDict }

func (d *Dict) Get(key string) (V, bool) {
	return d.m.Get(key)
}

func (d *Dict) Set(key string, v V) {
	d.m.Set(key, v)
}

func (d *Dict) Delete(key string) bool {
	_, ok := d.m.Delete(key)
	return ok
}

func (d *Dict) Len() int { return d.m.Len() }

// SortedKeys returns the dict's keys in ascending order.
func (d *Dict) SortedKeys() []string {
	keys := make([]string, 0, d.m.Len())
	for pair := d.m.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	sort.Strings(keys)
	return keys
}

func (d *Dict) String() string {
	keys := d.SortedKeys()
	parts := make([]string, len(keys))
	for i, k := range keys {
		v, _ := d.Get(k)
		parts[i] = strconv.Quote(k) + ": " + Repr(v)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Env is the minimal scope interface the value package needs to describe a
// closure without importing internal/interp (which imports value); the
// concrete *interp.Environment satisfies it.
type Env interface {
	Child() Env
}

// Fn is a user-defined closure: captured defining scope, parameter list,
// and body AST.
type Fn struct {
	Name   string
	Params []ast.Param
	Body   []ast.Stmt
	Env    Env
}

func (*Fn) Kind() Kind { return KFn }
func (f *Fn) String() string {
	if f.Name == "" {
		return "<fn>"
	}
	return "<fn " + f.Name + ">"
}

// BuiltinFn is a host-provided callable. Impl receives already-evaluated
// args and returns a value or an error (host modules return a
// *modules.ModErr, which the interpreter converts to its own runtime error
// kinds; this package stays decoupled from both).
type BuiltinFn struct {
	Name  string
	Arity int // -1 means variadic/unchecked
	Impl  func(args []V) (V, error)
}

func (*BuiltinFn) Kind() Kind        { return KBuiltin }
func (b *BuiltinFn) String() string  { return "<fn " + b.Name + ">" }

// Process is the record type produced by proc.* builtins.
type Process struct {
	Stdout string
	Stderr string
	Code   int64
}

func (*Process) Kind() Kind { return KProcess }
func (p *Process) String() string {
	return fmt.Sprintf("<process code=%d>", p.Code)
}

// Response is the record type produced by http.* builtins.
type Response struct {
	Status  int64
	Body    string
	Headers *Dict
}

func (*Response) Kind() Kind { return KResponse }
func (r *Response) String() string {
	return fmt.Sprintf("<response status=%d>", r.Status)
}

// Class is a template of field names and method closures.
type Class struct {
	Name    string
	Fields  []string
	Methods map[string]*Fn
}

func (*Class) Kind() Kind       { return KClass }
func (c *Class) String() string { return "<class " + c.Name + ">" }

// Instance is a mutable field map plus its class handle.
type Instance struct {
	Class  *Class
	Fields map[string]V
}

func (*Instance) Kind() Kind { return KInstance }
func (i *Instance) String() string {
	var b strings.Builder
	b.WriteString("<")
	b.WriteString(i.Class.Name)
	for _, f := range i.Class.Fields {
		fmt.Fprintf(&b, " %s=%s", f, Repr(i.Fields[f]))
	}
	b.WriteString(">")
	return b.String()
}

// Repr formats v the way it appears nested inside a List/Dict: strings are
// quoted there even though String() (the bare-print form) leaves them
// unquoted (spec.md §6: "String: unquoted" vs "List/Dict ... strings
// quoted").
func Repr(v V) string {
	if s, ok := v.(String); ok {
		return strconv.Quote(string(s))
	}
	return v.String()
}

// Truthy implements spec.md §4.4: false, null, numeric zero, and "" are
// falsy; everything else (including empty lists/dicts) is truthy.
func Truthy(v V) bool {
	switch t := v.(type) {
	case Bool:
		return bool(t)
	case nullT:
		return false
	case Int:
		return t != 0
	case Float:
		return t != 0
	case String:
		return t != ""
	default:
		return true
	}
}

// Equal implements spec.md §4.4 deep structural equality with numeric
// cross-type comparison.
func Equal(a, b V) bool {
	switch x := a.(type) {
	case Int:
		switch y := b.(type) {
		case Int:
			return x == y
		case Float:
			return float64(x) == float64(y)
		}
		return false
	case Float:
		switch y := b.(type) {
		case Int:
			return float64(x) == float64(y)
		case Float:
			return x == y
		}
		return false
	case Bool:
		y, ok := b.(Bool)
		return ok && x == y
	case String:
		y, ok := b.(String)
		return ok && x == y
	case nullT:
		_, ok := b.(nullT)
		return ok
	case *List:
		y, ok := b.(*List)
		if !ok || len(x.Items) != len(y.Items) {
			return false
		}
		for i := range x.Items {
			if !Equal(x.Items[i], y.Items[i]) {
				return false
			}
		}
		return true
	case *Dict:
		y, ok := b.(*Dict)
		if !ok || x.Len() != y.Len() {
			return false
		}
		for _, k := range x.SortedKeys() {
			xv, _ := x.Get(k)
			yv, ok := y.Get(k)
			if !ok || !Equal(xv, yv) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}

// TypeName renders a Kind for error messages, e.g. "TypeError: expected
// string, got int".
func TypeName(v V) string { return string(v.Kind()) }
