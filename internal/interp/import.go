package interp

import "github.com/latch-lang/latch/internal/ast"

// execImport resolves `use <module>` and `import a, b in <module>` against
// the host module registry (internal/modules.Registry()). A caching
// module resolver for Latch-authored source files is a declared
// Non-goal (SPEC_FULL.md §6); only built-in host modules are importable.
func (it *Interp) execImport(n *ast.Import, env *Environment) error {
	mod, ok := it.Modules[n.Source]
	if !ok {
		return newErrHint(Undefined, n.Span(), "check the module name against the built-in module list",
			"no such module '%s'", n.Source)
	}
	if len(n.Names) == 0 {
		env.Define(n.Source, mod, false)
		return nil
	}
	for _, name := range n.Names {
		v, found := mod.Get(name)
		if !found {
			return newErr(Undefined, n.Span(), "module '%s' has no member '%s'", n.Source, name)
		}
		env.Define(name, v, false)
	}
	return nil
}
