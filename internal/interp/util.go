package interp

import "github.com/latch-lang/latch/internal/token"

// token0 is the zero span used for errors with no specific AST node.
func token0() token.Span { return token.Span{} }
