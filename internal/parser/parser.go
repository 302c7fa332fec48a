// Package parser implements a Pratt (precedence-climbing) parser that
// turns Latch source into an *ast.Program (spec.md §4.2).
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/latch-lang/latch/internal/ast"
	"github.com/latch-lang/latch/internal/diag"
	"github.com/latch-lang/latch/internal/lexer"
	"github.com/latch-lang/latch/internal/token"
)

// Parser consumes a pre-scanned token slice and produces an AST plus any
// parse diagnostics. It never panics on malformed input: every parse
// function returns a best-effort node and records a diag.Diagnostic,
// resynchronizing at the next `}` or statement-starter keyword.
type Parser struct {
	file        string
	src         string
	toks        []token.Token
	pos         int
	Diagnostics diag.List
}

// New lexes src completely and returns a Parser ready to parse it.
func New(file, src string) *Parser {
	lx := lexer.New(file, src)
	toks := lx.All()
	p := &Parser{file: file, src: src, toks: toks}
	for _, d := range lx.Diagnostics {
		p.Diagnostics = append(p.Diagnostics, diag.New(diag.LexError, src, d.Span, d.Reason, d.Hint))
	}
	return p
}

// Parse is a convenience entry point: lex+parse file/src in one call.
func Parse(file, src string) (*ast.Program, diag.List) {
	p := New(file, src)
	prog := p.ParseProgram()
	return prog, p.Diagnostics
}

func (p *Parser) cur() token.Token     { return p.toks[p.pos] }
func (p *Parser) at(k token.Kind) bool { return p.cur().Kind == k }

func (p *Parser) peekAt(off int) token.Token {
	i := p.pos + off
	if i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[i]
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) errorf(sp token.Span, hint, format string, args ...any) {
	p.Diagnostics = append(p.Diagnostics, diag.New(diag.ParseError, p.src, sp, fmt.Sprintf(format, args...), hint))
}

// expect consumes the current token if it matches k, else records a
// diagnostic and leaves the cursor in place for resync to handle.
func (p *Parser) expect(k token.Kind, hint string) token.Token {
	if p.at(k) {
		return p.advance()
	}
	p.errorf(p.cur().Span, hint, "expected %s, found %s", k, p.cur().Kind)
	return token.Token{Kind: k, Span: p.cur().Span}
}

func (p *Parser) resync() {
	for !p.at(token.EOF) && !p.at(token.RBRACE) && !isStmtStarter(p.cur().Kind) {
		p.advance()
	}
}

func isStmtStarter(k token.Kind) bool {
	switch k {
	case token.KW_IF, token.KW_FOR, token.KW_WHILE, token.KW_PARALLEL, token.KW_FN,
		token.KW_RETURN, token.KW_YIELD, token.KW_TRY, token.KW_STOP, token.KW_BREAK,
		token.KW_CONTINUE, token.KW_CONST, token.KW_CLASS, token.KW_IMPORT, token.KW_EXPORT,
		token.KW_USE:
		return true
	}
	return false
}

func mkSpan(start, end token.Span) token.Span {
	return token.Span{File: start.File, Start: start.Start, End: end.End}
}

// ParseProgram parses the whole token stream into top-level statements.
func (p *Parser) ParseProgram() *ast.Program {
	var stmts []ast.Stmt
	for !p.at(token.EOF) {
		before := p.pos
		stmts = append(stmts, p.parseStmt())
		if p.pos == before {
			p.advance() // guarantee forward progress on unrecognized input
		}
	}
	return &ast.Program{Stmts: stmts}
}

// ---- statements ----

func (p *Parser) parseBlock() []ast.Stmt {
	p.expect(token.LBRACE, "add a { to start the block")
	var stmts []ast.Stmt
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		before := p.pos
		stmts = append(stmts, p.parseStmt())
		if p.pos == before {
			p.resync()
		}
	}
	p.expect(token.RBRACE, "add a } to close the block")
	return stmts
}

func (p *Parser) parseStmt() ast.Stmt {
	switch p.cur().Kind {
	case token.KW_IF:
		return p.parseIf()
	case token.KW_FOR:
		return p.parseFor()
	case token.KW_WHILE:
		return p.parseWhile()
	case token.KW_PARALLEL:
		return p.parseParallel()
	case token.KW_FN:
		return p.parseFnDecl()
	case token.KW_CLASS:
		return p.parseClassDecl()
	case token.KW_RETURN:
		return p.parseReturn()
	case token.KW_YIELD:
		return p.parseYield()
	case token.KW_TRY:
		return p.parseTry()
	case token.KW_STOP:
		return p.parseStop()
	case token.KW_BREAK:
		t := p.advance()
		return &ast.Break{Meta: ast.Meta{Sp: t.Span}}
	case token.KW_CONTINUE:
		t := p.advance()
		return &ast.Continue{Meta: ast.Meta{Sp: t.Span}}
	case token.KW_CONST:
		p.advance()
		return p.parseLet(true)
	case token.KW_IMPORT:
		return p.parseImport()
	case token.KW_EXPORT:
		return p.parseExport()
	case token.KW_USE:
		return p.parseUse()
	case token.IDENT:
		if p.peekAt(1).Kind == token.WALRUS || p.peekAt(1).Kind == token.COLON {
			return p.parseLet(false)
		}
		return p.parseAssignOrExpr()
	default:
		return p.parseAssignOrExpr()
	}
}

func (p *Parser) parseLet(isConst bool) ast.Stmt {
	start := p.cur().Span
	nameTok := p.expect(token.IDENT, "give the declared variable a name")
	typ := ""
	if p.at(token.COLON) {
		p.advance()
		if p.at(token.IDENT) {
			typ = p.advance().Text
		}
	}
	p.expect(token.WALRUS, "use := to declare a new variable")
	val := p.parseExpr()
	return &ast.Let{
		Meta: ast.Meta{Sp: mkSpan(start, p.cur().Span)},
		Name: nameTok.Text, Type: typ, Expr: val, IsConst: isConst,
	}
}

func (p *Parser) parseAssignOrExpr() ast.Stmt {
	start := p.cur().Span
	expr := p.parseExpr()
	if op, ok := assignOpFor(p.cur().Kind); ok {
		p.advance()
		rhs := p.parseExpr()
		return &ast.Assign{Meta: ast.Meta{Sp: mkSpan(start, p.cur().Span)}, Target: expr, Op: op, Rhs: rhs}
	}
	return &ast.ExprStmt{Meta: ast.Meta{Sp: mkSpan(start, p.cur().Span)}, Expr: expr}
}

func assignOpFor(k token.Kind) (ast.AssignOp, bool) {
	switch k {
	case token.EQ:
		return ast.AssignSet, true
	case token.PLUS_EQ:
		return ast.AssignAdd, true
	case token.MINUS_EQ:
		return ast.AssignSub, true
	case token.STAR_EQ:
		return ast.AssignMul, true
	case token.SLASH_EQ:
		return ast.AssignDiv, true
	case token.PERCENT_EQ:
		return ast.AssignMod, true
	}
	return 0, false
}

func (p *Parser) parseIf() ast.Stmt {
	start := p.cur().Span
	p.advance() // if
	var branches []ast.IfBranch
	cond := p.parseExpr()
	body := p.parseBlock()
	branches = append(branches, ast.IfBranch{Cond: cond, Body: body})
	var elseBody []ast.Stmt
	for p.at(token.KW_ELIF) {
		p.advance()
		c := p.parseExpr()
		b := p.parseBlock()
		branches = append(branches, ast.IfBranch{Cond: c, Body: b})
	}
	if p.at(token.KW_ELSE) {
		p.advance()
		if p.at(token.KW_IF) {
			// `else if` nests a whole If as the sole statement of the else
			// body (unlike `elif`, which adds a branch to this If).
			nested := p.parseIf().(*ast.If)
			elseBody = []ast.Stmt{nested}
		} else {
			elseBody = p.parseBlock()
		}
	}
	return &ast.If{Meta: ast.Meta{Sp: mkSpan(start, p.cur().Span)}, Branches: branches, Else: elseBody}
}

func (p *Parser) parseFor() ast.Stmt {
	start := p.cur().Span
	p.advance()
	name := p.expect(token.IDENT, "name the loop variable").Text
	p.expect(token.KW_IN, "add 'in' after the loop variable")
	iter := p.parseExpr()
	body := p.parseBlock()
	return &ast.For{Meta: ast.Meta{Sp: mkSpan(start, p.cur().Span)}, Var: name, Iter: iter, Body: body}
}

func (p *Parser) parseWhile() ast.Stmt {
	start := p.cur().Span
	p.advance()
	cond := p.parseExpr()
	body := p.parseBlock()
	return &ast.While{Meta: ast.Meta{Sp: mkSpan(start, p.cur().Span)}, Cond: cond, Body: body}
}

// parseParallel handles `parallel [workers=N] var in iter [workers=N] { body }`
// — `workers=N` may appear before or after the `in iter` clause, but only
// once (spec.md §4.2).
func (p *Parser) parseParallel() ast.Stmt {
	start := p.cur().Span
	p.advance()
	var workers ast.Expr
	tryWorkers := func() bool {
		if p.at(token.KW_WORKERS) {
			p.advance()
			p.expect(token.EQ, "use workers=<N>")
			workers = p.parseExpr()
			return true
		}
		return false
	}
	tryWorkers()
	name := p.expect(token.IDENT, "name the loop variable").Text
	p.expect(token.KW_IN, "add 'in' after the loop variable")
	iter := p.parseExpr()
	if workers == nil {
		tryWorkers()
	}
	body := p.parseBlock()
	return &ast.Parallel{Meta: ast.Meta{Sp: mkSpan(start, p.cur().Span)}, Var: name, Iter: iter, Workers: workers, Body: body}
}

func (p *Parser) parseFnDecl() ast.Stmt {
	start := p.cur().Span
	p.advance()
	name := p.expect(token.IDENT, "name the function").Text
	params := p.parseParams()
	body := p.parseBlock()
	return &ast.FnDecl{Meta: ast.Meta{Sp: mkSpan(start, p.cur().Span)}, Name: name, Params: params, Body: body}
}

func (p *Parser) parseParams() []ast.Param {
	p.expect(token.LPAREN, "open the parameter list with (")
	var params []ast.Param
	for !p.at(token.RPAREN) && !p.at(token.EOF) {
		pname := p.expect(token.IDENT, "name the parameter").Text
		var def ast.Expr
		if p.at(token.EQ) {
			p.advance()
			def = p.parseExpr()
		}
		params = append(params, ast.Param{Name: pname, Default: def})
		if p.at(token.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(token.RPAREN, "close the parameter list with )")
	return params
}

func (p *Parser) parseClassDecl() ast.Stmt {
	start := p.cur().Span
	p.advance()
	name := p.expect(token.IDENT, "name the class").Text
	p.expect(token.LBRACE, "open the class body with {")
	var fields []string
	var methods []ast.Method
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		if p.at(token.KW_FN) {
			p.advance()
			mname := p.expect(token.IDENT, "name the method").Text
			params := p.parseParams()
			body := p.parseBlock()
			methods = append(methods, ast.Method{Name: mname, Params: params, Body: body})
			continue
		}
		fields = append(fields, p.expect(token.IDENT, "name the field").Text)
	}
	p.expect(token.RBRACE, "close the class body with }")
	return &ast.ClassDecl{Meta: ast.Meta{Sp: mkSpan(start, p.cur().Span)}, Name: name, Fields: fields, Methods: methods}
}

func (p *Parser) parseReturn() ast.Stmt {
	start := p.cur().Span
	p.advance()
	var e ast.Expr
	if !p.atStmtEnd() {
		e = p.parseExpr()
	}
	return &ast.Return{Meta: ast.Meta{Sp: mkSpan(start, p.cur().Span)}, Expr: e}
}

func (p *Parser) parseYield() ast.Stmt {
	start := p.cur().Span
	p.advance()
	e := p.parseExpr()
	return &ast.Yield{Meta: ast.Meta{Sp: mkSpan(start, p.cur().Span)}, Expr: e}
}

// atStmtEnd is a light heuristic for optional trailing expressions
// (`return` with no value): true when the next token cannot start one.
func (p *Parser) atStmtEnd() bool {
	switch p.cur().Kind {
	case token.RBRACE, token.EOF:
		return true
	}
	return false
}

func (p *Parser) parseTry() ast.Stmt {
	start := p.cur().Span
	p.advance()
	body := p.parseBlock()
	p.expect(token.KW_CATCH, "a try block needs a catch clause")
	// The catch binding may be written `catch e` or `catch (e)`.
	hasParen := p.at(token.LPAREN)
	if hasParen {
		p.advance()
	}
	catchVar := p.expect(token.IDENT, "name the caught error").Text
	if hasParen {
		p.expect(token.RPAREN, "close the catch binding with )")
	}
	catchBody := p.parseBlock()
	var finallyBody []ast.Stmt
	if p.at(token.KW_FINALLY) {
		p.advance()
		finallyBody = p.parseBlock()
	}
	return &ast.Try{Meta: ast.Meta{Sp: mkSpan(start, p.cur().Span)}, Body: body, CatchVar: catchVar, CatchBody: catchBody, FinallyBody: finallyBody}
}

func (p *Parser) parseStop() ast.Stmt {
	start := p.cur().Span
	p.advance()
	var code ast.Expr
	if !p.atStmtEnd() {
		code = p.parseExpr()
	}
	return &ast.Stop{Meta: ast.Meta{Sp: mkSpan(start, p.cur().Span)}, Code: code}
}

// parseImport handles `import a, b in source`.
func (p *Parser) parseImport() ast.Stmt {
	start := p.cur().Span
	p.advance()
	var names []string
	for p.at(token.IDENT) {
		names = append(names, p.advance().Text)
		if p.at(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.KW_IN, "use 'in' to name the import source, e.g. import a, b in \"mymodule\"")
	src := ""
	if p.at(token.STRING) {
		src = p.advance().Text
	} else {
		src = p.expect(token.IDENT, "name the import source").Text
	}
	return &ast.Import{Meta: ast.Meta{Sp: mkSpan(start, p.cur().Span)}, Names: names, Source: src}
}

func (p *Parser) parseExport() ast.Stmt {
	start := p.cur().Span
	p.advance()
	var names []string
	for p.at(token.IDENT) {
		names = append(names, p.advance().Text)
		if p.at(token.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	return &ast.Export{Meta: ast.Meta{Sp: mkSpan(start, p.cur().Span)}, Names: names}
}

// parseUse handles `use <module>` — a bare host-module binding, modeled as
// an Import with no explicit Names (spec.md's AST names only Import/Export;
// `use` is sugar over the same node — see DESIGN.md).
func (p *Parser) parseUse() ast.Stmt {
	start := p.cur().Span
	p.advance()
	src := p.expect(token.IDENT, "name the module to use").Text
	return &ast.Import{Meta: ast.Meta{Sp: mkSpan(start, p.cur().Span)}, Source: src}
}

// ---- expressions: precedence-climbing chain, loosest to tightest ----
//
//	parsePipe        lvl 1  |>
//	parseTernary            ?:      (dedicated level, just above |>)
//	parseOrKeyword   lvl 2  or
//	parseNullCoalesce lvl 3 ??      (right-assoc)
//	parseOrOr        lvl 4  ||
//	parseAndAnd      lvl 5  &&
//	parseEquality    lvl 6  == !=
//	parseRelational  lvl 7  < > <= >= in
//	parseRangeExpr   lvl 8  ..      (non-assoc)
//	parseAdditive    lvl 9  + -
//	parseMultiplicative lvl 10 * / %
//	parsePower       lvl 11 **      (right-assoc)
//	parseUnary       lvl 12 prefix ! -
//	parsePostfix     lvl 13 . ?. [] [:] ()

func (p *Parser) parseExpr() ast.Expr { return p.parsePipe() }

func (p *Parser) parsePipe() ast.Expr {
	left := p.parseTernary()
	for p.at(token.PIPE) {
		p.advance()
		rhs := p.parseTernary()
		left = &ast.Pipe{Meta: ast.Meta{Sp: left.Span()}, Lhs: left, Call: normalizePipeRHS(rhs, left)}
	}
	return left
}

// normalizePipeRHS implements pipe-injection (spec.md §4.4): `x |> f(a,b)`
// becomes `f(x,a,b)`; `x |> f` (not a call) becomes `f(x)`.
func normalizePipeRHS(rhs ast.Expr, lhs ast.Expr) *ast.Call {
	if call, ok := rhs.(*ast.Call); ok {
		return &ast.Call{Meta: call.Meta, Callee: call.Callee, Args: append([]ast.Expr{lhs}, call.Args...)}
	}
	return &ast.Call{Meta: ast.Meta{Sp: rhs.Span()}, Callee: rhs, Args: []ast.Expr{lhs}}
}

func (p *Parser) parseTernary() ast.Expr {
	cond := p.parseOrKeyword()
	if p.at(token.QUESTION) {
		p.advance()
		then := p.parseTernary()
		p.expect(token.COLON, "a ternary needs : between the branches")
		els := p.parseTernary()
		return &ast.Ternary{Meta: ast.Meta{Sp: cond.Span()}, Cond: cond, Then: then, Else: els}
	}
	return cond
}

func (p *Parser) parseOrKeyword() ast.Expr {
	left := p.parseNullCoalesce()
	for p.at(token.KW_OR) {
		p.advance()
		right := p.parseNullCoalesce()
		left = &ast.Binary{Meta: ast.Meta{Sp: left.Span()}, Op: ast.BErrorFallback, L: left, R: right}
	}
	return left
}

func (p *Parser) parseNullCoalesce() ast.Expr {
	left := p.parseOrOr()
	if p.at(token.QQ) {
		p.advance()
		right := p.parseNullCoalesce() // right-assoc
		return &ast.Binary{Meta: ast.Meta{Sp: left.Span()}, Op: ast.BNullCoalesce, L: left, R: right}
	}
	return left
}

func (p *Parser) parseOrOr() ast.Expr {
	left := p.parseAndAnd()
	for p.at(token.OR_OR) {
		p.advance()
		right := p.parseAndAnd()
		left = &ast.Binary{Meta: ast.Meta{Sp: left.Span()}, Op: ast.BOr, L: left, R: right}
	}
	return left
}

func (p *Parser) parseAndAnd() ast.Expr {
	left := p.parseEquality()
	for p.at(token.AND_AND) {
		p.advance()
		right := p.parseEquality()
		left = &ast.Binary{Meta: ast.Meta{Sp: left.Span()}, Op: ast.BAnd, L: left, R: right}
	}
	return left
}

func (p *Parser) parseEquality() ast.Expr {
	left := p.parseRelational()
	for p.at(token.EQEQ) || p.at(token.NEQ) {
		op := ast.BEq
		if p.at(token.NEQ) {
			op = ast.BNeq
		}
		p.advance()
		right := p.parseRelational()
		left = &ast.Binary{Meta: ast.Meta{Sp: left.Span()}, Op: op, L: left, R: right}
	}
	return left
}

func (p *Parser) parseRelational() ast.Expr {
	left := p.parseRangeExpr()
	for {
		var op ast.BinaryOp
		switch p.cur().Kind {
		case token.LT:
			op = ast.BLt
		case token.LTE:
			op = ast.BLte
		case token.GT:
			op = ast.BGt
		case token.GTE:
			op = ast.BGte
		case token.KW_IN:
			op = ast.BIn
		default:
			return left
		}
		p.advance()
		right := p.parseRangeExpr()
		left = &ast.Binary{Meta: ast.Meta{Sp: left.Span()}, Op: op, L: left, R: right}
	}
}

func (p *Parser) parseRangeExpr() ast.Expr {
	left := p.parseAdditive()
	if p.at(token.DOTDOT) {
		p.advance()
		right := p.parseAdditive()
		return &ast.Range{Meta: ast.Meta{Sp: left.Span()}, Start: left, End: right}
	}
	return left
}

func (p *Parser) parseAdditive() ast.Expr {
	left := p.parseMultiplicative()
	for p.at(token.PLUS) || p.at(token.MINUS) {
		op := ast.BAdd
		if p.at(token.MINUS) {
			op = ast.BSub
		}
		p.advance()
		right := p.parseMultiplicative()
		left = &ast.Binary{Meta: ast.Meta{Sp: left.Span()}, Op: op, L: left, R: right}
	}
	return left
}

func (p *Parser) parseMultiplicative() ast.Expr {
	left := p.parsePower()
	for p.at(token.STAR) || p.at(token.SLASH) || p.at(token.PERCENT) {
		var op ast.BinaryOp
		switch p.cur().Kind {
		case token.STAR:
			op = ast.BMul
		case token.SLASH:
			op = ast.BDiv
		case token.PERCENT:
			op = ast.BMod
		}
		p.advance()
		right := p.parsePower()
		left = &ast.Binary{Meta: ast.Meta{Sp: left.Span()}, Op: op, L: left, R: right}
	}
	return left
}

func (p *Parser) parsePower() ast.Expr {
	left := p.parseUnary()
	if p.at(token.STARSTAR) {
		p.advance()
		right := p.parsePower() // right-assoc
		return &ast.Binary{Meta: ast.Meta{Sp: left.Span()}, Op: ast.BPow, L: left, R: right}
	}
	return left
}

func (p *Parser) parseUnary() ast.Expr {
	switch p.cur().Kind {
	case token.MINUS:
		t := p.advance()
		arg := p.parseUnary()
		return &ast.Unary{Meta: ast.Meta{Sp: t.Span}, Op: ast.UnaryNeg, Arg: arg}
	case token.BANG, token.KW_NOT:
		t := p.advance()
		arg := p.parseUnary()
		return &ast.Unary{Meta: ast.Meta{Sp: t.Span}, Op: ast.UnaryNot, Arg: arg}
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() ast.Expr {
	expr := p.parsePrimary()
	for {
		switch p.cur().Kind {
		case token.DOT:
			p.advance()
			name := p.expect(token.IDENT, "name the field after .").Text
			expr = &ast.Field{Meta: ast.Meta{Sp: expr.Span()}, Target: expr, Name: name}
		case token.QDOT:
			p.advance()
			name := p.expect(token.IDENT, "name the field after ?.").Text
			expr = &ast.SafeField{Meta: ast.Meta{Sp: expr.Span()}, Target: expr, Name: name}
		case token.LPAREN:
			p.advance()
			var args []ast.Expr
			for !p.at(token.RPAREN) && !p.at(token.EOF) {
				args = append(args, p.parseExpr())
				if p.at(token.COMMA) {
					p.advance()
				} else {
					break
				}
			}
			p.expect(token.RPAREN, "close the argument list with )")
			expr = &ast.Call{Meta: ast.Meta{Sp: expr.Span()}, Callee: expr, Args: args}
		case token.LBRACKET:
			p.advance()
			expr = p.parseIndexOrSlice(expr)
		default:
			return expr
		}
	}
}

func (p *Parser) parseIndexOrSlice(target ast.Expr) ast.Expr {
	var start ast.Expr
	if !p.at(token.COLON) {
		start = p.parseExpr()
	}
	if p.at(token.COLON) {
		p.advance()
		var end ast.Expr
		if !p.at(token.RBRACKET) {
			end = p.parseExpr()
		}
		p.expect(token.RBRACKET, "close the slice with ]")
		return &ast.Slice{Meta: ast.Meta{Sp: target.Span()}, Target: target, Start: start, End: end}
	}
	p.expect(token.RBRACKET, "close the index with ]")
	return &ast.Index{Meta: ast.Meta{Sp: target.Span()}, Target: target, Index: start}
}

func (p *Parser) parsePrimary() ast.Expr {
	t := p.cur()
	switch t.Kind {
	case token.INT:
		p.advance()
		v, _ := strconv.ParseInt(t.Text, 10, 64)
		return &ast.Int{Meta: ast.Meta{Sp: t.Span}, Value: v}
	case token.FLOAT:
		p.advance()
		v, _ := strconv.ParseFloat(t.Text, 64)
		return &ast.Float{Meta: ast.Meta{Sp: t.Span}, Value: v}
	case token.KW_TRUE:
		p.advance()
		return &ast.Bool{Meta: ast.Meta{Sp: t.Span}, Value: true}
	case token.KW_FALSE:
		p.advance()
		return &ast.Bool{Meta: ast.Meta{Sp: t.Span}, Value: false}
	case token.KW_NULL:
		p.advance()
		return &ast.Null{Meta: ast.Meta{Sp: t.Span}}
	case token.STRING:
		p.advance()
		return p.decodeString(t, false)
	case token.RAWSTRING:
		p.advance()
		return p.decodeString(t, true)
	case token.IDENT:
		p.advance()
		return &ast.Ident{Meta: ast.Meta{Sp: t.Span}, Name: t.Text}
	case token.LPAREN:
		p.advance()
		e := p.parseExpr()
		p.expect(token.RPAREN, "close the parenthesized expression with )")
		return e
	case token.LBRACKET:
		return p.parseListLitOrComp()
	case token.LBRACE:
		return p.parseDictLit()
	case token.KW_FN:
		return p.parseFnLit()
	}
	p.errorf(t.Span, "", "unexpected token %s", t.Kind)
	p.advance()
	return &ast.Null{Meta: ast.Meta{Sp: t.Span}}
}

// parseListLitOrComp disambiguates `[expr, expr, ...]` from
// `[expr for var in iter if guard?]` by lookahead: a comprehension is
// recognized once a top-level `for` keyword follows the first expression.
func (p *Parser) parseListLitOrComp() ast.Expr {
	start := p.advance() // [
	if p.at(token.RBRACKET) {
		p.advance()
		return &ast.ListLit{Meta: ast.Meta{Sp: start.Span}}
	}
	first := p.parseExpr()
	if p.at(token.KW_FOR) {
		p.advance()
		v := p.expect(token.IDENT, "name the comprehension variable").Text
		p.expect(token.KW_IN, "add 'in' after the comprehension variable")
		iter := p.parseExpr()
		var guard ast.Expr
		if p.at(token.KW_IF) {
			p.advance()
			guard = p.parseExpr()
		}
		p.expect(token.RBRACKET, "close the comprehension with ]")
		return &ast.ListComp{Meta: ast.Meta{Sp: start.Span}, Expr: first, Var: v, Iter: iter, Guard: guard}
	}
	items := []ast.Expr{first}
	for p.at(token.COMMA) {
		p.advance()
		if p.at(token.RBRACKET) {
			break
		}
		items = append(items, p.parseExpr())
	}
	p.expect(token.RBRACKET, "close the list with ]")
	return &ast.ListLit{Meta: ast.Meta{Sp: start.Span}, Items: items}
}

func (p *Parser) parseDictLit() ast.Expr {
	start := p.advance() // {
	var pairs []ast.DictPair
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		key := p.parseExpr()
		p.expect(token.COLON, "separate a dict key from its value with :")
		val := p.parseExpr()
		pairs = append(pairs, ast.DictPair{Key: key, Value: val})
		if p.at(token.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(token.RBRACE, "close the dict with }")
	return &ast.DictLit{Meta: ast.Meta{Sp: start.Span}, Pairs: pairs}
}

func (p *Parser) parseFnLit() ast.Expr {
	start := p.advance() // fn
	params := p.parseParams()
	body := p.parseBlock()
	return &ast.FnLit{Meta: ast.Meta{Sp: start.Span}, Params: params, Body: body}
}

// decodeString turns a raw/escaped string token into interleaved literal
// and interpolated-expression segments (spec.md §4.1): `${expr}` segments
// are sliced out and re-parsed as standalone expressions.
func (p *Parser) decodeString(t token.Token, raw bool) *ast.String {
	if raw {
		return &ast.String{Meta: ast.Meta{Sp: t.Span}, Raw: true, Segments: []ast.StringSegment{{Literal: t.Text}}}
	}
	var segs []ast.StringSegment
	var lit strings.Builder
	text := t.Text
	i := 0
	flush := func() {
		if lit.Len() > 0 {
			segs = append(segs, ast.StringSegment{Literal: lit.String()})
			lit.Reset()
		}
	}
	for i < len(text) {
		ch := text[i]
		if ch == '\\' && i+1 < len(text) {
			switch text[i+1] {
			case 'n':
				lit.WriteByte('\n')
			case 't':
				lit.WriteByte('\t')
			case 'r':
				lit.WriteByte('\r')
			case '\\':
				lit.WriteByte('\\')
			case '"':
				lit.WriteByte('"')
			case '$':
				lit.WriteByte('$')
			default:
				lit.WriteByte(text[i+1])
			}
			i += 2
			continue
		}
		if ch == '$' && i+1 < len(text) && text[i+1] == '{' {
			depth := 1
			j := i + 2
			for j < len(text) && depth > 0 {
				switch text[j] {
				case '{':
					depth++
				case '}':
					depth--
				}
				if depth == 0 {
					break
				}
				j++
			}
			inner := text[i+2 : j]
			flush()
			sub := New(p.file, inner)
			sub.pos = 0
			subExpr := sub.parseExpr()
			p.Diagnostics = append(p.Diagnostics, sub.Diagnostics...)
			segs = append(segs, ast.StringSegment{Expr: subExpr})
			if j < len(text) {
				i = j + 1
			} else {
				i = j
			}
			continue
		}
		lit.WriteByte(ch)
		i++
	}
	flush()
	return &ast.String{Meta: ast.Meta{Sp: t.Span}, Segments: segs}
}
