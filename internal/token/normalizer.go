package token

import (
	"clonecraft/internal/astmodel"
)

// Options configures how the normalizer tags assertion/mock call shapes.
// Defaults cover common JUnit/Mockito-style naming; hosts with a different
// framework vocabulary override these sets.
type Options struct {
	AssertNames map[string]bool
	MockNames   map[string]bool
}

// DefaultOptions returns the normalizer's default assert/mock name sets.
func DefaultOptions() Options {
	return Options{
		AssertNames: setOf(
			"assertEquals", "assertNotEquals", "assertTrue", "assertFalse",
			"assertNull", "assertNotNull", "assertSame", "assertNotSame",
			"assertThrows", "assertArrayEquals", "fail",
		),
		MockNames: setOf(
			"verify", "when", "mock", "spy", "doReturn", "doThrow",
			"doNothing", "doAnswer", "given", "willReturn",
		),
	}
}

func setOf(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

// Normalizer walks statement ASTs and produces ordered Token sequences.
type Normalizer struct {
	opts Options
}

// New builds a Normalizer with the given options.
func New(opts Options) *Normalizer {
	return &Normalizer{opts: opts}
}

// NormalizeStatements tokenizes an entire statement sequence in source
// order, one statement after another.
func (n *Normalizer) NormalizeStatements(stmts []astmodel.Statement) []Token {
	var out []Token
	for _, s := range stmts {
		out = append(out, n.NormalizeNode(s)...)
	}
	return out
}

// NormalizeNode tokenizes a single AST node and its descendants in source
// order. Re-tokenizing an already-normalized token list is a no-op (spec.md
// §8 round-trip law) because NormalizeNode is a pure function of the AST,
// not of a prior token list.
func (n *Normalizer) NormalizeNode(node astmodel.Node) []Token {
	if node == nil {
		return nil
	}
	var out []Token
	kind := node.Kind()

	switch {
	case kind.IsLiteral():
		out = append(out, n.literalToken(node))
		return out // literals are leaves

	case kind.IsControlFlow():
		out = append(out, Token{
			Kind:          KindControlFlow,
			RawText:       controlFlowKeyword(kind),
			NormalizedTag: controlFlowTag(controlFlowKeyword(kind)),
			Position:      node.Range().Start,
			Node:          node,
		})

	case kind == astmodel.KindAssertCall:
		out = append(out, Token{Kind: KindAssert, RawText: node.Text(), NormalizedTag: "ASSERT", Position: node.Range().Start, Node: node})

	case kind == astmodel.KindMockCall:
		out = append(out, Token{Kind: KindMock, RawText: node.Text(), NormalizedTag: "MOCK", Position: node.Range().Start, Node: node})

	case kind == astmodel.KindMethodCallExpr:
		callKind, tag := n.classifyCall(node.Text())
		out = append(out, Token{Kind: callKind, RawText: node.Text(), NormalizedTag: tag, Position: node.Range().Start, Node: node})

	case kind == astmodel.KindIdentifier, kind == astmodel.KindFieldAccessExpr:
		out = append(out, Token{Kind: KindVar, RawText: node.Text(), NormalizedTag: "VAR", Position: node.Range().Start, Node: node})

	case kind == astmodel.KindNewExpr, kind == astmodel.KindTypeRefExpr:
		out = append(out, Token{Kind: KindType, RawText: node.Text(), NormalizedTag: "TYPE", Position: node.Range().Start, Node: node})

	case kind == astmodel.KindVarDeclarator, kind == astmodel.KindParamDecl, kind == astmodel.KindCatchParamDecl:
		out = append(out, Token{Kind: KindVar, RawText: node.Text(), NormalizedTag: "VAR", Position: node.Range().Start, Node: node})

	case kind == astmodel.KindBinaryExpr, kind == astmodel.KindUnaryExpr, kind == astmodel.KindAssignExpr, kind == astmodel.KindAssignStmt, kind == astmodel.KindConditionalExpr:
		out = append(out, Token{Kind: KindOperator, RawText: node.Text(), NormalizedTag: "OPERATOR", Position: node.Range().Start, Node: node})

	case kind == astmodel.KindBreakStmt, kind == astmodel.KindContinueStmt, kind == astmodel.KindCatchClause, kind == astmodel.KindCaseClause:
		out = append(out, Token{Kind: KindKeyword, RawText: keywordText(kind), NormalizedTag: "KEYWORD(" + keywordText(kind) + ")", Position: node.Range().Start, Node: node})
	}

	for _, child := range node.Children() {
		out = append(out, n.NormalizeNode(child)...)
	}
	return out
}

func (n *Normalizer) classifyCall(name string) (Kind, string) {
	if n.opts.AssertNames[name] {
		return KindAssert, "ASSERT"
	}
	if n.opts.MockNames[name] {
		return KindMock, "MOCK"
	}
	return KindMethodCall, "METHOD_CALL"
}

func (n *Normalizer) literalToken(node astmodel.Node) Token {
	k := node.Kind()
	tokenKind, tag := literalKindTag(k)
	return Token{Kind: tokenKind, RawText: node.Text(), NormalizedTag: tag, Position: node.Range().Start, Node: node}
}

func literalKindTag(k astmodel.NodeKind) (Kind, string) {
	switch k {
	case astmodel.KindStringLit:
		return KindStringLit, "STRING_LIT"
	case astmodel.KindIntLit:
		return KindIntLit, "INT_LIT"
	case astmodel.KindLongLit:
		return KindLongLit, "LONG_LIT"
	case astmodel.KindDoubleLit:
		return KindDoubleLit, "DOUBLE_LIT"
	case astmodel.KindBooleanLit:
		return KindBooleanLit, "BOOLEAN_LIT"
	case astmodel.KindNullLit:
		return KindNullLit, "NULL_LIT"
	default:
		return KindStringLit, "STRING_LIT"
	}
}

func controlFlowKeyword(k astmodel.NodeKind) string {
	switch k {
	case astmodel.KindIfStmt:
		return "if"
	case astmodel.KindForStmt:
		return "for"
	case astmodel.KindWhileStmt, astmodel.KindDoWhileStmt:
		return "while"
	case astmodel.KindSwitchStmt:
		return "switch"
	case astmodel.KindTryStmt:
		return "try"
	case astmodel.KindThrowStmt:
		return "throw"
	case astmodel.KindReturnStmt:
		return "return"
	default:
		return "unknown"
	}
}

func keywordText(k astmodel.NodeKind) string {
	switch k {
	case astmodel.KindBreakStmt:
		return "break"
	case astmodel.KindContinueStmt:
		return "continue"
	case astmodel.KindCatchClause:
		return "catch"
	case astmodel.KindCaseClause:
		return "case"
	default:
		return "unknown"
	}
}
