package token_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clonecraft/internal/astmodel"
	"clonecraft/internal/astmodel/astfixture"
	"clonecraft/internal/token"
)

func TestNormalize_SetterChain(t *testing.T) {
	stmts := []astmodel.Node{
		astfixture.ExprStmt(1, astfixture.MethodCall("setA", 1, astfixture.VoidType, astfixture.Ident("user", 1, nil), astfixture.StringLit("x", 1))),
		astfixture.ExprStmt(2, astfixture.MethodCall("setStatus", 2, astfixture.VoidType, astfixture.Ident("user", 2, nil), astfixture.StringLit("OK", 2))),
	}
	n := token.New(token.DefaultOptions())
	flat := n.NormalizeStatements(stmts)

	require.NotEmpty(t, flat)
	var sawMethodCall, sawStringLit int
	for _, tk := range flat {
		if tk.NormalizedTag == "METHOD_CALL" {
			sawMethodCall++
		}
		if tk.NormalizedTag == "STRING_LIT" {
			sawStringLit++
		}
	}
	assert.Equal(t, 2, sawMethodCall)
	assert.Equal(t, 2, sawStringLit)
}

func TestNormalize_Idempotent(t *testing.T) {
	stmt := astfixture.IfStmt(1,
		astfixture.Ident("ok", 1, astfixture.BooleanType),
		astfixture.ReturnStmt(2, astfixture.Ident("x", 2, nil)),
	)
	n := token.New(token.DefaultOptions())
	first := n.NormalizeNode(stmt)
	second := n.NormalizeNode(stmt)
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].NormalizedTag, second[i].NormalizedTag)
		assert.Equal(t, first[i].RawText, second[i].RawText)
	}
}

func TestNormalize_AssertAndMockTagging(t *testing.T) {
	n := token.New(token.DefaultOptions())
	assertStmt := astfixture.ExprStmt(1, astfixture.MethodCall("assertEquals", 1, astfixture.VoidType, astfixture.IntLit("1", 1), astfixture.IntLit("1", 1)))
	mockStmt := astfixture.ExprStmt(2, astfixture.MethodCall("verify", 2, astfixture.VoidType, astfixture.Ident("service", 2, nil)))

	assertTokens := n.NormalizeNode(assertStmt)
	mockTokens := n.NormalizeNode(mockStmt)

	require.NotEmpty(t, assertTokens)
	require.NotEmpty(t, mockTokens)
	assert.Equal(t, "ASSERT", assertTokens[0].NormalizedTag)
	assert.Equal(t, "MOCK", mockTokens[0].NormalizedTag)
}

func TestControlFlowTagging(t *testing.T) {
	n := token.New(token.DefaultOptions())
	ifStmt := astfixture.IfStmt(1, astfixture.BoolLit("true", 1))
	toks := n.NormalizeNode(ifStmt)
	require.NotEmpty(t, toks)
	assert.Equal(t, "CONTROL_FLOW(if)", toks[0].NormalizedTag)
}
