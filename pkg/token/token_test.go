package token_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thomasrohde/rlisp/pkg/token"
)

func TestLookupKeywords(t *testing.T) {
	tests := []struct {
		word string
		want token.Kind
	}{
		{"true", token.True},
		{"false", token.False},
		{"fn", token.Function},
		{"let", token.Let},
		{"const", token.Const},
		{"if", token.If},
		{"else", token.Else},
		{"for", token.For},
		{"while", token.While},
		{"return", token.Return},
		{"import", token.Import},
		{"nil", token.Nil},
		{"class", token.Class},
		{"this", token.This},
		{"break", token.Break},
		{"continue", token.Continue},
		{"super", token.Super},
		{"print", token.Print},
	}
	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			got := token.Lookup(tt.word)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.IsKeyword())
		})
	}
	assert.Len(t, token.Keywords(), len(tests))
}

func TestLookupIsCaseSensitive(t *testing.T) {
	for _, word := range []string{"True", "FALSE", "Fn", "lEt", "WHILE", "Nil", "cLass", "PRINT", "x", "_tmp"} {
		assert.Equal(t, token.Identifier, token.Lookup(word), word)
	}
}

func TestMerge(t *testing.T) {
	a := token.NewSpan(2, 10, 12, 15)
	b := token.NewSpan(2, 10, 18, 20)

	assert.Equal(t, token.NewSpan(2, 10, 12, 20), token.Merge(a, b))
	assert.Equal(t, token.NewSpan(2, 10, 12, 20), token.Merge(b, a))
	assert.Equal(t, 2, a.Pos())
}

func TestMergeAcrossLinesKeepsFirstLine(t *testing.T) {
	a := token.NewSpan(1, 0, 4, 5)
	b := token.NewSpan(3, 20, 22, 30)
	m := token.Merge(b, a)
	assert.Equal(t, 1, m.Line)
	assert.Equal(t, 4, m.Start)
	assert.Equal(t, 30, m.End)
}

func TestCompoundBase(t *testing.T) {
	pairs := map[token.Kind]token.Kind{
		token.PlusEq:  token.Plus,
		token.MinusEq: token.Minus,
		token.TimesEq: token.Times,
		token.DivEq:   token.Divide,
		token.ModEq:   token.Mod,
		token.XorEq:   token.Xor,
		token.AndEq:   token.And,
		token.OrEq:    token.Or,
	}
	for compound, base := range pairs {
		got, ok := compound.CompoundBase()
		assert.True(t, ok, compound.String())
		assert.Equal(t, base, got)
	}
	_, ok := token.Assign.CompoundBase()
	assert.False(t, ok)
}

func TestTokenString(t *testing.T) {
	assert.Equal(t, "$x", token.Token{Kind: token.Identifier, Lexeme: "x"}.String())
	assert.Equal(t, `"hello"`, token.Token{Kind: token.String, Lexeme: "hello"}.String())
	assert.Equal(t, "1", token.Token{Kind: token.Number, Number: 1}.String())
	assert.Equal(t, "2.5", token.Token{Kind: token.Number, Number: 2.5}.String())
	assert.Equal(t, "<=", token.Token{Kind: token.Lte}.String())
	assert.Equal(t, "EOF", token.EOF.String())
}
