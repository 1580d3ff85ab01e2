package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/thomasrohde/rlisp/pkg/token"
)

func pos(line, char protocol.UInteger) protocol.Position {
	return protocol.Position{Line: line, Character: char}
}

func TestAnalyzeParseError(t *testing.T) {
	program, diags := Analyze("print ;", nil)
	assert.Nil(t, program)
	require.Len(t, diags, 1)
	d := diags[0]
	assert.Equal(t, `expected expression, found ";"`, d.Message)
	assert.Equal(t, "ParseError", d.Code.Value)
	assert.Equal(t, protocol.DiagnosticSeverityError, *d.Severity)
	assert.Equal(t, protocol.Range{Start: pos(0, 6), End: pos(0, 7)}, d.Range)
}

func TestAnalyzeValidatorErrors(t *testing.T) {
	program, diags := Analyze("let x = 1;\nprint y;", nil)
	require.NotNil(t, program)
	require.Len(t, diags, 1)
	assert.Equal(t, "NameError", diags[0].Code.Value)
	assert.Equal(t, protocol.Range{Start: pos(1, 6), End: pos(1, 7)}, diags[0].Range)
}

func TestAnalyzeKnowsNatives(t *testing.T) {
	_, diags := Analyze("print clock();", []string{"clock"})
	assert.Empty(t, diags)
	assert.NotNil(t, diags)
}

func TestRangeOfMultiline(t *testing.T) {
	text := "print \"a\nbc\";"
	r := rangeOf(text, token.NewSpan(1, 0, 6, 12))
	assert.Equal(t, protocol.Range{Start: pos(0, 6), End: pos(1, 3)}, r)

	assert.Equal(t, protocol.Range{}, rangeOf(text, token.Span{}))
}

func TestApplyChange(t *testing.T) {
	text := "let a = 1;\nprint a;"

	whole := applyChange(text, protocol.TextDocumentContentChangeEventWhole{Text: "print 2;"})
	assert.Equal(t, "print 2;", whole)

	edited := applyChange(text, protocol.TextDocumentContentChangeEvent{
		Range: &protocol.Range{Start: pos(1, 6), End: pos(1, 7)},
		Text:  "a + 1",
	})
	assert.Equal(t, "let a = 1;\nprint a + 1;", edited)

	assert.Equal(t, 11, offsetOf(text, pos(1, 0)))
	assert.Equal(t, len(text), offsetOf(text, pos(9, 0)))
	assert.Equal(t, 10, offsetOf(text, pos(0, 99)))
}

func TestSemanticTokens(t *testing.T) {
	st := SemanticTokens("let x = 1;\n  print \"s\";")
	assert.Equal(t, []protocol.UInteger{
		0, 0, 3, typeKeyword, 0,
		0, 4, 1, typeVariable, 0,
		0, 2, 1, typeOperator, 0,
		0, 2, 1, typeNumber, 0,
		0, 1, 1, typeOperator, 0,
		1, 2, 5, typeKeyword, 0,
		0, 6, 3, typeString, 0,
		0, 3, 1, typeOperator, 0,
	}, st.Data)
}

func labels(items []protocol.CompletionItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Label
	}
	return out
}

func TestCompletions(t *testing.T) {
	program, _ := Analyze("let total = 0; fn add(a, b) { return a + b; } class Point {}", nil)
	require.NotNil(t, program)
	got := labels(Completions(program, []string{"clock"}))
	assert.Subset(t, got, []string{"while", "fn", "clock", "total", "add", "Point"})
	assert.NotContains(t, got, "a")

	assert.Subset(t, labels(Completions(nil, nil)), []string{"let", "return"})
}

type recorder struct {
	published []protocol.PublishDiagnosticsParams
}

func (r *recorder) context() *glsp.Context {
	return &glsp.Context{Notify: func(method string, params any) {
		if method == protocol.ServerTextDocumentPublishDiagnostics {
			r.published = append(r.published, params.(protocol.PublishDiagnosticsParams))
		}
	}}
}

func TestServerDocumentLifecycle(t *testing.T) {
	s := New([]string{"clock"})
	rec := &recorder{}
	ctx := rec.context()
	uri := "file:///main.rl"

	require.NoError(t, s.didOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, Text: "let a = 1;"},
	}))
	require.Len(t, rec.published, 1)
	assert.Empty(t, rec.published[0].Diagnostics)

	require.NoError(t, s.didChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument:   protocol.VersionedTextDocumentIdentifier{TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri}},
		ContentChanges: []any{protocol.TextDocumentContentChangeEventWhole{Text: "let a = ;"}},
	}))
	require.Len(t, rec.published, 2)
	assert.Len(t, rec.published[1].Diagnostics, 1)
	assert.Equal(t, "let a = ;", s.text(uri))

	// the last good parse still drives completion
	items, err := s.completion(ctx, &protocol.CompletionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		},
	})
	require.NoError(t, err)
	assert.Contains(t, labels(items.([]protocol.CompletionItem)), "a")

	require.NoError(t, s.didClose(ctx, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	}))
	require.Len(t, rec.published, 3)
	assert.Empty(t, rec.published[2].Diagnostics)
	assert.Equal(t, "", s.text(uri))
}

func TestServerFormatting(t *testing.T) {
	s := New(nil)
	ctx := (&recorder{}).context()
	uri := "file:///f.rl"
	require.NoError(t, s.didOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, Text: "let   a=1;"},
	}))

	edits, err := s.formatting(ctx, &protocol.DocumentFormattingParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	require.NoError(t, err)
	require.Len(t, edits, 1)
	assert.Equal(t, "let a = 1;\n", edits[0].NewText)
	assert.Equal(t, protocol.Range{Start: pos(0, 0), End: pos(0, 10)}, edits[0].Range)
}

func TestInitializeAdvertisesCapabilities(t *testing.T) {
	s := New(nil)
	res, err := s.initialize((&recorder{}).context(), &protocol.InitializeParams{})
	require.NoError(t, err)
	result := res.(protocol.InitializeResult)
	assert.Equal(t, protocol.TextDocumentSyncKindFull, result.Capabilities.TextDocumentSync)
	assert.Equal(t, lsName, result.ServerInfo.Name)
}
