package lsp

import (
	"sort"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/thomasrohde/rlisp/pkg/ast"
	"github.com/thomasrohde/rlisp/pkg/diagnostics"
	"github.com/thomasrohde/rlisp/pkg/lexer"
	"github.com/thomasrohde/rlisp/pkg/parser"
	"github.com/thomasrohde/rlisp/pkg/token"
	"github.com/thomasrohde/rlisp/pkg/validator"
)

const source = "rlisp"

// Analyze parses and validates text. The program is nil when parsing failed.
func Analyze(text string, globals []string) (*ast.Program, []protocol.Diagnostic) {
	program, diags := parser.Parse(text)
	if len(diags) == 0 {
		diags = validator.Validate(program, globals...)
	}
	return program, Convert(text, diags)
}

// Convert maps rlisp diagnostics onto LSP diagnostics.
func Convert(text string, diags []*diagnostics.Diagnostic) []protocol.Diagnostic {
	severity := protocol.DiagnosticSeverityError
	src := source
	out := make([]protocol.Diagnostic, 0, len(diags))
	for _, d := range diags {
		out = append(out, protocol.Diagnostic{
			Range:    rangeOf(text, d.Span),
			Severity: &severity,
			Code:     &protocol.IntegerOrString{Value: string(d.Kind)},
			Source:   &src,
			Message:  d.Message,
		})
	}
	return out
}

// rangeOf converts a byte span into a line/character range. Characters are
// counted in bytes.
func rangeOf(text string, sp token.Span) protocol.Range {
	if sp.Line < 1 {
		return protocol.Range{}
	}
	start := protocol.Position{
		Line:      protocol.UInteger(sp.Line - 1),
		Character: protocol.UInteger(max(sp.Start-sp.LineStart, 0)),
	}
	from, to := clamp(sp.Start, len(text)), clamp(sp.End, len(text))
	end := start
	for i := from; i < to; i++ {
		if text[i] == '\n' {
			end.Line++
			end.Character = 0
		} else {
			end.Character++
		}
	}
	return protocol.Range{Start: start, End: end}
}

func clamp(n, limit int) int {
	return min(max(n, 0), limit)
}

// offsetOf converts a position back into a byte offset within text.
func offsetOf(text string, pos protocol.Position) int {
	line, i := protocol.UInteger(0), 0
	for line < pos.Line && i < len(text) {
		if text[i] == '\n' {
			line++
		}
		i++
	}
	for c := protocol.UInteger(0); c < pos.Character && i < len(text) && text[i] != '\n'; c++ {
		i++
	}
	return i
}

// applyChange applies one incremental or whole-document change.
func applyChange(text string, change any) string {
	switch c := change.(type) {
	case protocol.TextDocumentContentChangeEventWhole:
		return c.Text
	case protocol.TextDocumentContentChangeEvent:
		if c.Range == nil {
			return c.Text
		}
		from, to := offsetOf(text, c.Range.Start), offsetOf(text, c.Range.End)
		if to < from {
			from, to = to, from
		}
		return text[:from] + c.Text + text[to:]
	}
	return text
}

var tokenTypes = []string{
	string(protocol.SemanticTokenTypeKeyword),
	string(protocol.SemanticTokenTypeVariable),
	string(protocol.SemanticTokenTypeString),
	string(protocol.SemanticTokenTypeNumber),
	string(protocol.SemanticTokenTypeOperator),
}

const (
	typeKeyword = iota
	typeVariable
	typeString
	typeNumber
	typeOperator
)

func tokenType(k token.Kind) int {
	switch {
	case k.IsKeyword():
		return typeKeyword
	case k == token.Identifier:
		return typeVariable
	case k == token.String:
		return typeString
	case k == token.Number:
		return typeNumber
	}
	return typeOperator
}

// SemanticTokens encodes the token stream of text in the relative LSP form.
// Tokens spanning lines are cut at the first newline.
func SemanticTokens(text string) *protocol.SemanticTokens {
	tokens, _ := lexer.Tokenize(text)
	data := []protocol.UInteger{}
	prevLine, prevChar := 0, 0
	for _, tok := range tokens {
		if tok.Kind == token.EOF {
			break
		}
		line := tok.Span.Line - 1
		char := tok.Span.Start - tok.Span.LineStart
		length := 0
		for i := tok.Span.Start; i < tok.Span.End && i < len(text) && text[i] != '\n'; i++ {
			length++
		}
		deltaChar := char
		if line == prevLine {
			deltaChar = char - prevChar
		}
		data = append(data,
			protocol.UInteger(line-prevLine),
			protocol.UInteger(deltaChar),
			protocol.UInteger(length),
			protocol.UInteger(tokenType(tok.Kind)),
			0,
		)
		prevLine, prevChar = line, char
	}
	return &protocol.SemanticTokens{Data: data}
}

// Completions offers keywords, host functions and the top-level names
// declared in program.
func Completions(program *ast.Program, natives []string) []protocol.CompletionItem {
	keyword := protocol.CompletionItemKindKeyword
	function := protocol.CompletionItemKindFunction
	variable := protocol.CompletionItemKindVariable
	class := protocol.CompletionItemKindClass

	keywords := token.Keywords()
	sort.Strings(keywords)
	var items []protocol.CompletionItem
	for _, k := range keywords {
		items = append(items, protocol.CompletionItem{Label: k, Kind: &keyword})
	}
	native := "native function"
	for _, n := range natives {
		items = append(items, protocol.CompletionItem{Label: n, Kind: &function, Detail: &native})
	}
	if program == nil {
		return items
	}
	for _, stmt := range program.Stmts {
		switch s := stmt.(type) {
		case *ast.Let:
			items = append(items, protocol.CompletionItem{Label: s.Name, Kind: &variable})
		case *ast.Function:
			items = append(items, protocol.CompletionItem{Label: s.Name, Kind: &function})
		case *ast.Class:
			items = append(items, protocol.CompletionItem{Label: s.Name, Kind: &class})
		}
	}
	return items
}

func wholeSpan(text string) token.Span {
	return token.NewSpan(1, 0, 0, len(text))
}
