// Package lsp implements a language server for rlisp over stdio.
package lsp

import (
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	glspserver "github.com/tliron/glsp/server"

	"github.com/thomasrohde/rlisp/pkg/ast"
	"github.com/thomasrohde/rlisp/pkg/formatter"
	"github.com/thomasrohde/rlisp/pkg/parser"
)

const lsName = "rlisp language server"

var (
	version = "0.1.0"
	log     = commonlog.GetLogger("rlisp.lsp")
)

type document struct {
	text    string
	program *ast.Program
}

// Server tracks open documents and answers editor requests.
type Server struct {
	handler protocol.Handler
	natives []string

	mu   sync.Mutex
	docs map[protocol.DocumentUri]*document
}

// New creates a server. natives are the host function names treated as
// declared by the checker and offered as completions.
func New(natives []string) *Server {
	s := &Server{
		natives: natives,
		docs:    map[protocol.DocumentUri]*document{},
	}
	s.handler = protocol.Handler{
		Initialize:                     s.initialize,
		Initialized:                    s.initialized,
		Shutdown:                       s.shutdown,
		SetTrace:                       s.setTrace,
		TextDocumentDidOpen:            s.didOpen,
		TextDocumentDidChange:          s.didChange,
		TextDocumentDidSave:            s.didSave,
		TextDocumentDidClose:           s.didClose,
		TextDocumentCompletion:         s.completion,
		TextDocumentSemanticTokensFull: s.semanticTokens,
		TextDocumentFormatting:         s.formatting,
	}
	return s
}

// RunStdio serves requests on standard input and output until the client
// disconnects.
func (s *Server) RunStdio() error {
	log.Info("starting")
	return glspserver.NewServer(&s.handler, lsName, false).RunStdio()
}

func (s *Server) initialize(context *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := s.handler.CreateServerCapabilities()
	capabilities.TextDocumentSync = protocol.TextDocumentSyncKindFull
	capabilities.CompletionProvider = &protocol.CompletionOptions{}
	capabilities.DocumentFormattingProvider = true
	capabilities.SemanticTokensProvider = &protocol.SemanticTokensOptions{
		Legend: protocol.SemanticTokensLegend{
			TokenTypes:     tokenTypes,
			TokenModifiers: []string{},
		},
		Full: protocol.True,
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &version,
		},
	}, nil
}

func (s *Server) initialized(context *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func (s *Server) shutdown(context *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func (s *Server) setTrace(context *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *Server) didOpen(context *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.update(context, params.TextDocument.URI, params.TextDocument.Text)
	return nil
}

func (s *Server) didChange(context *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	text := s.text(params.TextDocument.URI)
	for _, change := range params.ContentChanges {
		text = applyChange(text, change)
	}
	s.update(context, params.TextDocument.URI, text)
	return nil
}

func (s *Server) didSave(context *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	if params.Text != nil {
		s.update(context, params.TextDocument.URI, *params.Text)
	}
	return nil
}

func (s *Server) didClose(context *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.mu.Lock()
	delete(s.docs, params.TextDocument.URI)
	s.mu.Unlock()
	context.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (s *Server) completion(context *glsp.Context, params *protocol.CompletionParams) (any, error) {
	s.mu.Lock()
	var program *ast.Program
	if doc, ok := s.docs[params.TextDocument.URI]; ok {
		program = doc.program
	}
	s.mu.Unlock()
	return Completions(program, s.natives), nil
}

func (s *Server) semanticTokens(context *glsp.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	return SemanticTokens(s.text(params.TextDocument.URI)), nil
}

func (s *Server) formatting(context *glsp.Context, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	text := s.text(params.TextDocument.URI)
	if formatter.HasComments(text) {
		return nil, nil
	}
	program, diags := parser.Parse(text)
	if len(diags) > 0 {
		return nil, nil
	}
	return []protocol.TextEdit{{
		Range:   rangeOf(text, wholeSpan(text)),
		NewText: formatter.Format(program),
	}}, nil
}

func (s *Server) text(uri protocol.DocumentUri) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if doc, ok := s.docs[uri]; ok {
		return doc.text
	}
	return ""
}

// update re-analyses a document and publishes its diagnostics. The last
// program that parsed is kept for completion while the text is broken.
func (s *Server) update(context *glsp.Context, uri protocol.DocumentUri, text string) {
	program, diags := Analyze(text, s.natives)
	log.Debugf("%s: %d diagnostics", uri, len(diags))

	s.mu.Lock()
	doc, ok := s.docs[uri]
	if !ok {
		doc = &document{}
		s.docs[uri] = doc
	}
	doc.text = text
	if program != nil {
		doc.program = program
	}
	s.mu.Unlock()

	context.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diags,
	})
}
