package lexmach

import (
	"fmt"
	"strings"

	"github.com/npillmayer/lookahead"
	"github.com/npillmayer/lookahead/scanner"
	"github.com/npillmayer/schuko/tracing"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// tracer traces with key 'lookahead.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("lookahead.scanner")
}

// LMAdapter is a lexmachine adapter to use lexmachine as a scanner.
type LMAdapter struct {
	Lexer *lexmachine.Lexer
}

// NewLMAdapter creates a new lexmachine adapter. It receives a list of
// literals ('[', ';', …), a list of keywords ("if", "for", …) and a
// map for translating token strings to their values.
//
// NewLMAdapter will return an error if compiling the DFA failed.
func NewLMAdapter(init func(*lexmachine.Lexer), literals []string, keywords []string, tokenIds map[string]int) (*LMAdapter, error) {
	adapter := &LMAdapter{}
	adapter.Lexer = lexmachine.NewLexer()
	init(adapter.Lexer)
	for _, lit := range literals {
		r := "\\" + strings.Join(strings.Split(lit, ""), "\\")
		adapter.Lexer.Add([]byte(r), MakeToken(lit, tokenIds[lit]))
	}
	for _, name := range keywords {
		adapter.Lexer.Add([]byte(strings.ToLower(name)), MakeToken(name, tokenIds[name]))
	}
	if err := adapter.Lexer.Compile(); err != nil {
		tracer().Errorf("Error compiling DFA: %v", err)
		return nil, err
	}
	return adapter, nil
}

// Scanner creates a scanner for a given input. The scanner will implement the
// Tokenizer interface.
func (lm *LMAdapter) Scanner(input string) (*LMScanner, error) {
	s, err := lm.Lexer.Scanner([]byte(input))
	if err != nil {
		return &LMScanner{}, err
	}
	return &LMScanner{scanner: s, Error: logError}, nil
}

// LMScanner is a scanner type for lexmachine scanners, implementing the
// Tokenizer interface.
type LMScanner struct {
	scanner *lexmachine.Scanner
	Error   func(error)
	last    lookahead.Position // position of the most recent token
}

var _ scanner.Tokenizer = (*LMScanner)(nil)

// SetErrorHandler sets an error handler for the scanner.
func (lms *LMScanner) SetErrorHandler(h func(error)) {
	if h == nil {
		lms.Error = logError
		return
	}
	lms.Error = h
}

// Default error reporting function for lexmachine-based scanners
func logError(e error) {
	tracer().Errorf("scanner error: %v", e)
}

// PositionError is reported to the error handler for input the lexer could not
// match.
type PositionError struct {
	Pos lookahead.Position
	Msg string
}

func (e *PositionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// NextToken is part of the Tokenizer interface. Unmatched input is reported to
// the error handler and skipped.
func (lms *LMScanner) NextToken() scanner.Token {
	tok, err, eof := lms.scanner.Next()
	for err != nil {
		if ui, is := err.(*machines.UnconsumedInput); is {
			fail := ui.FailTC
			if fail <= ui.StartTC {
				fail = ui.StartTC + 1
			}
			if fail > len(ui.Text) {
				fail = len(ui.Text)
			}
			lms.Error(&PositionError{
				Pos: lookahead.Position{Line: ui.StartLine, Column: ui.StartColumn},
				Msg: fmt.Sprintf("unexpected input %q", ui.Text[ui.StartTC:fail]),
			})
			lms.scanner.TC = fail
		} else {
			lms.Error(err)
		}
		tok, err, eof = lms.scanner.Next()
	}
	if eof {
		tc := uint64(lms.scanner.TC)
		return scanner.MakeDefaultToken(scanner.EOF, "", lookahead.Span{tc, tc}, lms.last)
	}
	tracer().Debugf("tok is %T | %v", tok, tok)
	token := tok.(*lexmachine.Token)
	lms.last = lookahead.Position{Line: token.StartLine, Column: token.StartColumn}
	t := scanner.MakeDefaultToken(
		lookahead.TokType(token.Type),
		string(token.Lexeme),
		lookahead.Span{uint64(token.TC), uint64(token.TC + len(token.Lexeme))},
		lms.last,
	)
	t.Val = token.Value
	return t
}

// ---------------------------------------------------------------------------

// Skip is a pre-defined action which ignores the scanned match.
func Skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

// MakeToken is a pre-defined action which wraps a scanned match into a token.
func MakeToken(name string, id int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(id, string(m.Bytes), m), nil
	}
}
