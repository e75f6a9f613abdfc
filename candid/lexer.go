package candid

import (
	"strconv"
	"strings"
	"text/scanner"
)

type token struct {
	kind rune
	text string
	pos  scanner.Position
}

// lex splits text into tokens. The final token is always scanner.EOF.
func lex(text string) ([]token, error) {
	var s scanner.Scanner
	s.Init(strings.NewReader(text))
	s.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanStrings |
		scanner.ScanComments | scanner.SkipComments

	var lexErr *ParseError
	s.Error = func(s *scanner.Scanner, msg string) {
		if lexErr == nil {
			pos := s.Pos()
			lexErr = &ParseError{Line: pos.Line, Column: pos.Column, Message: msg}
		}
	}

	var tokens []token
	for {
		kind := s.Scan()
		if lexErr != nil {
			return nil, lexErr
		}
		tok := token{kind: kind, text: s.TokenText(), pos: s.Position}
		if kind == scanner.String {
			if unquoted, err := strconv.Unquote(tok.text); err == nil {
				tok.text = unquoted
			} else {
				tok.text = strings.Trim(tok.text, `"`)
			}
		}
		tokens = append(tokens, tok)
		if kind == scanner.EOF {
			return tokens, nil
		}
	}
}

func describe(t token) string {
	if t.kind == scanner.EOF {
		return "end of input"
	}
	return strconv.Quote(t.text)
}
