package kicad

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenOpen
	tokenClose
	tokenAtom
	tokenString
)

type token struct {
	kind  tokenKind
	value string
}

// lexer tokenizes KiCad s-expressions. KiCad quoting differs from generic
// lisp readers: doubled quotes inside strings are escapes, and backslash
// escapes follow C conventions.
type lexer struct {
	r       *bufio.Reader
	peeked  rune
	hasPeek bool
}

func newLexer(r io.Reader) *lexer {
	return &lexer{r: bufio.NewReader(r)}
}

func (l *lexer) peek() (rune, error) {
	if l.hasPeek {
		return l.peeked, nil
	}
	ch, _, err := l.r.ReadRune()
	if err != nil {
		return 0, err
	}
	l.peeked = ch
	l.hasPeek = true
	return ch, nil
}

func (l *lexer) read() (rune, error) {
	if l.hasPeek {
		l.hasPeek = false
		return l.peeked, nil
	}
	ch, _, err := l.r.ReadRune()
	return ch, err
}

func (l *lexer) next() (token, error) {
	// Skip whitespace and #-comments.
	for {
		ch, err := l.peek()
		if err == io.EOF {
			return token{kind: tokenEOF}, nil
		}
		if err != nil {
			return token{}, err
		}
		if unicode.IsSpace(ch) {
			l.read()
			continue
		}
		if ch == '#' {
			for {
				c, err := l.read()
				if err != nil || c == '\n' {
					break
				}
			}
			continue
		}
		break
	}

	ch, err := l.peek()
	if err == io.EOF {
		return token{kind: tokenEOF}, nil
	}
	if err != nil {
		return token{}, err
	}

	switch ch {
	case '(':
		l.read()
		return token{kind: tokenOpen}, nil
	case ')':
		l.read()
		return token{kind: tokenClose}, nil
	case '"':
		return l.readString()
	default:
		return l.readAtom()
	}
}

func (l *lexer) readString() (token, error) {
	l.read() // opening quote

	var sb strings.Builder
	for {
		ch, err := l.read()
		if err != nil {
			return token{}, fmt.Errorf("unterminated string")
		}
		switch ch {
		case '"':
			// A doubled quote is an escaped quote, anything else ends the string.
			next, err := l.peek()
			if err == nil && next == '"' {
				l.read()
				sb.WriteRune('"')
				continue
			}
			return token{kind: tokenString, value: sb.String()}, nil
		case '\\':
			next, err := l.read()
			if err != nil {
				return token{}, fmt.Errorf("unterminated escape sequence")
			}
			switch next {
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			case 'r':
				sb.WriteRune('\r')
			default:
				sb.WriteRune(next)
			}
		default:
			sb.WriteRune(ch)
		}
	}
}

func (l *lexer) readAtom() (token, error) {
	var sb strings.Builder
	for {
		ch, err := l.peek()
		if err == io.EOF {
			break
		}
		if err != nil {
			return token{}, err
		}
		if unicode.IsSpace(ch) || ch == '(' || ch == ')' || ch == '"' {
			break
		}
		l.read()
		sb.WriteRune(ch)
	}
	if sb.Len() == 0 {
		return token{}, fmt.Errorf("empty atom")
	}
	return token{kind: tokenAtom, value: sb.String()}, nil
}
