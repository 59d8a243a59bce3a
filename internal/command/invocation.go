package command

import (
	"regexp"
	"strings"
	"unicode"
)

// Invocation is a parsed slash command: a name, named key=value
// arguments, and leftover positional tokens in input order.
type Invocation struct {
	Name    string            `json:"name"`
	Args    map[string]string `json:"args"`
	RawArgs []string          `json:"rawArgs"`
}

var commandNameRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// IsSlashCommand reports whether input looks like a slash command.
func IsSlashCommand(input string) bool {
	trimmed := strings.TrimSpace(input)
	return len(trimmed) > 1 && trimmed[0] == '/' && !unicode.IsSpace(rune(trimmed[1]))
}

// token is a single tokenized span. eq records the offset of the first
// '=' that appeared outside quotes and escapes, or -1. Only such an
// '=' may split a named argument, so quoted values like "a=b" stay
// positional.
type token struct {
	text string
	eq   int
}

// ParseInvocation tokenizes a raw slash command string.
//
// The input must start with '/' followed by the command name. Double
// quotes group whitespace into one token and a backslash escapes the
// following character. A token whose first unquoted '=' has a valid
// identifier on its left becomes a named argument; the rest of the
// token after that '=' is the value verbatim. All other tokens are
// positional.
func ParseInvocation(input string) (*Invocation, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil, ErrEmptyCommand
	}
	if trimmed[0] != '/' {
		return nil, ErrMissingSlash
	}

	tokens, err := tokenize(trimmed[1:])
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, ErrEmptyCommand
	}

	name := tokens[0].text
	if !commandNameRe.MatchString(name) {
		return nil, &InvalidNameError{Name: name}
	}

	inv := &Invocation{
		Name: name,
		Args: make(map[string]string),
	}

	for _, tok := range tokens[1:] {
		if key, value, ok := splitNamed(tok); ok {
			inv.Args[key] = value
		} else {
			inv.RawArgs = append(inv.RawArgs, tok.text)
		}
	}

	return inv, nil
}

// tokenize splits the input on whitespace, honoring double quotes and
// backslash escapes.
func tokenize(input string) ([]token, error) {
	var (
		tokens   []token
		sb       strings.Builder
		eq       = -1
		inToken  bool
		inQuotes bool
		escaped  bool
	)

	flush := func() {
		if inToken {
			tokens = append(tokens, token{text: sb.String(), eq: eq})
			sb.Reset()
			eq = -1
			inToken = false
		}
	}

	for _, r := range input {
		switch {
		case escaped:
			sb.WriteRune(r)
			inToken = true
			escaped = false
		case r == '\\':
			escaped = true
			inToken = true
		case r == '"':
			inQuotes = !inQuotes
			inToken = true
		case unicode.IsSpace(r) && !inQuotes:
			flush()
		default:
			if r == '=' && !inQuotes && eq < 0 {
				eq = sb.Len()
			}
			sb.WriteRune(r)
			inToken = true
		}
	}

	if escaped {
		return nil, ErrTrailingEscape
	}
	if inQuotes {
		return nil, ErrUnclosedQuotes
	}
	flush()

	return tokens, nil
}

// splitNamed splits a token into a named argument if its recorded '='
// has a valid identifier to the left.
func splitNamed(tok token) (key, value string, ok bool) {
	if tok.eq <= 0 || tok.eq >= len(tok.text) {
		return "", "", false
	}
	key = tok.text[:tok.eq]
	if !isIdentifier(key) {
		return "", "", false
	}
	return key, tok.text[tok.eq+1:], true
}

// isIdentifier reports whether s is a valid argument identifier:
// a letter or underscore followed by letters, digits, or underscores.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_':
		case unicode.IsLetter(r):
		case unicode.IsDigit(r):
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
