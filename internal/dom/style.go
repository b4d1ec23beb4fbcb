package dom

import (
	"strings"

	"github.com/gorilla/css/scanner"
)

// parseStyle reads a style attribute into lower-cased property -> value.
// Later declarations win; !important is dropped.
func parseStyle(style string) map[string]string {
	decls := make(map[string]string)

	s := scanner.New(style)

	var (
		prop    string
		value   strings.Builder
		inValue bool
	)

	flush := func() {
		if prop != "" && inValue {
			v := strings.TrimSpace(value.String())
			v = strings.TrimSpace(strings.TrimSuffix(v, "!important"))
			decls[prop] = v
		}

		prop = ""
		value.Reset()
		inValue = false
	}

	for {
		tok := s.Next()

		switch tok.Type {
		case scanner.TokenEOF, scanner.TokenError:
			flush()
			return decls
		case scanner.TokenComment:
		case scanner.TokenChar:
			switch {
			case tok.Value == ";":
				flush()
			case tok.Value == ":" && !inValue && prop != "":
				inValue = true
			case inValue:
				value.WriteString(tok.Value)
			}
		case scanner.TokenIdent:
			if inValue {
				value.WriteString(tok.Value)
			} else {
				prop = strings.ToLower(tok.Value)
			}
		default:
			if inValue {
				value.WriteString(tok.Value)
			}
		}
	}
}
