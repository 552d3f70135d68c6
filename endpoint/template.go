package endpoint

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"znuny-client/domain"
)

// Substitute replaces every {name} placeholder of template with the
// path-escaped value of params[name]. Params without a placeholder are ignored.
func Substitute(template string, params map[string]any) (string, error) {
	var b strings.Builder
	b.Grow(len(template))

	rest := template
	for {
		start := strings.IndexByte(rest, '{')
		if start < 0 {
			if strings.IndexByte(rest, '}') >= 0 {
				return "", errors.WithMessagef(domain.ErrMalformedPath, "unexpected '}' in %q", template)
			}
			b.WriteString(rest)
			return b.String(), nil
		}
		if strings.IndexByte(rest[:start], '}') >= 0 {
			return "", errors.WithMessagef(domain.ErrMalformedPath, "unexpected '}' in %q", template)
		}
		b.WriteString(rest[:start])

		end := strings.IndexByte(rest[start:], '}')
		if end < 0 {
			return "", errors.WithMessagef(domain.ErrMalformedPath, "unclosed '{' in %q", template)
		}
		name := rest[start+1 : start+end]
		if name == "" || strings.IndexByte(name, '{') >= 0 {
			return "", errors.WithMessagef(domain.ErrMalformedPath, "invalid placeholder in %q", template)
		}

		value, ok := params[name]
		if !ok {
			return "", errors.WithMessagef(domain.ErrMissingPathParam, "placeholder {%s} in %q", name, template)
		}
		b.WriteString(url.PathEscape(fmt.Sprint(value)))

		rest = rest[start+end+1:]
	}
}
