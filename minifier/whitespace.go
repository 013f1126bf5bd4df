package minifier

import (
	"bufio"
	"bytes"
	"strings"
)

// WhitespaceJSMinifier is the default JSMinifier: it strips blank lines and
// leading/trailing whitespace per line. It does not parse JS — good enough
// to shrink a bundle without claiming to be a real JS minifier (the spec
// treats minifier internals as an external collaborator, out of scope).
type WhitespaceJSMinifier struct{}

// MinifyJS implements JSMinifier.
func (WhitespaceJSMinifier) MinifyJS(src []byte, _ bool, _ bool) ([]byte, error) {
	return stripBlankLines(src), nil
}

// WhitespaceCSSMinifier is the default CSSMinifier: same whitespace-only
// strategy as WhitespaceJSMinifier.
type WhitespaceCSSMinifier struct{}

// MinifyCSS implements CSSMinifier.
func (WhitespaceCSSMinifier) MinifyCSS(src []byte) ([]byte, error) {
	return stripBlankLines(src), nil
}

func stripBlankLines(src []byte) []byte {
	var out bytes.Buffer
	scanner := bufio.NewScanner(bytes.NewReader(src))
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		out.WriteString(line)
		out.WriteByte('\n')
	}
	return out.Bytes()
}
