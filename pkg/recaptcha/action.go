package recaptcha

import "strings"

// ActionFromURI derives a default action label from a request URI: the URI is
// percent-decoded (with '+' read as a space) and every byte outside
// [A-Za-z0-9/] is dropped. "/foo/bar?x=1" becomes "/foo/barx1".
func ActionFromURI(requestURI string) string {
	decoded := lenientUnescape(requestURI)
	var b strings.Builder
	b.Grow(len(decoded))
	for i := 0; i < len(decoded); i++ {
		c := decoded[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '/':
			b.WriteByte(c)
		}
	}
	return b.String()
}

// lenientUnescape decodes every valid %XX escape and '+' while copying
// malformed escapes through unchanged. url.QueryUnescape rejects the whole
// string on the first bad escape.
func lenientUnescape(s string) string {
	if !strings.ContainsAny(s, "%+") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '+':
			b.WriteByte(' ')
		case c == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]):
			b.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
			i += 2
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func unhex(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
