package html5

// voidElements is the set from spec.md §4.4: these are implicitly
// self-closing regardless of source syntax and are never pushed onto the
// stack of open elements.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// rawTextElements is the set from spec.md §4.3: start tags for these switch
// the tokenizer into raw-text scanning mode (their body is a single text
// token, up to a matching close tag). title is RCDATA rather than CDATA in
// the WHATWG grammar, but this tokenizer's raw-text scan does not decode
// character references for any of these three, so title's body is treated
// identically to script/style's.
var rawTextElements = map[string]bool{
	"script": true,
	"style":  true,
	"title":  true,
}

func isWhitespace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	default:
		return false
	}
}

func lowerASCII(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}

func equalFoldASCII(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if lowerASCII(a[i]) != lowerASCII(b[i]) {
			return false
		}
	}
	return true
}
