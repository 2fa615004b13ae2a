package core

// streaming.go provides the reader wrapper applied to the CSV source before
// parsing. Spreadsheet exports from Windows often start with a UTF-8 BOM,
// which would otherwise end up glued to the first header name ("\ufeffRegion").

import (
	"bufio"
	"bytes"
	"io"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// SkipBOM returns a reader that yields r's content without a leading UTF-8 BOM.
// Read errors during the check are deferred to the first Read of the result.
func SkipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	prefix, err := br.Peek(len(utf8BOM))
	if err == nil && bytes.Equal(prefix, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return br
}
