package evhttpd

import "bytes"

// requestLine is the parsed first line of an HTTP request.
type requestLine struct {
	method string
	uri    string
}

// parseRequestLine extracts method and URI from the first line of a buffered
// header block. It reports ok=false if that line does not split into
// exactly three space-separated tokens (method, URI, version); the version
// token is otherwise unused, since every response is HTTP/1.1 regardless of
// what the client sent.
func parseRequestLine(header []byte) (requestLine, bool) {
	firstLineEnd := bytes.Index(header, []byte("\r\n"))
	line := header
	if firstLineEnd >= 0 {
		line = header[:firstLineEnd]
	}

	tokens := bytes.Split(line, []byte(" "))
	if len(tokens) != 3 {
		return requestLine{}, false
	}
	return requestLine{method: string(tokens[0]), uri: string(tokens[1])}, true
}
