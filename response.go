package evhttpd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// responsePlan is the outcome of resolving one request: the header block to
// send immediately, and, for a satisfied GET, an open file to stream as the
// body via the AFR.
type responsePlan struct {
	status statusCode
	header []byte
	path   string
	file   *os.File
}

// buildResponse resolves method and uri against e's document root and
// produces the full disposition: status code, header block, and (for GET)
// an opened file handle. See spec.md §4.3 for the disposition table.
func (e *Engine) buildResponse(method, uri string) *responsePlan {
	status, path, file, extra := e.resolveRequest(method, uri)
	return &responsePlan{
		status: status,
		header: buildHeaderBlock(status, extra),
		path:   path,
		file:   file,
	}
}

func (e *Engine) resolveRequest(method, uri string) (status statusCode, path string, file *os.File, extra []string) {
	if method != "GET" && method != "HEAD" {
		return StatusMethodNotAllowed, "", nil, nil
	}

	resolved, contained, valid := resolvePath(e.root, []byte(uri))
	if !valid {
		e.log.Infof("request uri=%q: invalid percent-encoded UTF-8", uri)
		return StatusInternalError, "", nil, nil
	}
	if !contained {
		e.log.Infof("%v", fmt.Errorf("%w: uri=%q resolved=%q", ErrPathEscapesRoot, uri, resolved))
		return StatusForbidden, "", nil, nil
	}

	info, err := os.Stat(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			return StatusNotFound, "", nil, nil
		}
		return StatusInternalError, "", nil, nil
	}

	if info.IsDir() {
		resolved = filepath.Join(resolved, "index.html")
		info, err = os.Stat(resolved)
		if err != nil {
			if os.IsNotExist(err) {
				return StatusNotFound, "", nil, nil
			}
			return StatusInternalError, "", nil, nil
		}
	}

	if !info.Mode().IsRegular() {
		return StatusNotFound, "", nil, nil
	}

	ext := strings.ToLower(filepath.Ext(resolved))
	extra = append(extra, fmt.Sprintf("Content-Length: %d", info.Size()))
	if ct, ok := e.mimeTypes[ext]; ok {
		extra = append(extra, fmt.Sprintf("Content-Type: %s", ct))
	}

	if method == "GET" {
		f, ferr := os.Open(resolved)
		if ferr != nil {
			return StatusInternalError, "", nil, nil
		}
		file = f
	}

	return StatusOK, resolved, file, extra
}

// buildHeaderBlock renders the fixed response preamble plus any extra
// header lines, terminated by the blank line that ends an HTTP header
// block. Header-building failures still produce a well-formed response
// with no extra lines (spec.md §7).
func buildHeaderBlock(status statusCode, extra []string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "HTTP/1.1 %d %s\r\n", status, statusText[status])
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().UTC().Format("Mon, 02 Jan 2006 15:04:05 UTC"))
	fmt.Fprintf(&b, "Server: %s\r\n", serverHeaderValue)
	b.WriteString("Connection: close\r\n")
	for _, h := range extra {
		b.WriteString(h)
		b.WriteString("\r\n")
	}
	b.WriteString("\r\n")
	return []byte(b.String())
}
