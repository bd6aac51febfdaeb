package evhttpd

// statusCode is one of the small set of HTTP status codes this server ever
// emits (spec.md §3/§6).
type statusCode int

const (
	StatusOK               statusCode = 200
	StatusForbidden        statusCode = 403
	StatusNotFound         statusCode = 404
	StatusMethodNotAllowed statusCode = 405
	StatusInternalError    statusCode = 500
)

var statusText = map[statusCode]string{
	StatusOK:               "Ok",
	StatusForbidden:        "Forbidden",
	StatusNotFound:         "Not Found",
	StatusMethodNotAllowed: "Method not allowed",
	StatusInternalError:    "Internal Server Error",
}

// serverHeaderValue is the literal Server: header value, matching the
// original implementation's self-identification string.
const serverHeaderValue = "httpd.py"

// mimeTypes is the built-in extension-to-Content-Type table. WithMIMEType
// layers additional entries on top at Engine construction time.
var mimeTypes = map[string]string{
	".html": "text/html",
	".css":  "text/css",
	".js":   "application/javascript",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".swf":  "application/x-shockwave-flash",
}
