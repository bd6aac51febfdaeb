package evhttpd

import "testing"

func TestParseRequestLine(t *testing.T) {
	cases := []struct {
		header     string
		wantOK     bool
		wantMethod string
		wantURI    string
	}{
		{"GET /index.html HTTP/1.1\r\nHost: x\r\n\r\n", true, "GET", "/index.html"},
		{"HEAD / HTTP/1.1\r\n\r\n", true, "HEAD", "/"},
		{"POST /x HTTP/1.1\r\n\r\n", true, "POST", "/x"},
		{"GET /index.html\r\n\r\n", false, "", ""},
		{"\r\n\r\n", false, "", ""},
		{"GET\r\n\r\n", false, "", ""},
	}
	for _, c := range cases {
		got, ok := parseRequestLine([]byte(c.header))
		if ok != c.wantOK {
			t.Errorf("parseRequestLine(%q) ok = %v, want %v", c.header, ok, c.wantOK)
			continue
		}
		if !ok {
			continue
		}
		if got.method != c.wantMethod || got.uri != c.wantURI {
			t.Errorf("parseRequestLine(%q) = %+v, want method=%q uri=%q", c.header, got, c.wantMethod, c.wantURI)
		}
	}
}
