package evhttpd

import (
	"fmt"
	"path/filepath"
	"testing"
)

func TestDecodeSegment(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"a+b", "a b"},
		{"a%20b", "a b"},
		{"hello", "hello"},
		{"100%25", "100%"},
		{"%2e%2e", ".."},
		{"100%2", "100%2"}, // truncated escape passes through literally
		{"100%zz", "100%zz"},
	}
	for _, c := range cases {
		got, valid := decodeSegment([]byte(c.in))
		if got != c.want {
			t.Errorf("decodeSegment(%q) = %q, want %q", c.in, got, c.want)
		}
		if !valid {
			t.Errorf("decodeSegment(%q) reported invalid UTF-8 unexpectedly", c.in)
		}
	}
}

func TestDecodeSegmentInvalidUTF8(t *testing.T) {
	// %FF is not a valid standalone UTF-8 byte.
	_, valid := decodeSegment([]byte("%ff"))
	if valid {
		t.Error("decodeSegment(%ff) should report invalid UTF-8")
	}
}

// percentEncode is a reference encoder used only to exercise the
// decode-is-a-left-inverse-of-encode law from the boundary scenarios; it is
// not part of the package's public surface since this server never needs to
// encode a URI itself.
func percentEncode(s string) string {
	out := ""
	for _, b := range []byte(s) {
		switch {
		case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9', b == '.', b == '_', b == '-':
			out += string(b)
		default:
			out += fmt.Sprintf("%%%02X", b)
		}
	}
	return out
}

func TestDecodeSegmentRoundTrip(t *testing.T) {
	inputs := []string{"file.html", "my_doc-2.txt", "weird name", "data.v1"}
	for _, in := range inputs {
		encoded := percentEncode(in)
		got, valid := decodeSegment([]byte(encoded))
		if !valid {
			t.Errorf("decodeSegment(%q) reported invalid UTF-8 unexpectedly", encoded)
		}
		if got != in {
			t.Errorf("round trip %q -> %q -> %q", in, encoded, got)
		}
	}
}

func TestResolvePathContainment(t *testing.T) {
	root := "/srv/www"

	cases := []struct {
		uri       string
		contained bool
	}{
		{"/index.html", true},
		{"/a%20b/c+d", true},
		{"/../../etc/passwd", false},
		{"/a/../../b", false},
		{"/a/b/../c", true},
		{"/", true},
	}
	for _, c := range cases {
		path, contained, valid := resolvePath(root, []byte(c.uri))
		if contained != c.contained {
			t.Errorf("resolvePath(%q) contained = %v, want %v (path=%q)", c.uri, contained, c.contained, path)
		}
		if !valid {
			t.Errorf("resolvePath(%q) reported invalid UTF-8 unexpectedly", c.uri)
		}
	}
}

func TestResolvePathQueryAndFragmentStripped(t *testing.T) {
	root := "/srv/www"
	path, contained, valid := resolvePath(root, []byte("/index.html?x=1#frag"))
	if !contained {
		t.Fatalf("expected containment")
	}
	if !valid {
		t.Fatalf("expected valid UTF-8")
	}
	want := filepath.Join(root, "index.html")
	if path != want {
		t.Errorf("resolvePath with query/fragment = %q, want %q", path, want)
	}
}

func TestResolvePathInvalidUTF8(t *testing.T) {
	root := "/srv/www"
	_, _, valid := resolvePath(root, []byte("/%ff%fe"))
	if valid {
		t.Error("resolvePath(/%ff%fe) should report invalid UTF-8")
	}
}
