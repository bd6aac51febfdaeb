package evhttpd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestAFRReadsWholeFile(t *testing.T) {
	dir := t.TempDir()
	content := bytes.Repeat([]byte("abcdefgh"), 2000) // 16000 bytes
	path := filepath.Join(dir, "f.bin")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}

	a := newAFR(512, 4096)
	a.start()
	defer a.finish()

	const fakeFD = 1000
	a.register(fakeFD, f)

	var got []byte
	deadline := time.After(5 * time.Second)
	for {
		chunk, eof := a.read(fakeFD)
		got = append(got, chunk...)
		if eof {
			break
		}
		select {
		case <-deadline:
			t.Fatal("timed out waiting for AFR to reach EOF")
		case <-time.After(time.Millisecond):
		}
	}

	if !bytes.Equal(got, content) {
		t.Errorf("AFR produced %d bytes, want %d bytes matching original content", len(got), len(content))
	}
}

func TestAFRUnregisterStopsDelivery(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.bin")
	if err := os.WriteFile(path, bytes.Repeat([]byte("x"), 1<<20), 0644); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}

	a := newAFR(4096, 1<<20)
	a.start()
	defer a.finish()

	const fakeFD = 2000
	a.register(fakeFD, f)
	a.unregister(fakeFD)

	deadline := time.After(2 * time.Second)
	for {
		_, eof := a.read(fakeFD)
		if eof {
			return
		}
		select {
		case <-deadline:
			t.Fatal("unregister did not reach eof promptly")
		case <-time.After(time.Millisecond):
		}
	}
}

func TestAFRReadUnknownFDReturnsEOF(t *testing.T) {
	a := newAFR(4096, 1<<20)
	a.start()
	defer a.finish()

	buf, eof := a.read(99999)
	if !eof || buf != nil {
		t.Errorf("read on unknown fd = (%v, %v), want (nil, true)", buf, eof)
	}
}
