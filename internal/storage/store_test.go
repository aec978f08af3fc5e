package storage

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestSetGetRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "store.json")
	s, err := Open(path, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok, err := s.Get("missing"); err != nil || ok {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}
	if err := s.Set("memeTemplates", []byte(`[{"id":"a"}]`)); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	reopened, err := Open(path, Options{})
	if err != nil {
		t.Fatal(err)
	}
	v, ok, err := reopened.Get("memeTemplates")
	if err != nil || !ok {
		t.Fatalf("get failed: ok=%v err=%v", ok, err)
	}
	if !bytes.Equal(v, []byte(`[{"id":"a"}]`)) {
		t.Fatalf("unexpected value: %s", v)
	}
	if _, err := os.Stat(path + ".tmp"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("temporary file left behind: %v", err)
	}
}

func TestValuesSurviveRewrites(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "store.json"), Options{})
	if err != nil {
		t.Fatal(err)
	}
	caption := []byte(`[{"id":"a","texts":[{"content":"Tom & Jerry <3"}]}]`)
	if err := s.Set("memeTemplates", caption); err != nil {
		t.Fatal(err)
	}
	// A second write re-encodes every entry already in the file.
	if err := s.Set("other", []byte(`{ "a" : [ 1, 2 ] }`)); err != nil {
		t.Fatal(err)
	}
	v, _, err := s.Get("memeTemplates")
	if err != nil || !bytes.Equal(v, caption) {
		t.Fatalf("value changed across rewrites: %s (err %v)", v, err)
	}
	v, _, err = s.Get("other")
	if err != nil || string(v) != `{"a":[1,2]}` {
		t.Fatalf("expected compact value, got %s (err %v)", v, err)
	}
}

func TestSetRejectsInvalidJSON(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "store.json"), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Set("k", []byte("{not json")); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestDeleteAndKeys(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "store.json"), Options{})
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"b", "a", "c"} {
		if err := s.Set(k, []byte(`1`)); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Delete("b"); err != nil {
		t.Fatal(err)
	}
	keys, err := s.Keys()
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "c" {
		t.Fatalf("unexpected keys: %v", keys)
	}
}

func TestEncryptedCompressedStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.bin")
	opts := Options{Compression: true, Password: "hunter2"}
	s, err := Open(path, opts)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Set("memeTemplates", []byte(`["secret caption"]`)); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(raw, []byte("secret caption")) {
		t.Fatal("plaintext leaked into encrypted store")
	}
	info, err := s.Inspect()
	if err != nil {
		t.Fatal(err)
	}
	if !info.Wrapped || !info.Encrypted || !info.Compressed {
		t.Fatalf("unexpected envelope info: %#v", info)
	}

	if _, err := Open(path, Options{}); !errors.Is(err, ErrPasswordRequired) {
		t.Fatalf("expected ErrPasswordRequired, got %v", err)
	}
	if _, err := Open(path, Options{Password: "wrong"}); !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("expected ErrInvalidPassword, got %v", err)
	}

	again, err := Open(path, opts)
	if err != nil {
		t.Fatal(err)
	}
	v, ok, err := again.Get("memeTemplates")
	if err != nil || !ok || string(v) != `["secret caption"]` {
		t.Fatalf("unexpected value %q ok=%v err=%v", v, ok, err)
	}
}

func TestOpenRejectsTruncatedEnvelope(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.bin")
	if err := os.WriteFile(path, []byte(envelopeMagic+"\x01"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path, Options{}); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt, got %v", err)
	}
}
