package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestResultCache_RoundTrip(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), "cache.json"))

	c.Put(Key("dependency_graph", "abc"), payload{Name: "graph", Count: 3})

	var got payload
	if !c.Get(Key("dependency_graph", "abc"), time.Hour, &got) {
		t.Fatal("expected fresh entry to hit")
	}
	if got.Name != "graph" || got.Count != 3 {
		t.Errorf("payload mangled: %+v", got)
	}
}

func TestResultCache_Expiry(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), "cache.json"))

	base := time.Now()
	c.now = func() time.Time { return base }
	c.Put("detector:stale_logic:proj", payload{Count: 1})

	c.now = func() time.Time { return base.Add(25 * time.Hour) }
	var got payload
	if c.Get("detector:stale_logic:proj", 24*time.Hour, &got) {
		t.Error("expired entry must miss")
	}

	c.now = func() time.Time { return base.Add(time.Hour) }
	if !c.Get("detector:stale_logic:proj", 24*time.Hour, &got) {
		t.Error("entry inside TTL must hit")
	}
}

func TestResultCache_MissingKey(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), "cache.json"))

	var got payload
	if c.Get("dependency_graph:nothing", time.Hour, &got) {
		t.Error("unknown key must miss")
	}
}

func TestResultCache_CorruptFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(path)
	var got payload
	if c.Get("any:key", time.Hour, &got) {
		t.Error("corrupt cache must behave as empty")
	}

	// Writes must recover the file.
	c.Put("any:key", payload{Count: 9})
	if !c.Get("any:key", time.Hour, &got) || got.Count != 9 {
		t.Error("cache did not recover after corrupt load")
	}
}

func TestResultCache_Clear(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), "cache.json"))
	c.Put("a:b", payload{Count: 1})

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	if err := c.Clear(); err != nil {
		t.Errorf("clearing a missing file must be fine: %v", err)
	}

	var got payload
	if c.Get("a:b", time.Hour, &got) {
		t.Error("entry survived Clear()")
	}
}

func TestKey(t *testing.T) {
	if got := Key("dependency_graph", "deadbeef"); got != "dependency_graph:deadbeef" {
		t.Errorf("Key() = %q", got)
	}
}

func TestFingerprint_Deterministic(t *testing.T) {
	tmp := t.TempDir()
	a := filepath.Join(tmp, "a.py")
	b := filepath.Join(tmp, "b.py")
	for _, f := range []string{a, b} {
		if err := os.WriteFile(f, []byte("x = 1\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	first := Fingerprint([]string{a, b})
	second := Fingerprint([]string{b, a})
	if first != second {
		t.Errorf("fingerprint must not depend on input order: %s vs %s", first, second)
	}
}

func TestFingerprint_SensitiveToChanges(t *testing.T) {
	tmp := t.TempDir()
	a := filepath.Join(tmp, "a.py")
	if err := os.WriteFile(a, []byte("x = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	before := Fingerprint([]string{a})

	if err := os.WriteFile(a, []byte("x = 1\ny = 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if after := Fingerprint([]string{a}); after == before {
		t.Error("content size change must change the fingerprint")
	}

	b := filepath.Join(tmp, "b.py")
	if err := os.WriteFile(b, []byte("pass\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if withB := Fingerprint([]string{a, b}); withB == Fingerprint([]string{a}) {
		t.Error("added file must change the fingerprint")
	}
}

func TestFingerprint_SkipsMissingFiles(t *testing.T) {
	tmp := t.TempDir()
	a := filepath.Join(tmp, "a.py")
	if err := os.WriteFile(a, []byte("x = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	with := Fingerprint([]string{a, filepath.Join(tmp, "ghost.py")})
	without := Fingerprint([]string{a})
	if with != without {
		t.Error("unreadable input must contribute nothing")
	}
}
