package resolve

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("pass\n"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestResolve_RootRelativePython(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, filepath.Join(tmp, "src", "utils", "helpers.py"))

	r := NewResolver([]string{filepath.Join(tmp, "src")}, []string{".py"})

	got, ok := r.Resolve("utils.helpers", filepath.Join(tmp, "src", "main.py"))
	if !ok {
		t.Fatal("expected utils.helpers to resolve")
	}
	want := filepath.Join(tmp, "src", "utils", "helpers.py")
	if got != want {
		t.Errorf("Resolve() = %q, want %q", got, want)
	}
}

func TestResolve_PackageMarkerFallback(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, filepath.Join(tmp, "src", "models", "__init__.py"))

	r := NewResolver([]string{filepath.Join(tmp, "src")}, []string{".py"})

	got, ok := r.Resolve("models", filepath.Join(tmp, "src", "main.py"))
	if !ok {
		t.Fatal("expected package import to resolve via __init__")
	}
	want := filepath.Join(tmp, "src", "models", "__init__.py")
	if got != want {
		t.Errorf("Resolve() = %q, want %q", got, want)
	}
}

func TestResolve_PythonRelativeDots(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, filepath.Join(tmp, "src", "models", "user.py"))
	fromFile := filepath.Join(tmp, "src", "features", "auth.py")
	writeFile(t, fromFile)

	r := NewResolver([]string{filepath.Join(tmp, "src")}, []string{".py"})

	// Two dots: ascend one parent from the declaring file's directory.
	got, ok := r.Resolve("..models.user", fromFile)
	if !ok {
		t.Fatal("expected ..models.user to resolve")
	}
	want := filepath.Join(tmp, "src", "models", "user.py")
	if got != want {
		t.Errorf("Resolve() = %q, want %q", got, want)
	}
}

func TestResolve_PythonSingleDotSibling(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, filepath.Join(tmp, "src", "pkg", "sibling.py"))
	fromFile := filepath.Join(tmp, "src", "pkg", "main.py")
	writeFile(t, fromFile)

	r := NewResolver([]string{filepath.Join(tmp, "src")}, []string{".py"})

	got, ok := r.Resolve(".sibling", fromFile)
	if !ok {
		t.Fatal("expected .sibling to resolve")
	}
	want := filepath.Join(tmp, "src", "pkg", "sibling.py")
	if got != want {
		t.Errorf("Resolve() = %q, want %q", got, want)
	}
}

func TestResolve_JavaScriptRelative(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, filepath.Join(tmp, "src", "shared", "helper.ts"))
	fromFile := filepath.Join(tmp, "src", "pages", "home.ts")
	writeFile(t, fromFile)

	r := NewResolver([]string{filepath.Join(tmp, "src")}, []string{".ts", ".js"})

	got, ok := r.Resolve("../shared/helper", fromFile)
	if !ok {
		t.Fatal("expected ../shared/helper to resolve")
	}
	want := filepath.Join(tmp, "src", "shared", "helper.ts")
	if got != want {
		t.Errorf("Resolve() = %q, want %q", got, want)
	}
}

func TestResolve_JavaScriptWithExtension(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, filepath.Join(tmp, "src", "styles.css"))
	fromFile := filepath.Join(tmp, "src", "app.js")
	writeFile(t, fromFile)

	r := NewResolver([]string{filepath.Join(tmp, "src")}, []string{".js"})

	got, ok := r.Resolve("./styles.css", fromFile)
	if !ok {
		t.Fatal("expected extension-carrying specifier to resolve as-is")
	}
	want := filepath.Join(tmp, "src", "styles.css")
	if got != want {
		t.Errorf("Resolve() = %q, want %q", got, want)
	}
}

func TestResolve_RootOrderWins(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, filepath.Join(tmp, "src", "config.py"))
	writeFile(t, filepath.Join(tmp, "app", "config.py"))

	r := NewResolver([]string{
		filepath.Join(tmp, "src"),
		filepath.Join(tmp, "app"),
	}, []string{".py"})

	got, _ := r.Resolve("config", filepath.Join(tmp, "src", "main.py"))
	if want := filepath.Join(tmp, "src", "config.py"); got != want {
		t.Errorf("expected first configured root to win, got %q", got)
	}
}

func TestResolve_Unresolvable(t *testing.T) {
	tmp := t.TempDir()
	r := NewResolver([]string{tmp}, []string{".py"})

	if _, ok := r.Resolve("numpy", filepath.Join(tmp, "main.py")); ok {
		t.Error("external package must not resolve")
	}
	if _, ok := r.Resolve("", filepath.Join(tmp, "main.py")); ok {
		t.Error("empty token must not resolve")
	}
}
