package pathutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCanonicalizeResolvesSymlinksAndDots(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target")
	if err := os.Mkdir(target, 0o755); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(dir, "link")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	got, err := Canonicalize(filepath.Join(dir, "link", "..", "link"))
	if err != nil {
		t.Fatal(err)
	}

	wantBase := filepath.Base(target)
	if filepath.Base(got) != wantBase {
		t.Errorf("got %q, want basename %q", got, wantBase)
	}
}

func TestCanonicalizeExpandsEnvAndHome(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TMS_TEST_CANON_DIR", dir)

	got, err := Canonicalize("$TMS_TEST_CANON_DIR")
	if err != nil {
		t.Fatal(err)
	}
	resolved, _ := filepath.EvalSymlinks(dir)
	if got != resolved {
		t.Errorf("got %q, want %q", got, resolved)
	}
}

func TestCanonicalizeMissingPath(t *testing.T) {
	_, err := Canonicalize("/this/path/really/should/not/exist/anywhere/xyz")
	if err != ErrNotFound {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestCanonicalizeNonText(t *testing.T) {
	_, err := Canonicalize(string([]byte{0xff, 0xfe, 0x00}))
	if err != ErrNotText {
		t.Errorf("got %v, want ErrNotText", err)
	}
}
