package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/alisonjenkins/tmux-sessionizer/internal/config"
	"github.com/alisonjenkins/tmux-sessionizer/internal/domain"
)

func cacheFileFor(dir string) func(profile string) string {
	return func(profile string) string {
		return filepath.Join(dir, profile)
	}
}

func TestListPagesUntilEmptyPage(t *testing.T) {
	var requests []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.URL.RawQuery)
		page := r.URL.Query().Get("page")
		w.Header().Set("Content-Type", "application/json")
		if page == "1" {
			_ = json.NewEncoder(w).Encode([]apiRepo{
				{Name: "a", SSHURL: "git@example.com:a.git", CloneURL: "https://example.com/a.git"},
				{Name: "b", SSHURL: "git@example.com:b.git", CloneURL: "https://example.com/b.git"},
			})
			return
		}
		_ = json.NewEncoder(w).Encode([]apiRepo{})
	}))
	defer srv.Close()

	client := New(cacheFileFor(t.TempDir()))
	client.BaseURL = srv.URL
	client.HTTP = srv.Client()

	profile := config.RemoteProfile{Name: "work", CredentialCommand: "echo faketoken"}
	repos, err := client.List(context.Background(), profile, time.Hour, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(repos) != 2 {
		t.Fatalf("got %d repos, want 2", len(repos))
	}
	if len(requests) != 2 {
		t.Fatalf("got %d requests, want 2 (one real page, one empty terminator)", len(requests))
	}
}

func TestListReusesFreshCache(t *testing.T) {
	dir := t.TempDir()
	called := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called++
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]apiRepo{{Name: "a"}})
	}))
	defer srv.Close()

	client := New(cacheFileFor(dir))
	client.BaseURL = srv.URL
	client.HTTP = srv.Client()
	profile := config.RemoteProfile{Name: "work", CredentialCommand: "echo faketoken"}

	if _, err := client.List(context.Background(), profile, time.Hour, false); err != nil {
		t.Fatal(err)
	}
	firstCalled := called

	if _, err := client.List(context.Background(), profile, time.Hour, false); err != nil {
		t.Fatal(err)
	}
	if called != firstCalled {
		t.Errorf("second List made an HTTP call, want cache reuse")
	}
}

func TestListSurfacesBlankCredentialAsError(t *testing.T) {
	client := New(cacheFileFor(t.TempDir()))
	profile := config.RemoteProfile{Name: "work", CredentialCommand: "true"}
	if _, err := client.List(context.Background(), profile, time.Hour, true); err == nil {
		t.Fatal("expected an error for a blank credential token")
	}
}

func TestListSurfacesCredentialCommandFailure(t *testing.T) {
	client := New(cacheFileFor(t.TempDir()))
	profile := config.RemoteProfile{Name: "work", CredentialCommand: "exit 1"}
	if _, err := client.List(context.Background(), profile, time.Hour, true); err == nil {
		t.Fatal("expected an error for a failing credential command")
	}
}

func TestCloneReturnsExistingPathUnchanged(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix shell fixture")
	}
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "a"), 0o755); err != nil {
		t.Fatal(err)
	}

	client := New(cacheFileFor(t.TempDir()))
	repo := domain.Repository{DisplayName: "a"}
	path, err := client.Clone(context.Background(), repo, config.RemoteProfile{}, root)
	if err != nil {
		t.Fatal(err)
	}
	if path != filepath.Join(root, "a") {
		t.Errorf("got %q, want %q", path, filepath.Join(root, "a"))
	}
}

func TestOpenInBrowserUsesWebURL(t *testing.T) {
	orig := openBrowser
	defer func() { openBrowser = orig }()

	var got string
	openBrowser = func(url string) error {
		got = url
		return nil
	}

	client := New(cacheFileFor(t.TempDir()))
	repo := domain.Repository{
		DisplayName:     "a",
		RemoteEndpoints: &domain.RemoteEndpoints{Web: "https://github.com/me/a"},
	}
	if err := client.OpenInBrowser(repo); err != nil {
		t.Fatal(err)
	}
	if got != "https://github.com/me/a" {
		t.Errorf("got %q, want %q", got, "https://github.com/me/a")
	}
}

func TestOpenInBrowserErrorsWithoutWebURL(t *testing.T) {
	client := New(cacheFileFor(t.TempDir()))
	repo := domain.Repository{DisplayName: "a"}
	if err := client.OpenInBrowser(repo); err == nil {
		t.Fatal("expected an error for a repository with no web URL")
	}
}

func TestWebURLFromFullName(t *testing.T) {
	if got := webURLFromFullName("me/a"); got != "https://github.com/me/a" {
		t.Errorf("got %q", got)
	}
	if got := webURLFromFullName(""); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}
