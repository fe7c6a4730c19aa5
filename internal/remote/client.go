// Package remote implements the remote-catalogue mode: credential
// resolution via a configured shell command, paged listing over HTTP,
// and on-demand cloning, with a per-profile cache snapshot.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/alisonjenkins/tmux-sessionizer/internal/cacheio"
	"github.com/alisonjenkins/tmux-sessionizer/internal/config"
	"github.com/alisonjenkins/tmux-sessionizer/internal/domain"
)

const (
	defaultBaseURL = "https://api.github.com"
	perPage        = 100
	maxPages       = 50
)

// Client lists and clones repositories from one or more named remote
// profiles.
type Client struct {
	HTTP    *http.Client
	BaseURL string

	cacheFile func(profile string) string
}

// New constructs a Client whose remote cache is stored under
// cacheFile(profile).
func New(cacheFile func(profile string) string) *Client {
	return &Client{
		HTTP:      &http.Client{Timeout: 30 * time.Second},
		BaseURL:   defaultBaseURL,
		cacheFile: cacheFile,
	}
}

type apiRepo struct {
	Name        string `json:"name"`
	FullName    string `json:"full_name"`
	CloneURL    string `json:"clone_url"`
	SSHURL      string `json:"ssh_url"`
	Description string `json:"description"`
	UpdatedAt   string `json:"updated_at"`
}

// List returns the repository set for profile, reusing the on-disk
// cache when it is fresh and forceRefresh is false.
func (c *Client) List(ctx context.Context, profile config.RemoteProfile, ttl time.Duration, forceRefresh bool) ([]domain.Repository, error) {
	path := c.cacheFile(profile.Name)

	if !forceRefresh {
		var rec cachedRecord
		status, err := cacheio.Read(path, &rec)
		if status == cacheio.StatusPresent && err == nil {
			age := time.Since(time.Unix(rec.CachedAtUnix, 0))
			if age < ttl {
				return fromCached(rec.Repositories), nil
			}
		}
	}

	token, err := c.resolveCredential(ctx, profile.CredentialCommand)
	if err != nil {
		return nil, err
	}

	repos, err := c.fetchAll(ctx, token)
	if err != nil {
		return nil, err
	}

	rec := cachedRecord{CachedAtUnix: time.Now().Unix(), Repositories: toCached(repos)}
	if err := cacheio.Write(path, rec); err != nil {
		fmt.Fprintf(os.Stderr, "remote: failed to cache %s: %v\n", profile.Name, err)
	}

	return repos, nil
}

func (c *Client) resolveCredential(ctx context.Context, command string) (string, error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("remote: credential command failed: %w (%s)", err, strings.TrimSpace(stderr.String()))
	}
	token := strings.TrimSpace(stdout.String())
	if token == "" {
		return "", fmt.Errorf("remote: credential command produced an empty token")
	}
	return token, nil
}

func (c *Client) fetchAll(ctx context.Context, token string) ([]domain.Repository, error) {
	var repos []domain.Repository

	for page := 1; page <= maxPages; page++ {
		url := fmt.Sprintf("%s/user/repos?page=%d&per_page=%d&sort=updated", c.BaseURL, page, perPage)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "token "+token)
		req.Header.Set("User-Agent", "tmux-sessionizer")

		resp, err := c.HTTP.Do(req)
		if err != nil {
			return nil, fmt.Errorf("remote: request failed: %w", err)
		}
		body, readErr := readAndClose(resp)
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("remote: API returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
		}
		if readErr != nil {
			return nil, fmt.Errorf("remote: reading response body: %w", readErr)
		}

		var pageRepos []apiRepo
		if err := json.Unmarshal(body, &pageRepos); err != nil {
			return nil, fmt.Errorf("remote: decoding response: %w", err)
		}
		if len(pageRepos) == 0 {
			break
		}

		for _, r := range pageRepos {
			repos = append(repos, domain.Repository{
				DisplayName: r.Name,
				Kind:        domain.KindRemote,
				RemoteEndpoints: &domain.RemoteEndpoints{
					Encrypted: r.SSHURL,
					Plain:     r.CloneURL,
					Web:       webURLFromFullName(r.FullName),
				},
			})
		}
	}

	return repos, nil
}

// Clone ensures repo is present under targetRoot, invoking the
// profile's clone method via a git subprocess if it is not already.
func (c *Client) Clone(ctx context.Context, repo domain.Repository, profile config.RemoteProfile, targetRoot string) (string, error) {
	if err := os.MkdirAll(targetRoot, 0o755); err != nil {
		return "", fmt.Errorf("remote: creating clone root: %w", err)
	}

	localPath := filepath.Join(targetRoot, repo.DisplayName)
	if _, err := os.Stat(localPath); err == nil {
		return localPath, nil
	}

	if repo.RemoteEndpoints == nil {
		return "", fmt.Errorf("remote: %s has no clone endpoints", repo.DisplayName)
	}
	endpoint := repo.RemoteEndpoints.Encrypted
	if profile.CloneMethod == config.CloneHTTPS {
		endpoint = repo.RemoteEndpoints.Plain
	}

	cmd := exec.CommandContext(ctx, "git", "clone", endpoint, repo.DisplayName)
	cmd.Dir = targetRoot
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("remote: clone failed: %w (%s)", err, strings.TrimSpace(stderr.String()))
	}

	return localPath, nil
}

func webURLFromFullName(fullName string) string {
	if fullName == "" {
		return ""
	}
	return "https://github.com/" + fullName
}

// OpenInBrowser opens repo's web URL in the user's default browser.
// A remote record with no web URL (e.g. replayed from an older cache
// snapshot) is reported as an error rather than silently doing
// nothing.
func (c *Client) OpenInBrowser(repo domain.Repository) error {
	if repo.RemoteEndpoints == nil || repo.RemoteEndpoints.Web == "" {
		return fmt.Errorf("remote: %s has no browsable web URL", repo.DisplayName)
	}
	return openBrowser(repo.RemoteEndpoints.Web)
}

func readAndClose(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	buf := new(bytes.Buffer)
	_, err := buf.ReadFrom(resp.Body)
	return buf.Bytes(), err
}
