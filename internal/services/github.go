package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/go-github/v66/github"
	"github.com/patrickmn/go-cache"
)

const (
	DefaultCommitLimit = 20
	MaxCommitLimit     = 100
	shortSHALength     = 7
)

// ErrUpstream wraps failures talking to GitHub.
var ErrUpstream = errors.New("github request failed")

// Commit is the trimmed commit shape returned to the portal.
type Commit struct {
	SHA     string    `json:"sha"`
	Message string    `json:"message"`
	Author  string    `json:"author"`
	Date    time.Time `json:"date"`
	HTMLURL string    `json:"html_url"`
}

// commitLister is the subset of *github.RepositoriesService used here.
type commitLister interface {
	ListCommits(ctx context.Context, owner, repo string, opts *github.CommitsListOptions) ([]*github.RepositoryCommit, *github.Response, error)
}

// GitHubService lists repository commits and caches the results in memory.
type GitHubService struct {
	repos commitLister
	cache *cache.Cache
}

// NewGitHubService builds a client authenticated with token when it is set.
// Unauthenticated clients work for public repositories at a lower rate limit.
func NewGitHubService(token string, ttl time.Duration) *GitHubService {
	client := github.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	return newGitHubService(client.Repositories, ttl)
}

func newGitHubService(repos commitLister, ttl time.Duration) *GitHubService {
	return &GitHubService{
		repos: repos,
		cache: cache.New(ttl, 2*ttl),
	}
}

// ClampCommitLimit maps a requested page size into 1..100, defaulting to 20.
func ClampCommitLimit(limit int) int {
	if limit <= 0 {
		return DefaultCommitLimit
	}
	if limit > MaxCommitLimit {
		return MaxCommitLimit
	}
	return limit
}

// ListCommits returns the most recent commits of owner/repo, newest first.
func (s *GitHubService) ListCommits(ctx context.Context, owner, repo string, limit int) ([]Commit, error) {
	limit = ClampCommitLimit(limit)
	cacheKey := CacheKey("commits", owner, repo, strconv.Itoa(limit))
	if cached, ok := s.cache.Get(cacheKey); ok {
		return cached.([]Commit), nil
	}

	raw, _, err := s.repos.ListCommits(ctx, owner, repo, &github.CommitsListOptions{
		ListOptions: github.ListOptions{PerPage: limit},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	commits := make([]Commit, 0, len(raw))
	for _, rc := range raw {
		commits = append(commits, toCommit(rc))
	}

	s.cache.Set(cacheKey, commits, cache.DefaultExpiration)
	return commits, nil
}

func toCommit(rc *github.RepositoryCommit) Commit {
	sha := rc.GetSHA()
	if len(sha) > shortSHALength {
		sha = sha[:shortSHALength]
	}

	message := rc.GetCommit().GetMessage()
	if i := strings.IndexByte(message, '\n'); i >= 0 {
		message = message[:i]
	}

	author := rc.GetCommit().GetAuthor().GetName()
	if author == "" {
		author = rc.GetAuthor().GetLogin()
	}

	return Commit{
		SHA:     sha,
		Message: strings.TrimSpace(message),
		Author:  author,
		Date:    rc.GetCommit().GetAuthor().GetDate().Time,
		HTMLURL: rc.GetHTMLURL(),
	}
}
