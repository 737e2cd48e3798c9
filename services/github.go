package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"

	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
)

const githubTimeout = 30 * time.Second

type GithubStatsStore interface {
	Get(ctx context.Context) (*models.GithubStats, error)
	Upsert(ctx context.Context, stats *models.GithubStats) error
}

// githubUser and githubRepo map the parts of the REST v3 responses we use.
type githubUser struct {
	PublicRepos int     `json:"public_repos"`
	Followers   int     `json:"followers"`
	Following   int     `json:"following"`
	AvatarURL   string  `json:"avatar_url"`
	Bio         *string `json:"bio"`
	Location    *string `json:"location"`
	Company     *string `json:"company"`
	Blog        *string `json:"blog"`
}

type githubRepo struct {
	StargazersCount int     `json:"stargazers_count"`
	ForksCount      int     `json:"forks_count"`
	Language        *string `json:"language"`
}

type githubError struct {
	Message string `json:"message"`
}

// GithubStatsPatch carries the fields of a manual override. Nil fields are left untouched.
type GithubStatsPatch struct {
	Username    *string    `json:"username"`
	TotalRepos  *int       `json:"totalRepos"`
	TotalStars  *int       `json:"totalStars"`
	TotalForks  *int       `json:"totalForks"`
	Followers   *int       `json:"followers"`
	Following   *int       `json:"following"`
	Languages   *[]string  `json:"languages"`
	AvatarURL   *string    `json:"avatarUrl"`
	Bio         *string    `json:"bio"`
	Location    *string    `json:"location"`
	Company     *string    `json:"company"`
	Blog        *string    `json:"blog"`
	LastUpdated *time.Time `json:"lastUpdated"`
}

type GithubService struct {
	client   *http.Client
	apiURL   string
	username string
	store    GithubStatsStore
	now      func() time.Time
	logger   zerolog.Logger
}

// NewGithubService authenticates requests with cfg.Token when one is configured, which
// raises GitHub's rate limit.
func NewGithubService(cfg config.GithubConfig, store GithubStatsStore) *GithubService {
	client := &http.Client{Timeout: githubTimeout}
	if cfg.Token != "" {
		client = oauth2.NewClient(context.Background(), oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token}))
		client.Timeout = githubTimeout
	}

	return &GithubService{
		client:   client,
		apiURL:   cfg.APIURL,
		username: cfg.Username,
		store:    store,
		now:      time.Now,
		logger:   log.With().Str("service", "github").Logger(),
	}
}

// Fetch reads the profile and repository list concurrently and reduces them to a snapshot.
// Nothing is persisted.
func (s *GithubService) Fetch(ctx context.Context) (*models.GithubStats, error) {
	if s.username == "" {
		return nil, errs.NewConfigError("GITHUB_USERNAME is not set", nil)
	}

	var (
		user  githubUser
		repos []githubRepo
	)
	name := url.PathEscape(s.username)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.get(gctx, "/users/"+name, &user)
	})
	g.Go(func() error {
		return s.get(gctx, "/users/"+name+"/repos?per_page=100&sort=updated", &repos)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := reduceGithub(s.username, user, repos)
	stats.LastUpdated = s.now()
	return stats, nil
}

func reduceGithub(username string, user githubUser, repos []githubRepo) *models.GithubStats {
	stats := &models.GithubStats{
		ID:         models.GithubStatsID,
		Username:   username,
		TotalRepos: user.PublicRepos,
		Followers:  user.Followers,
		Following:  user.Following,
		AvatarURL:  user.AvatarURL,
		Bio:        deref(user.Bio),
		Location:   deref(user.Location),
		Company:    deref(user.Company),
		Blog:       deref(user.Blog),
		Languages:  []string{},
	}

	seen := make(map[string]bool)
	for _, repo := range repos {
		stats.TotalStars += repo.StargazersCount
		stats.TotalForks += repo.ForksCount
		if lang := deref(repo.Language); lang != "" && !seen[lang] {
			seen[lang] = true
			stats.Languages = append(stats.Languages, lang)
		}
	}
	return stats
}

func (s *GithubService) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.apiURL+path, nil)
	if err != nil {
		return errs.NewUpstreamError("GitHub", err.Error(), err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := s.client.Do(req)
	if err != nil {
		return errs.NewUpstreamError("GitHub", err.Error(), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errs.NewUpstreamError("GitHub", err.Error(), err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := http.StatusText(resp.StatusCode)
		var ghErr githubError
		if json.Unmarshal(body, &ghErr) == nil && ghErr.Message != "" {
			message = ghErr.Message
		}
		s.logger.Warn().
			Int("status", resp.StatusCode).
			Str("path", path).
			Str("rateLimitRemaining", resp.Header.Get("X-RateLimit-Remaining")).
			Msg("GitHub API returned an error")
		return errs.NewUpstreamError("GitHub", message, fmt.Errorf("status %d", resp.StatusCode))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return errs.NewUpstreamError("GitHub", "unexpected response body", err)
	}
	return nil
}

// Cached returns the stored snapshot, or a not-found error if none was ever stored.
func (s *GithubService) Cached(ctx context.Context) (*models.GithubStats, error) {
	stats, err := s.store.Get(ctx)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "github stats", err)
	}
	return stats, nil
}

// Refresh fetches fresh stats and replaces every stored field with them.
func (s *GithubService) Refresh(ctx context.Context) (*models.GithubStats, error) {
	stats, err := s.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.store.Upsert(ctx, stats); err != nil {
		return nil, errs.NewDatabaseError("save", "github stats", err)
	}
	s.logger.Info().Int("repos", stats.TotalRepos).Int("stars", stats.TotalStars).Msg("github stats refreshed")
	return stats, nil
}

// Override writes the patch into the stored snapshot without calling GitHub, creating the
// snapshot if there is none.
func (s *GithubService) Override(ctx context.Context, patch GithubStatsPatch) (*models.GithubStats, error) {
	stats, err := s.store.Get(ctx)
	if err != nil {
		if !errs.IsNotFound(err) {
			return nil, errs.NewDatabaseError("find", "github stats", err)
		}
		stats = &models.GithubStats{ID: models.GithubStatsID, Username: s.username, Languages: []string{}}
	}

	patch.apply(stats)
	if stats.Username == "" {
		return nil, errs.NewMissingFieldsError("username is required")
	}
	if stats.LastUpdated.IsZero() {
		stats.LastUpdated = s.now()
	}

	if err := s.store.Upsert(ctx, stats); err != nil {
		return nil, errs.NewDatabaseError("save", "github stats", err)
	}
	return stats, nil
}

func (p GithubStatsPatch) apply(stats *models.GithubStats) {
	setIfPresent(&stats.Username, p.Username)
	setIfPresent(&stats.TotalRepos, p.TotalRepos)
	setIfPresent(&stats.TotalStars, p.TotalStars)
	setIfPresent(&stats.TotalForks, p.TotalForks)
	setIfPresent(&stats.Followers, p.Followers)
	setIfPresent(&stats.Following, p.Following)
	setIfPresent(&stats.AvatarURL, p.AvatarURL)
	setIfPresent(&stats.Bio, p.Bio)
	setIfPresent(&stats.Location, p.Location)
	setIfPresent(&stats.Company, p.Company)
	setIfPresent(&stats.Blog, p.Blog)
	setIfPresent(&stats.LastUpdated, p.LastUpdated)
	if p.Languages != nil {
		stats.Languages = append([]string{}, (*p.Languages)...)
	}
}

func setIfPresent[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
