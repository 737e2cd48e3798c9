package services

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
)

const (
	summaryProjects = 5
	summaryBlogs    = 5
	summaryContacts = 10

	DefaultActivityLimit = 10
	MaxActivityLimit     = 100
)

type ProjectSource interface {
	All(ctx context.Context) ([]models.Project, error)
	Recent(ctx context.Context, n int) ([]models.Project, error)
	Count(ctx context.Context) (int64, error)
	CountPublished(ctx context.Context) (int64, error)
}

type BlogSource interface {
	All(ctx context.Context) ([]models.BlogPost, error)
	Recent(ctx context.Context, n int) ([]models.BlogPost, error)
	Count(ctx context.Context) (int64, error)
	CountPublished(ctx context.Context) (int64, error)
}

type ContactSource interface {
	All(ctx context.Context) ([]models.ContactMessage, error)
	Recent(ctx context.Context, n int) ([]models.ContactMessage, error)
	Count(ctx context.Context) (int64, error)
	CountUnread(ctx context.Context) (int64, error)
}

type SkillSource interface {
	All(ctx context.Context) ([]models.Skill, error)
	Count(ctx context.Context) (int64, error)
}

type StatsSource interface {
	Get(ctx context.Context) (*models.GithubStats, error)
	Summary(ctx context.Context) (*models.GithubSummary, error)
}

type DashboardStats struct {
	TotalProjects     int64                 `json:"totalProjects"`
	TotalBlogs        int64                 `json:"totalBlogs"`
	TotalContacts     int64                 `json:"totalContacts"`
	TotalSkills       int64                 `json:"totalSkills"`
	PublishedProjects int64                 `json:"publishedProjects"`
	PublishedBlogs    int64                 `json:"publishedBlogs"`
	UnreadContacts    int64                 `json:"unreadContacts"`
	Github            *models.GithubSummary `json:"github,omitempty"`
}

type DashboardData struct {
	Stats    DashboardStats          `json:"stats"`
	Github   *models.GithubStats     `json:"github"`
	Projects []models.Project        `json:"projects"`
	Blogs    []models.BlogPost       `json:"blogs"`
	Contacts []models.ContactMessage `json:"contacts"`
	Skills   []models.Skill          `json:"skills"`
}

// ActivityItem is one entry of the merged recent-activity feed.
type ActivityItem struct {
	Type      string      `json:"type"`
	ID        uuid.UUID   `json:"id"`
	Title     string      `json:"title"`
	CreatedAt time.Time   `json:"createdAt"`
	Item      interface{} `json:"item"`
}

type DashboardService struct {
	projects ProjectSource
	blogs    BlogSource
	contacts ContactSource
	skills   SkillSource
	stats    StatsSource
}

func NewDashboardService(projects ProjectSource, blogs BlogSource, contacts ContactSource, skills SkillSource, stats StatsSource) *DashboardService {
	return &DashboardService{
		projects: projects,
		blogs:    blogs,
		contacts: contacts,
		skills:   skills,
		stats:    stats,
	}
}

// Summary is Full truncated to the most recent projects, blogs and contacts.
func (s *DashboardService) Summary(ctx context.Context) (*DashboardData, error) {
	data, err := s.Full(ctx)
	if err != nil {
		return nil, err
	}
	data.Projects = truncate(data.Projects, summaryProjects)
	data.Blogs = truncate(data.Blogs, summaryBlogs)
	data.Contacts = truncate(data.Contacts, summaryContacts)
	return data, nil
}

// Full loads every collection and the stats snapshot in parallel. If any read fails the
// whole view fails.
func (s *DashboardService) Full(ctx context.Context) (*DashboardData, error) {
	data := &DashboardData{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		data.Projects, err = s.projects.All(gctx)
		return wrapRead(err, "projects")
	})
	g.Go(func() (err error) {
		data.Blogs, err = s.blogs.All(gctx)
		return wrapRead(err, "blogs")
	})
	g.Go(func() (err error) {
		data.Contacts, err = s.contacts.All(gctx)
		return wrapRead(err, "contacts")
	})
	g.Go(func() (err error) {
		data.Skills, err = s.skills.All(gctx)
		return wrapRead(err, "skills")
	})
	g.Go(func() error {
		stats, err := s.stats.Get(gctx)
		if err != nil && !errs.IsNotFound(err) {
			return wrapRead(err, "github stats")
		}
		data.Github = stats
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	data.Stats = DashboardStats{
		TotalProjects: int64(len(data.Projects)),
		TotalBlogs:    int64(len(data.Blogs)),
		TotalContacts: int64(len(data.Contacts)),
		TotalSkills:   int64(len(data.Skills)),
	}
	for _, p := range data.Projects {
		if p.IsLive() {
			data.Stats.PublishedProjects++
		}
	}
	for _, b := range data.Blogs {
		if b.IsLive() {
			data.Stats.PublishedBlogs++
		}
	}
	for _, c := range data.Contacts {
		if !c.Seen() {
			data.Stats.UnreadContacts++
		}
	}
	return data, nil
}

// Stats counts in the database instead of loading rows.
func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}

	g, gctx := errgroup.WithContext(ctx)
	count := func(dst *int64, entity string, fn func(context.Context) (int64, error)) {
		g.Go(func() (err error) {
			*dst, err = fn(gctx)
			return wrapRead(err, entity)
		})
	}
	count(&stats.TotalProjects, "projects", s.projects.Count)
	count(&stats.TotalBlogs, "blogs", s.blogs.Count)
	count(&stats.TotalContacts, "contacts", s.contacts.Count)
	count(&stats.TotalSkills, "skills", s.skills.Count)
	count(&stats.PublishedProjects, "projects", s.projects.CountPublished)
	count(&stats.PublishedBlogs, "blogs", s.blogs.CountPublished)
	count(&stats.UnreadContacts, "contacts", s.contacts.CountUnread)
	g.Go(func() error {
		summary, err := s.stats.Summary(gctx)
		if err != nil && !errs.IsNotFound(err) {
			return wrapRead(err, "github stats")
		}
		stats.Github = summary
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}

// NormalizeActivityLimit applies the default and the upper bound of the activity feed.
func NormalizeActivityLimit(limit int) int {
	if limit < 1 {
		return DefaultActivityLimit
	}
	if limit > MaxActivityLimit {
		return MaxActivityLimit
	}
	return limit
}

// Recent merges the newest projects, blogs and contacts into one feed, newest first.
func (s *DashboardService) Recent(ctx context.Context, limit int) ([]ActivityItem, error) {
	limit = NormalizeActivityLimit(limit)

	var (
		projects []models.Project
		blogs    []models.BlogPost
		contacts []models.ContactMessage
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		projects, err = s.projects.Recent(gctx, limit)
		return wrapRead(err, "projects")
	})
	g.Go(func() (err error) {
		blogs, err = s.blogs.Recent(gctx, limit)
		return wrapRead(err, "blogs")
	})
	g.Go(func() (err error) {
		contacts, err = s.contacts.Recent(gctx, limit)
		return wrapRead(err, "contacts")
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	feed := make([]ActivityItem, 0, len(projects)+len(blogs)+len(contacts))
	for _, p := range projects {
		feed = append(feed, ActivityItem{Type: "project", ID: p.ID, Title: p.Title, CreatedAt: p.CreatedAt, Item: p})
	}
	for _, b := range blogs {
		feed = append(feed, ActivityItem{Type: "blog", ID: b.ID, Title: b.Title, CreatedAt: b.CreatedAt, Item: b})
	}
	for _, c := range contacts {
		title := c.Name
		if c.Subject != nil && *c.Subject != "" {
			title = *c.Subject
		}
		feed = append(feed, ActivityItem{Type: "contact", ID: c.ID, Title: title, CreatedAt: c.CreatedAt, Item: c})
	}

	sort.SliceStable(feed, func(i, j int) bool {
		return feed[i].CreatedAt.After(feed[j].CreatedAt)
	})
	return truncate(feed, limit), nil
}

func wrapRead(err error, entity string) error {
	if err == nil {
		return nil
	}
	return errs.NewDatabaseError("find", entity, err)
}

func truncate[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
