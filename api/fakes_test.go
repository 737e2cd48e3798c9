package api

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/services"
)

type fakeVerifier struct{}

func (fakeVerifier) VerifyToken(token string) (string, error) {
	switch token {
	case "valid":
		return "user-1", nil
	case "expired":
		return "", errs.NewExpiredTokenError()
	default:
		return "", errs.NewInvalidTokenError()
	}
}

func pageOf[T any](items []T, page database.Page) []T {
	start := page.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + page.Limit
	if end > len(items) {
		end = len(items)
	}
	return append([]T(nil), items[start:end]...)
}

type fakeProjects struct {
	mu    sync.Mutex
	items []models.Project
	adds  int
}

func (f *fakeProjects) List(_ context.Context, page database.Page) ([]models.Project, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return pageOf(f.items, page), int64(len(f.items)), nil
}

func (f *fakeProjects) FindByID(_ context.Context, id uuid.UUID) (*models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.items {
		if p.ID == id {
			found := p
			return &found, nil
		}
	}
	return nil, errs.NewNotFound("project")
}

func (f *fakeProjects) Add(_ context.Context, project *models.Project) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}
	f.adds++
	f.items = append(f.items, *project)
	return nil
}

func (f *fakeProjects) Update(_ context.Context, project *models.Project) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ID == project.ID {
			f.items[i] = *project
			return nil
		}
	}
	return errs.NewNotFound("project")
}

func (f *fakeProjects) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return errs.NewNotFound("project")
}

type fakeContacts struct {
	mu           sync.Mutex
	items        []models.ContactMessage
	setReadCalls int
	lastUnread   bool
}

func (f *fakeContacts) List(_ context.Context, page database.Page, unreadOnly bool) ([]models.ContactMessage, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastUnread = unreadOnly
	items := f.items
	if unreadOnly {
		items = nil
		for _, m := range f.items {
			if !m.Seen() {
				items = append(items, m)
			}
		}
	}
	return pageOf(items, page), int64(len(items)), nil
}

func (f *fakeContacts) FindByID(_ context.Context, id uuid.UUID) (*models.ContactMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.items {
		if m.ID == id {
			found := m
			return &found, nil
		}
	}
	return nil, errs.NewNotFound("contact message")
}

func (f *fakeContacts) Add(_ context.Context, message *models.ContactMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if message.ID == uuid.Nil {
		message.ID = uuid.New()
	}
	f.items = append(f.items, *message)
	return nil
}

func (f *fakeContacts) SetRead(_ context.Context, id uuid.UUID, read bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setReadCalls++
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].IsRead, f.items[i].Read = read, read
			return nil
		}
	}
	return errs.NewNotFound("contact message")
}

func (f *fakeContacts) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return errs.NewNotFound("contact message")
}

type fakeSkills struct {
	items   []models.Skill
	saveErr error
	deletes int
}

func (f *fakeSkills) List(_ context.Context, page database.Page) ([]models.Skill, int64, error) {
	return pageOf(f.items, page), int64(len(f.items)), nil
}

func (f *fakeSkills) All(context.Context) ([]models.Skill, error) {
	return f.items, nil
}

func (f *fakeSkills) FindByID(_ context.Context, id uuid.UUID) (*models.Skill, error) {
	for _, s := range f.items {
		if s.ID == id {
			found := s
			return &found, nil
		}
	}
	return nil, errs.NewNotFound("skill")
}

func (f *fakeSkills) Add(_ context.Context, skill *models.Skill) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	skill.ID = uuid.New()
	f.items = append(f.items, *skill)
	return nil
}

func (f *fakeSkills) Update(_ context.Context, skill *models.Skill) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	for i := range f.items {
		if f.items[i].ID == skill.ID {
			f.items[i] = *skill
			return nil
		}
	}
	return errs.NewNotFound("skill")
}

func (f *fakeSkills) Delete(_ context.Context, id uuid.UUID) error {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			f.deletes++
			return nil
		}
	}
	return errs.NewNotFound("skill")
}

type fakeImages struct {
	mu         sync.Mutex
	stored     []string
	deleted    []string
	failDelete bool
}

func (f *fakeImages) Store(_ context.Context, folder string, upload services.Upload) (models.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := folder + "/" + upload.Filename
	f.stored = append(f.stored, key)
	return models.Image{URL: "https://cdn.test/" + key, Key: key}, nil
}

func (f *fakeImages) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, key)
	if f.failDelete {
		return errors.New("bucket unavailable")
	}
	return nil
}

type chanNotifier chan models.ContactMessage

func (c chanNotifier) NotifyContact(_ context.Context, msg models.ContactMessage) error {
	c <- msg
	return nil
}

type fakeDashboard struct {
	err error
}

func (f fakeDashboard) Summary(context.Context) (*services.DashboardData, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &services.DashboardData{}, nil
}

func (f fakeDashboard) Full(ctx context.Context) (*services.DashboardData, error) {
	return f.Summary(ctx)
}

func (f fakeDashboard) Stats(context.Context) (*services.DashboardStats, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &services.DashboardStats{TotalProjects: 3, UnreadContacts: 1}, nil
}

func (f fakeDashboard) Recent(_ context.Context, limit int) ([]services.ActivityItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	return make([]services.ActivityItem, 0, limit), nil
}

type testDeps struct {
	projects  *fakeProjects
	blogs     *fakeBlogPosts
	contacts  *fakeContacts
	skills    *fakeSkills
	images    *fakeImages
	notifier  services.ContactNotifier
	dashboard dashboardService
	github    githubStatsService
}

func newTestRouter(deps testDeps) http.Handler {
	if deps.projects == nil {
		deps.projects = &fakeProjects{}
	}
	if deps.blogs == nil {
		deps.blogs = &fakeBlogPosts{}
	}
	if deps.contacts == nil {
		deps.contacts = &fakeContacts{}
	}
	if deps.skills == nil {
		deps.skills = &fakeSkills{}
	}
	if deps.images == nil {
		deps.images = &fakeImages{}
	}
	if deps.notifier == nil {
		deps.notifier = services.NopNotifier{}
	}
	if deps.dashboard == nil {
		deps.dashboard = fakeDashboard{}
	}
	if deps.github == nil {
		deps.github = &fakeGithub{}
	}

	handlers := &routeHandlers{
		projectHandler:   newProjectHandler(deps.projects, deps.images),
		blogPostHandler:  newBlogPostHandler(deps.blogs, deps.images),
		skillHandler:     newSkillHandler(deps.skills),
		contactHandler:   newContactHandler(deps.contacts, deps.notifier),
		githubHandler:    newGithubHandler(deps.github),
		dashboardHandler: newDashboardHandler(deps.dashboard),
		healthHandler:    newHealthHandler(nil, time.Now()),
	}
	return newRouter(handlers, fakeVerifier{})
}

type fakeGithub struct {
	cached     *models.GithubStats
	refreshErr error
	refreshes  int
}

func (f *fakeGithub) Refresh(context.Context) (*models.GithubStats, error) {
	f.refreshes++
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	f.cached = &models.GithubStats{ID: models.GithubStatsID, Username: "octocat", TotalRepos: 8}
	return f.cached, nil
}

func (f *fakeGithub) Cached(context.Context) (*models.GithubStats, error) {
	if f.cached == nil {
		return nil, errs.NewNotFound("github stats")
	}
	return f.cached, nil
}

func (f *fakeGithub) Override(_ context.Context, patch services.GithubStatsPatch) (*models.GithubStats, error) {
	if f.cached == nil {
		f.cached = &models.GithubStats{ID: models.GithubStatsID, Username: "octocat"}
	}
	if patch.TotalStars != nil {
		f.cached.TotalStars = *patch.TotalStars
	}
	return f.cached, nil
}

type fakeBlogPosts struct {
	items []models.BlogPost
}

func (f *fakeBlogPosts) List(_ context.Context, page database.Page) ([]models.BlogPost, int64, error) {
	return pageOf(f.items, page), int64(len(f.items)), nil
}

func (f *fakeBlogPosts) FindByID(_ context.Context, id uuid.UUID) (*models.BlogPost, error) {
	for _, p := range f.items {
		if p.ID == id {
			found := p
			return &found, nil
		}
	}
	return nil, errs.NewNotFound("blog")
}

func (f *fakeBlogPosts) Add(_ context.Context, post *models.BlogPost) error {
	post.ID = uuid.New()
	f.items = append(f.items, *post)
	return nil
}

func (f *fakeBlogPosts) Update(_ context.Context, post *models.BlogPost) error {
	for i := range f.items {
		if f.items[i].ID == post.ID {
			f.items[i] = *post
			return nil
		}
	}
	return errs.NewNotFound("blog")
}

func (f *fakeBlogPosts) Delete(_ context.Context, id uuid.UUID) error {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return errs.NewNotFound("blog")
}
