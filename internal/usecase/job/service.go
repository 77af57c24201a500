package job

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"jobmatch/internal/config"
	"jobmatch/internal/domain/job"
	"jobmatch/internal/domain/profile"
	"jobmatch/internal/domain/user"
	"jobmatch/internal/search"

	"github.com/google/uuid"
)

var (
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("job not found")
	ErrProfileNotFound = errors.New("profile not found")
	ErrSearchFailed    = errors.New("failed to load jobs")
	ErrInternal        = errors.New("internal error")
)

const (
	EventJobCreated  = "job.created"
	EventJobUpdated  = "job.updated"
	EventJobClosed   = "job.closed"
	EventJobsExpired = "jobs.expired"
)

// Actor is the authenticated caller.
type Actor struct {
	UserID   uuid.UUID
	UserType user.Type
}

func (a Actor) IsEmployer() bool { return a.UserType == user.TypeEmployer }

type PostInput struct {
	Draft    job.Draft
	IsRemote bool
}

// UpdateInput changes only the non-nil fields. Provided fields are validated with the posting rules.
type UpdateInput struct {
	Title           *string
	Description     *string
	Location        *string
	SalaryRange     *string
	ExperienceLevel *string
	EmploymentType  *string
	Skills          *[]string
	IsRemote        *bool
	IsActive        *bool
}

type SearchResult struct {
	Filter job.Filter `json:"filter"`
	Jobs   []job.Job  `json:"jobs"`
	Cached bool       `json:"-"`
}

// SearchCache stores search pages. Lock lets a single request rebuild a missed key
// while concurrent requests wait for its result.
type SearchCache interface {
	Get(ctx context.Context, key string, out any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Invalidate(ctx context.Context) error
	Lock(ctx context.Context, key string) (bool, error)
	Unlock(ctx context.Context, key string) error
}

const defaultLockWait = 300 * time.Millisecond

type EventPublisher interface {
	Publish(eventType string, payload any)
}

type Usecase interface {
	Post(ctx context.Context, actor Actor, in PostInput) (job.Job, error)
	ListMine(ctx context.Context, actor Actor) ([]job.Job, error)
	Get(ctx context.Context, id uuid.UUID, viewer *Actor) (job.Job, error)
	Update(ctx context.Context, actor Actor, id uuid.UUID, in UpdateInput) (job.Job, error)
	Close(ctx context.Context, actor Actor, id uuid.UUID) (job.Job, error)
	Search(ctx context.Context, f job.Filter) (SearchResult, error)
}

type Service struct {
	jobs     job.Repository
	profiles profile.Repository
	cache    SearchCache
	events   EventPublisher
	logger   *log.Logger
	limits   config.SearchConfig
	now      func() time.Time
	lockWait time.Duration
}

func NewService(jobs job.Repository, profiles profile.Repository, cache SearchCache, events EventPublisher, limits config.SearchConfig, logger *log.Logger) *Service {
	if limits.MaxLimit <= 0 {
		limits.MaxLimit = 50
	}
	if limits.DefaultLimit <= 0 || limits.DefaultLimit > limits.MaxLimit {
		limits.DefaultLimit = min(20, limits.MaxLimit)
	}
	return &Service{
		jobs:     jobs,
		profiles: profiles,
		cache:    cache,
		events:   events,
		logger:   logger,
		limits:   limits,
		now:      time.Now,
		lockWait: defaultLockWait,
	}
}

func (s *Service) Post(ctx context.Context, actor Actor, in PostInput) (job.Job, error) {
	if !actor.IsEmployer() {
		return job.Job{}, ErrForbidden
	}
	if err := in.Draft.Validate(); err != nil {
		return job.Job{}, err
	}
	p, err := s.employerProfile(ctx, actor)
	if err != nil {
		return job.Job{}, err
	}

	d := in.Draft
	loc := strings.TrimSpace(d.Location)
	salary := strings.TrimSpace(d.SalaryRange)
	lo, hi := search.ParseSalaryRange(salary)

	j := job.Job{
		ID:              uuid.New(),
		EmployerID:      p.ID,
		Title:           strings.TrimSpace(d.Title),
		Description:     strings.TrimSpace(d.Description),
		Location:        &loc,
		SalaryRange:     &salary,
		SalaryMin:       lo,
		SalaryMax:       hi,
		RequiredSkills:  profile.NormalizeSkills(d.Skills),
		ExperienceLevel: optionalLower(d.ExperienceLevel),
		EmploymentType:  optionalLower(d.EmploymentType),
		IsRemote:        in.IsRemote || job.MentionsRemote(loc),
		IsActive:        true,
	}

	created, err := s.jobs.Create(ctx, j)
	if err != nil {
		s.logf("[Jobs] create failed employer=%s err=%v", p.ID, err)
		return job.Job{}, ErrInternal
	}

	s.afterWrite(ctx, EventJobCreated, created)
	return created, nil
}

func (s *Service) ListMine(ctx context.Context, actor Actor) ([]job.Job, error) {
	if !actor.IsEmployer() {
		return nil, ErrForbidden
	}
	p, err := s.employerProfile(ctx, actor)
	if err != nil {
		return nil, err
	}
	items, err := s.jobs.ListByEmployer(ctx, p.ID)
	if err != nil {
		s.logf("[Jobs] list mine failed employer=%s err=%v", p.ID, err)
		return nil, ErrInternal
	}
	return items, nil
}

// Get returns an active listing to anyone. Inactive listings are only visible to their owner.
func (s *Service) Get(ctx context.Context, id uuid.UUID, viewer *Actor) (job.Job, error) {
	j, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return job.Job{}, ErrNotFound
		}
		return job.Job{}, ErrInternal
	}
	if j.IsActive {
		return j, nil
	}
	if viewer == nil || !viewer.IsEmployer() {
		return job.Job{}, ErrNotFound
	}
	p, err := s.profiles.GetByUserID(ctx, viewer.UserID)
	if err != nil || p.ID != j.EmployerID {
		return job.Job{}, ErrNotFound
	}
	return j, nil
}

func (s *Service) Update(ctx context.Context, actor Actor, id uuid.UUID, in UpdateInput) (job.Job, error) {
	j, err := s.ownedJob(ctx, actor, id)
	if err != nil {
		return job.Job{}, err
	}
	if err := validateUpdate(j, in); err != nil {
		return job.Job{}, err
	}

	wasActive := j.IsActive
	if in.Title != nil {
		j.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		j.Description = strings.TrimSpace(*in.Description)
	}
	if in.Location != nil {
		loc := strings.TrimSpace(*in.Location)
		if in.IsRemote == nil {
			j.IsRemote = remoteAfterMove(j, loc)
		}
		j.Location = &loc
	}
	if in.SalaryRange != nil {
		salary := strings.TrimSpace(*in.SalaryRange)
		j.SalaryRange = &salary
		j.SalaryMin, j.SalaryMax = search.ParseSalaryRange(salary)
	}
	if in.ExperienceLevel != nil {
		j.ExperienceLevel = optionalLower(*in.ExperienceLevel)
	}
	if in.EmploymentType != nil {
		j.EmploymentType = optionalLower(*in.EmploymentType)
	}
	if in.Skills != nil {
		j.RequiredSkills = profile.NormalizeSkills(*in.Skills)
	}
	if in.IsRemote != nil {
		j.IsRemote = *in.IsRemote
	}
	if in.IsActive != nil {
		j.IsActive = *in.IsActive
	}

	updated, err := s.jobs.Update(ctx, j)
	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return job.Job{}, ErrNotFound
		}
		s.logf("[Jobs] update failed id=%s err=%v", id, err)
		return job.Job{}, ErrInternal
	}

	event := EventJobUpdated
	if wasActive && !updated.IsActive {
		event = EventJobClosed
	}
	s.afterWrite(ctx, event, updated)
	return updated, nil
}

// Close deactivates a listing. Closing an already closed listing is a no-op.
func (s *Service) Close(ctx context.Context, actor Actor, id uuid.UUID) (job.Job, error) {
	j, err := s.ownedJob(ctx, actor, id)
	if err != nil {
		return job.Job{}, err
	}
	if !j.IsActive {
		return j, nil
	}

	j.IsActive = false
	updated, err := s.jobs.Update(ctx, j)
	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return job.Job{}, ErrNotFound
		}
		s.logf("[Jobs] close failed id=%s err=%v", id, err)
		return job.Job{}, ErrInternal
	}

	s.afterWrite(ctx, EventJobClosed, updated)
	return updated, nil
}

// Search runs a filter over active listings. The normalized filter is echoed back so
// clients can drop responses that no longer match their latest query.
func (s *Service) Search(ctx context.Context, f job.Filter) (SearchResult, error) {
	f = f.Normalize()
	if f.Limit == 0 {
		f.Limit = s.limits.DefaultLimit
	}
	if err := f.Validate(s.limits.MaxLimit); err != nil {
		return SearchResult{}, err
	}

	key := f.CacheKey()
	if s.cache != nil {
		if cached, ok := s.cachedSearch(ctx, key); ok {
			return cached, nil
		}
		s.logf("[Jobs] Cache MISS: %s", key)

		locked, err := s.cache.Lock(ctx, key)
		switch {
		case err != nil:
			s.logf("[Jobs] Lock error: %s err=%v", key, err)
		case locked:
			defer func() {
				if err := s.cache.Unlock(context.WithoutCancel(ctx), key); err != nil {
					s.logf("[Jobs] Unlock failed: %s err=%v", key, err)
				}
			}()
		default:
			if s.waitForRebuild(ctx) {
				if cached, ok := s.cachedSearch(ctx, key); ok {
					return cached, nil
				}
			}
			s.logf("[Jobs] Lock wait fallback: %s", key)
		}
	}

	items, err := s.jobs.Search(ctx, f)
	if err != nil {
		s.logf("[Jobs] search failed key=%s err=%v", key, err)
		return SearchResult{}, ErrSearchFailed
	}
	if items == nil {
		items = []job.Job{}
	}

	result := SearchResult{Filter: f, Jobs: items}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, result); err != nil {
			s.logf("[Jobs] Cache store failed: %s err=%v", key, err)
		}
	}
	return result, nil
}

// remoteAfterMove derives is_remote for a new location when the caller did not set it.
// A flag that came from the old location text follows the text; an explicit flag is kept.
func remoteAfterMove(j job.Job, loc string) bool {
	if job.MentionsRemote(loc) {
		return true
	}
	if j.Location != nil && job.MentionsRemote(*j.Location) {
		return false
	}
	return j.IsRemote
}

func (s *Service) cachedSearch(ctx context.Context, key string) (SearchResult, bool) {
	var cached SearchResult
	hit, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.logf("[Jobs] Cache error: %s err=%v", key, err)
	}
	if !hit {
		return SearchResult{}, false
	}
	s.logf("[Jobs] Cache HIT: %s", key)
	cached.Cached = true
	if cached.Jobs == nil {
		cached.Jobs = []job.Job{}
	}
	return cached, true
}

// waitForRebuild sleeps while another request fills the cache. Jitter spreads the re-reads.
func (s *Service) waitForRebuild(ctx context.Context) bool {
	wait := s.lockWait
	if wait > 0 {
		wait += time.Duration(s.now().UnixNano() % int64(wait/2+1))
	}
	t := time.NewTimer(wait)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// ExpireStale closes active listings created more than maxAge ago.
func (s *Service) ExpireStale(ctx context.Context, maxAge time.Duration) (int64, error) {
	if maxAge <= 0 {
		return 0, nil
	}
	cutoff := s.now().Add(-maxAge)
	n, err := s.jobs.DeactivateOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.invalidate(ctx)
		if s.events != nil {
			s.events.Publish(EventJobsExpired, map[string]any{"count": n, "cutoff": cutoff.UTC()})
		}
	}
	return n, nil
}

func (s *Service) ownedJob(ctx context.Context, actor Actor, id uuid.UUID) (job.Job, error) {
	if !actor.IsEmployer() {
		return job.Job{}, ErrForbidden
	}
	j, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return job.Job{}, ErrNotFound
		}
		return job.Job{}, ErrInternal
	}
	p, err := s.employerProfile(ctx, actor)
	if err != nil {
		return job.Job{}, err
	}
	if p.ID != j.EmployerID {
		return job.Job{}, ErrForbidden
	}
	return j, nil
}

func (s *Service) employerProfile(ctx context.Context, actor Actor) (profile.Profile, error) {
	p, err := s.profiles.GetByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return profile.Profile{}, ErrProfileNotFound
		}
		return profile.Profile{}, ErrInternal
	}
	return p, nil
}

func (s *Service) afterWrite(ctx context.Context, event string, j job.Job) {
	s.invalidate(ctx)
	if s.events != nil {
		s.events.Publish(event, map[string]any{
			"id":          j.ID,
			"employer_id": j.EmployerID,
			"title":       j.Title,
			"is_active":   j.IsActive,
		})
	}
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logf("[Jobs] Cache invalidate failed: %v", err)
	}
}

func (s *Service) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}

// validateUpdate runs the posting rules over the merged listing and keeps only the
// messages for fields the caller actually sent.
func validateUpdate(current job.Job, in UpdateInput) error {
	d := job.Draft{
		Title:           current.Title,
		Description:     current.Description,
		Location:        deref(current.Location),
		SalaryRange:     deref(current.SalaryRange),
		ExperienceLevel: deref(current.ExperienceLevel),
		EmploymentType:  deref(current.EmploymentType),
		Skills:          current.RequiredSkills,
	}
	provided := map[string]bool{}
	set := func(field string, dst *string, v *string) {
		if v != nil {
			*dst = *v
			provided[field] = true
		}
	}
	set("title", &d.Title, in.Title)
	set("description", &d.Description, in.Description)
	set("location", &d.Location, in.Location)
	set("salary_range", &d.SalaryRange, in.SalaryRange)
	set("experience_level", &d.ExperienceLevel, in.ExperienceLevel)
	set("employment_type", &d.EmploymentType, in.EmploymentType)
	if in.Skills != nil {
		d.Skills = *in.Skills
		provided["skills"] = true
	}

	err := d.Validate()
	var verr *job.ValidationError
	if !errors.As(err, &verr) {
		return err
	}
	fields := map[string]string{}
	for k, msg := range verr.Fields {
		if provided[k] {
			fields[k] = msg
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return &job.ValidationError{Fields: fields}
}

func optionalLower(s string) *string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
