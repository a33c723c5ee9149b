package composer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"modernize/internal/config"
	"modernize/internal/content"
	"modernize/internal/enrich"
	"modernize/internal/journal"
	"modernize/internal/logging"
	"modernize/internal/lookup"
	"modernize/internal/pagination"
	"modernize/internal/services"
	"modernize/internal/variant"
	"modernize/internal/workingset"
)

// ErrPending rejects a submission while enrichments are still in flight.
var ErrPending = fmt.Errorf("%w: enrichment still in progress", services.ErrBusy)

// Repository is the remote surface a session talks to.
type Repository interface {
	enrich.Lookup
	ListChildren(ctx context.Context, path string, filter lookup.ChildFilter) (lookup.Children, error)
	ScheduleJob(ctx context.Context, job any) (lookup.Scheduled, error)
}

var _ Repository = (*lookup.Client)(nil)

// Recorder journals submission attempts.
type Recorder interface {
	Record(ctx context.Context, entry journal.Entry) (journal.Entry, error)
}

// Options configures a Session.
type Options struct {
	Policy            variant.Policy
	RootPath          string
	Privilege         string
	PageSize          int
	Concurrency       int
	BucketSize        int
	Reprocess         bool
	IncludeSuperTypes bool
	Notifier          Notifier
	Journal           Recorder
	Logger            *slog.Logger
}

// OptionsFromConfig fills repository and wizard settings from cfg.
func OptionsFromConfig(cfg *config.Config, policy variant.Policy) Options {
	return Options{
		Policy:      policy,
		RootPath:    cfg.Repository.RootPath,
		Privilege:   cfg.Repository.Privilege,
		PageSize:    cfg.Wizard.PageSize,
		Concurrency: cfg.Wizard.MaxConcurrency,
		BucketSize:  cfg.Wizard.BucketSize,
	}
}

// Session is one job draft.
type Session struct {
	id       string
	repo     Repository
	policy   variant.Policy
	pipeline *enrich.Pipeline
	notifier Notifier
	journal  Recorder
	logger   *slog.Logger
	opts     Options

	mu         sync.Mutex
	set        *workingset.Set
	pager      *pagination.Controller
	pending    map[string]uint64
	nextToken  uint64
	submitting bool
}

// New creates an empty session.
func New(repo Repository, opts Options) (*Session, error) {
	if repo == nil {
		return nil, errors.New("composer: repository required")
	}
	if opts.Policy == nil {
		return nil, errors.New("composer: job policy required")
	}
	opts.RootPath = strings.TrimRight(strings.TrimSpace(opts.RootPath), "/")
	if opts.RootPath == "" {
		opts.RootPath = "/content"
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 30
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if opts.Notifier == nil {
		opts.Notifier = discardNotifier{}
	}

	id := uuid.NewString()
	logger := logging.NewComponentLogger(opts.Logger, "composer").With(logging.String(logging.FieldSessionID, id))

	pipeline, err := enrich.New(repo, opts.Policy, enrich.Options{
		Privilege:         opts.Privilege,
		Reprocess:         opts.Reprocess,
		IncludeSuperTypes: opts.IncludeSuperTypes,
		Concurrency:       opts.Concurrency,
	}, opts.Logger)
	if err != nil {
		return nil, err
	}

	set := workingset.New()
	return &Session{
		id:       id,
		repo:     repo,
		policy:   opts.Policy,
		pipeline: pipeline,
		notifier: opts.Notifier,
		journal:  opts.Journal,
		logger:   logger,
		opts:     opts,
		set:      set,
		pager:    pagination.New(set, opts.PageSize),
		pending:  map[string]uint64{},
	}, nil
}

func (s *Session) ID() string { return s.id }

func (s *Session) Policy() variant.Policy { return s.policy }

func (s *Session) context(ctx context.Context) context.Context {
	return services.WithSessionID(ctx, s.id)
}

func (s *Session) notify(notices []Notice) {
	for _, n := range notices {
		s.notifier.Notify(n)
	}
}

// BatchResult summarizes one selection batch.
type BatchResult struct {
	RequestID  string
	Added      []string
	Duplicates []string
	Denied     []string
	Failed     []string
	Ignored    []string
	Stale      []string
	Window     pagination.Window
}

// Select enriches paths and adds the successful ones to the working set.
// It returns once every path in the batch has settled.
func (s *Session) Select(ctx context.Context, paths []string) (BatchResult, error) {
	seeds := make([]enrich.Seed, 0, len(paths))
	for _, p := range paths {
		seeds = append(seeds, enrich.Seed{Path: p})
	}
	return s.selectSeeds(ctx, seeds)
}

func (s *Session) selectSeeds(ctx context.Context, seeds []enrich.Seed) (BatchResult, error) {
	result := BatchResult{RequestID: uuid.NewString()}
	ctx = services.WithRequestID(s.context(ctx), result.RequestID)
	logger := logging.WithContext(ctx, s.logger)

	var notices []Notice
	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return result, services.Wrap(services.ErrBusy, "composer", "select", "submission in progress", nil)
	}
	tokens := map[string]uint64{}
	accepted := make([]enrich.Seed, 0, len(seeds))
	for _, seed := range seeds {
		seed.Path = strings.TrimSpace(seed.Path)
		switch {
		case seed.Path == "":
			continue
		case seed.Path == s.opts.RootPath:
			result.Ignored = append(result.Ignored, seed.Path)
			continue
		case s.set.Contains(seed.Path) || s.isPending(seed.Path):
			result.Duplicates = append(result.Duplicates, seed.Path)
			notices = append(notices, duplicateNotice(seed.Path))
			continue
		}
		s.nextToken++
		s.pending[seed.Path] = s.nextToken
		tokens[seed.Path] = s.nextToken
		accepted = append(accepted, seed)
	}
	s.mu.Unlock()

	results := s.pipeline.EnrichAll(ctx, accepted)

	s.mu.Lock()
	for _, r := range results {
		path := r.Seed.Path
		if token, ok := s.pending[path]; !ok || token != tokens[path] {
			result.Stale = append(result.Stale, path)
			logger.Debug("discarding stale enrichment", logging.String(logging.FieldPath, path))
			continue
		}
		delete(s.pending, path)
		if r.Err != nil {
			notice := noticeFor(path, r.Err)
			notices = append(notices, notice)
			if notice.Kind == NoticePermissionDenied {
				result.Denied = append(result.Denied, path)
			} else {
				result.Failed = append(result.Failed, path)
			}
			continue
		}
		if err := s.set.Add(r.Item); err != nil {
			if errors.Is(err, services.ErrDuplicate) {
				result.Duplicates = append(result.Duplicates, path)
				notices = append(notices, duplicateNotice(path))
				continue
			}
			result.Failed = append(result.Failed, path)
			notices = append(notices, noticeFor(path, err))
			continue
		}
		result.Added = append(result.Added, path)
	}
	result.Window = s.pager.Refresh()
	s.mu.Unlock()

	logger.Info("selection batch settled",
		logging.Int("added", len(result.Added)),
		logging.Int("duplicates", len(result.Duplicates)),
		logging.Int("denied", len(result.Denied)),
		logging.Int("failed", len(result.Failed)),
		logging.Int("stale", len(result.Stale)),
		logging.Int("total", result.Window.Total),
	)
	s.notify(notices)
	return result, nil
}

func (s *Session) isPending(path string) bool {
	_, ok := s.pending[path]
	return ok
}

func duplicateNotice(path string) Notice {
	return Notice{Kind: NoticeDuplicate, Path: path, Message: path + " is already in the list."}
}

// IncludeChildren selects every page below path.
func (s *Session) IncludeChildren(ctx context.Context, path string, direct bool) (BatchResult, error) {
	ctx = services.WithPath(s.context(ctx), path)
	if s.Busy() {
		return BatchResult{}, services.Wrap(services.ErrBusy, "composer", "include children", "submission in progress", nil)
	}
	children, err := s.repo.ListChildren(ctx, path, lookup.ChildFilter{Direct: direct})
	if err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, s.logger), "list children failed", "lookup_failure", logging.Error(err))
		s.notify([]Notice{noticeFor(path, err)})
		return BatchResult{Failed: []string{path}, Window: s.Window()}, nil
	}
	if children.Total == 0 || len(children.Paths) == 0 {
		s.notify([]Notice{{Kind: NoticeInfo, Path: path, Message: "No child pages found under " + path + "."}})
		return BatchResult{Window: s.Window()}, nil
	}
	seeds := make([]enrich.Seed, 0, len(children.Paths))
	for _, child := range children.Paths {
		seeds = append(seeds, enrich.Seed{Path: child})
	}
	return s.selectSeeds(ctx, seeds)
}

// RemoveResult summarizes a removal batch.
type RemoveResult struct {
	Removed   []string
	Cancelled []string
	Missing   []string
	Window    pagination.Window
}

// Remove drops present items and cancels pending ones, then reconciles the
// window once for the whole batch.
func (s *Session) Remove(ctx context.Context, paths []string) (RemoveResult, error) {
	var result RemoveResult
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitting {
		return result, services.Wrap(services.ErrBusy, "composer", "remove", "submission in progress", nil)
	}

	// Indices are taken before anything is removed so that later paths in
	// the batch are measured against the window the operator saw.
	windowEnd := s.pager.Offset() + s.pager.Limit()
	shifted := 0
	seen := make(map[string]bool, len(paths))
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if seen[p] {
			continue
		}
		seen[p] = true
		if idx := s.set.Index(p); idx >= 0 {
			if idx < windowEnd {
				shifted++
			}
			result.Removed = append(result.Removed, p)
			continue
		}
		if s.isPending(p) {
			delete(s.pending, p)
			result.Cancelled = append(result.Cancelled, p)
			continue
		}
		result.Missing = append(result.Missing, p)
	}
	for _, p := range result.Removed {
		s.set.Remove(p)
	}

	window, err := s.pager.Reconcile(shifted)
	if err != nil {
		return result, err
	}
	result.Window = window
	logging.WithContext(s.context(ctx), s.logger).Info("removal batch applied",
		logging.Int("removed", len(result.Removed)),
		logging.Int("cancelled", len(result.Cancelled)),
		logging.Int("total", window.Total),
	)
	return result, nil
}

// Window returns the current page window.
func (s *Session) Window() pagination.Window {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pager.Window()
}

// Next advances the window one page.
func (s *Session) Next() (pagination.Window, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pager.Next()
}

// Prev moves the window back one page.
func (s *Session) Prev() (pagination.Window, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pager.Prev()
}

// Restart rebuilds the window from offset.
func (s *Session) Restart(offset int) (pagination.Window, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pager.Restart(offset)
}

// Len returns the number of items in the working set.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set.Len()
}

// Pending returns the number of in-flight enrichments.
func (s *Session) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Busy reports whether a submission is in flight.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitting
}

// Items returns copies of every item in working-set order.
func (s *Session) Items() []*content.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set.Items()
}

// Snapshot returns the serialized working set.
func (s *Session) Snapshot() workingset.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set.Serialize()
}
