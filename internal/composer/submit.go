package composer

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"modernize/internal/journal"
	"modernize/internal/logging"
	"modernize/internal/lookup"
	"modernize/internal/payload"
	"modernize/internal/services"
)

// Submission is the outcome of a successful Submit.
type Submission struct {
	RequestID string
	Payload   payload.Payload
	Scheduled lookup.Scheduled
	Buckets   int
	JournalID int64
}

// Submit builds the job description from the working set and schedules it.
// The working set cannot change until Submit returns and is left untouched
// when the server rejects the job.
func (s *Session) Submit(ctx context.Context, opts payload.Options) (Submission, error) {
	requestID := uuid.NewString()
	ctx = services.WithRequestID(s.context(ctx), requestID)
	logger := logging.WithContext(ctx, s.logger)

	s.mu.Lock()
	switch {
	case s.submitting:
		s.mu.Unlock()
		return Submission{}, services.Wrap(services.ErrBusy, "composer", "submit", "submission already in progress", nil)
	case len(s.pending) > 0:
		s.mu.Unlock()
		return Submission{}, ErrPending
	}
	s.submitting = true
	snapshot := s.set.Serialize()
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.submitting = false
		s.mu.Unlock()
	}()

	opts.Reprocess = opts.Reprocess || s.opts.Reprocess
	job, err := payload.Build(s.policy, snapshot, opts)
	if err != nil {
		s.notify([]Notice{noticeFor("", err)})
		return Submission{}, err
	}

	buckets := len(payload.Buckets(job.Paths, s.opts.BucketSize))
	if buckets > 1 {
		logging.WarnWithContext(logger, "job will be split into multiple server jobs", "bucket_split",
			logging.Int("paths", len(job.Paths)),
			logging.Int("buckets", buckets),
			logging.String(logging.FieldImpact, "the server schedules one conversion job per bucket"),
			logging.String(logging.FieldErrorHint, "submit fewer paths to keep a single job"),
		)
	}

	if err := s.precheck(ctx, job); err != nil {
		return Submission{}, err
	}

	scheduled, err := s.repo.ScheduleJob(ctx, job)
	if err != nil {
		message := err.Error()
		var subErr *lookup.SubmissionError
		if errors.As(err, &subErr) {
			message = subErr.Message
		}
		s.record(ctx, journal.Entry{
			RequestID:   requestID,
			Name:        job.Name,
			Type:        string(job.Type),
			PathCount:   len(job.Paths),
			RuleCount:   job.RuleCount(),
			BucketCount: buckets,
			Status:      journal.StatusRejected,
			Message:     message,
		})
		logging.ErrorWithContext(logger, "job submission rejected", "submission_failure",
			logging.String("server_message", message),
			logging.Error(err),
		)
		s.notify([]Notice{{Kind: NoticeSubmissionFailure, Message: message}})
		return Submission{}, err
	}

	entry := s.record(ctx, journal.Entry{
		RequestID:   requestID,
		JobRef:      scheduled.Job,
		Name:        job.Name,
		Type:        string(job.Type),
		PathCount:   len(job.Paths),
		RuleCount:   job.RuleCount(),
		BucketCount: buckets,
		Status:      journal.StatusScheduled,
		Message:     scheduled.Message,
	})
	logger.Info("job scheduled",
		logging.String("job", scheduled.Job),
		logging.Int("paths", len(job.Paths)),
		logging.Int("rules", job.RuleCount()),
	)
	s.notify([]Notice{{Kind: NoticeSubmitted, Path: scheduled.Job, Message: scheduled.Message}})
	return Submission{
		RequestID: requestID,
		Payload:   job,
		Scheduled: scheduled,
		Buckets:   buckets,
		JournalID: entry.ID,
	}, nil
}

// precheck verifies write access on the destination paths named by the
// operator before the job is sent.
func (s *Session) precheck(ctx context.Context, job payload.Payload) error {
	for _, target := range []string{job.TargetPath, job.ConfPath, job.TargetRoot} {
		target = strings.TrimSpace(target)
		if target == "" {
			continue
		}
		ok, err := s.repo.CheckPermission(ctx, target, s.opts.Privilege)
		if err != nil {
			s.notify([]Notice{noticeFor(target, err)})
			return err
		}
		if !ok {
			err := services.Wrap(services.ErrPermissionDenied, "composer", "submit", "no write access to "+target, nil)
			s.notify([]Notice{{
				Kind:    NoticePermissionDenied,
				Path:    target,
				Message: "You do not have permission to modify " + target + "; the job was not submitted.",
			}})
			return err
		}
	}
	return nil
}

func (s *Session) record(ctx context.Context, entry journal.Entry) journal.Entry {
	if s.journal == nil {
		return entry
	}
	recorded, err := s.journal.Record(ctx, entry)
	if err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, s.logger), "journal write failed", "journal_failure",
			logging.Error(err),
			logging.String(logging.FieldImpact, "submission is not listed by 'modernize jobs'"),
		)
		return entry
	}
	return recorded
}
