package composer

import (
	"errors"

	"modernize/internal/enrich"
	"modernize/internal/payload"
	"modernize/internal/services"
)

// NoticeKind classifies an operator-facing notice.
type NoticeKind string

const (
	NoticeDuplicate         = NoticeKind(services.KindDuplicate)
	NoticePermissionDenied  = NoticeKind(services.KindPermissionDenied)
	NoticeLookupFailure     = NoticeKind(services.KindLookupFailure)
	NoticeValidationFailure = NoticeKind(services.KindValidationFailure)
	NoticeSubmissionFailure = NoticeKind(services.KindSubmissionFailure)
	NoticeInfo              = NoticeKind("info")
	NoticeSubmitted         = NoticeKind("submitted")
)

// Notice is one message for the operator.
type Notice struct {
	Kind    NoticeKind
	Path    string
	Message string
	// Fields holds per-field messages for validation failures.
	Fields map[string]string
}

// Notifier receives notices. Notify is never called with the session lock
// held, so implementations may call back into the session.
type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

type discardNotifier struct{}

func (discardNotifier) Notify(Notice) {}

// noticeFor converts an enrichment failure for path into a notice.
func noticeFor(path string, err error) Notice {
	var enrichErr *enrich.Error
	if errors.As(err, &enrichErr) && enrichErr.Kind == services.KindPermissionDenied {
		subject := enrichErr.Subject
		if subject == "" {
			subject = path
		}
		return Notice{
			Kind:    NoticePermissionDenied,
			Path:    path,
			Message: "You do not have permission to modify " + subject + "; it was not added.",
		}
	}
	var verr *payload.ValidationError
	if errors.As(err, &verr) {
		return Notice{Kind: NoticeValidationFailure, Message: verr.Error(), Fields: verr.Fields}
	}
	kind := NoticeKind(services.Classify(err))
	switch kind {
	case NoticeLookupFailure:
		return Notice{Kind: kind, Path: path, Message: "Unable to look up " + path + ": " + errorText(err)}
	default:
		return Notice{Kind: kind, Path: path, Message: errorText(err)}
	}
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
