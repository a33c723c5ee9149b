package enrich

import (
	"fmt"

	"modernize/internal/content"
	"modernize/internal/services"
)

// Error reports a rejected enrichment together with the item as far as it
// was built. Kind is either services.KindPermissionDenied or
// services.KindLookupFailure.
type Error struct {
	Kind services.Kind
	Item *content.Item
	// Subject is the path whose check failed; it differs from Item.Path when
	// the design path was denied.
	Subject string
	Err     error
}

func (e *Error) Error() string {
	path := e.Subject
	if path == "" && e.Item != nil {
		path = e.Item.Path
	}
	switch e.Kind {
	case services.KindPermissionDenied:
		return fmt.Sprintf("write permission denied on %s", path)
	default:
		if e.Err != nil {
			return fmt.Sprintf("lookup failed for %s: %v", path, e.Err)
		}
		return fmt.Sprintf("lookup failed for %s", path)
	}
}

func (e *Error) Unwrap() []error {
	marker := services.ErrLookup
	if e.Kind == services.KindPermissionDenied {
		marker = services.ErrPermissionDenied
	}
	if e.Err != nil {
		return []error{marker, e.Err}
	}
	return []error{marker}
}

func denied(item *content.Item, subject string) *Error {
	item.Permission = content.PermissionDenied
	item.ClearRules()
	return &Error{Kind: services.KindPermissionDenied, Item: item, Subject: subject}
}

func failed(item *content.Item, subject string, err error) *Error {
	return &Error{Kind: services.KindLookupFailure, Item: item, Subject: subject, Err: err}
}
