package payload

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"modernize/internal/services"
)

// ValidationError lists the fields that block submission.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := slices.Sorted(maps.Keys(e.Fields))
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+e.Fields[key])
	}
	return "invalid job: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return services.ErrValidation }

// Validate checks the fields the scheduling endpoint requires.
func Validate(p Payload) error {
	fields := map[string]string{}
	if strings.TrimSpace(p.Name) == "" {
		fields["name"] = "job name is required"
	}
	if len(p.Paths) == 0 {
		fields["paths"] = "no convertible paths in the working set"
	}
	switch p.PageHandling {
	case PageNone, PageRestore:
	case PageCopy:
		if p.SourceRoot == "" {
			fields["sourceRoot"] = "required when copying pages"
		}
		if p.TargetRoot == "" {
			fields["targetRoot"] = "required when copying pages"
		}
	default:
		fields["pageHandling"] = fmt.Sprintf("unsupported value %q", p.PageHandling)
	}
	for key, value := range map[string]string{
		"confPath":   p.ConfPath,
		"targetPath": p.TargetPath,
		"sourceRoot": p.SourceRoot,
		"targetRoot": p.TargetRoot,
	} {
		if value != "" && !strings.HasPrefix(value, "/") {
			fields[key] = "must be an absolute repository path"
		}
	}
	if p.SourceRoot != "" && p.TargetRoot != "" && p.SourceRoot == p.TargetRoot {
		fields["targetRoot"] = "must differ from sourceRoot"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
