package main

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"sync"

	"github.com/mattn/go-isatty"

	"modernize/internal/composer"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

const (
	statusLabelWidth = 20
	statusIndent     = "  "
)

func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	statusText := statusKindLabel(kind)
	if message != "" {
		statusText = fmt.Sprintf("[%s] %s", statusText, message)
	} else {
		statusText = fmt.Sprintf("[%s]", statusText)
	}
	base := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, label+":", statusText)
	if colorize {
		if color := statusKindColor(kind); color != "" {
			return color + base + ansiReset
		}
	}
	return base
}

func statusKindLabel(kind statusKind) string {
	switch kind {
	case statusOK:
		return "OK"
	case statusWarn:
		return "WARN"
	case statusError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func statusKindColor(kind statusKind) string {
	switch kind {
	case statusOK:
		return ansiGreen
	case statusWarn:
		return ansiYellow
	case statusError:
		return ansiRed
	case statusInfo:
		return ansiBlue
	default:
		return ""
	}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// noticeStatus maps a notice onto a status line label and severity.
func noticeStatus(kind composer.NoticeKind) (string, statusKind) {
	switch kind {
	case composer.NoticeDuplicate:
		return "Duplicate", statusWarn
	case composer.NoticePermissionDenied:
		return "Permission denied", statusError
	case composer.NoticeLookupFailure:
		return "Lookup failed", statusError
	case composer.NoticeValidationFailure:
		return "Invalid job", statusError
	case composer.NoticeSubmissionFailure:
		return "Submission failed", statusError
	case composer.NoticeSubmitted:
		return "Submitted", statusOK
	default:
		return "Info", statusInfo
	}
}

func renderNotice(n composer.Notice, colorize bool) []string {
	label, kind := noticeStatus(n.Kind)
	message := n.Message
	if n.Kind == composer.NoticeValidationFailure && len(n.Fields) > 0 {
		message = "fix the fields below"
	}
	lines := []string{renderStatusLine(label, kind, message, colorize)}
	for _, field := range slices.Sorted(maps.Keys(n.Fields)) {
		lines = append(lines, renderStatusLine(field, statusError, n.Fields[field], colorize))
	}
	return lines
}

// noticePrinter writes notices as status lines. Notices can arrive from
// several goroutines at once.
type noticePrinter struct {
	mu       sync.Mutex
	out      io.Writer
	colorize bool
}

func newNoticePrinter(out io.Writer) *noticePrinter {
	return &noticePrinter{out: out, colorize: shouldColorize(out)}
}

func (p *noticePrinter) Notify(n composer.Notice) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, line := range renderNotice(n, p.colorize) {
		fmt.Fprintln(p.out, line)
	}
}
