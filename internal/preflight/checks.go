package preflight

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"modernize/internal/services"
)

// PermissionChecker is the part of the repository client the readiness
// check needs.
type PermissionChecker interface {
	CheckPermission(ctx context.Context, path, privilege string) (bool, error)
}

// CheckRepository verifies the repository answers permission queries for
// root with the configured credentials.
func CheckRepository(ctx context.Context, repo PermissionChecker, root, privilege string) Result {
	const name = "Repository"

	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	ok, err := repo.CheckPermission(checkCtx, root, privilege)
	if err != nil {
		return Result{Name: name, Detail: summarizeLookupError(err)}
	}
	if !ok {
		return Result{Name: name, Detail: fmt.Sprintf("reachable, but %s is not granted on %s", privilegeLabel(privilege), root)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("reachable (%s on %s)", privilegeLabel(privilege), root)}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

func summarizeLookupError(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "unreachable (timed out)"
	case errors.Is(err, services.ErrLookup):
		return fmt.Sprintf("unreachable (%v)", err)
	default:
		return fmt.Sprintf("check failed (%v)", err)
	}
}

func privilegeLabel(privilege string) string {
	if privilege == "" {
		return "rep:write"
	}
	return privilege
}
