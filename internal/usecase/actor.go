package usecase

import (
	"context"
	"errors"
	"strconv"
	"time"

	"ayursetu-backend/internal/delivery/http/middleware"
	"ayursetu-backend/internal/domain/entity"
)

var (
	ErrUnauthenticated = errors.New("user not found in context")
	ErrForbidden       = errors.New("you don't have permission to access this resource")
)

// actor is the authenticated caller as set by the auth middleware.
type actor struct {
	userID string
	role   string
}

func actorFromContext(ctx context.Context) (actor, bool) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok || userID == "" {
		return actor{}, false
	}
	role, _ := middleware.GetRoleFromContext(ctx)
	return actor{userID: userID, role: role}, true
}

// owns reports whether the caller is an admin or the owner of ownerID.
func (a actor) owns(ownerID string) bool {
	return a.role == entity.RoleAdmin || a.userID == ownerID
}

// auditUserID returns the caller id for audit entries, or "" when anonymous.
func auditUserID(ctx context.Context) string {
	userID, _ := middleware.GetUserIDFromContext(ctx)
	return userID
}

// nextTimestampID returns prefix+<unix ms>, moving forward one millisecond at
// a time until exists reports the id as free.
func nextTimestampID(ctx context.Context, prefix string, now time.Time, exists func(ctx context.Context, id string) (bool, error)) (string, error) {
	ms := now.UnixMilli()
	for {
		id := prefix + strconv.FormatInt(ms, 10)
		taken, err := exists(ctx, id)
		if err != nil {
			return "", err
		}
		if !taken {
			return id, nil
		}
		ms++
	}
}
