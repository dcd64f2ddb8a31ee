package testutil

import (
	"net/http"

	id "ouvidoria/pkg/domain"
	"ouvidoria/pkg/requestcontext"
)

// WithUser adds an authenticated citizen to the request context.
// This simulates what the auth middleware does for authenticated requests.
func WithUser(req *http.Request, userID id.UserID) *http.Request {
	ctx := requestcontext.WithUserID(req.Context(), userID)
	ctx = requestcontext.WithRole(ctx, requestcontext.RoleCitizen)
	return req.WithContext(ctx)
}

// WithStaff adds an authenticated issuing-body staff user to the request
// context.
func WithStaff(req *http.Request, userID id.UserID) *http.Request {
	ctx := requestcontext.WithUserID(req.Context(), userID)
	ctx = requestcontext.WithRole(ctx, requestcontext.RoleStaff)
	return req.WithContext(ctx)
}
