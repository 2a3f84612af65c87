package auth

import (
	"context"
)

// WithAdminSubject stores the authenticated admin subject in ctx.
func WithAdminSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, AdminSubjectKey, subject)
}

// GetAdminSubjectFromContext retrieves the admin subject from the request context.
// Returns the subject and true if found, otherwise "" and false.
func GetAdminSubjectFromContext(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(AdminSubjectKey).(string)
	return subject, ok && subject != ""
}
