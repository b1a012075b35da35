package auth

import "github.com/google/uuid"

// AuthContext represents the authentication context available in a request.
// This is a transient context that is injected into the request by the auth
// middleware. It carries the authenticated employee resolved from the token.
type AuthContext struct {
	// EmployeeID is the subject of the verified token.
	EmployeeID uuid.UUID

	// Name and Role are resolved from the employee directory, when available.
	Name string
	Role string
}
