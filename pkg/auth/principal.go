// Package auth resolves request credentials into principals and manages
// accounts and their session tokens.
package auth

// Principal is the authenticated account behind a request.
type Principal struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
}

// Credential carries whatever the caller presented. Both fields may be empty.
type Credential struct {
	// Token is the session token sent in the X-Token header.
	Token string
	// Bearer is the JWT sent as "Authorization: Bearer <jwt>".
	Bearer string
}

func (c Credential) Empty() bool {
	return c.Token == "" && c.Bearer == ""
}
