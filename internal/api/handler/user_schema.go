package handler

import "github.com/99minutos/user-service/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

// userRequest is the body of POST /users and PUT /users/:id. Any id in the
// body is ignored: the server assigns it on create and the path pins it on
// update.
type userRequest struct {
	Username     string       `json:"username"     validate:"required"`
	Password     string       `json:"password"     validate:"required,max=72"`
	Role         *domain.Role `json:"role"         validate:"omitempty,oneof=Admin User Customer"`
	Name         string       `json:"name"`
	Address1     string       `json:"address1"`
	Address2     string       `json:"address2"`
	PostalCode   int          `json:"postalCode"   validate:"gte=0"`
	City         string       `json:"city"`
	EmailAddress string       `json:"emailAddress"`
	PhoneNumber  string       `json:"phoneNumber"`
}

// userResponse never carries the password.
type userResponse struct {
	ID           string       `json:"id"`
	Username     string       `json:"username"`
	Role         *domain.Role `json:"role"`
	Name         string       `json:"name"`
	Address1     string       `json:"address1"`
	Address2     string       `json:"address2"`
	PostalCode   int          `json:"postalCode"`
	City         string       `json:"city"`
	EmailAddress string       `json:"emailAddress"`
	PhoneNumber  string       `json:"phoneNumber"`
}

type credentialsRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type roleResponse struct {
	Role *domain.Role `json:"role"`
}

type tokenResponse struct {
	Token string `json:"token"`
}
