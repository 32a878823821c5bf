package handler

import "github.com/99minutos/user-service/internal/core/domain"

// --- Request → Domain ---

func toDomainUser(req userRequest) *domain.User {
	u := &domain.User{
		Username:     req.Username,
		Password:     req.Password,
		Name:         req.Name,
		Address1:     req.Address1,
		Address2:     req.Address2,
		PostalCode:   req.PostalCode,
		City:         req.City,
		EmailAddress: req.EmailAddress,
		PhoneNumber:  req.PhoneNumber,
	}
	if req.Role != nil {
		u.Role = domain.RolePtr(*req.Role)
	}
	return u
}

// --- Domain → HTTP response ---

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:           u.ID,
		Username:     u.Username,
		Role:         u.Role,
		Name:         u.Name,
		Address1:     u.Address1,
		Address2:     u.Address2,
		PostalCode:   u.PostalCode,
		City:         u.City,
		EmailAddress: u.EmailAddress,
		PhoneNumber:  u.PhoneNumber,
	}
}

func toUserResponses(users []domain.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}
	return out
}
