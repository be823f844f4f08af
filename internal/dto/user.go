package dto

import "journalist-api/internal/domain"

// User names are null when unset.
type User struct {
	UUID      string  `json:"uuid"`
	Username  string  `json:"username"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	IsAdmin   bool    `json:"is_admin"`
}

type UserSummary struct {
	UUID      string  `json:"uuid"`
	Username  string  `json:"username"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

type UserList struct {
	Users []UserSummary `json:"users"`
}

func NewUser(u *domain.User) User {
	return User{
		UUID:      u.UUID.String(),
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		IsAdmin:   u.IsAdmin,
	}
}

func NewUserSummary(u *domain.User) UserSummary {
	return UserSummary{
		UUID:      u.UUID.String(),
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}
