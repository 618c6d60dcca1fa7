package user

// CreateUserRequest is the admin payload for creating an account.
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"full_name" validate:"required,min=1,max=255"`
	Role     string `json:"role" validate:"required,oneof=admin manager user"`
}

// UpdateUserRequest is the admin payload for updating an account. Nil
// pointers mean the field was not supplied.
type UpdateUserRequest struct {
	Email    *string `json:"email" validate:"omitempty,email"`
	FullName *string `json:"full_name" validate:"omitempty,min=1,max=255"`
	Role     *string `json:"role" validate:"omitempty,oneof=admin manager user"`
}

// SetPasswordRequest resets a user's password without the old one.
type SetPasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=6"`
}
