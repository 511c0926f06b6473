package dto

// ── users ──

// CreateUserRequest admin creates an account
type CreateUserRequest struct {
	LoginID   string `json:"login_id"   binding:"omitempty,max=255"`
	Name      string `json:"name"       binding:"required,min=2,max=100"`
	Email     string `json:"email"      binding:"omitempty,email"`
	Role      string `json:"role"       binding:"required,oneof=admin faculty student"`
	StudentID string `json:"student_id" binding:"omitempty,max=20"`
}

// CreateUserResponse new account plus its one-time password
type CreateUserResponse struct {
	User         *UserResponse `json:"user"`
	TempPassword string        `json:"temp_password"`
}

// UserListRequest list filters
type UserListRequest struct {
	PaginationRequest
	Role    string `form:"role"    binding:"omitempty,oneof=admin faculty student"`
	Keyword string `form:"keyword" binding:"omitempty,max=50"`
}

// UpdateUserRequest partial update
type UpdateUserRequest struct {
	Name  *string `json:"name"  binding:"omitempty,min=2,max=100"`
	Email *string `json:"email" binding:"omitempty,email"`
	Role  *string `json:"role"  binding:"omitempty,oneof=admin faculty student"`
}

// ResetPasswordResponse one-time password after an admin reset
type ResetPasswordResponse struct {
	TempPassword string `json:"temp_password"`
}

// UserResponse account without secrets
type UserResponse struct {
	ID                 string `json:"id"`
	LoginID            string `json:"login_id"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	Role               string `json:"role"`
	StudentID          string `json:"student_id,omitempty"`
	MustChangePassword bool   `json:"must_change_password"`
	CreatedAt          string `json:"created_at,omitempty"`
}
