package auth

// LoginRequest carries the credentials presented at login.
type LoginRequest struct {
	Username string `validate:"required,min=3,max=50"`
	Password string `validate:"required,min=8,max=128"`
}

// LoginResponse carries the issued session token and the authenticated user.
type LoginResponse struct {
	Token string
	User  UserInfo
}

// RegisterRequest carries the fields for creating a crew account.
type RegisterRequest struct {
	Username string `validate:"required,min=3,max=50"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8,max=128"`
	Role     string `validate:"omitempty,oneof=crew admin"`
}

// RegisterResponse carries the new account's identifier.
type RegisterResponse struct {
	ID int64
}

// UserInfo is the user DTO exposed to transports. It never carries the
// password hash.
type UserInfo struct {
	ID       int64
	Username string
	Email    string
	Role     string
}
