package auth

// LoginInput is the body of POST /auth/login.
type LoginInput struct {
	UserID int64 `json:"user_id" validate:"required,gt=0"`
}
