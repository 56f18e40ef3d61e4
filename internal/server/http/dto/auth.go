package dto

// AuthRequest describes login/password payload.
type AuthRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// RegisterRequest is AuthRequest with an optional display name.
type RegisterRequest struct {
	AuthRequest
	Name string `json:"name"`
}

// StaffAccountRequest creates an operator or admin account.
type StaffAccountRequest struct {
	RegisterRequest
	Role string `json:"role"`
}

// AccountResponse describes a created account.
type AccountResponse struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}
