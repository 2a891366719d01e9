package dto

// SignUpRequest payload for new accounts.
type SignUpRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInRequest payload for sign-in.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInResponse reports the signed-in role so the client can route to the
// right dashboard.
type SignInResponse struct {
	Message string `json:"message"`
	Role    string `json:"role"`
}

// MessageResponse is the generic acknowledgement body.
type MessageResponse struct {
	Message string `json:"message"`
}
