package api

// User is the signed-in account as reported by the auth endpoint.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// currentUserResponse is the raw body of the current-user endpoint.
type currentUserResponse struct {
	User *User `json:"user"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}
