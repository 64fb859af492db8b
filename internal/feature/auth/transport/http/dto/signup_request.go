package dto

// SignupReq represents the request body for the /signup endpoint.
// It uses Gin's binding tags for validation (required, username and password length).
type SignupReq struct {
	Username string `json:"username" binding:"required,min=3,max=255"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}
