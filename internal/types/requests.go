package types

// LoginRequest is the JSON body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is returned by the auth endpoints.
type TokenResponse struct {
	Token string `json:"token"`
}

// CommentRequest is the JSON body of POST /comments/post/:id.
type CommentRequest struct {
	Comment string  `json:"comment"`
	Rating  float64 `json:"rating"`
}

// CreatedResponse is what the backend may answer after creating a recipe.
type CreatedResponse struct {
	ID FlexNumber `json:"id"`
}

// Upload is a validated file destined for a multipart body.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// SignupRequest is a validated registration.
type SignupRequest struct {
	Name     string
	Email    string
	Password string
	Avatar   *Upload
}

// RecipeSubmission is a validated recipe draft. Fields left empty are not
// sent, which lets the same shape serve creation and edits.
type RecipeSubmission struct {
	Name        string
	Description string
	Steps       string
	MealTypeID  int64
	Image       *Upload
}
