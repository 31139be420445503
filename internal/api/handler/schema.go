package handler

import "time"

// --- Auth ---

type registerRequest struct {
	Email    string `json:"email"     validate:"required,email"`
	Password string `json:"password"  validate:"required,min=6"`
}

type loginRequest struct {
	Email      string `json:"email"       validate:"required,email"`
	Password   string `json:"password"    validate:"required"`
	RememberMe bool   `json:"remember_me"`
}

type userResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

type authResponse struct {
	Token string        `json:"token,omitempty"`
	User  *userResponse `json:"user,omitempty"`
}

// --- Settings ---

// Setting payloads arrive as one flat attribute map: the fixed columns plus
// whatever dynamic keys the field catalog defines. The store splits them.
type settingRequest map[string]any

// --- Structure ---

type fieldRequest struct {
	Name       string `json:"name"        validate:"required"`
	Key        string `json:"key"         validate:"required"`
	Type       string `json:"type"        validate:"required,oneof=text number"`
	CategoryID string `json:"category_id" validate:"required"`
}

type fieldUpdateRequest struct {
	Name       *string `json:"name,omitempty"`
	Key        *string `json:"key,omitempty"`
	Type       *string `json:"type,omitempty"        validate:"omitempty,oneof=text number"`
	CategoryID *string `json:"category_id,omitempty"`
}

type categoryRequest struct {
	Name string `json:"name" validate:"required"`
}

// --- Feedback ---

type feedbackRequest struct {
	Type      string `json:"type"       validate:"required,oneof=general change_request bug new_product"`
	Name      string `json:"name"       validate:"required"`
	Message   string `json:"message"    validate:"required"`
	SKU       string `json:"sku,omitempty"`
	LegNumber string `json:"leg_number,omitempty"`
}

// --- Votes ---

type voteRequest struct {
	SettingID string `json:"setting_id" validate:"required"`
}

// --- Admin ---

type profileStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending approved rejected"`
}

type configRequest struct {
	Key   string `json:"key"   validate:"required"`
	Value string `json:"value" validate:"required"`
}

type systemStatusResponse struct {
	LoadError string    `json:"loadError,omitempty"`
	User      string    `json:"user,omitempty"`
	CheckedAt time.Time `json:"checkedAt"`
}
