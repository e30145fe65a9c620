package models

// Every endpoint answers with one of these bodies. Failures always use
// MessageResponse with Success false.

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type AuthResponse struct {
	Success  bool        `json:"success"`
	Message  string      `json:"message"`
	User     *PublicUser `json:"user,omitempty"`
	Redirect string      `json:"redirect,omitempty"`
}

type SessionResponse struct {
	Authenticated bool         `json:"authenticated"`
	User          *SessionUser `json:"user"`
}

type VehiclesResponse struct {
	Success  bool      `json:"success"`
	Message  string    `json:"message,omitempty"`
	Vehicles []Vehicle `json:"vehicles"`
}
