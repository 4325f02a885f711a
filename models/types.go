package models

import "time"

// Registration modes
const (
	ModeStrict  = "strict"
	ModeLenient = "lenient"
)

// Request types

type RegisterRequest struct {
	Email   string `json:"email"`
	Edition string `json:"edicion"`
}

// Response types

type RegisterResponse struct {
	Message string `json:"mensaje"`
	Link    string `json:"enlace"`
}

// Domain types

// Registration is one row of the registration table. Token doubles as the
// single-use download credential.
type Registration struct {
	ID           int64      `json:"id"`
	Email        string     `json:"email"`
	Edition      string     `json:"edicion"`
	Token        string     `json:"enlace_unico"`
	Downloaded   bool       `json:"descargado"`
	CreatedAt    time.Time  `json:"creado_en"`
	DownloadedAt *time.Time `json:"descargado_en,omitempty"`
}

// Error response

type ErrorResponse struct {
	Error string `json:"error"`
}
