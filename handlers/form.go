// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	_ "embed"
	"net/http"
)

//go:embed static/formulario_ingreso.html
var registrationForm []byte

// Form handles GET /
// Serves the registration form
func Form(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(registrationForm)
}
