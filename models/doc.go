// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

JSON field names keep the public wire format (Spanish keys) while the Go
fields use English names.

# Request Types

  - RegisterRequest: email, edicion

# Response Types

  - RegisterResponse: mensaje, enlace
  - ErrorResponse: error

# Domain Types

  - Registration: one registrant with its single-use token and download state

# Constants

Registration modes:

	ModeStrict  = "strict"   // format checks, unique edition
	ModeLenient = "lenient"  // presence checks only, edition may repeat
*/
package models
