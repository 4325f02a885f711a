// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides token generation utilities.

# Download Tokens

Each registration gets a random 16-byte (128-bit) token, hex encoded:

	token, err := auth.GenerateDownloadToken()  // 32 hex characters

The token is the only credential for the download link, so it must be
unguessable. It carries no meaning and is looked up in the database.

Before touching the database, redemption checks the shape of the token:

	if err := auth.ValidateDownloadToken(token); err != nil {
		// reject
	}

# ID Generation

Random hex IDs of any length:

	id, err := auth.GenerateID(8)  // 16 hex characters
*/
package auth
