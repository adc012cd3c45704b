package auth

import "errors"

// ErrNoRefreshToken is returned when a refresh is attempted without a
// stored refresh token.
var ErrNoRefreshToken = errors.New("auth: no refresh token available")
