// Package sentinel holds infrastructure fact errors. Registries return them
// (optionally wrapped) and services translate them into soft rejections or
// coded domain errors.
package sentinel

import "errors"

// ErrNotFound reports a missing registry entry: verifier server, issuer,
// issuer key or circuit.
var ErrNotFound = errors.New("not found")
