// Package domain contains shared domain types used across the record
// sub-package. This root package holds sentinel errors, validation types,
// and the caller Identity type that all layers above storage agree on.
package domain
