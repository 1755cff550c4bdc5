// Package types defines the core domain types shared across adbpush.
//
//nolint:revive // types is a common Go package naming convention
package types

// Version is the canonical project version.
// The CLI and the batch notification payload share this version.
const Version = "0.1.0"

// ContractVersion is stamped on every published batch notification.
// It moves in lockstep with Version.
const ContractVersion = Version
