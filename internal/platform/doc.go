package platform

// Package platform contains OS integration and external tooling glue:
// filesystem helpers, capability probing of external executables, the
// browser-fingerprinted HTTP transport and playlist expansion.
