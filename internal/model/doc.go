package model

// Package model defines domain data structures used across the app: normalized
// video metadata, format intents, download results and tasks, playlist entities,
// transfer states, and the error taxonomy surfaced to callers.
