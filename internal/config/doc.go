package config

// Package config loads ytgrab settings from an optional YAML file,
// a .env file and YTGRAB_* environment variables, in increasing priority.
