package metadata

// Package metadata resolves descriptive information about a video through
// an ordered pair of providers: a lightweight watch-page extractor first
// and the media fetch tool as fallback.
