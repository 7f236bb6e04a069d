package download

// Package download implements the download pipeline on top of the media
// fetch tool: intent planning, the transcoder precondition, destination
// directory handling, cancellable background tasks and bounded parallel
// playlist downloads.
