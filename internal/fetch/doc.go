package fetch

// Package fetch adapts the yt-dlp media fetch tool: it builds tool
// invocations from a Query, parses the JSON info document the tool prints
// and maps tool diagnostics onto the error taxonomy.
