package fetch

import (
	"path/filepath"
	"strings"
)

// Template fields expanded by ExpandTemplate
const (
	TemplateTitle = "%(title)s"
	TemplateID    = "%(id)s"
	TemplateExt   = "%(ext)s"
)

// DefaultFilenameTemplate names files after the video title
const DefaultFilenameTemplate = TemplateTitle + "." + TemplateExt

// PrepareFilename returns the path of the file the tool produced for info.
// The result depends only on its inputs.
func PrepareFilename(info *Info, template, ext string) string {
	if info == nil {
		return ""
	}
	for _, rd := range info.RequestedDownloads {
		if rd.Filepath != "" {
			return rd.Filepath
		}
	}
	if info.Filename != "" {
		return replaceExt(info.Filename, ext)
	}
	return ExpandTemplate(template, info, ext)
}

// ExpandTemplate substitutes the title, id and ext fields of template
func ExpandTemplate(template string, info *Info, ext string) string {
	if ext == "" {
		ext = info.Ext
	}
	return strings.NewReplacer(
		TemplateTitle, sanitizeName(info.Title),
		TemplateID, info.ID,
		TemplateExt, ext,
	).Replace(template)
}

func replaceExt(path, ext string) string {
	if ext == "" {
		return path
	}
	return strings.TrimSuffix(path, filepath.Ext(path)) + "." + ext
}

// sanitizeName strips path separators from a title used as a filename
func sanitizeName(s string) string {
	s = strings.NewReplacer("/", "_", "\\", "_", "\x00", "").Replace(s)
	if s == "" {
		return "NA"
	}
	return s
}
