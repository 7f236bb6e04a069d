package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// Name similarity threshold used when locating a produced file
const (
	MaxNameDifference = 10
)

// Partial-transfer file extensions left behind by an interrupted download
var (
	SkippedExtensions = []string{".part", ".ytdl"}
)

// TransferDirPrefix names the per-transfer staging directories
const (
	TransferDirPrefix = ".ytgrab-"
)

// CreateDirectoryIfNotExists creates directory if it doesn't exist.
// Calling it on an existing directory is a no-op.
func CreateDirectoryIfNotExists(dirPath string) error {
	info, err := os.Stat(dirPath)
	if os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s exists and is not a directory", dirPath)
	}
	return nil
}

// GetHomeDownloadsDir returns the standard Downloads directory for the user
func GetHomeDownloadsDir() (string, error) {
	if runtime.GOOS == "android" || os.Getenv("ANDROID_DATA") != "" {
		return "/sdcard/Download", nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, "Downloads"), nil
}

// FileExists reports whether path names an existing regular file
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// IsPartialFile reports whether name carries a partial-transfer extension
func IsPartialFile(name string) bool {
	for _, ext := range SkippedExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// NewTransferDir creates a private staging directory under parent for a
// single transfer. Keeping it on the same filesystem lets MoveIntoDir rename.
func NewTransferDir(parent string) (string, error) {
	return os.MkdirTemp(parent, TransferDirPrefix+"*")
}

// MoveIntoDir moves path, located under srcRoot, to the same relative
// location under dstRoot and returns the new path. An existing file at the
// destination is replaced.
func MoveIntoDir(path, srcRoot, dstRoot string) (string, error) {
	rel, err := filepath.Rel(srcRoot, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is not inside %s", path, srcRoot)
	}
	target := filepath.Join(dstRoot, rel)
	if err := CreateDirectoryIfNotExists(filepath.Dir(target)); err != nil {
		return "", err
	}
	if err := os.Rename(path, target); err != nil {
		return "", fmt.Errorf("failed to move %s: %w", path, err)
	}
	return target, nil
}

// FindFileWithFallback returns filePath if it exists. Otherwise it looks in
// the same directory for a file with the same extension and a similar name,
// which covers the sanitizing the fetch tool applies to titles.
func FindFileWithFallback(filePath string) (string, error) {
	if filePath == "" {
		return "", fmt.Errorf("file path is empty")
	}
	if strings.HasPrefix(filePath, "http") {
		return "", fmt.Errorf("file path appears to be a URL: %s", filePath)
	}
	if FileExists(filePath) {
		return filePath, nil
	}

	dir := filepath.Dir(filePath)
	ext := filepath.Ext(filePath)
	base := strings.TrimSuffix(filepath.Base(filePath), ext)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var exact, similar []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || IsPartialFile(name) || filepath.Ext(name) != ext {
			continue
		}
		candidate := strings.TrimSuffix(name, ext)
		switch {
		case normalizeName(candidate) == normalizeName(base):
			exact = append(exact, filepath.Join(dir, name))
		case isSimilarFileName(candidate, base):
			similar = append(similar, filepath.Join(dir, name))
		}
	}

	// A fallback is only trusted when it is unambiguous
	for _, candidates := range [][]string{exact, similar} {
		switch len(candidates) {
		case 0:
			continue
		case 1:
			return candidates[0], nil
		default:
			sort.Strings(candidates)
			return "", fmt.Errorf("ambiguous match for %s: %s", filePath, strings.Join(candidates, ", "))
		}
	}
	return "", fmt.Errorf("file not found: %s", filePath)
}

// isSimilarFileName checks if two file names are similar enough to be considered the same file
func isSimilarFileName(name1, name2 string) bool {
	clean1 := normalizeName(name1)
	clean2 := normalizeName(name2)
	if clean1 == clean2 {
		return true
	}
	if clean1 == "" || clean2 == "" {
		return false
	}
	if strings.Contains(clean1, clean2) || strings.Contains(clean2, clean1) {
		diff := len(clean1) - len(clean2)
		if diff < 0 {
			diff = -diff
		}
		return diff <= MaxNameDifference
	}
	return false
}

// normalizeName folds the separators the fetch tool substitutes for spaces
func normalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("_", " ", "-", " ").Replace(s)
}
