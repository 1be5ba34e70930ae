package archive

import "strings"

// ExtractArchiveID derives a bare identifier from an archive or USFM
// filename by stripping known compound and single extensions.
func ExtractArchiveID(filename string) string {
	id := filename
	compoundExts := []string{
		".capsule.tar.xz",
		".capsule.tar.gz",
	}
	for _, ext := range compoundExts {
		if strings.HasSuffix(id, ext) {
			return strings.TrimSuffix(id, ext)
		}
	}

	singleExts := []string{".tar.xz", ".tar.gz", ".tar", ".usfm", ".sfm", ".usx"}
	for _, ext := range singleExts {
		if strings.HasSuffix(id, ext) {
			return strings.TrimSuffix(id, ext)
		}
	}

	return id
}

// DetectFormat detects the archive format from a file extension.
func DetectFormat(path string) string {
	switch {
	case strings.HasSuffix(path, ".tar.xz"):
		return "tar.xz"
	case strings.HasSuffix(path, ".tar.gz"):
		return "tar.gz"
	case strings.HasSuffix(path, ".tar"):
		return "tar"
	default:
		return "unknown"
	}
}

// IsSupportedFormat returns true if the file has a supported archive extension.
func IsSupportedFormat(path string) bool {
	return strings.HasSuffix(path, ".tar.xz") ||
		strings.HasSuffix(path, ".tar.gz")
}
