package document

import (
	"mime"
	"path"
	"strings"
)

// Format is the document kind detected from content bytes.
type Format string

const (
	FormatPDF       Format = "PDF"
	FormatDOCX      Format = "DOCX"
	FormatLegacyDOC Format = "LEGACY_DOC"
	FormatHTML      Format = "HTML"
	FormatPlainText Format = "PLAIN_TEXT"
	FormatImage     Format = "IMAGE"
	FormatUnknown   Format = "UNKNOWN"
)

// RawDocument holds fetched bytes together with whatever the source claimed
// about them. It is never modified after fetch.
type RawDocument struct {
	// Source is the original reference (URL or path), used only for logs.
	Source            string
	Data              []byte
	DeclaredExt       string
	DeclaredMediaType string
}

// Size returns the number of bytes in the document.
func (d *RawDocument) Size() int {
	if d == nil {
		return 0
	}
	return len(d.Data)
}

// knownExtensions are checked in order against a lower-cased reference.
// ".docx" precedes ".doc" so the longer suffix wins.
var knownExtensions = []string{".pdf", ".docx", ".doc", ".txt", ".jpeg", ".jpg", ".png", ".html", ".htm"}

// ExtensionFromReference guesses a declared extension from a URL or a file
// name, falling back to the media type when the reference carries none.
func ExtensionFromReference(ref, mediaType string) string {
	lower := strings.ToLower(strings.TrimSpace(ref))

	if ext := path.Ext(strings.SplitN(strings.SplitN(lower, "?", 2)[0], "#", 2)[0]); isKnownExtension(ext) {
		return ext
	}

	for _, ext := range knownExtensions {
		if strings.Contains(lower, ext) {
			return ext
		}
	}

	return ExtensionFromMediaType(mediaType)
}

// ExtensionFromMediaType maps a Content-Type header to an extension. Unknown
// types map to an empty string.
func ExtensionFromMediaType(mediaType string) string {
	mediaType = strings.ToLower(strings.TrimSpace(mediaType))
	if mediaType == "" {
		return ""
	}

	if parsed, _, err := mime.ParseMediaType(mediaType); err == nil {
		mediaType = parsed
	}

	switch {
	case strings.Contains(mediaType, "pdf"):
		return ".pdf"
	case strings.Contains(mediaType, "wordprocessingml"):
		return ".docx"
	case mediaType == "application/msword":
		return ".doc"
	case mediaType == "text/html":
		return ".html"
	case strings.HasPrefix(mediaType, "text/"):
		return ".txt"
	case mediaType == "image/png":
		return ".png"
	case strings.HasPrefix(mediaType, "image/"):
		return ".jpg"
	default:
		return ""
	}
}

// FormatFromExtension maps a declared extension to a format. It is only
// consulted when sniffing is inconclusive.
func FormatFromExtension(ext string) Format {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	switch ext {
	case ".pdf":
		return FormatPDF
	case ".docx":
		return FormatDOCX
	case ".doc":
		return FormatLegacyDOC
	case ".html", ".htm":
		return FormatHTML
	case ".txt":
		return FormatPlainText
	case ".jpg", ".jpeg", ".png":
		return FormatImage
	default:
		return FormatUnknown
	}
}

func isKnownExtension(ext string) bool {
	for _, known := range knownExtensions {
		if ext == known {
			return true
		}
	}
	return false
}
