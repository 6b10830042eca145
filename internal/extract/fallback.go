package extract

import (
	"fmt"
	"strings"

	"github.com/spigell/resume-scorer/internal/document"
)

const unreadableNote = "The resume content is available but not in text format suitable for AI analysis."

var formatLabels = map[document.Format]string{
	document.FormatPDF:       "PDF",
	document.FormatDOCX:      "DOCX",
	document.FormatLegacyDOC: "DOC",
	document.FormatHTML:      "HTML",
	document.FormatPlainText: "Text",
	document.FormatImage:     "Image",
}

// describe builds the synthetic text used when nothing readable came out of
// the document. It is never empty.
func describe(format document.Format, size int, result Result) string {
	var b strings.Builder

	if format == document.FormatPDF {
		fmt.Fprintf(&b, "PDF Resume with %d pages. ", result.Pages)
		if result.Info.Title != "" || result.Info.Author != "" {
			fmt.Fprintf(&b, "Title: %s. Author: %s. ", orUnknown(result.Info.Title), orUnknown(result.Info.Author))
		}
		fmt.Fprintf(&b, "File size: %d bytes. ", size)
		b.WriteString("This PDF appears to contain primarily images or complex formatting that cannot be extracted as text. ")
		b.WriteString(unreadableNote)
		return b.String()
	}

	label, ok := formatLabels[format]
	if !ok {
		label = "Unrecognized"
	}

	fmt.Fprintf(&b, "%s Resume. ", label)
	if result.Pages > 0 {
		fmt.Fprintf(&b, "Pages: %d. ", result.Pages)
	}
	fmt.Fprintf(&b, "File size: %d bytes. ", size)
	b.WriteString("This document appears to contain primarily images or an unsupported format that cannot be extracted as text. ")
	b.WriteString(unreadableNote)
	return b.String()
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Unknown"
	}
	return s
}
