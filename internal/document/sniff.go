package document

import "bytes"

const (
	// sampleSize is the prefix inspected by the printable-ratio check.
	sampleSize = 1024
	// printableThreshold is the minimum printable share for plain text.
	printableThreshold = 0.8
)

var (
	pdfMagic     = []byte("%PDF")
	zipMagic     = []byte("PK")
	cfbMagic     = []byte{0xD0, 0xCF, 0x11, 0xE0}
	doctypeMagic = []byte("<!DOCTYPE")
	htmlMagic    = []byte("<html")
	jpegMagic    = []byte{0xFF, 0xD8, 0xFF}
	pngMagic     = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
)

// Sniff detects the format of data from its leading bytes. A positive
// signature match always wins; declaredExt is used only when the content is
// neither a known signature nor mostly printable text.
func Sniff(data []byte, declaredExt string) Format {
	if format := sniffContent(data); format != FormatUnknown {
		return format
	}
	return FormatFromExtension(declaredExt)
}

func sniffContent(data []byte) Format {
	switch {
	case len(data) == 0:
		return FormatUnknown
	case bytes.HasPrefix(data, pdfMagic):
		return FormatPDF
	case bytes.HasPrefix(data, zipMagic):
		return FormatDOCX
	case bytes.HasPrefix(data, cfbMagic):
		return FormatLegacyDOC
	case bytes.HasPrefix(data, doctypeMagic), bytes.HasPrefix(data, htmlMagic):
		return FormatHTML
	case bytes.HasPrefix(data, jpegMagic):
		return FormatImage
	case bytes.HasPrefix(data, pngMagic):
		return FormatImage
	}

	if PrintableRatio(data) > printableThreshold {
		return FormatPlainText
	}

	return FormatUnknown
}

// PrintableRatio returns the share of printable ASCII, tab, LF and CR bytes in
// the first 1024 bytes of data.
func PrintableRatio(data []byte) float64 {
	sample := data
	if len(sample) > sampleSize {
		sample = sample[:sampleSize]
	}
	if len(sample) == 0 {
		return 0
	}

	printable := 0
	for _, b := range sample {
		if IsPrintable(b) {
			printable++
		}
	}

	return float64(printable) / float64(len(sample))
}

// IsPrintable reports whether b is printable ASCII or tab, LF, CR.
func IsPrintable(b byte) bool {
	return (b >= 32 && b <= 126) || b == '\t' || b == '\n' || b == '\r'
}

// ImageMediaType returns the media type of a JPEG or PNG payload and an empty
// string otherwise.
func ImageMediaType(data []byte) string {
	switch {
	case bytes.HasPrefix(data, jpegMagic):
		return "image/jpeg"
	case bytes.HasPrefix(data, pngMagic):
		return "image/png"
	default:
		return ""
	}
}
