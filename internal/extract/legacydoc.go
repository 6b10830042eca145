package extract

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/richardlehane/mscfb"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/spigell/resume-scorer/internal/document"
	"github.com/spigell/resume-scorer/internal/ocr"
)

const (
	wordStreamName = "WordDocument"
	wordIdent      = 0xA5EC

	fibFlagsOffset = 0x0A
	fibFcMinOffset = 0x18
	fibFcMacOffset = 0x1C
	fibMinLength   = 0x20

	flagComplex   = 0x0004
	flagEncrypted = 0x0100

	heuristicLineLimit = 50
)

var (
	errNoWordStream = errors.New("no WordDocument stream")
	errNotWord      = errors.New("not a word binary document")
	errComplexFile  = errors.New("fast-saved document with complex piece table")
	errEncrypted    = errors.New("encrypted document")
)

// extractLegacyDOC reads the text range of the WordDocument stream. When the
// compound file or FIB cannot be used it falls back to scraping printable
// bytes, which is crude but never fails.
func extractLegacyDOC(_ context.Context, doc *document.RawDocument, _ ocr.Recognizer) (Result, error) {
	text, err := readWordText(doc.Data)
	if err == nil {
		if lines := nonEmptyLines(text, 0); len(lines) > 0 {
			return Result{Text: strings.Join(lines, "\n"), Strategy: StrategyLegacyDOC}, nil
		}
		err = errors.New("empty text range")
	}

	return Result{
		Text:     strings.Join(legacyHeuristicLines(doc.Data), "\n"),
		Strategy: StrategyLegacyHeuristic,
		Warnings: []string{fmt.Sprintf("legacy doc reader: %v", err)},
	}, nil
}

func readWordText(data []byte) (string, error) {
	reader, err := mscfb.New(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("open compound file: %w", err)
	}

	var stream []byte
	for entry, err := reader.Next(); err == nil; entry, err = reader.Next() {
		if entry.Name != wordStreamName {
			continue
		}
		if entry.Size <= 0 || entry.Size > int64(len(data)) {
			return "", fmt.Errorf("%s: implausible size %d", wordStreamName, entry.Size)
		}
		stream = make([]byte, entry.Size)
		if _, err := io.ReadFull(entry, stream); err != nil {
			return "", fmt.Errorf("read %s: %w", wordStreamName, err)
		}
		break
	}
	if stream == nil {
		return "", errNoWordStream
	}

	return wordTextRange(stream)
}

// wordTextRange decodes the main text between fcMin and fcMac of the FIB.
func wordTextRange(stream []byte) (string, error) {
	if len(stream) < fibMinLength || binary.LittleEndian.Uint16(stream) != wordIdent {
		return "", errNotWord
	}

	flags := binary.LittleEndian.Uint16(stream[fibFlagsOffset:])
	switch {
	case flags&flagEncrypted != 0:
		return "", errEncrypted
	case flags&flagComplex != 0:
		return "", errComplexFile
	}

	fcMin := binary.LittleEndian.Uint32(stream[fibFcMinOffset:])
	fcMac := binary.LittleEndian.Uint32(stream[fibFcMacOffset:])
	if fcMin >= fcMac || int(fcMac) > len(stream) {
		return "", fmt.Errorf("invalid text range %d..%d", fcMin, fcMac)
	}

	raw := stream[fcMin:fcMac]

	var (
		decoded []byte
		err     error
	)
	if looksUTF16(raw) {
		decoded, err = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder().Bytes(raw)
	} else {
		decoded, err = charmap.Windows1252.NewDecoder().Bytes(raw)
	}
	if err != nil {
		return "", fmt.Errorf("decode text range: %w", err)
	}

	return cleanWordControls(string(decoded)), nil
}

// looksUTF16 guesses the piece encoding from how many odd bytes are zero.
func looksUTF16(raw []byte) bool {
	if len(raw) < 2 {
		return false
	}
	zeros := 0
	for i := 1; i < len(raw); i += 2 {
		if raw[i] == 0 {
			zeros++
		}
	}
	return float64(zeros)/float64(len(raw)/2) > 0.3
}

var wordControls = strings.NewReplacer(
	"\r", "\n",
	"\x07", "\t",
	"\x0b", "\n",
	"\x0c", "\n",
)

func cleanWordControls(s string) string {
	s = wordControls.Replace(s)
	return strings.Map(func(r rune) rune {
		if r < 0x20 && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, s)
}

// legacyHeuristicLines keeps printable ASCII plus tab/LF/CR, then returns the
// first non-empty, non-NUL-prefixed lines.
func legacyHeuristicLines(data []byte) []string {
	filtered := make([]byte, 0, len(data))
	for _, b := range data {
		if document.IsPrintable(b) {
			filtered = append(filtered, b)
		}
	}

	var lines []string
	for _, line := range strings.Split(string(filtered), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "\x00") {
			continue
		}
		trimmed = strings.ReplaceAll(trimmed, "\r", "")
		if trimmed = strings.TrimSpace(trimmed); trimmed == "" {
			continue
		}
		lines = append(lines, trimmed)
		if len(lines) == heuristicLineLimit {
			break
		}
	}

	return lines
}
