package extract

import (
	"bytes"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"resumatch/internal/errors"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// SupportedExtensions lists the file types text can be extracted from.
// Anything not listed here is rejected rather than read as garbage.
var SupportedExtensions = []string{".txt", ".md", ".markdown", ".text", ".pdf", ".docx"}

// Supported reports whether a filename has an extractable extension.
// Extensionless files are treated as plain text.
func Supported(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == "" || slices.Contains(SupportedExtensions, ext)
}

// FromFile extracts plain UTF-8 text from a resume file, dispatching on the
// file extension. The engine never touches files; this is the only place
// binary resume formats are handled.
func FromFile(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".pdf":
		return fromPDF(path)
	case ".docx":
		return fromDocx(path)
	case "", ".txt", ".md", ".markdown", ".text":
		return fromPlainText(path)
	default:
		return "", errors.NewValidationError(errors.ErrCodeUnsupportedFile,
			fmt.Sprintf("Unsupported file type: %s", ext), nil).
			WithContext("path", path).
			WithContext("supported", SupportedExtensions)
	}
}

func fromPlainText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NewIOError(errors.ErrCodeFileNotFound,
				fmt.Sprintf("File not found: %s", path), err)
		}
		return "", errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot read file: %s", path), err)
	}
	return Cleanup(string(data)), nil
}

func fromPDF(path string) (string, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return "", errors.NewIOError(errors.ErrCodeExtractionFailed,
			fmt.Sprintf("Failed to open PDF: %s", path), err).
			WithContext("path", path)
	}
	defer func() {
		_ = file.Close()
	}()

	plainText, err := reader.GetPlainText()
	if err != nil {
		return "", errors.NewIOError(errors.ErrCodeExtractionFailed,
			fmt.Sprintf("Failed to extract text from PDF: %s", path), err).
			WithContext("path", path)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plainText); err != nil {
		return "", errors.NewIOError(errors.ErrCodeExtractionFailed,
			fmt.Sprintf("Failed to read PDF text: %s", path), err).
			WithContext("path", path)
	}

	text := Cleanup(buf.String())
	if text == "" {
		return "", errors.NewIOError(errors.ErrCodeExtractionFailed,
			fmt.Sprintf("PDF contains no extractable text: %s", path), nil).
			WithContext("path", path)
	}
	return text, nil
}

func fromDocx(path string) (string, error) {
	reader, err := docx.ReadDocxFile(path)
	if err != nil {
		return "", errors.NewIOError(errors.ErrCodeExtractionFailed,
			fmt.Sprintf("Failed to open DOCX: %s", path), err).
			WithContext("path", path)
	}
	defer func() {
		_ = reader.Close()
	}()

	text := docxPlainText(reader.Editable().GetContent())
	if text == "" {
		return "", errors.NewIOError(errors.ErrCodeExtractionFailed,
			fmt.Sprintf("DOCX contains no extractable text: %s", path), nil).
			WithContext("path", path)
	}
	return text, nil
}

var (
	// WordprocessingML paragraph ends and explicit breaks become newlines so
	// line structure survives tag stripping.
	docxLineBreaks = regexp.MustCompile(`</w:p>|<w:br[^>]*/?>`)
	docxTags       = regexp.MustCompile(`<[^>]+>`)

	blankRuns     = regexp.MustCompile(`\n{3,}`)
	nonPrintables = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f\x7f]`)
)

// docxPlainText converts raw WordprocessingML to plain text
func docxPlainText(content string) string {
	text := docxLineBreaks.ReplaceAllString(content, "\n")
	text = docxTags.ReplaceAllString(text, "")
	text = html.UnescapeString(text)
	return Cleanup(text)
}

// Cleanup normalizes extracted text: CRLF to LF, control characters removed,
// per-line trailing whitespace trimmed, runs of blank lines collapsed.
func Cleanup(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = nonPrintables.ReplaceAllString(text, "")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	text = strings.Join(lines, "\n")

	text = blankRuns.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
