package persist

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractPDFText derives text from a PDF payload, trying three stages:
// extraction from the already-written file, extraction from a temporary
// copy of the bytes (also the first stage when no file was written), and
// finally per-page plain text straight from the raw bytes. Returns an
// error only when all stages fail; the caller skips text output for that
// document without failing the case.
func ExtractPDFText(payload []byte, writtenPath string) (string, error) {
	var firstErr error

	if writtenPath != "" {
		text, err := safely(func() (string, error) { return textFromFile(writtenPath) })
		if err == nil {
			return text, nil
		}
		firstErr = err
	}

	text, err := safely(func() (string, error) { return textFromTempCopy(payload) })
	if err == nil {
		return text, nil
	}
	if firstErr == nil {
		firstErr = err
	}

	text, err = safely(func() (string, error) { return textPerPage(payload) })
	if err == nil {
		return text, nil
	}
	return "", fmt.Errorf("all extraction stages failed: %w", firstErr)
}

// The pdf library panics on some malformed documents; treat a panic in any
// stage as that stage failing.
func safely(fn func() (string, error)) (text string, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("pdf extraction panicked: %v", p)
		}
	}()
	return fn()
}

func textFromFile(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}
	data, err := io.ReadAll(plain)
	if err != nil {
		return "", err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return "", fmt.Errorf("no extractable text in %s", path)
	}
	return string(data), nil
}

func textFromTempCopy(payload []byte) (string, error) {
	tmp, err := os.CreateTemp("", "docketflow-*.pdf")
	if err != nil {
		return "", err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	return textFromFile(tmpPath)
}

func textPerPage(payload []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(payload), int64(len(payload)))
	if err != nil {
		return "", err
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		pages = append(pages, text)
	}
	if len(pages) == 0 {
		return "", fmt.Errorf("no pages yielded text")
	}
	return strings.Join(pages, "\n\n"), nil
}
