package persist

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/pge-tools/docketflow/internal/config"
	"github.com/pge-tools/docketflow/internal/errs"
)

// Store writes case artifacts under the configured base directory in one of
// the two layout modes: everything in one folder with the case number
// prefixed into filenames, or parallel per-case trees for binaries, text
// and raw dockets.
type Store struct {
	baseDir string
	layout  string
	logger  *zap.Logger
}

// NewStore constructs a Store.
func NewStore(baseDir, layout string, logger *zap.Logger) *Store {
	return &Store{baseDir: baseDir, layout: layout, logger: logger}
}

// caseDirs resolves (and creates) the binary, text and docket directories
// for one case.
func (s *Store) caseDirs(caseNumber string) (binDir, textDir, docketDir string, err error) {
	if s.layout == config.LayoutSingleFolder {
		binDir, textDir, docketDir = s.baseDir, s.baseDir, s.baseDir
	} else {
		binDir = filepath.Join(s.baseDir, "processo_pdf", caseNumber)
		textDir = filepath.Join(s.baseDir, "processo_txt", caseNumber)
		docketDir = filepath.Join(s.baseDir, "processo_xml", caseNumber)
	}
	for _, dir := range []string{binDir, textDir, docketDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", "", "", errs.Wrap(err, errs.ErrPersistence.Code, fmt.Sprintf("failed to create %s", dir))
		}
	}
	return binDir, textDir, docketDir, nil
}

// BaseFilename builds the human-readable label for one persisted document.
// Single-folder mode prefixes the case number to disambiguate.
func (s *Store) BaseFilename(caseNumber string, ordinal int, label string) string {
	if s.layout == config.LayoutSingleFolder {
		return fmt.Sprintf("%s - %d. %s", caseNumber, ordinal, label)
	}
	return fmt.Sprintf("%d. %s", ordinal, label)
}

// SaveDocument persists one payload under the sanitized base name according
// to the output format mode. It returns the binary and text paths actually
// written; either may be empty. A failed text extraction degrades to
// "binary saved, text skipped" and is never an error.
func (s *Store) SaveDocument(caseNumber, baseName string, payload []byte, mode string) (binPath, textPath string, err error) {
	binDir, textDir, _, err := s.caseDirs(caseNumber)
	if err != nil {
		return "", "", err
	}
	baseName = SanitizeFilename(baseName)

	isRTF := IsRTF(payload)
	ext := ".pdf"
	if isRTF {
		ext = ".rtf"
	}
	binTarget := filepath.Join(binDir, baseName+ext)
	textTarget := filepath.Join(textDir, baseName+".txt")

	if mode == config.SaveModePDF || mode == config.SaveModePDFText {
		if err := os.WriteFile(binTarget, payload, 0o644); err != nil {
			return "", "", errs.Wrap(err, errs.ErrPersistence.Code, fmt.Sprintf("failed to write %s", binTarget))
		}
		binPath = binTarget
	}

	if mode == config.SaveModePDFText || mode == config.SaveModeText {
		// The text artifact is written whenever extraction did not fail
		// outright, even when it came out empty.
		var text string
		writeText := true
		if isRTF {
			text = RTFToText(payload)
		} else {
			extracted, exErr := ExtractPDFText(payload, binPath)
			if exErr != nil {
				s.logger.Warn("text extraction failed, skipping text output",
					zap.String("case", caseNumber),
					zap.String("document", baseName),
					zap.Error(exErr),
				)
				writeText = false
			}
			text = extracted
		}
		if writeText {
			if err := os.WriteFile(textTarget, []byte(text), 0o644); err != nil {
				return binPath, "", errs.Wrap(err, errs.ErrPersistence.Code, fmt.Sprintf("failed to write %s", textTarget))
			}
			textPath = textTarget
		}
	}

	return binPath, textPath, nil
}

// SaveDocket persists the unmodified docket response for one case.
func (s *Store) SaveDocket(caseNumber, responseBody string) (string, error) {
	_, _, docketDir, err := s.caseDirs(caseNumber)
	if err != nil {
		return "", err
	}
	path := filepath.Join(docketDir, fmt.Sprintf("%s_processo_completo.xml", caseNumber))
	if err := os.WriteFile(path, []byte(responseBody), 0o644); err != nil {
		return "", errs.Wrap(err, errs.ErrPersistence.Code, fmt.Sprintf("failed to write %s", path))
	}
	return path, nil
}

// CompositePath is where the merged composite for one case goes, alongside
// that case's binary artifacts.
func (s *Store) CompositePath(caseNumber string) (string, error) {
	binDir, _, _, err := s.caseDirs(caseNumber)
	if err != nil {
		return "", err
	}
	return filepath.Join(binDir, fmt.Sprintf("%s_MERGED.pdf", caseNumber)), nil
}
