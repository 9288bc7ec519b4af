// Package merge builds one composite PDF per case from the persisted
// binary artifacts, in the order they were persisted.
package merge

import (
	"fmt"
	"os"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"go.uber.org/zap"
)

// Build concatenates the given binary artifacts into outPath. Non-PDF paths
// (RTF documents) are excluded and counted; a PDF that cannot be read or
// merged is skipped with a warning, not fatal, and only loses itself. The
// composite is written only when at least one page survives; the return
// reports whether it was produced.
func Build(paths []string, outPath string, logger *zap.Logger) (bool, error) {
	if len(paths) == 0 {
		return false, nil
	}

	var pdfPaths []string
	for _, p := range paths {
		if strings.HasSuffix(strings.ToLower(p), ".pdf") {
			pdfPaths = append(pdfPaths, p)
		}
	}
	if excluded := len(paths) - len(pdfPaths); excluded > 0 {
		logger.Info("excluded non-PDF artifacts from composite", zap.Int("count", excluded))
	}

	// Retrieved PDFs are frequently malformed; validate relaxed, the way
	// the rest of the pipeline treats them.
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	// The composite is built by appending; a leftover from an earlier run
	// must not be appended onto.
	if err := os.Remove(outPath); err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to replace composite %s: %w", outPath, err)
	}

	merged := 0
	totalPages := 0
	for _, p := range pdfPaths {
		pages, err := api.PageCountFile(p)
		if err != nil || pages == 0 {
			logger.Warn("skipping unreadable composite source", zap.String("path", p), zap.Error(err))
			continue
		}
		if err := api.MergeAppendFile([]string{p}, outPath, false, conf); err != nil {
			logger.Warn("skipping unmergeable composite source", zap.String("path", p), zap.Error(err))
			continue
		}
		merged++
		totalPages += pages
	}
	if merged == 0 {
		logger.Warn("no valid pages for composite, nothing written")
		return false, nil
	}

	logger.Info("composite written",
		zap.String("path", outPath),
		zap.Int("sources", merged),
		zap.Int("pages", totalPages),
	)
	return true, nil
}
