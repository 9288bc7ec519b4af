package runner

import (
	"context"

	"go.uber.org/zap"

	"github.com/pge-tools/docketflow/internal/config"
	"github.com/pge-tools/docketflow/internal/docket"
	"github.com/pge-tools/docketflow/internal/errs"
	"github.com/pge-tools/docketflow/internal/merge"
	"github.com/pge-tools/docketflow/internal/mni"
)

// processCase walks one case through the pipeline to a terminal state. The
// second return reports whether the normal inter-case pause applies: true
// only for cases that ran to completion, not for early exits or failures.
func (r *Runner) processCase(ctx context.Context, index int, raw string) (CaseResult, bool) {
	caseNumber := config.NormalizeCaseNumber(raw)
	if caseNumber == "" {
		r.logger.Warn("empty or invalid case number, skipping", zap.Int("line", index+1))
		return CaseResult{CaseNumber: raw, Status: StatusSkipped, Reason: "empty case number"}, false
	}

	logCtx := r.logger.With(zap.String("case", caseNumber))
	logCtx.Info("processing case", zap.Int("position", index+1))

	res := CaseResult{CaseNumber: caseNumber}
	paced, err := r.runCase(ctx, logCtx, &res)
	if err != nil {
		e := errs.FromError(err)
		logCtx.Error("case failed",
			zap.String("category", e.Code),
			zap.Error(err),
		)
		res.Status = StatusFailed
		res.Reason = e.Code
		r.cooldown(e.Code)
		return res, false
	}
	return res, paced
}

// runCase performs the stages; it fills res and sets its terminal status.
// Any returned error is converted into Failed by the caller.
func (r *Runner) runCase(ctx context.Context, logCtx *zap.Logger, res *CaseResult) (bool, error) {
	caseNumber := res.CaseNumber

	// Lookup. Multi-instance mode uses the same broad query and lets the
	// service resolve the case across tiers; the tier classification is
	// advisory and logged only.
	body, err := r.service.QueryCase(ctx, caseNumber)
	if err != nil {
		return false, err
	}
	if r.cfg.MultiInstance {
		if !mni.IndicatesSuccess(body) {
			logCtx.Warn("case not found in any instance")
			res.Status = StatusSkipped
			res.Reason = "not found"
			return false, nil
		}
		if tier, err := docket.ClassifyTier(body); err == nil {
			logCtx.Info("case located",
				zap.String("tier", tier.Description()),
				zap.String("competencia", tier.Competencia),
				zap.String("locality", tier.LocalityCode),
				zap.Bool("hasDocuments", mni.HasDocuments(body)),
			)
		}
	}

	if r.cfg.SaveDocket || r.cfg.SaveMode == config.SaveModeXMLOnly {
		path, err := r.store.SaveDocket(caseNumber, body)
		if err != nil {
			logCtx.Warn("failed to save docket response", zap.Error(err))
		} else {
			res.DocketPath = path
			logCtx.Info("docket response saved", zap.String("path", path))
		}
	}
	// Metadata-only runs are an early exit: done, but not paced.
	if r.cfg.SaveMode == config.SaveModeXMLOnly {
		res.Status = StatusDone
		return false, nil
	}

	// Extract and select.
	records, err := docket.Extract(body)
	if err != nil {
		return false, err
	}
	res.DocumentsFound = len(records)
	if len(records) == 0 {
		logCtx.Info("no documents in docket")
		res.Status = StatusSkipped
		res.Reason = "no documents"
		return false, nil
	}

	if r.cfg.FilterByYear {
		years := r.cfg.CleanYears()
		records = docket.FilterByYears(records, years)
		if len(records) == 0 {
			logCtx.Info("no documents match filter years", zap.Strings("years", years))
			res.Status = StatusSkipped
			res.Reason = "no documents in filter years"
			return false, nil
		}
	}

	records = docket.FilterByCategories(records, r.cfg.CategorySet())
	if len(records) == 0 {
		logCtx.Info("no documents in selected categories")
		res.Status = StatusSkipped
		res.Reason = "no documents in selected categories"
		return false, nil
	}
	res.DocumentsSelected = len(records)

	docket.Sort(records)
	ids := docket.IDs(records)
	logCtx.Info("documents selected and ordered", zap.Int("count", len(ids)))

	// Retrieve.
	retrieved, err := r.reconciler.Fetch(ctx, caseNumber, ids)
	if err != nil {
		return false, err
	}
	if len(retrieved) == 0 {
		logCtx.Warn("no payloads retrieved, even with fallback")
		res.Status = StatusSkipped
		res.Reason = "no payloads retrieved"
		return false, nil
	}
	if gaps := len(ids) - len(retrieved); gaps > 0 {
		logCtx.Warn("documents unavailable from both phases", zap.Int("count", gaps))
	}

	// Persist in order, numbering by persisted position.
	byID := make(map[string]docket.Record, len(records))
	for _, rec := range records {
		byID[rec.ID] = rec
	}
	ordinal := 0
	for _, item := range retrieved {
		rec, ok := byID[item.ID]
		if !ok {
			continue
		}
		ordinal++
		label := docket.CategoryLabel(rec.CategoryCode)
		baseName := r.store.BaseFilename(caseNumber, ordinal, label)

		binPath, textPath, err := r.store.SaveDocument(caseNumber, baseName, item.Payload, r.cfg.SaveMode)
		if err != nil {
			return false, err
		}
		if binPath != "" {
			res.BinaryPaths = append(res.BinaryPaths, binPath)
			logCtx.Info("binary saved", zap.String("path", binPath))
		}
		if textPath != "" {
			res.TextPaths = append(res.TextPaths, textPath)
			logCtx.Info("text saved", zap.String("path", textPath))
		}
	}
	res.DocumentsSaved = ordinal

	// Composite.
	if r.cfg.MergePDFs && len(res.BinaryPaths) > 0 {
		outPath, err := r.store.CompositePath(caseNumber)
		if err != nil {
			logCtx.Warn("cannot resolve composite path", zap.Error(err))
		} else if ok, err := merge.Build(res.BinaryPaths, outPath, logCtx); err != nil {
			// Losing the composite does not lose the documents.
			logCtx.Warn("composite build failed", zap.Error(err))
		} else if ok {
			res.CompositePath = outPath
		}
	}

	if r.archiver != nil {
		r.archiveCase(ctx, logCtx, res)
	}

	res.Status = StatusDone
	return true, nil
}

func (r *Runner) archiveCase(ctx context.Context, logCtx *zap.Logger, res *CaseResult) {
	var paths []string
	paths = append(paths, res.BinaryPaths...)
	paths = append(paths, res.TextPaths...)
	if res.DocketPath != "" {
		paths = append(paths, res.DocketPath)
	}
	if res.CompositePath != "" {
		paths = append(paths, res.CompositePath)
	}
	if len(paths) == 0 {
		return
	}
	if err := r.archiver.ArchiveCase(ctx, res.CaseNumber, paths); err != nil {
		logCtx.Warn("artifact archival incomplete", zap.Error(err))
	} else {
		logCtx.Info("artifacts archived", zap.Int("count", len(paths)))
	}
}

// cooldown applies the post-failure pause: a little longer after
// network-class failures to let the service settle.
func (r *Runner) cooldown(code string) {
	switch code {
	case errs.ErrTimeout.Code, errs.ErrConnection.Code, errs.ErrHTTPStatus.Code:
		r.sleep(networkCooldown)
	default:
		r.sleep(failureCooldown)
	}
}
