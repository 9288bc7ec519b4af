// Package retrieve reconciles bulk content downloads against what was
// actually requested, repairing the service's silent partial deliveries.
package retrieve

import (
	"context"

	"go.uber.org/zap"

	"github.com/pge-tools/docketflow/internal/docket"
	"github.com/pge-tools/docketflow/internal/mni"
)

// ContentService is the slice of the remote client the reconciler needs.
type ContentService interface {
	FetchContents(ctx context.Context, caseNumber string, ids []string) (string, error)
}

// Reconciler downloads document payloads in two phases: one bulk request,
// then individual re-requests for whatever the bulk phase dropped.
type Reconciler struct {
	service ContentService
	logger  *zap.Logger
}

// New constructs a Reconciler.
func New(service ContentService, logger *zap.Logger) *Reconciler {
	return &Reconciler{service: service, logger: logger}
}

// Fetch returns (id, payload) pairs in the same relative order as ids,
// omitting ids that neither phase could retrieve. An id is present at most
// once. Payload-to-id association in the bulk phase is positional and
// best-effort: when the service returns fewer blocks than ids, the trailing
// ids are treated as missing, not misaligned, and go to the fallback phase.
// Only a failure of the bulk request itself is returned as an error.
func (r *Reconciler) Fetch(ctx context.Context, caseNumber string, ids []string) ([]docket.Retrieved, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	body, err := r.service.FetchContents(ctx, caseNumber, ids)
	if err != nil {
		return nil, err
	}
	blocks := mni.ExtractContents(body)
	if len(blocks) != len(ids) {
		r.logger.Warn("bulk delivery incomplete",
			zap.String("case", caseNumber),
			zap.Int("requested", len(ids)),
			zap.Int("delivered", len(blocks)),
		)
	}

	payloads := make(map[string][]byte, len(ids))
	for i, id := range ids {
		if i >= len(blocks) {
			break
		}
		data, err := mni.DecodePayload(blocks[i])
		if err != nil {
			// Treated as missing rather than shifting later positions.
			r.logger.Warn("undecodable content block",
				zap.String("case", caseNumber),
				zap.String("documentId", id),
				zap.Error(err),
			)
			continue
		}
		payloads[id] = data
	}

	var missing []string
	for _, id := range ids {
		if _, ok := payloads[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		r.logger.Info("retrying missing documents individually",
			zap.String("case", caseNumber),
			zap.Int("count", len(missing)),
		)
		for _, id := range missing {
			data, ok := r.fetchOne(ctx, caseNumber, id)
			if ok {
				payloads[id] = data
			}
		}
	}

	out := make([]docket.Retrieved, 0, len(payloads))
	for _, id := range ids {
		if data, ok := payloads[id]; ok {
			out = append(out, docket.Retrieved{ID: id, Payload: data})
		}
	}
	return out, nil
}

// fetchOne is the fallback path; its failures are logged and the id is
// dropped without aborting the remaining fallback requests.
func (r *Reconciler) fetchOne(ctx context.Context, caseNumber, id string) ([]byte, bool) {
	body, err := r.service.FetchContents(ctx, caseNumber, []string{id})
	if err != nil {
		r.logger.Warn("fallback request failed",
			zap.String("case", caseNumber),
			zap.String("documentId", id),
			zap.Error(err),
		)
		return nil, false
	}
	blocks := mni.ExtractContents(body)
	if len(blocks) == 0 {
		return nil, false
	}
	data, err := mni.DecodePayload(blocks[0])
	if err != nil {
		r.logger.Warn("fallback block undecodable",
			zap.String("case", caseNumber),
			zap.String("documentId", id),
			zap.Error(err),
		)
		return nil, false
	}
	return data, true
}
