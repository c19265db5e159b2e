package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/fabulist-labs/descry/internal/consensus"
	"github.com/fabulist-labs/descry/internal/core/domain"
	"github.com/fabulist-labs/descry/internal/core/ports/driven"
	"github.com/fabulist-labs/descry/internal/core/ports/driving"
	"github.com/fabulist-labs/descry/internal/logger"
)

// Ensure Coordinator implements the interface.
var _ driving.ExtractionService = (*Coordinator)(nil)

// extractResult carries one processor's outcome through the fan-out.
type extractResult struct {
	candidates []domain.Candidate
	err        error
}

// Coordinator orchestrates extraction requests: it snapshots the
// registry, executes the requested mode strategy, reconciles candidates
// and runs the postprocessor pipeline.
type Coordinator struct {
	registry *ProcessorRegistry
	voter    *consensus.Voter
	pipeline driven.PostProcessorPipeline
	selector SelectorConfig
}

// NewCoordinator creates a coordinator. The pipeline is optional; nil
// skips postprocessing.
func NewCoordinator(registry *ProcessorRegistry, pipeline driven.PostProcessorPipeline) *Coordinator {
	return &Coordinator{
		registry: registry,
		voter:    consensus.New(),
		pipeline: pipeline,
	}
}

// SetSelectorConfig tunes adaptive mode selection.
func (c *Coordinator) SetSelectorConfig(cfg SelectorConfig) {
	c.selector = cfg
}

// Extract runs the configured processors over the chapter text and
// returns descriptions ordered by priority descending. A degraded but
// non-empty result is always preferred over failing the request; the
// only fatal condition is that no processor produced anything.
func (c *Coordinator) Extract(ctx context.Context, text string, opts domain.ExtractOptions) ([]domain.Description, error) {
	logger.Section("Extraction")

	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrEmptyText
	}

	mode := opts.Mode
	if mode == "" {
		mode = domain.ModeEnsemble
	}
	if !mode.IsValid() {
		return nil, fmt.Errorf("%w: mode %q", domain.ErrInvalidInput, mode)
	}

	// One snapshot per request: weight order and tie-breaks stay
	// stable even if an admin rewrites configs mid-flight.
	snapshot := c.registry.Snapshot()
	if len(snapshot) == 0 {
		return nil, domain.ErrNoProcessors
	}
	logger.Debug("Snapshot: %d processors, mode %s", len(snapshot), mode)

	if mode == domain.ModeAdaptive {
		mode = SelectMode(text, opts.TimeBudget, len(snapshot), c.selector)
		logger.Info("Adaptive selector chose mode: %s", mode.Description())
	}

	if opts.TimeBudget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.TimeBudget)
		defer cancel()
	}

	var descs []domain.Description
	var succeeded int

	switch mode {
	case domain.ModeSingle:
		descs, succeeded = c.runSingle(ctx, snapshot, text, opts)
	case domain.ModeParallel:
		descs, succeeded = c.runParallel(ctx, snapshot, text, opts)
	case domain.ModeSequential:
		descs, succeeded = c.runSequential(ctx, snapshot, text, opts)
	case domain.ModeEnsemble:
		descs, succeeded = c.runEnsemble(ctx, snapshot, text, opts)
	}

	if succeeded == 0 {
		return nil, domain.ErrNoProcessors
	}
	logger.Debug("Raw descriptions: %d (from %d processors)", len(descs), succeeded)

	// Postprocessing must still run when the time budget expired
	// mid-request; completed processor results are not thrown away.
	if c.pipeline != nil {
		var err error
		descs, err = c.pipeline.Process(context.WithoutCancel(ctx), text, descs)
		if err != nil {
			return nil, fmt.Errorf("postprocess: %w", err)
		}
	}

	descs = c.finalise(descs, opts.ChapterID)
	logger.Info("Final descriptions: %d", len(descs))
	return descs, nil
}

// runSingle invokes only the highest-weight processor; its spans pass
// through as descriptions without voting.
func (c *Coordinator) runSingle(
	ctx context.Context, snapshot []ProcessorHandle, text string, opts domain.ExtractOptions,
) ([]domain.Description, int) {
	handle := snapshot[0]
	cands, err := c.invoke(ctx, handle, driven.ExtractionRequest{Text: text}, opts)
	if err != nil {
		logger.Warn("Processor %s failed: %v", handle.Config.ID, err)
		return nil, 0
	}
	return passthrough(cands), 1
}

// runParallel fans out to every processor and unions their spans without
// voting. Duplicates are possible; maximum coverage is the point.
func (c *Coordinator) runParallel(
	ctx context.Context, snapshot []ProcessorHandle, text string, opts domain.ExtractOptions,
) ([]domain.Description, int) {
	results := c.fanOut(ctx, snapshot, text, opts)

	var all []domain.Candidate
	succeeded := 0
	for i, res := range results {
		if res.err != nil {
			logger.Warn("Processor %s failed: %v", snapshot[i].Config.ID, res.err)
			continue
		}
		succeeded++
		all = append(all, res.candidates...)
	}
	return passthrough(all), succeeded
}

// runSequential invokes processors one at a time in weight order. Each
// processor sees the accumulated result set, and a later span that
// overlaps an accepted one by more than half is dropped, so later
// processors supplement rather than duplicate.
func (c *Coordinator) runSequential(
	ctx context.Context, snapshot []ProcessorHandle, text string, opts domain.ExtractOptions,
) ([]domain.Description, int) {
	var accepted []domain.Description
	succeeded := 0

	for _, handle := range snapshot {
		if ctx.Err() != nil {
			logger.Warn("Time budget exhausted; keeping %d descriptions", len(accepted))
			break
		}

		req := driven.ExtractionRequest{Text: text, Prior: accepted}
		cands, err := c.invoke(ctx, handle, req, opts)
		if err != nil {
			logger.Warn("Processor %s failed: %v", handle.Config.ID, err)
			continue
		}
		succeeded++

		for _, cand := range cands {
			if overlapsAccepted(cand, accepted) {
				continue
			}
			accepted = append(accepted, passthroughOne(cand))
		}
	}
	return accepted, succeeded
}

// runEnsemble fans out to every processor and reconciles all candidates
// through weighted consensus voting.
func (c *Coordinator) runEnsemble(
	ctx context.Context, snapshot []ProcessorHandle, text string, opts domain.ExtractOptions,
) ([]domain.Description, int) {
	results := c.fanOut(ctx, snapshot, text, opts)

	weights := make(map[string]float64, len(snapshot))
	var all []domain.Candidate
	succeeded := 0
	for i, res := range results {
		if res.err != nil {
			logger.Warn("Processor %s failed: %v", snapshot[i].Config.ID, res.err)
			continue
		}
		succeeded++
		weights[snapshot[i].Config.ID] = snapshot[i].Config.Weight
		all = append(all, res.candidates...)
	}
	if succeeded == 0 {
		return nil, 0
	}

	return c.voterFor(opts).Vote(all, weights), succeeded
}

// fanOut invokes every processor concurrently and collects per-processor
// results. A failing or timed-out processor only loses its own spans;
// results that completed before a budget expiry are kept.
func (c *Coordinator) fanOut(
	ctx context.Context, snapshot []ProcessorHandle, text string, opts domain.ExtractOptions,
) []extractResult {
	results := make([]extractResult, len(snapshot))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(len(snapshot))
	for i, handle := range snapshot {
		g.Go(func() error {
			cands, err := c.invoke(gctx, handle, driven.ExtractionRequest{Text: text}, opts)
			results[i] = extractResult{candidates: cands, err: err}
			return nil
		})
	}
	// Workers never return errors; Wait only joins them.
	_ = g.Wait()
	return results
}

// invoke runs one processor call under the per-call timeout and filters
// its output: malformed spans and spans below the processor's confidence
// threshold are dropped, and provenance is stamped from the snapshot.
func (c *Coordinator) invoke(
	ctx context.Context, handle ProcessorHandle, req driven.ExtractionRequest, opts domain.ExtractOptions,
) ([]domain.Candidate, error) {
	timeout := opts.CallTimeout
	if timeout <= 0 {
		timeout = domain.DefaultCallTimeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cands, err := handle.Extractor.Extract(callCtx, req)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}

	kept := make([]domain.Candidate, 0, len(cands))
	for _, cand := range cands {
		cand.ProcessorID = handle.Config.ID
		if !cand.Valid(req.Text) {
			logger.Debug("Processor %s produced invalid span [%d,%d), dropped",
				handle.Config.ID, cand.Start, cand.End)
			continue
		}
		if cand.Confidence < handle.Config.Threshold {
			continue
		}
		kept = append(kept, cand)
	}
	return kept, nil
}

// voterFor returns the default voter, or a per-request one when the
// options override a threshold.
func (c *Coordinator) voterFor(opts domain.ExtractOptions) *consensus.Voter {
	if opts.OverlapThreshold <= 0 && opts.ConsensusThreshold <= 0 {
		return c.voter
	}
	var vopts []consensus.Option
	if opts.OverlapThreshold > 0 {
		vopts = append(vopts, consensus.WithOverlapThreshold(opts.OverlapThreshold))
	}
	if opts.ConsensusThreshold > 0 {
		vopts = append(vopts, consensus.WithConsensusThreshold(opts.ConsensusThreshold))
	}
	return consensus.New(vopts...)
}

// finalise assigns identity and priority, then orders by priority
// descending with start offset as the tie-break.
func (c *Coordinator) finalise(descs []domain.Description, chapterID string) []domain.Description {
	for i := range descs {
		descs[i].ID = uuid.New().String()
		descs[i].ChapterID = chapterID
		descs[i].Priority = domain.PriorityScore(descs[i].Type, descs[i].Confidence)
	}
	sort.SliceStable(descs, func(i, j int) bool {
		if descs[i].Priority != descs[j].Priority {
			return descs[i].Priority > descs[j].Priority
		}
		return descs[i].Start < descs[j].Start
	})
	return descs
}

// overlapsAccepted reports whether the candidate covers more than half of
// an already-accepted span.
func overlapsAccepted(cand domain.Candidate, accepted []domain.Description) bool {
	for _, d := range accepted {
		if domain.Overlap(cand.Start, cand.End, d.Start, d.End) > domain.SequentialOverlapLimit {
			return true
		}
	}
	return false
}

// passthrough converts candidates into descriptions one to one, used by
// the modes that skip voting.
func passthrough(cands []domain.Candidate) []domain.Description {
	descs := make([]domain.Description, 0, len(cands))
	for _, cand := range cands {
		descs = append(descs, passthroughOne(cand))
	}
	return descs
}

func passthroughOne(cand domain.Candidate) domain.Description {
	return domain.Description{
		Start:      cand.Start,
		End:        cand.End,
		Text:       cand.Text,
		Type:       cand.Type,
		Confidence: cand.Confidence,
		Processors: []string{cand.ProcessorID},
	}
}
