// Package consensus implements the weighted voting algorithm that
// reconciles candidate spans from multiple processors into descriptions.
//
// Voting runs in three explicit steps so each rule stays independently
// testable: overlap clustering, per-cluster type voting, and boundary and
// confidence merging. The voter is a pure algorithm; it performs no I/O
// and is deterministic for a fixed candidate set and weight table.
package consensus

import (
	"sort"

	"github.com/fabulist-labs/descry/internal/core/domain"
)

// epsilon absorbs float error in threshold comparisons so that a cluster
// sitting exactly on the consensus threshold is accepted.
const epsilon = 1e-9

// Voter reconciles overlapping candidate spans through weighted majority
// voting.
type Voter struct {
	overlapThreshold   float64
	consensusThreshold float64
}

// Option configures the voter.
type Option func(*Voter)

// WithOverlapThreshold sets the minimum IoU for two spans to share a
// cluster. Values outside (0,1] are ignored.
func WithOverlapThreshold(v float64) Option {
	return func(vt *Voter) {
		if v > 0 && v <= 1 {
			vt.overlapThreshold = v
		}
	}
}

// WithConsensusThreshold sets the minimum agreeing-weight fraction for a
// cluster to be accepted. Values outside (0,1] are ignored.
func WithConsensusThreshold(v float64) Option {
	return func(vt *Voter) {
		if v > 0 && v <= 1 {
			vt.consensusThreshold = v
		}
	}
}

// New creates a voter with the given options.
func New(opts ...Option) *Voter {
	v := &Voter{
		overlapThreshold:   domain.DefaultOverlapThreshold,
		consensusThreshold: domain.DefaultConsensusThreshold,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Vote clusters the candidates, votes each cluster and returns the
// accepted descriptions in document order. Rejected clusters are dropped
// silently; that is the voter's noise filter, not an error. The weights
// table maps processor ID to its snapshot weight; candidates from unknown
// processors are ignored.
func (v *Voter) Vote(cands []domain.Candidate, weights map[string]float64) []domain.Description {
	known := cands[:0:0]
	for _, c := range cands {
		if _, ok := weights[c.ProcessorID]; ok {
			known = append(known, c)
		}
	}
	if len(known) == 0 {
		return nil
	}

	// Stable input order makes clustering and all tie-breaks
	// reproducible regardless of arrival order.
	sorted := make([]domain.Candidate, len(known))
	copy(sorted, known)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		if a.End != b.End {
			return a.End < b.End
		}
		if a.ProcessorID != b.ProcessorID {
			return a.ProcessorID < b.ProcessorID
		}
		return a.Type.VotePriority() < b.Type.VotePriority()
	})

	var descs []domain.Description
	for _, cluster := range v.cluster(sorted) {
		if d, ok := v.resolve(cluster, weights); ok {
			descs = append(descs, d)
		}
	}

	sort.Slice(descs, func(i, j int) bool {
		if descs[i].Start != descs[j].Start {
			return descs[i].Start < descs[j].Start
		}
		return descs[i].End < descs[j].End
	})
	return descs
}

// cluster groups candidates into connected components under the pairwise
// IoU relation. Transitivity is deliberate: a chain of overlapping spans
// forms one cluster even when its endpoints never overlap directly.
func (v *Voter) cluster(cands []domain.Candidate) [][]domain.Candidate {
	parent := make([]int, len(cands))
	for i := range parent {
		parent[i] = i
	}

	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	union := func(i, j int) {
		ri, rj := find(i), find(j)
		if ri != rj {
			parent[rj] = ri
		}
	}

	for i := 0; i < len(cands); i++ {
		for j := i + 1; j < len(cands); j++ {
			iou := domain.Overlap(cands[i].Start, cands[i].End, cands[j].Start, cands[j].End)
			if iou >= v.overlapThreshold-epsilon {
				union(i, j)
			}
		}
	}

	groups := make(map[int][]domain.Candidate)
	roots := make([]int, 0, len(cands))
	for i, c := range cands {
		r := find(i)
		if _, seen := groups[r]; !seen {
			roots = append(roots, r)
		}
		groups[r] = append(groups[r], c)
	}

	clusters := make([][]domain.Candidate, 0, len(roots))
	for _, r := range roots {
		clusters = append(clusters, groups[r])
	}
	return clusters
}

// resolve votes one cluster. It returns the merged description and true
// when the cluster reaches consensus.
func (v *Voter) resolve(cluster []domain.Candidate, weights map[string]float64) (domain.Description, bool) {
	// A processor voting twice for the same type in one cluster still
	// counts once; its weight must not compound.
	typeVoters := make(map[domain.DescriptionType]map[string]bool)
	clusterVoters := make(map[string]bool)
	for _, c := range cluster {
		if typeVoters[c.Type] == nil {
			typeVoters[c.Type] = make(map[string]bool)
		}
		typeVoters[c.Type][c.ProcessorID] = true
		clusterVoters[c.ProcessorID] = true
	}

	majority, majorityWeight := v.majorityType(typeVoters, weights)

	var totalWeight float64
	for id := range clusterVoters {
		totalWeight += weights[id]
	}
	if totalWeight <= 0 {
		return domain.Description{}, false
	}

	score := majorityWeight / totalWeight
	if score < v.consensusThreshold-epsilon {
		return domain.Description{}, false
	}

	agreeing := make([]domain.Candidate, 0, len(cluster))
	for _, c := range cluster {
		if c.Type == majority {
			agreeing = append(agreeing, c)
		}
	}

	winner := v.mergeBoundary(agreeing, weights)

	// Weighted mean confidence restricted to the winning-type spans.
	var weighted, weightSum float64
	for _, c := range agreeing {
		w := weights[c.ProcessorID]
		weighted += w * c.Confidence
		weightSum += w
	}
	confidence := weighted / weightSum

	ids := make([]string, 0, len(agreeing))
	seen := make(map[string]bool)
	for _, c := range agreeing {
		if !seen[c.ProcessorID] {
			seen[c.ProcessorID] = true
			ids = append(ids, c.ProcessorID)
		}
	}
	sort.Strings(ids)

	return domain.Description{
		Start:      winner.Start,
		End:        winner.End,
		Text:       winner.Text,
		Type:       majority,
		Confidence: confidence,
		Processors: ids,
	}, true
}

// majorityType picks the type with the highest summed distinct-processor
// weight, breaking ties by the fixed type priority order.
func (v *Voter) majorityType(
	typeVoters map[domain.DescriptionType]map[string]bool, weights map[string]float64,
) (domain.DescriptionType, float64) {
	var best domain.DescriptionType
	bestWeight := -1.0
	for t, voters := range typeVoters {
		var w float64
		for id := range voters {
			w += weights[id]
		}
		switch {
		case w > bestWeight+epsilon:
			best, bestWeight = t, w
		case w > bestWeight-epsilon && t.VotePriority() < best.VotePriority():
			best = t
		}
	}
	return best, bestWeight
}

// mergeBoundary selects the accepted description's span: the span from
// the highest-weight agreeing processor, longer span on ties. A naive
// union would drift into adjacent unrelated text.
func (v *Voter) mergeBoundary(agreeing []domain.Candidate, weights map[string]float64) domain.Candidate {
	winner := agreeing[0]
	for _, c := range agreeing[1:] {
		cw, ww := weights[c.ProcessorID], weights[winner.ProcessorID]
		switch {
		case cw > ww+epsilon:
			winner = c
		case cw > ww-epsilon && c.Length() > winner.Length():
			winner = c
		}
	}
	return winner
}
