// Package verify checks extracted claims against the evidence store
// and produces the per-claim records that drive risk classification.
package verify

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ppiankov/moneta/internal/embed"
	"github.com/ppiankov/moneta/internal/extract"
	"github.com/ppiankov/moneta/internal/model"
	"github.com/ppiankov/moneta/internal/store"
)

// lookupK bounds how many chunks one claim lookup considers when
// hunting for corroboration beyond the best match.
const lookupK = 5

// Searcher is the evidence-store read surface the verifier depends on.
type Searcher interface {
	Search(ctx context.Context, queryVec embed.Vector, k int, filter store.Filter) (model.RetrievalResult, error)
}

// Verifier re-queries the evidence store with each claim's own text
// and scores agreement. Lookups are reads only, so claims within one
// query verify concurrently without locking.
type Verifier struct {
	searcher Searcher
	embedder embed.Embedder
	cfg      model.VerifyConfig
}

// New creates a verifier.
func New(searcher Searcher, embedder embed.Embedder, cfg model.VerifyConfig) *Verifier {
	if cfg.Workers <= 0 {
		cfg.Workers = 8
	}
	return &Verifier{searcher: searcher, embedder: embedder, cfg: cfg}
}

// VerifyAll verifies every claim, fanning per-claim lookups out across
// a bounded set of goroutines and joining before returning. Records
// come back in claim order. A cancelled context yields conservative
// no-match records for the claims still pending; it never corrupts
// anything, since lookups are reads.
func (v *Verifier) VerifyAll(ctx context.Context, claims []model.Claim) []model.VerificationRecord {
	if len(claims) == 0 {
		return nil
	}

	records := make([]model.VerificationRecord, len(claims))
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, v.cfg.Workers)

	for i, claim := range claims {
		wg.Add(1)
		go func(idx int, c model.Claim) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				records[idx] = cancelledRecord(c)
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			records[idx] = v.Verify(ctx, c)
		}(i, claim)
	}

	wg.Wait()
	return records
}

// Verify checks one claim. A timed-out lookup is retried once with a
// shorter deadline and then recovered as no-match, degrading risk
// upward instead of failing the query.
func (v *Verifier) Verify(ctx context.Context, claim model.Claim) model.VerificationRecord {
	result, err := v.lookup(ctx, claim.Text, v.cfg.Timeout)
	if err != nil {
		if ctx.Err() != nil {
			return cancelledRecord(claim)
		}
		if errors.Is(err, context.DeadlineExceeded) {
			result, err = v.lookup(ctx, claim.Text, v.cfg.RetryTimeout)
		}
		if err != nil {
			return model.VerificationRecord{
				Claim:     claim,
				Verdict:   model.VerdictNoMatch,
				Rationale: "timeout",
			}
		}
	}

	if result.NoEvidence || len(result.Matches) == 0 {
		return model.VerificationRecord{
			Claim:     claim,
			Verdict:   model.VerdictNoMatch,
			Rationale: "no-evidence",
		}
	}

	return v.score(claim, result.Matches)
}

// lookup embeds the claim text and searches the store under its own
// deadline.
func (v *Verifier) lookup(ctx context.Context, text string, timeout time.Duration) (model.RetrievalResult, error) {
	lookupCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	vec, err := v.embedder.Embed(lookupCtx, text)
	if err != nil {
		return model.RetrievalResult{}, err
	}
	return v.searcher.Search(lookupCtx, vec, lookupK, store.Filter{})
}

// score computes the agreement for a claim against its ranked matches.
func (v *Verifier) score(claim model.Claim, matches []model.ScoredChunk) model.VerificationRecord {
	best := matches[0]
	agreement, rationale := agreementScore(claim, best)

	// An unverified document may not be the sole support for a
	// "supported" verdict. Prefer a verified chunk that also clears the
	// bar; otherwise cap at partially supported.
	if agreement >= model.SupportedFloor && best.Authority == model.AuthorityUnverified {
		if alt, ok := verifiedAlternative(claim, matches); ok {
			best = alt
			agreement, rationale = agreementScore(claim, best)
		} else {
			agreement = model.SupportedFloor - 0.01
			rationale = "unverified-source"
		}
	}

	return model.VerificationRecord{
		Claim:     claim,
		ChunkID:   best.Chunk.ID,
		DocID:     best.Chunk.DocID,
		Agreement: agreement,
		Verdict:   model.VerdictFor(agreement, true),
		Rationale: rationale,
	}
}

// agreementScore combines semantic similarity with, for numeric
// claims, literal agreement against numbers in the matched chunk.
func agreementScore(claim model.Claim, match model.ScoredChunk) (float64, string) {
	sim := clamp01(match.Similarity)
	if claim.Kind != model.ClaimKindNumeric {
		return sim, "semantic"
	}

	want := extract.Number{Value: claim.Value, Unit: claim.Unit}
	chunkNums := extract.Numbers(match.Chunk.Text)

	if len(chunkNums) == 0 {
		// Nothing to confirm the literal against: semantic similarity
		// alone cannot make a numeric claim "supported".
		return min(sim, model.SupportedFloor-0.01), "numeric-unconfirmed"
	}

	near := false
	for _, n := range chunkNums {
		if extract.SameQuantity(want, n) {
			return clamp01(0.5*sim + 0.5), "numeric-exact"
		}
		if extract.NearQuantity(want, n) {
			near = true
		}
	}
	if near {
		return min(0.5*sim+0.35, model.SupportedFloor-0.01), "numeric-near"
	}

	// The evidence states a different figure; a wrong number must not
	// rank as supported however similar the wording.
	return min(sim, 0.35), "numeric-mismatch"
}

// verifiedAlternative looks for a non-unverified chunk that supports
// the claim on its own.
func verifiedAlternative(claim model.Claim, matches []model.ScoredChunk) (model.ScoredChunk, bool) {
	for _, m := range matches[1:] {
		if m.Authority == model.AuthorityUnverified {
			continue
		}
		if score, _ := agreementScore(claim, m); score >= model.SupportedFloor {
			return m, true
		}
	}
	return model.ScoredChunk{}, false
}

func cancelledRecord(claim model.Claim) model.VerificationRecord {
	return model.VerificationRecord{
		Claim:     claim,
		Verdict:   model.VerdictNoMatch,
		Rationale: "cancelled",
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
