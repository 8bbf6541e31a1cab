package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"devshare/internal/model"
	"devshare/internal/repository"
)

// RecommendationCap bounds each recommendation list.
const RecommendationCap = 10

// RecommendationService ranks unseen public content for a user from the tag
// affinity of their like/save history. It is a stateless read-only
// computation over a snapshot of the store: nothing is cached, counts are
// live aggregates, and the ordering is deterministic, so two calls with no
// intervening writes return identical lists.
type RecommendationService struct {
	interactionRepo repository.InteractionRepository
	snippetRepo     repository.SnippetRepository
	documentRepo    repository.DocumentRepository
}

func NewRecommendationService(
	interactionRepo repository.InteractionRepository,
	snippetRepo repository.SnippetRepository,
	documentRepo repository.DocumentRepository,
) *RecommendationService {
	return &RecommendationService{
		interactionRepo: interactionRepo,
		snippetRepo:     snippetRepo,
		documentRepo:    documentRepo,
	}
}

// affinity is the aggregated interaction signal for one user. Tags are a
// deduplicated union; the excluded sets are authored + liked + saved item
// IDs, kept per kind since the ID spaces are separate.
type affinity struct {
	tags                []string
	excludedSnippetIDs  []int64
	excludedDocumentIDs []int64
}

// GetRecommendations returns the two ranked lists for a user.
//
// With affinity tags: public items sharing at least one tag, minus everything
// the user authored, liked or saved. Without any signal (cold start): global
// popularity, with the same exclusions applied. Both paths order by live
// like-count with a stable tie-break and truncate to the cap. A matching pool
// smaller than the cap is returned as-is; there is no backfill with
// unrelated items.
func (s *RecommendationService) GetRecommendations(ctx context.Context, userID int64) (*model.Recommendations, error) {
	startTime := time.Now()

	aff, err := s.computeAffinity(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("compute affinity: %w", err)
	}

	var snippets []model.Snippet
	var documents []model.Document

	if len(aff.tags) == 0 {
		log.Printf("[Recommendation] user=%d cold start, popularity fallback", userID)
		snippets, documents, err = s.rankByPopularity(ctx, aff)
	} else {
		snippets, documents, err = s.rankByAffinity(ctx, aff)
	}
	if err != nil {
		return nil, err
	}

	if snippets == nil {
		snippets = []model.Snippet{}
	}
	if documents == nil {
		documents = []model.Document{}
	}

	log.Printf("[Recommendation] user=%d tags=%d snippets=%d documents=%d duration=%v",
		userID, len(aff.tags), len(snippets), len(documents), time.Since(startTime))

	return &model.Recommendations{Snippets: snippets, Documents: documents}, nil
}

// computeAffinity gathers the user's interaction history. The six ID reads
// are independent, so they run concurrently; the WaitGroup is the barrier
// before any ranking decision.
func (s *RecommendationService) computeAffinity(ctx context.Context, userID int64) (*affinity, error) {
	var (
		likedSnippets, savedSnippets, authoredSnippets []int64
		likedDocuments, savedDocuments, authoredDocs   []int64
	)

	g := newGather()
	g.run(func() (err error) {
		likedSnippets, err = s.interactionRepo.ListLikedIDs(ctx, userID, model.KindSnippet)
		return err
	})
	g.run(func() (err error) {
		savedSnippets, err = s.interactionRepo.ListSavedIDs(ctx, userID, model.KindSnippet)
		return err
	})
	g.run(func() (err error) {
		authoredSnippets, err = s.snippetRepo.ListAuthoredIDs(ctx, userID)
		return err
	})
	g.run(func() (err error) {
		likedDocuments, err = s.interactionRepo.ListLikedIDs(ctx, userID, model.KindDocument)
		return err
	})
	g.run(func() (err error) {
		savedDocuments, err = s.interactionRepo.ListSavedIDs(ctx, userID, model.KindDocument)
		return err
	})
	g.run(func() (err error) {
		authoredDocs, err = s.documentRepo.ListAuthoredIDs(ctx, userID)
		return err
	})
	if err := g.wait(); err != nil {
		return nil, err
	}

	interactedSnippets := unionIDs(likedSnippets, savedSnippets)
	interactedDocs := unionIDs(likedDocuments, savedDocuments)

	// Tags come only from liked/saved items; authored items contribute to
	// exclusion, not to the signal.
	var snippetTags, documentTags []string
	g = newGather()
	g.run(func() (err error) {
		snippetTags, err = s.snippetRepo.ListTagsForIDs(ctx, interactedSnippets)
		return err
	})
	g.run(func() (err error) {
		documentTags, err = s.documentRepo.ListTagsForIDs(ctx, interactedDocs)
		return err
	})
	if err := g.wait(); err != nil {
		return nil, err
	}

	return &affinity{
		tags:                unionTags(snippetTags, documentTags),
		excludedSnippetIDs:  unionIDs(interactedSnippets, authoredSnippets),
		excludedDocumentIDs: unionIDs(interactedDocs, authoredDocs),
	}, nil
}

func (s *RecommendationService) rankByAffinity(ctx context.Context, aff *affinity) ([]model.Snippet, []model.Document, error) {
	var snippets []model.Snippet
	var documents []model.Document

	g := newGather()
	g.run(func() (err error) {
		snippets, err = s.snippetRepo.ListPublicWithAnyTag(ctx, aff.tags, aff.excludedSnippetIDs, RecommendationCap)
		return err
	})
	g.run(func() (err error) {
		documents, err = s.documentRepo.ListPublicWithAnyTag(ctx, aff.tags, aff.excludedDocumentIDs, RecommendationCap)
		return err
	})
	if err := g.wait(); err != nil {
		return nil, nil, fmt.Errorf("rank by affinity: %w", err)
	}
	return snippets, documents, nil
}

// rankByPopularity applies the same exclusion sets as the affinity path, so
// cold-start users are never recommended their own or already-seen content.
func (s *RecommendationService) rankByPopularity(ctx context.Context, aff *affinity) ([]model.Snippet, []model.Document, error) {
	var snippets []model.Snippet
	var documents []model.Document

	g := newGather()
	g.run(func() (err error) {
		snippets, err = s.snippetRepo.ListPublicByPopularity(ctx, aff.excludedSnippetIDs, RecommendationCap)
		return err
	})
	g.run(func() (err error) {
		documents, err = s.documentRepo.ListPublicByPopularity(ctx, aff.excludedDocumentIDs, RecommendationCap)
		return err
	})
	if err := g.wait(); err != nil {
		return nil, nil, fmt.Errorf("rank by popularity: %w", err)
	}
	return snippets, documents, nil
}

// gather runs independent reads concurrently and keeps the first error.
type gather struct {
	wg       sync.WaitGroup
	mu       sync.Mutex
	firstErr error
}

func newGather() *gather {
	return &gather{}
}

func (g *gather) run(fn func() error) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		if err := fn(); err != nil {
			g.mu.Lock()
			if g.firstErr == nil {
				g.firstErr = err
			}
			g.mu.Unlock()
		}
	}()
}

func (g *gather) wait() error {
	g.wg.Wait()
	return g.firstErr
}

// unionIDs merges ID slices, deduplicated, in ascending order so query
// arguments are stable across calls.
func unionIDs(slices ...[]int64) []int64 {
	seen := make(map[int64]struct{})
	for _, ids := range slices {
		for _, id := range ids {
			seen[id] = struct{}{}
		}
	}
	out := make([]int64, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// unionTags merges tag slices, deduplicated, sorted for stable query
// arguments. Membership is binary; there is no weighting or decay.
func unionTags(slices ...[]string) []string {
	seen := make(map[string]struct{})
	for _, tags := range slices {
		for _, tag := range tags {
			seen[tag] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for tag := range seen {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}
