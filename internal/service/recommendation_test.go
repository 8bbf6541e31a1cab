package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"devshare/internal/model"
)

// =============================================================================
// AFFINITY PATH
// =============================================================================

// A user liked a snippet tagged react+hooks and saved a document tagged
// nextjs. Candidates sharing any of those tags come back; the liked snippet
// itself is excluded even though it matches.
func TestRecommendationService_AffinityScenario(t *testing.T) {
	userID := int64(7)

	interactionRepo := &mockInteractionRepository{
		listLikedIDsFn: func(_ context.Context, _ int64, kind model.ItemKind) ([]int64, error) {
			if kind == model.KindSnippet {
				return []int64{100}, nil
			}
			return nil, nil
		},
		listSavedIDsFn: func(_ context.Context, _ int64, kind model.ItemKind) ([]int64, error) {
			if kind == model.KindDocument {
				return []int64{200}, nil
			}
			return nil, nil
		},
	}

	var gotSnippetTags []string
	var gotSnippetExcluding []int64
	snippetRepo := &mockSnippetRepository{
		listTagsForIDsFn: func(_ context.Context, ids []int64) ([]string, error) {
			if !reflect.DeepEqual(ids, []int64{100}) {
				t.Errorf("snippet tag lookup for %v, want [100]", ids)
			}
			return []string{"react", "hooks"}, nil
		},
		listPublicWithAnyTagFn: func(_ context.Context, tags []string, excluding []int64, limit int) ([]model.Snippet, error) {
			gotSnippetTags = tags
			gotSnippetExcluding = excluding
			if limit != RecommendationCap {
				t.Errorf("limit = %d, want %d", limit, RecommendationCap)
			}
			return []model.Snippet{{ID: 101, Tags: []string{"react"}, LikesCount: 5}}, nil
		},
	}

	var gotDocumentExcluding []int64
	documentRepo := &mockDocumentRepository{
		listTagsForIDsFn: func(_ context.Context, ids []int64) ([]string, error) {
			if !reflect.DeepEqual(ids, []int64{200}) {
				t.Errorf("document tag lookup for %v, want [200]", ids)
			}
			return []string{"nextjs"}, nil
		},
		listPublicWithAnyTagFn: func(_ context.Context, _ []string, excluding []int64, _ int) ([]model.Document, error) {
			gotDocumentExcluding = excluding
			return []model.Document{{ID: 201, Tags: []string{"nextjs"}, LikesCount: 3}}, nil
		},
	}

	svc := NewRecommendationService(interactionRepo, snippetRepo, documentRepo)
	recs, err := svc.GetRecommendations(context.Background(), userID)
	if err != nil {
		t.Fatalf("GetRecommendations returned error: %v", err)
	}

	// Tag union is deduplicated and sorted for stable query arguments.
	wantTags := []string{"hooks", "nextjs", "react"}
	if !reflect.DeepEqual(gotSnippetTags, wantTags) {
		t.Errorf("query tags = %v, want %v", gotSnippetTags, wantTags)
	}

	// The liked snippet and saved document must be in their exclusion sets.
	if !reflect.DeepEqual(gotSnippetExcluding, []int64{100}) {
		t.Errorf("snippet exclusions = %v, want [100]", gotSnippetExcluding)
	}
	if !reflect.DeepEqual(gotDocumentExcluding, []int64{200}) {
		t.Errorf("document exclusions = %v, want [200]", gotDocumentExcluding)
	}

	if len(recs.Snippets) != 1 || recs.Snippets[0].ID != 101 {
		t.Errorf("snippets = %+v, want the single matching candidate 101", recs.Snippets)
	}
	if len(recs.Documents) != 1 || recs.Documents[0].ID != 201 {
		t.Errorf("documents = %+v, want the single matching candidate 201", recs.Documents)
	}
}

// Authored items contribute to exclusion but never to the tag signal.
func TestRecommendationService_AuthoredExcludedNotSignal(t *testing.T) {
	interactionRepo := &mockInteractionRepository{
		listLikedIDsFn: func(_ context.Context, _ int64, kind model.ItemKind) ([]int64, error) {
			if kind == model.KindSnippet {
				return []int64{5}, nil
			}
			return nil, nil
		},
	}
	snippetRepo := &mockSnippetRepository{
		listAuthoredIDsFn: func(_ context.Context, _ int64) ([]int64, error) {
			return []int64{1, 2}, nil
		},
		listTagsForIDsFn: func(_ context.Context, ids []int64) ([]string, error) {
			// Only the liked snippet may feed the signal.
			if !reflect.DeepEqual(ids, []int64{5}) {
				t.Errorf("tag lookup for %v, want [5]", ids)
			}
			return []string{"go"}, nil
		},
		listPublicWithAnyTagFn: func(_ context.Context, _ []string, excluding []int64, _ int) ([]model.Snippet, error) {
			if !reflect.DeepEqual(excluding, []int64{1, 2, 5}) {
				t.Errorf("exclusions = %v, want authored + liked [1 2 5]", excluding)
			}
			return nil, nil
		},
	}
	documentRepo := &mockDocumentRepository{}

	svc := NewRecommendationService(interactionRepo, snippetRepo, documentRepo)
	if _, err := svc.GetRecommendations(context.Background(), 1); err != nil {
		t.Fatalf("GetRecommendations returned error: %v", err)
	}
}

// =============================================================================
// COLD START
// =============================================================================

// No interactions at all: the popularity fallback runs, and it still carries
// the exclusion set so a user's own content is never recommended back.
func TestRecommendationService_ColdStartFallback(t *testing.T) {
	popularityCalled := false
	snippetRepo := &mockSnippetRepository{
		listAuthoredIDsFn: func(_ context.Context, _ int64) ([]int64, error) {
			return []int64{42}, nil
		},
		listPublicByPopularityFn: func(_ context.Context, excluding []int64, limit int) ([]model.Snippet, error) {
			popularityCalled = true
			if !reflect.DeepEqual(excluding, []int64{42}) {
				t.Errorf("fallback exclusions = %v, want [42]", excluding)
			}
			if limit != RecommendationCap {
				t.Errorf("fallback limit = %d, want %d", limit, RecommendationCap)
			}
			return []model.Snippet{{ID: 1, LikesCount: 9}, {ID: 2, LikesCount: 4}}, nil
		},
		listPublicWithAnyTagFn: func(_ context.Context, _ []string, _ []int64, _ int) ([]model.Snippet, error) {
			t.Error("affinity path must not run on cold start")
			return nil, nil
		},
	}
	documentRepo := &mockDocumentRepository{
		listPublicByPopularityFn: func(_ context.Context, _ []int64, _ int) ([]model.Document, error) {
			return nil, nil
		},
	}

	svc := NewRecommendationService(&mockInteractionRepository{}, snippetRepo, documentRepo)
	recs, err := svc.GetRecommendations(context.Background(), 3)
	if err != nil {
		t.Fatalf("GetRecommendations returned error: %v", err)
	}

	if !popularityCalled {
		t.Fatal("popularity fallback was not used")
	}
	if len(recs.Snippets) != 2 {
		t.Errorf("snippets = %d, want 2", len(recs.Snippets))
	}
	// Empty result collapses to an empty slice, never nil.
	if recs.Documents == nil {
		t.Error("documents is nil, want empty slice")
	}
}

// =============================================================================
// DETERMINISM AND BOUNDS
// =============================================================================

// Two calls over the same data produce identical query arguments, even
// though the underlying reads run concurrently with nondeterministic
// completion order.
func TestRecommendationService_DeterministicQueryArgs(t *testing.T) {
	interactionRepo := &mockInteractionRepository{
		listLikedIDsFn: func(_ context.Context, _ int64, kind model.ItemKind) ([]int64, error) {
			if kind == model.KindSnippet {
				return []int64{3, 1}, nil
			}
			return []int64{30}, nil
		},
		listSavedIDsFn: func(_ context.Context, _ int64, kind model.ItemKind) ([]int64, error) {
			if kind == model.KindSnippet {
				return []int64{2, 1}, nil
			}
			return []int64{10, 30}, nil
		},
	}

	var tagArgs [][]string
	var excludeArgs [][]int64
	snippetRepo := &mockSnippetRepository{
		listTagsForIDsFn: func(_ context.Context, _ []int64) ([]string, error) {
			return []string{"zig", "go"}, nil
		},
		listPublicWithAnyTagFn: func(_ context.Context, tags []string, excluding []int64, _ int) ([]model.Snippet, error) {
			tagArgs = append(tagArgs, tags)
			excludeArgs = append(excludeArgs, excluding)
			return nil, nil
		},
	}
	documentRepo := &mockDocumentRepository{
		listTagsForIDsFn: func(_ context.Context, _ []int64) ([]string, error) {
			return []string{"go", "rust"}, nil
		},
		listPublicWithAnyTagFn: func(_ context.Context, _ []string, _ []int64, _ int) ([]model.Document, error) {
			return nil, nil
		},
	}

	svc := NewRecommendationService(interactionRepo, snippetRepo, documentRepo)
	for i := 0; i < 2; i++ {
		if _, err := svc.GetRecommendations(context.Background(), 1); err != nil {
			t.Fatalf("call %d returned error: %v", i, err)
		}
	}

	wantTags := []string{"go", "rust", "zig"}
	wantExcluding := []int64{1, 2, 3}
	for i := 0; i < 2; i++ {
		if !reflect.DeepEqual(tagArgs[i], wantTags) {
			t.Errorf("call %d tags = %v, want %v", i, tagArgs[i], wantTags)
		}
		if !reflect.DeepEqual(excludeArgs[i], wantExcluding) {
			t.Errorf("call %d exclusions = %v, want %v", i, excludeArgs[i], wantExcluding)
		}
	}
}

func TestRecommendationService_ErrorPropagates(t *testing.T) {
	storeErr := errors.New("relation does not exist")
	interactionRepo := &mockInteractionRepository{
		listLikedIDsFn: func(_ context.Context, _ int64, _ model.ItemKind) ([]int64, error) {
			return nil, storeErr
		},
	}

	svc := NewRecommendationService(interactionRepo, &mockSnippetRepository{}, &mockDocumentRepository{})
	_, err := svc.GetRecommendations(context.Background(), 1)
	if !errors.Is(err, storeErr) {
		t.Errorf("error = %v, want wrapped store error", err)
	}
}
