package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jask/camaron/internal/database/repository"
)

// CatalogService is the local stand-in for the remote services API.
type CatalogService struct {
	Categories *repository.CategoryRepo
	Providers  *repository.ProviderRepo
}

// Overview is what the home screen shows.
type Overview struct {
	Categories   []repository.Category
	TopProviders []repository.Provider
}

const topProviders = 3

func (s *CatalogService) ListCategories(ctx context.Context) ([]repository.Category, error) {
	cats, err := s.Categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

func (s *CatalogService) Category(ctx context.Context, id string) (*repository.Category, error) {
	return s.Categories.Get(ctx, id)
}

func (s *CatalogService) ListProviders(ctx context.Context, categoryID string, f repository.ProviderFilters) ([]repository.Provider, error) {
	provs, err := s.Providers.ListByCategory(ctx, categoryID, f)
	if err != nil {
		return nil, fmt.Errorf("list providers: %w", err)
	}
	return provs, nil
}

func (s *CatalogService) Provider(ctx context.Context, id string) (*repository.Provider, error) {
	return s.Providers.Get(ctx, id)
}

// Overview loads categories and the best-rated providers concurrently.
func (s *CatalogService) Overview(ctx context.Context) (Overview, error) {
	var out Overview
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cats, err := s.ListCategories(gctx)
		out.Categories = cats
		return err
	})
	g.Go(func() error {
		provs, err := s.ListProviders(gctx, "", repository.ProviderFilters{})
		if len(provs) > topProviders {
			provs = provs[:topProviders]
		}
		out.TopProviders = provs
		return err
	})
	if err := g.Wait(); err != nil {
		return Overview{}, err
	}
	return out, nil
}

type HitKind string

const (
	HitCategory HitKind = "category"
	HitProvider HitKind = "provider"
)

// SearchHit is one fuzzy match. Lower Score is better.
type SearchHit struct {
	Kind       HitKind
	ID         string
	Label      string
	CategoryID string
	Score      int
}

// Search matches query against category and provider names. Substring
// matches rank first; otherwise the closest word by edit distance counts,
// within a tolerance that grows with the query length.
func (s *CatalogService) Search(ctx context.Context, query string) ([]SearchHit, error) {
	q := fold(query)
	if q == "" {
		return nil, nil
	}
	cats, err := s.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	provs, err := s.ListProviders(ctx, "", repository.ProviderFilters{})
	if err != nil {
		return nil, err
	}
	var hits []SearchHit
	for _, c := range cats {
		if score, ok := matchScore(q, c.Name); ok {
			hits = append(hits, SearchHit{Kind: HitCategory, ID: c.ID, Label: c.Name, CategoryID: c.ID, Score: score})
		}
	}
	for _, p := range provs {
		if score, ok := matchScore(q, p.Name); ok {
			hits = append(hits, SearchHit{Kind: HitProvider, ID: p.ID, Label: p.Name, CategoryID: p.CategoryID, Score: score})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score < hits[j].Score
		}
		if hits[i].Kind != hits[j].Kind {
			return hits[i].Kind == HitCategory
		}
		return hits[i].Label < hits[j].Label
	})
	return hits, nil
}

func matchScore(q, name string) (int, bool) {
	n := fold(name)
	if strings.HasPrefix(n, q) {
		return 0, true
	}
	if strings.Contains(n, q) {
		return 1, true
	}
	tolerance := max(1, len([]rune(q))/3)
	best := -1
	for _, word := range strings.Fields(n) {
		d := levenshtein.ComputeDistance(q, word)
		if best < 0 || d < best {
			best = d
		}
	}
	if best < 0 || best > tolerance {
		return 0, false
	}
	return 1 + best, true
}

// fold lower-cases and strips accents so "electrico" matches "Eléctrico".
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}
