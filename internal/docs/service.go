package docs

import (
	"context"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/Ravikant96/AllSpark/internal/hierarchy"
	"github.com/Ravikant96/AllSpark/internal/shared"
)

// GetOptions selects a documentation subtree. Slug takes precedence over ID
// when both are set; a zero selector returns the full outline.
type GetOptions struct {
	ID       int64
	Slug     string
	WithBody bool
}

// Service exposes documentation reads to everyone and writes to holders of
// the documentation privilege.
type Service struct {
	repo     Repository
	collator *collate.Collator
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{
		repo:     repo,
		collator: collate.New(language.English, collate.IgnoreCase),
	}
}

// List returns every chapter with author names, siblings ordered by heading.
func (s *Service) List(ctx context.Context) ([]Chapter, error) {
	chapters, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	s.sortChapters(chapters)
	return chapters, nil
}

// Get resolves a subtree. The outline rows feed the closure walk, then only
// the closure's chapters are loaded, with bodies when asked for.
func (s *Service) Get(ctx context.Context, opts GetOptions) ([]Chapter, error) {
	id := opts.ID
	if opts.Slug != "" {
		resolved, err := s.repo.IDBySlug(ctx, opts.Slug)
		if err != nil {
			return nil, err
		}
		id = resolved
	}

	outline, err := s.repo.Outline(ctx)
	if err != nil {
		return nil, err
	}
	if id == 0 {
		s.sortChapters(outline)
		return outline, nil
	}

	edges := make([]hierarchy.Edge, len(outline))
	for i, chapter := range outline {
		edges[i] = hierarchy.Edge{ID: chapter.ID, ParentID: chapter.ParentID}
	}
	ids, err := hierarchy.Closure(id, edges)
	if err != nil {
		return nil, err
	}

	chapters, err := s.repo.Get(ctx, ids, opts.WithBody)
	if err != nil {
		return nil, err
	}
	s.sortChapters(chapters)
	return chapters, nil
}

// Insert creates a chapter.
func (s *Service) Insert(ctx context.Context, user *shared.UserContext, chapter Chapter) (int64, error) {
	if !user.HasPrivilege(shared.PrivilegeDocumentation) {
		return 0, shared.ErrForbidden
	}
	if chapter.Chapter == 0 {
		return 0, shared.BadRequestf("chapter is required")
	}
	chapter.AddedBy = user.UserID
	return s.repo.Insert(ctx, chapter)
}

// Update rewrites a chapter.
func (s *Service) Update(ctx context.Context, user *shared.UserContext, chapter Chapter) error {
	if !user.HasPrivilege(shared.PrivilegeDocumentation) {
		return shared.ErrForbidden
	}
	if chapter.ID == 0 {
		return shared.BadRequestf("id is required")
	}
	if chapter.Chapter == 0 {
		return shared.BadRequestf("chapter is required")
	}
	return s.repo.Update(ctx, chapter)
}

// Delete removes a chapter.
func (s *Service) Delete(ctx context.Context, user *shared.UserContext, id int64) error {
	if !user.HasPrivilege(shared.PrivilegeDocumentation) {
		return shared.ErrForbidden
	}
	if id == 0 {
		return shared.BadRequestf("id is required")
	}
	return s.repo.Delete(ctx, id)
}

// sortChapters orders by chapter number, breaking ties on heading with a
// case-insensitive English collation so mixed-case headings interleave.
func (s *Service) sortChapters(chapters []Chapter) {
	sort.SliceStable(chapters, func(i, j int) bool {
		if chapters[i].Chapter != chapters[j].Chapter {
			return chapters[i].Chapter < chapters[j].Chapter
		}
		return s.collator.CompareString(chapters[i].Heading, chapters[j].Heading) < 0
	})
}
