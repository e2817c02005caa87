package docs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ravikant96/AllSpark/internal/shared"
)

type stubRepo struct {
	chapters map[int64]Chapter
	slugs    map[string]int64
	inserted []Chapter
	updated  []Chapter
	deleted  []int64
}

func (s *stubRepo) List(ctx context.Context) ([]Chapter, error) {
	return s.all(true), nil
}

func (s *stubRepo) Outline(ctx context.Context) ([]Chapter, error) {
	return s.all(false), nil
}

func (s *stubRepo) Get(ctx context.Context, ids []int64, withBody bool) ([]Chapter, error) {
	var out []Chapter
	for _, id := range ids {
		chapter, ok := s.chapters[id]
		if !ok {
			continue
		}
		if !withBody {
			chapter.Body = ""
		}
		out = append(out, chapter)
	}
	return out, nil
}

func (s *stubRepo) IDBySlug(ctx context.Context, slug string) (int64, error) {
	id, ok := s.slugs[slug]
	if !ok {
		return 0, shared.ErrNotFound
	}
	return id, nil
}

func (s *stubRepo) Insert(ctx context.Context, chapter Chapter) (int64, error) {
	s.inserted = append(s.inserted, chapter)
	return int64(len(s.inserted)), nil
}

func (s *stubRepo) Update(ctx context.Context, chapter Chapter) error {
	s.updated = append(s.updated, chapter)
	return nil
}

func (s *stubRepo) Delete(ctx context.Context, id int64) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubRepo) all(withBody bool) []Chapter {
	out := make([]Chapter, 0, len(s.chapters))
	for _, chapter := range s.chapters {
		if !withBody {
			chapter.Body = ""
		}
		out = append(out, chapter)
	}
	return out
}

func manualRepo() *stubRepo {
	return &stubRepo{
		chapters: map[int64]Chapter{
			1: {ID: 1, Chapter: 1, Slug: "intro", Heading: "Introduction", Body: "welcome"},
			2: {ID: 2, ParentID: 1, Chapter: 1, Slug: "setup", Heading: "Setup", Body: "install"},
			3: {ID: 3, ParentID: 1, Chapter: 2, Slug: "usage", Heading: "Usage", Body: "run it"},
			4: {ID: 4, Chapter: 2, Slug: "faq", Heading: "FAQ", Body: "answers"},
		},
		slugs: map[string]int64{"intro": 1, "faq": 4},
	}
}

func editor() *shared.UserContext {
	return &shared.UserContext{
		UserID:    7,
		AccountID: 1,
		Privileges: []shared.PrivilegeGrant{
			{PrivilegeID: 4, Name: shared.PrivilegeDocumentation},
		},
	}
}

func TestGetSubtreeByID(t *testing.T) {
	svc := NewService(manualRepo())

	chapters, err := svc.Get(context.Background(), GetOptions{ID: 1})
	require.NoError(t, err)

	ids := make([]int64, len(chapters))
	for i, chapter := range chapters {
		ids[i] = chapter.ID
	}
	assert.ElementsMatch(t, []int64{1, 2, 3}, ids)
	for _, chapter := range chapters {
		assert.Empty(t, chapter.Body)
	}
}

func TestGetSubtreeWithBodies(t *testing.T) {
	svc := NewService(manualRepo())

	chapters, err := svc.Get(context.Background(), GetOptions{ID: 4, WithBody: true})
	require.NoError(t, err)
	require.Len(t, chapters, 1)
	assert.Equal(t, "answers", chapters[0].Body)
}

func TestGetSlugWinsOverID(t *testing.T) {
	svc := NewService(manualRepo())

	chapters, err := svc.Get(context.Background(), GetOptions{ID: 1, Slug: "faq"})
	require.NoError(t, err)
	require.Len(t, chapters, 1)
	assert.Equal(t, int64(4), chapters[0].ID)
}

func TestGetZeroSelectorReturnsOutline(t *testing.T) {
	svc := NewService(manualRepo())

	chapters, err := svc.Get(context.Background(), GetOptions{})
	require.NoError(t, err)
	assert.Len(t, chapters, 4)
}

func TestGetUnknownSlug(t *testing.T) {
	svc := NewService(manualRepo())

	_, err := svc.Get(context.Background(), GetOptions{Slug: "ghost"})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestSortOrdersByChapterThenHeading(t *testing.T) {
	repo := &stubRepo{chapters: map[int64]Chapter{
		1: {ID: 1, Chapter: 2, Heading: "zeta"},
		2: {ID: 2, Chapter: 1, Heading: "beta"},
		3: {ID: 3, Chapter: 1, Heading: "Alpha"},
	}}
	svc := NewService(repo)

	chapters, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, chapters, 3)
	assert.Equal(t, "Alpha", chapters[0].Heading)
	assert.Equal(t, "beta", chapters[1].Heading)
	assert.Equal(t, "zeta", chapters[2].Heading)
}

func TestInsertRequiresPrivilege(t *testing.T) {
	repo := manualRepo()
	svc := NewService(repo)

	viewer := &shared.UserContext{UserID: 8, AccountID: 1}
	_, err := svc.Insert(context.Background(), viewer, Chapter{Chapter: 3, Slug: "new", Heading: "New"})
	assert.ErrorIs(t, err, shared.ErrForbidden)
	assert.Empty(t, repo.inserted)
}

func TestInsertStampsAuthor(t *testing.T) {
	repo := manualRepo()
	svc := NewService(repo)

	_, err := svc.Insert(context.Background(), editor(), Chapter{Chapter: 3, Slug: "new", Heading: "New"})
	require.NoError(t, err)
	require.Len(t, repo.inserted, 1)
	assert.Equal(t, int64(7), repo.inserted[0].AddedBy)
}

func TestInsertRejectsZeroChapter(t *testing.T) {
	svc := NewService(manualRepo())

	_, err := svc.Insert(context.Background(), editor(), Chapter{Slug: "new", Heading: "New"})
	assert.ErrorIs(t, err, shared.ErrBadRequest)
}

func TestUpdateRequiresID(t *testing.T) {
	svc := NewService(manualRepo())

	err := svc.Update(context.Background(), editor(), Chapter{Chapter: 1, Slug: "intro", Heading: "Intro"})
	assert.ErrorIs(t, err, shared.ErrBadRequest)
}

func TestDeleteRequiresPrivilege(t *testing.T) {
	repo := manualRepo()
	svc := NewService(repo)

	err := svc.Delete(context.Background(), &shared.UserContext{UserID: 8}, 1)
	assert.ErrorIs(t, err, shared.ErrForbidden)
	assert.Empty(t, repo.deleted)
}
