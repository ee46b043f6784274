package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"claif-api/constant"
	"claif-api/dto"
	"claif-api/entities"
)

func TestCreateRecording(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewRecordingService(repo)
	user := newTestUser(t, repo, "alice")
	ctx := context.Background()

	recording, err := svc.Create(ctx, user.ID, dto.RecordingCreateRequest{
		Title:       "demo session",
		Description: "first upload",
	}, annotatedCast)
	require.NoError(t, err)

	assert.NotZero(t, recording.ID)
	assert.Equal(t, 1, recording.RevisionNumber)
	require.NotNil(t, recording.SourceRevisionID)
	assert.Equal(t, recording.ID, *recording.SourceRevisionID)
	assert.Nil(t, recording.PreviousRevisionID)
	assert.Equal(t, 3, recording.AnnotationsCount)
	assert.Equal(t, 5000.0, recording.DurationMilliseconds)
	require.NotNil(t, recording.ContentBody)
	assert.Equal(t, int64(len(recording.ContentMetadata)+len(*recording.ContentBody)), recording.SizeBytes)
	assert.Equal(t, user.ID, recording.CreatorID)

	annotations, err := repo.AnnotationsByRevision(ctx, recording.ID, 1)
	require.NoError(t, err)
	require.Len(t, annotations, 3)

	root := annotations[0]
	assert.Nil(t, root.ParentAnnotationID)
	assert.Equal(t, "root", root.AnnotationText)
	assert.Equal(t, 2, root.ChildrenCount)
	for _, child := range annotations[1:] {
		require.NotNil(t, child.ParentAnnotationID)
		assert.Equal(t, root.ID, *child.ParentAnnotationID)
		assert.Equal(t, 0, child.ChildrenCount)
		assert.Equal(t, recording.ID, child.RecordingID)
		assert.Equal(t, 1, child.RevisionNumber)
	}
}

func TestCreateRecordingHeaderOnlyBody(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewRecordingService(repo)
	user := newTestUser(t, repo, "bob")

	content := `{"version":2,"width":80,"height":24,"timestamp":0,"idle_time_limit":1,"env":{}}` + "\nnot json"
	recording, err := svc.Create(context.Background(), user.ID, dto.RecordingCreateRequest{Title: "broken body"}, content)
	require.NoError(t, err)
	assert.Equal(t, 0.0, recording.DurationMilliseconds)
	assert.Equal(t, 0, recording.AnnotationsCount)
	require.NotNil(t, recording.ContentBody)
	assert.Equal(t, "[]", *recording.ContentBody)
}

func TestCreateRecordingRejectsBadContent(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewRecordingService(repo)
	user := newTestUser(t, repo, "carol")
	ctx := context.Background()

	_, err := svc.Create(ctx, user.ID, dto.RecordingCreateRequest{Title: "x"}, "")
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(ctx, user.ID, dto.RecordingCreateRequest{Title: "x"}, "not a header\n[0.1,\"o\",\"a\"]")
	require.ErrorIs(t, err, ErrValidation)

	summaries, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, summaries)
}

func TestUpdateBuildsLineage(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewRecordingService(repo)
	user := newTestUser(t, repo, "dave")
	ctx := context.Background()

	first, err := svc.Create(ctx, user.ID, dto.RecordingCreateRequest{Title: "v1"}, plainCast)
	require.NoError(t, err)

	title2 := "v2"
	second, err := svc.Update(ctx, user.ID, dto.RecordingUpdateRequest{RecordingID: first.ID, Title: &title2})
	require.NoError(t, err)

	title3 := "v3"
	third, err := svc.Update(ctx, user.ID, dto.RecordingUpdateRequest{RecordingID: second.ID, Title: &title3})
	require.NoError(t, err)

	lineage, err := repo.FindLineage(ctx, *first.SourceRevisionID)
	require.NoError(t, err)
	require.Len(t, lineage, 3)
	for i, revision := range lineage {
		assert.Equal(t, i+1, revision.RevisionNumber)
		require.NotNil(t, revision.SourceRevisionID)
		assert.Equal(t, first.ID, *revision.SourceRevisionID)
	}
	assert.Nil(t, lineage[0].PreviousRevisionID)
	assert.Equal(t, lineage[0].ID, *lineage[1].PreviousRevisionID)
	assert.Equal(t, lineage[1].ID, *lineage[2].PreviousRevisionID)

	// later revisions carry no body but keep the derived duration
	assert.Nil(t, second.ContentBody)
	assert.Equal(t, first.DurationMilliseconds, second.DurationMilliseconds)
	assert.Equal(t, "v2", second.Title)
	assert.Equal(t, "v3", third.Title)
	assert.Equal(t, "v1", lineage[0].Title)
}

func TestUpdateNotFound(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewRecordingService(repo)
	user := newTestUser(t, repo, "erin")

	_, err := svc.Update(context.Background(), user.ID, dto.RecordingUpdateRequest{RecordingID: 12345})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateRejectsNonOwner(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewRecordingService(repo)
	owner := newTestUser(t, repo, "frank")
	other := newTestUser(t, repo, "grace")
	ctx := context.Background()

	recording, err := svc.Create(ctx, owner.ID, dto.RecordingCreateRequest{Title: "mine"}, plainCast)
	require.NoError(t, err)

	_, err = svc.Update(ctx, other.ID, dto.RecordingUpdateRequest{RecordingID: recording.ID})
	require.ErrorIs(t, err, ErrForbidden)
}

func TestUpdateRejectsBadMetadata(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewRecordingService(repo)
	user := newTestUser(t, repo, "heidi")
	ctx := context.Background()

	recording, err := svc.Create(ctx, user.ID, dto.RecordingCreateRequest{Title: "v1"}, plainCast)
	require.NoError(t, err)

	bad := "not json"
	_, err = svc.Update(ctx, user.ID, dto.RecordingUpdateRequest{RecordingID: recording.ID, ContentMetadata: &bad})
	require.ErrorIs(t, err, ErrValidation)

	lineage, err := repo.FindLineage(ctx, *recording.SourceRevisionID)
	require.NoError(t, err)
	assert.Len(t, lineage, 1)
}

func TestRevisionIsolation(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewRecordingService(repo)
	user := newTestUser(t, repo, "ivan")
	ctx := context.Background()

	first, err := svc.Create(ctx, user.ID, dto.RecordingCreateRequest{Title: "v1"}, annotatedCast)
	require.NoError(t, err)

	metadata := wideAnnotatedHeader
	second, err := svc.Update(ctx, user.ID, dto.RecordingUpdateRequest{RecordingID: first.ID, ContentMetadata: &metadata})
	require.NoError(t, err)
	assert.Equal(t, 9, second.AnnotationsCount)

	view1, err := svc.Read(ctx, first.ID, nil)
	require.NoError(t, err)
	require.Len(t, view1.Annotations, 3)

	view2, err := svc.Read(ctx, second.ID, nil)
	require.NoError(t, err)
	require.Len(t, view2.Annotations, 9)

	seen := map[uint]bool{}
	for _, annotation := range view1.Annotations {
		seen[annotation.ID] = true
	}
	for _, annotation := range view2.Annotations {
		assert.False(t, seen[annotation.ID], "annotation leaked across revisions")
	}

	// asking a row for a revision it does not own yields nothing
	otherRevision := 1
	view, err := svc.Read(ctx, second.ID, &otherRevision)
	require.NoError(t, err)
	assert.Empty(t, view.Annotations)
}

func TestReadNotFound(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewRecordingService(repo)

	_, err := svc.Read(context.Background(), 999, nil)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAnnotationsCountMatchesRows(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewRecordingService(repo)
	user := newTestUser(t, repo, "judy")
	ctx := context.Background()

	recording, err := svc.Create(ctx, user.ID, dto.RecordingCreateRequest{Title: "counted"}, wideAnnotatedCast)
	require.NoError(t, err)
	assert.Equal(t, 9, recording.AnnotationsCount)

	rows, err := repo.CountAnnotationsByRecording(ctx, recording.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(recording.AnnotationsCount), rows)
}

func TestCreateRollsBackOnAnnotationFailure(t *testing.T) {
	repo := newTestRepo(t)
	failing := &failingRepo{Repository: repo, failOn: 5}
	svc := NewRecordingService(failing)
	user := newTestUser(t, repo, "kate")
	ctx := context.Background()

	_, err := svc.Create(ctx, user.ID, dto.RecordingCreateRequest{Title: "doomed"}, wideAnnotatedCast)
	require.Error(t, err)
	assert.Equal(t, 5, failing.calls)

	summaries, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, summaries)

	var count int64
	require.NoError(t, repo.GetDB().Model(&entities.Annotation{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUpdateRollsBackOnAnnotationFailure(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewRecordingService(repo)
	user := newTestUser(t, repo, "leo")
	ctx := context.Background()

	first, err := svc.Create(ctx, user.ID, dto.RecordingCreateRequest{Title: "stable"}, annotatedCast)
	require.NoError(t, err)

	failing := &failingRepo{Repository: repo, failOn: 5}
	failingSvc := NewRecordingService(failing)
	metadata := wideAnnotatedHeader
	_, err = failingSvc.Update(ctx, user.ID, dto.RecordingUpdateRequest{RecordingID: first.ID, ContentMetadata: &metadata})
	require.Error(t, err)

	// the failed revision left nothing behind; revision 1 is intact
	lineage, err := repo.FindLineage(ctx, *first.SourceRevisionID)
	require.NoError(t, err)
	require.Len(t, lineage, 1)

	view, err := svc.Read(ctx, first.ID, nil)
	require.NoError(t, err)
	assert.Len(t, view.Annotations, 3)

	var count int64
	require.NoError(t, repo.GetDB().Model(&entities.Annotation{}).Count(&count).Error)
	assert.Equal(t, int64(3), count)
}

func TestTogglePublishAndLock(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewRecordingService(repo)
	owner := newTestUser(t, repo, "mallory")
	other := newTestUser(t, repo, "nick")
	ctx := context.Background()

	recording, err := svc.Create(ctx, owner.ID, dto.RecordingCreateRequest{Title: "toggles"}, plainCast)
	require.NoError(t, err)

	require.NoError(t, svc.TogglePublish(ctx, owner.ID, dto.RecordingTogglePublishRequest{RecordingID: recording.ID, IsPublished: true}))
	require.NoError(t, svc.ToggleLock(ctx, owner.ID, dto.RecordingToggleLockRequest{RecordingID: recording.ID, IsLocked: true}))

	reloaded, err := repo.FindRecordingByID(ctx, recording.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.Published)
	assert.True(t, reloaded.LockedForReview)

	err = svc.TogglePublish(ctx, other.ID, dto.RecordingTogglePublishRequest{RecordingID: recording.ID, IsPublished: false})
	require.ErrorIs(t, err, ErrForbidden)
}

// Two writers racing the same lineage cannot both win: the second row with
// the same (source_revision_id, revision_number) hits the unique index.
func TestLineageRevisionUniqueIndex(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewRecordingService(repo)
	user := newTestUser(t, repo, "paula")
	ctx := context.Background()

	first, err := svc.Create(ctx, user.ID, dto.RecordingCreateRequest{Title: "raced"}, plainCast)
	require.NoError(t, err)

	duplicate := &entities.Recording{
		RecordingType:    constant.RecordingTypeTerminal,
		Title:            "forked",
		RevisionNumber:   first.RevisionNumber,
		SourceRevisionID: first.SourceRevisionID,
		CreatorID:        user.ID,
	}
	require.Error(t, repo.CreateRecording(ctx, duplicate))
}

func TestListProjection(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewRecordingService(repo)
	user := newTestUser(t, repo, "olivia")
	ctx := context.Background()

	recording, err := svc.Create(ctx, user.ID, dto.RecordingCreateRequest{Title: "listed", Description: "desc"}, annotatedCast)
	require.NoError(t, err)

	summaries, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	summary := summaries[0]
	assert.Equal(t, recording.ID, summary.ID)
	assert.Equal(t, "listed", summary.Title)
	assert.Equal(t, 1, summary.RevisionNumber)
	assert.Equal(t, user.ID, summary.CreatorID)
	assert.Equal(t, 3, summary.AnnotationsCount)
	assert.Equal(t, recording.SizeBytes, summary.SizeBytes)
}
