package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/reelproof/reelproof-api/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVideoService(store *fakeStore, blobs *fakeBlobs) *VideoService {
	var deleter BlobDeleter
	if blobs != nil {
		deleter = blobs
	}
	return NewVideoService(store, NewMonthService(store), deleter)
}

func validCreateInput(store *fakeStore) CreateVideoInput {
	client := store.addUser(db.RoleClient)
	editor := store.addUser(db.RoleEditor)
	return CreateVideoInput{
		Title:       "April recap",
		StoragePath: "clients/" + client.ID.String() + "/4-2025/recap.mp4",
		ClientID:    client.ID,
		CreatedBy:   editor.ID,
		Month:       4,
		Year:        2025,
	}
}

func TestCreateVideoValidatesFields(t *testing.T) {
	store := newFakeStore()
	svc := newVideoService(store, nil)

	base := validCreateInput(store)

	for name, mutate := range map[string]func(*CreateVideoInput){
		"missing title":        func(in *CreateVideoInput) { in.Title = "  " },
		"missing client":       func(in *CreateVideoInput) { in.ClientID = uuid.Nil },
		"missing storage path": func(in *CreateVideoInput) { in.StoragePath = "" },
		"missing creator":      func(in *CreateVideoInput) { in.CreatedBy = uuid.Nil },
	} {
		in := base
		mutate(&in)
		_, err := svc.Create(in)
		require.Error(t, err, name)
		assert.Equal(t, KindValidation, KindOf(err), name)
	}
	assert.Empty(t, store.videos, "no insert may happen when validation fails")
}

func TestCreateVideoRejectsNonClientOwner(t *testing.T) {
	store := newFakeStore()
	svc := newVideoService(store, nil)

	in := validCreateInput(store)
	in.ClientID = store.addUser(db.RoleEditor).ID
	_, err := svc.Create(in)
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))

	in.ClientID = uuid.New() // no such user
	_, err = svc.Create(in)
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestCreateVideoResolvesMonthPair(t *testing.T) {
	store := newFakeStore()
	svc := newVideoService(store, nil)

	in := validCreateInput(store)
	created, err := svc.Create(in)
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.Equal(t, db.StatusPending, created.Status)
	require.Len(t, store.months, 1)
	assert.Equal(t, store.months[0].ID, created.MonthID)
	assert.Equal(t, "April 2025", store.months[0].Name)

	// Second upload into the same month reuses the bucket.
	in2 := in
	in2.Title = "second cut"
	second, err := svc.Create(in2)
	require.NoError(t, err)
	assert.Equal(t, created.MonthID, second.MonthID)
	assert.Len(t, store.months, 1)
}

func TestCreateVideoWithExplicitMonthID(t *testing.T) {
	store := newFakeStore()
	svc := newVideoService(store, nil)

	month, _, err := NewMonthService(store).Resolve(2, 2025, uuid.New())
	require.NoError(t, err)

	in := validCreateInput(store)
	in.MonthID = uuid.NullUUID{UUID: month.ID, Valid: true}
	created, err := svc.Create(in)
	require.NoError(t, err)
	assert.Equal(t, month.ID, created.MonthID)

	in.MonthID = uuid.NullUUID{UUID: uuid.New(), Valid: true}
	_, err = svc.Create(in)
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestCreateVideoCompensatesOrphanMonth(t *testing.T) {
	store := newFakeStore()
	svc := newVideoService(store, nil)

	in := validCreateInput(store)
	store.createVideoErr = errors.New("insert failed")

	_, err := svc.Create(in)
	require.Error(t, err)
	assert.Equal(t, KindUpstream, KindOf(err))
	assert.Len(t, store.deletedMonths, 1, "month created by this request must be cleaned up")
	assert.Empty(t, store.months)
}

func TestCreateVideoKeepsPreexistingMonthOnFailure(t *testing.T) {
	store := newFakeStore()
	svc := newVideoService(store, nil)

	in := validCreateInput(store)
	_, _, err := NewMonthService(store).Resolve(in.Month, in.Year, in.CreatedBy)
	require.NoError(t, err)

	store.createVideoErr = errors.New("insert failed")
	_, err = svc.Create(in)
	require.Error(t, err)
	assert.Empty(t, store.deletedMonths, "a month this request did not create stays")
	assert.Len(t, store.months, 1)
}

func TestSetStatusTransitions(t *testing.T) {
	store := newFakeStore()
	svc := newVideoService(store, nil)
	editor := store.addUser(db.RoleEditor)
	client := store.addUser(db.RoleClient)
	video := store.addVideo(client.ID)

	// Every transition between the three statuses is allowed, including
	// reopening an approved video.
	for _, status := range []string{db.StatusApproved, db.StatusRejected, db.StatusPending, db.StatusApproved} {
		updated, err := svc.SetStatus(video.ID.String(), status, editor.ID, editor.Role)
		require.NoError(t, err)
		assert.Equal(t, status, updated.Status)
		require.NotNil(t, updated.StatusUpdatedAt)
		assert.Equal(t, editor.ID, updated.StatusUpdatedBy.UUID)
	}
}

func TestSetStatusAuthorization(t *testing.T) {
	store := newFakeStore()
	svc := newVideoService(store, nil)
	owner := store.addUser(db.RoleClient)
	other := store.addUser(db.RoleClient)
	video := store.addVideo(owner.ID)

	// The owning client may approve their own video.
	_, err := svc.SetStatus(video.ID.String(), db.StatusApproved, owner.ID, owner.Role)
	require.NoError(t, err)

	// Another client may not touch it.
	_, err = svc.SetStatus(video.ID.String(), db.StatusRejected, other.ID, other.Role)
	require.Error(t, err)
	assert.Equal(t, KindForbidden, KindOf(err))
}

func TestSetStatusRejectsBadInput(t *testing.T) {
	store := newFakeStore()
	svc := newVideoService(store, nil)
	client := store.addUser(db.RoleClient)
	video := store.addVideo(client.ID)

	_, err := svc.SetStatus("preview-1", db.StatusApproved, client.ID, client.Role)
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = svc.SetStatus("not-a-uuid", db.StatusApproved, client.ID, client.Role)
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = svc.SetStatus(video.ID.String(), "archived", client.ID, client.Role)
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = svc.SetStatus(uuid.NewString(), db.StatusApproved, client.ID, client.Role)
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestDeleteVideoCascades(t *testing.T) {
	store := newFakeStore()
	blobs := &fakeBlobs{}
	svc := newVideoService(store, blobs)
	client := store.addUser(db.RoleClient)
	video := store.addVideo(client.ID)

	comment := &db.Comment{VideoID: video.ID, UserID: client.ID, Content: "too long"}
	_, err := store.CreateComment(comment)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), video.ID))
	assert.Empty(t, store.videos)
	assert.Empty(t, store.comments)
	assert.Equal(t, []string{video.StoragePath}, blobs.deleted)
}

func TestDeleteVideoToleratesBlobFailure(t *testing.T) {
	store := newFakeStore()
	blobs := &fakeBlobs{err: errors.New("bucket unreachable")}
	svc := newVideoService(store, blobs)
	client := store.addUser(db.RoleClient)
	video := store.addVideo(client.ID)

	require.NoError(t, svc.Delete(context.Background(), video.ID))
	assert.Empty(t, store.videos, "row delete proceeds past a storage failure")
}

func TestDeleteVideoNotFound(t *testing.T) {
	svc := newVideoService(newFakeStore(), nil)
	err := svc.Delete(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestListForClientPreviews(t *testing.T) {
	store := newFakeStore()
	svc := newVideoService(store, nil)
	client := store.addUser(db.RoleClient)

	// No uploads yet and previews requested: placeholder set.
	items, err := svc.ListForClient(client.ID, true)
	require.NoError(t, err)
	require.Len(t, items, 3)
	for _, item := range items {
		assert.True(t, item.Preview)
		assert.Contains(t, item.ID, PreviewIDPrefix)
		assert.Equal(t, db.StatusPending, item.Status)
	}

	// Previews not requested: empty list, not placeholders.
	items, err = svc.ListForClient(client.ID, false)
	require.NoError(t, err)
	assert.Empty(t, items)

	// A real upload suppresses previews entirely.
	store.addVideo(client.ID)
	items, err = svc.ListForClient(client.ID, true)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.False(t, items[0].Preview)
}
