package impl

import (
	"context"
	"testing"

	"vidhub/internal/domain/entity"
	domainerrors "vidhub/internal/domain/errors"
	"vidhub/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type videoServiceFixture struct {
	service   usecase.VideoUsecase
	userRepo  *fakeUserRepo
	videoRepo *fakeVideoRepo
	media     *fakeMediaStorage
	publisher *fakeEventPublisher
	ownerID   uuid.UUID
}

func newVideoServiceFixture(t *testing.T) *videoServiceFixture {
	t.Helper()

	userRepo := newFakeUserRepo()
	videoRepo := newFakeVideoRepo()
	media := newFakeMediaStorage()
	publisher := &fakeEventPublisher{}

	owner := &entity.User{Username: "alice", Email: "alice@example.com"}
	require.NoError(t, userRepo.Create(context.Background(), owner))

	srv := NewVideoService(VideoServiceParams{
		VideoRepo:      videoRepo,
		UserRepo:       userRepo,
		MediaStorage:   media,
		EventPublisher: publisher,
		Logger:         newDiscardLogger(),
	})

	return &videoServiceFixture{
		service:   srv,
		userRepo:  userRepo,
		videoRepo: videoRepo,
		media:     media,
		publisher: publisher,
		ownerID:   owner.ID,
	}
}

func (f *videoServiceFixture) publish(t *testing.T, title string) *entity.Video {
	t.Helper()

	out, err := f.service.PublishVideo(context.Background(), &usecase.PublishVideoInput{
		OwnerID:     f.ownerID,
		Title:       title,
		Description: "a video",
		Duration:    42.5,
		VideoFile:   testUpload("clip.mp4", "video/mp4", "video-bytes"),
		Thumbnail:   testUpload("thumb.jpg", "image/jpeg", "thumb-bytes"),
	})
	require.NoError(t, err)

	return out.Video
}

func TestVideoService_PublishVideo_Success(t *testing.T) {
	f := newVideoServiceFixture(t)

	video := f.publish(t, "first upload")

	assert.NotEqual(t, uuid.Nil, video.ID)
	assert.Equal(t, f.ownerID, video.OwnerID)
	assert.True(t, video.IsPublished)
	assert.NotEmpty(t, video.VideoURL)
	assert.NotEmpty(t, video.ThumbnailURL)
	assert.Equal(t, 2, f.media.uploadCount())

	events := f.publisher.published()
	require.Len(t, events, 1)
	assert.Equal(t, video.ID, events[0].VideoID)
	assert.Equal(t, f.ownerID, events[0].OwnerID)
	assert.Equal(t, "first upload", events[0].Title)
}

func TestVideoService_PublishVideo_RequiresMedia(t *testing.T) {
	f := newVideoServiceFixture(t)

	_, err := f.service.PublishVideo(context.Background(), &usecase.PublishVideoInput{
		OwnerID:   f.ownerID,
		Title:     "no files",
		VideoFile: testUpload("clip.mp4", "video/mp4", "video-bytes"),
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrMediaFileRequired)
	assert.Empty(t, f.publisher.published())
}

func TestVideoService_GetVideo_CountsAuthenticatedViews(t *testing.T) {
	f := newVideoServiceFixture(t)
	video := f.publish(t, "watched")

	viewerID := uuid.New()

	got, err := f.service.GetVideo(context.Background(), video.ID, viewerID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Views)

	history, err := f.videoRepo.FindWatchHistory(context.Background(), viewerID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, video.ID, history[0].ID)
}

func TestVideoService_GetVideo_AnonymousViewNotCounted(t *testing.T) {
	f := newVideoServiceFixture(t)
	video := f.publish(t, "watched")

	got, err := f.service.GetVideo(context.Background(), video.ID, uuid.Nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Views)
}

func TestVideoService_GetVideo_RewatchKeepsSingleHistoryEntry(t *testing.T) {
	f := newVideoServiceFixture(t)
	video := f.publish(t, "watched")
	viewerID := uuid.New()

	_, err := f.service.GetVideo(context.Background(), video.ID, viewerID)
	require.NoError(t, err)
	_, err = f.service.GetVideo(context.Background(), video.ID, viewerID)
	require.NoError(t, err)

	history, err := f.videoRepo.FindWatchHistory(context.Background(), viewerID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestVideoService_GetVideo_NotFound(t *testing.T) {
	f := newVideoServiceFixture(t)

	_, err := f.service.GetVideo(context.Background(), uuid.New(), uuid.Nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrVideoNotFound)
}

func TestVideoService_UpdateVideo_OwnerOnly(t *testing.T) {
	f := newVideoServiceFixture(t)
	video := f.publish(t, "original title")

	updated, err := f.service.UpdateVideo(context.Background(), &usecase.UpdateVideoInput{
		RequesterID: f.ownerID,
		VideoID:     video.ID,
		Title:       "new title",
	})
	require.NoError(t, err)
	assert.Equal(t, "new title", updated.Title)

	// A stranger gets forbidden, not not-found, because the video exists.
	_, err = f.service.UpdateVideo(context.Background(), &usecase.UpdateVideoInput{
		RequesterID: uuid.New(),
		VideoID:     video.ID,
		Title:       "hijacked",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestVideoService_UpdateVideo_MissingVideo(t *testing.T) {
	f := newVideoServiceFixture(t)

	_, err := f.service.UpdateVideo(context.Background(), &usecase.UpdateVideoInput{
		RequesterID: f.ownerID,
		VideoID:     uuid.New(),
		Title:       "anything",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrVideoNotFound)
}

func TestVideoService_ListChannelVideos(t *testing.T) {
	f := newVideoServiceFixture(t)
	f.publish(t, "one")
	f.publish(t, "two")

	videos, err := f.service.ListChannelVideos(context.Background(), "alice")
	require.NoError(t, err)
	assert.Len(t, videos, 2)

	_, err = f.service.ListChannelVideos(context.Background(), "ghost")
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrChannelNotFound)
}
