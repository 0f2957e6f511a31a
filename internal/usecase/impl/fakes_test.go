package impl

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"vidhub/config"
	"vidhub/internal/domain/entity"
	"vidhub/internal/domain/repository"
	"vidhub/internal/domain/service"
	"vidhub/internal/infra/auth"
	"vidhub/internal/usecase"

	"github.com/google/uuid"
)

// The fakes below are in-memory stand-ins for the GORM repositories. They keep
// the same error contracts as the real implementations, including the
// compare-and-swap semantics of RotateRefreshTokenHash, which the rotation
// tests depend on.

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestTokenService() service.TokenService {
	cfg := &config.Config{}
	cfg.SecretKey.Access = "test-access-secret"
	cfg.SecretKey.Refresh = "test-refresh-secret"
	cfg.SecretKey.AccessTTL = time.Minute
	cfg.SecretKey.RefreshTTL = time.Hour

	tokenService, err := auth.NewJWTService(cfg)
	if err != nil {
		panic(err)
	}

	return tokenService
}

func newTestHasher() service.PasswordHasher {
	return auth.NewBcryptHasherWithCost(4)
}

// --- user repository fake ---

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (r *fakeUserRepo) get(id uuid.UUID) *entity.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		clone := *u
		return &clone
	}
	return nil
}

func (r *fakeUserRepo) put(u *entity.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *u
	r.users[u.ID] = &clone
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	if u := r.get(id); u != nil {
		return u, nil
	}
	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) FindByIdentity(_ context.Context, identity string) (*entity.User, error) {
	identity = strings.ToLower(strings.TrimSpace(identity))
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == identity || u.Email == identity {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return repository.ErrDuplicateUser
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[user.ID]
	if !ok {
		return repository.ErrUserNotFound
	}
	stored.FullName = user.FullName
	stored.Email = user.Email
	stored.AvatarURL = user.AvatarURL
	stored.CoverImageURL = user.CoverImageURL
	return nil
}

func (r *fakeUserRepo) UpdatePasswordHash(_ context.Context, id uuid.UUID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	stored.PasswordHash = passwordHash
	return nil
}

func (r *fakeUserRepo) UpdateRefreshTokenHash(_ context.Context, id uuid.UUID, refreshTokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	stored.RefreshTokenHash = refreshTokenHash
	return nil
}

func (r *fakeUserRepo) RotateRefreshTokenHash(_ context.Context, id uuid.UUID, currentHash, newHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[id]
	if !ok || stored.RefreshTokenHash != currentHash {
		return repository.ErrRefreshTokenMismatch
	}
	stored.RefreshTokenHash = newHash
	return nil
}

// --- video repository fake ---

type watchEntry struct {
	videoID   uuid.UUID
	watchedAt time.Time
}

type fakeVideoRepo struct {
	mu      sync.Mutex
	videos  map[uuid.UUID]*entity.Video
	history map[uuid.UUID][]watchEntry
}

func newFakeVideoRepo() *fakeVideoRepo {
	return &fakeVideoRepo{
		videos:  make(map[uuid.UUID]*entity.Video),
		history: make(map[uuid.UUID][]watchEntry),
	}
}

func (r *fakeVideoRepo) Create(_ context.Context, video *entity.Video) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if video.ID == uuid.Nil {
		video.ID = uuid.New()
	}
	video.CreatedAt = time.Now()
	video.UpdatedAt = video.CreatedAt
	clone := *video
	r.videos[video.ID] = &clone
	return nil
}

func (r *fakeVideoRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.videos[id]; ok {
		clone := *v
		return &clone, nil
	}
	return nil, repository.ErrVideoNotFound
}

func (r *fakeVideoRepo) FindByOwner(_ context.Context, ownerID uuid.UUID) ([]*entity.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*entity.Video
	for _, v := range r.videos {
		if v.OwnerID == ownerID && v.IsPublished {
			clone := *v
			result = append(result, &clone)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (r *fakeVideoRepo) Update(_ context.Context, video *entity.Video) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.videos[video.ID]
	if !ok {
		return repository.ErrVideoNotFound
	}
	stored.Title = video.Title
	stored.Description = video.Description
	stored.ThumbnailURL = video.ThumbnailURL
	return nil
}

func (r *fakeVideoRepo) IncrementViews(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.videos[id]
	if !ok {
		return repository.ErrVideoNotFound
	}
	stored.Views++
	return nil
}

func (r *fakeVideoRepo) AppendWatchHistory(_ context.Context, userID, videoID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.videos[videoID]; !ok {
		return repository.ErrVideoNotFound
	}
	entries := r.history[userID]
	for i := range entries {
		if entries[i].videoID == videoID {
			entries[i].watchedAt = time.Now()
			return nil
		}
	}
	r.history[userID] = append(entries, watchEntry{videoID: videoID, watchedAt: time.Now()})
	return nil
}

func (r *fakeVideoRepo) FindWatchHistory(_ context.Context, userID uuid.UUID) ([]*entity.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entries := append([]watchEntry(nil), r.history[userID]...)
	sort.Slice(entries, func(i, j int) bool { return entries[i].watchedAt.After(entries[j].watchedAt) })
	var result []*entity.Video
	for _, e := range entries {
		if v, ok := r.videos[e.videoID]; ok {
			clone := *v
			result = append(result, &clone)
		}
	}
	return result, nil
}

// --- playlist repository fake ---

type fakePlaylistRepo struct {
	mu        sync.Mutex
	playlists map[uuid.UUID]*entity.Playlist
	members   map[uuid.UUID][]uuid.UUID
	videoRepo *fakeVideoRepo
}

func newFakePlaylistRepo(videoRepo *fakeVideoRepo) *fakePlaylistRepo {
	return &fakePlaylistRepo{
		playlists: make(map[uuid.UUID]*entity.Playlist),
		members:   make(map[uuid.UUID][]uuid.UUID),
		videoRepo: videoRepo,
	}
}

func (r *fakePlaylistRepo) withVideos(p *entity.Playlist) *entity.Playlist {
	clone := *p
	clone.Videos = nil
	for _, videoID := range r.members[p.ID] {
		if v, ok := r.videoRepo.videos[videoID]; ok {
			vc := *v
			clone.Videos = append(clone.Videos, &vc)
		}
	}
	return &clone
}

func (r *fakePlaylistRepo) Create(_ context.Context, playlist *entity.Playlist) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.playlists {
		if p.OwnerID == playlist.OwnerID && p.Name == playlist.Name {
			return repository.ErrDuplicatePlaylistName
		}
	}
	if playlist.ID == uuid.Nil {
		playlist.ID = uuid.New()
	}
	playlist.CreatedAt = time.Now()
	playlist.UpdatedAt = playlist.CreatedAt
	clone := *playlist
	r.playlists[playlist.ID] = &clone
	return nil
}

func (r *fakePlaylistRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Playlist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.playlists[id]; ok {
		return r.withVideos(p), nil
	}
	return nil, repository.ErrPlaylistNotFound
}

func (r *fakePlaylistRepo) FindByOwnerAndName(_ context.Context, ownerID uuid.UUID, name string) (*entity.Playlist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.playlists {
		if p.OwnerID == ownerID && p.Name == name {
			return r.withVideos(p), nil
		}
	}
	return nil, repository.ErrPlaylistNotFound
}

func (r *fakePlaylistRepo) FindByOwner(_ context.Context, ownerID uuid.UUID) ([]*entity.Playlist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*entity.Playlist
	for _, p := range r.playlists {
		if p.OwnerID == ownerID {
			result = append(result, r.withVideos(p))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (r *fakePlaylistRepo) Update(_ context.Context, playlist *entity.Playlist) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.playlists[playlist.ID]
	if !ok {
		return repository.ErrPlaylistNotFound
	}
	for _, p := range r.playlists {
		if p.ID != playlist.ID && p.OwnerID == playlist.OwnerID && p.Name == playlist.Name {
			return repository.ErrDuplicatePlaylistName
		}
	}
	stored.Name = playlist.Name
	stored.Description = playlist.Description
	return nil
}

func (r *fakePlaylistRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.playlists[id]; !ok {
		return repository.ErrPlaylistNotFound
	}
	delete(r.playlists, id)
	delete(r.members, id)
	return nil
}

func (r *fakePlaylistRepo) AddVideo(_ context.Context, playlistID, videoID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.videoRepo.videos[videoID]; !ok {
		return repository.ErrVideoNotFound
	}
	for _, existing := range r.members[playlistID] {
		if existing == videoID {
			return repository.ErrDuplicatePlaylistVideo
		}
	}
	r.members[playlistID] = append(r.members[playlistID], videoID)
	return nil
}

func (r *fakePlaylistRepo) RemoveVideo(_ context.Context, playlistID, videoID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entries := r.members[playlistID]
	for i, existing := range entries {
		if existing == videoID {
			r.members[playlistID] = append(entries[:i], entries[i+1:]...)
			return nil
		}
	}
	return repository.ErrPlaylistVideoNotFound
}

// --- subscription repository fake ---

type subscriptionKey struct {
	subscriberID uuid.UUID
	channelID    uuid.UUID
}

type fakeSubscriptionRepo struct {
	mu   sync.Mutex
	subs map[subscriptionKey]time.Time
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{subs: make(map[subscriptionKey]time.Time)}
}

func (r *fakeSubscriptionRepo) Create(_ context.Context, subscription *entity.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := subscriptionKey{subscriberID: subscription.SubscriberID, channelID: subscription.ChannelID}
	if _, ok := r.subs[key]; ok {
		return repository.ErrDuplicateSubscription
	}
	r.subs[key] = time.Now()
	subscription.ID = uuid.New()
	return nil
}

func (r *fakeSubscriptionRepo) Delete(_ context.Context, subscriberID, channelID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := subscriptionKey{subscriberID: subscriberID, channelID: channelID}
	if _, ok := r.subs[key]; !ok {
		return repository.ErrSubscriptionNotFound
	}
	delete(r.subs, key)
	return nil
}

func (r *fakeSubscriptionRepo) Exists(_ context.Context, subscriberID, channelID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.subs[subscriptionKey{subscriberID: subscriberID, channelID: channelID}]
	return ok, nil
}

func (r *fakeSubscriptionRepo) CountSubscribers(_ context.Context, channelID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for key := range r.subs {
		if key.channelID == channelID {
			count++
		}
	}
	return count, nil
}

func (r *fakeSubscriptionRepo) CountSubscribedTo(_ context.Context, subscriberID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for key := range r.subs {
		if key.subscriberID == subscriberID {
			count++
		}
	}
	return count, nil
}

func (r *fakeSubscriptionRepo) FindSubscriberIDs(_ context.Context, channelID uuid.UUID) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []uuid.UUID
	for key := range r.subs {
		if key.channelID == channelID {
			ids = append(ids, key.subscriberID)
		}
	}
	return ids, nil
}

// --- feed repository fake ---

type feedKey struct {
	userID  uuid.UUID
	videoID uuid.UUID
}

type fakeFeedRepo struct {
	mu        sync.Mutex
	entries   map[feedKey]time.Time
	videoRepo *fakeVideoRepo
}

func newFakeFeedRepo(videoRepo *fakeVideoRepo) *fakeFeedRepo {
	return &fakeFeedRepo{entries: make(map[feedKey]time.Time), videoRepo: videoRepo}
}

func (r *fakeFeedRepo) FanOut(_ context.Context, videoID uuid.UUID, publishedAt time.Time, subscriberIDs []uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, subscriberID := range subscriberIDs {
		key := feedKey{userID: subscriberID, videoID: videoID}
		if _, ok := r.entries[key]; ok {
			continue
		}
		r.entries[key] = publishedAt
	}
	return nil
}

func (r *fakeFeedRepo) FindByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*entity.Video, error) {
	r.mu.Lock()
	type feedRow struct {
		videoID     uuid.UUID
		publishedAt time.Time
	}
	var rows []feedRow
	for key, publishedAt := range r.entries {
		if key.userID == userID {
			rows = append(rows, feedRow{videoID: key.videoID, publishedAt: publishedAt})
		}
	}
	r.mu.Unlock()

	sort.Slice(rows, func(i, j int) bool { return rows[i].publishedAt.After(rows[j].publishedAt) })
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}

	videos := make([]*entity.Video, 0, len(rows))
	for _, row := range rows {
		video, err := r.videoRepo.FindByID(ctx, row.videoID)
		if err != nil {
			continue
		}
		videos = append(videos, video)
	}
	return videos, nil
}

// --- transaction manager fake ---

type fakeRepoFactory struct {
	userRepo         *fakeUserRepo
	videoRepo        *fakeVideoRepo
	playlistRepo     *fakePlaylistRepo
	subscriptionRepo *fakeSubscriptionRepo
}

func (f *fakeRepoFactory) NewUserRepository() repository.UserRepository { return f.userRepo }
func (f *fakeRepoFactory) NewVideoRepository() repository.VideoRepository {
	return f.videoRepo
}
func (f *fakeRepoFactory) NewPlaylistRepository() repository.PlaylistRepository {
	return f.playlistRepo
}
func (f *fakeRepoFactory) NewSubscriptionRepository() repository.SubscriptionRepository {
	return f.subscriptionRepo
}

// fakeTxManager runs the callback against the shared fakes without any
// transactional isolation, which is enough for these tests.
type fakeTxManager struct {
	factory *fakeRepoFactory
}

func (tm *fakeTxManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(tm.factory)
}

// --- media storage fake ---

type fakeMediaStorage struct {
	mu      sync.Mutex
	uploads map[string][]byte
	failAll bool
}

func newFakeMediaStorage() *fakeMediaStorage {
	return &fakeMediaStorage{uploads: make(map[string][]byte)}
}

func (s *fakeMediaStorage) Upload(_ context.Context, key, _ string, content io.Reader) (string, error) {
	if s.failAll {
		return "", io.ErrUnexpectedEOF
	}
	data, err := io.ReadAll(content)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploads[key] = data
	return "mem://" + key, nil
}

func (s *fakeMediaStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.uploads, key)
	return nil
}

func (s *fakeMediaStorage) uploadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.uploads)
}

// --- event publisher fake ---

type fakeEventPublisher struct {
	mu     sync.Mutex
	events []*service.VideoPublishedEvent
}

func (p *fakeEventPublisher) PublishVideoEvent(_ context.Context, event *service.VideoPublishedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *fakeEventPublisher) Close() error { return nil }

func (p *fakeEventPublisher) published() []*service.VideoPublishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*service.VideoPublishedEvent(nil), p.events...)
}

func testUpload(name, contentType, content string) *usecase.MediaUpload {
	return &usecase.MediaUpload{
		FileName:    name,
		ContentType: contentType,
		Content:     bytes.NewBufferString(content),
	}
}
