package impl

import (
	"context"
	"sync"
	"testing"

	domainerrors "vidhub/internal/domain/errors"
	"vidhub/internal/domain/service"
	"vidhub/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userServiceFixture struct {
	service      usecase.UserUsecase
	userRepo     *fakeUserRepo
	videoRepo    *fakeVideoRepo
	subRepo      *fakeSubscriptionRepo
	tokenService service.TokenService
	media        *fakeMediaStorage
}

func newUserServiceFixture() *userServiceFixture {
	userRepo := newFakeUserRepo()
	videoRepo := newFakeVideoRepo()
	subRepo := newFakeSubscriptionRepo()
	playlistRepo := newFakePlaylistRepo(videoRepo)
	tokenService := newTestTokenService()
	media := newFakeMediaStorage()

	factory := &fakeRepoFactory{
		userRepo:         userRepo,
		videoRepo:        videoRepo,
		playlistRepo:     playlistRepo,
		subscriptionRepo: subRepo,
	}

	srv := NewUserService(UserServiceParams{
		TxManager:        &fakeTxManager{factory: factory},
		UserRepo:         userRepo,
		VideoRepo:        videoRepo,
		SubscriptionRepo: subRepo,
		Hasher:           newTestHasher(),
		TokenService:     tokenService,
		MediaStorage:     media,
		Logger:           newDiscardLogger(),
	})

	return &userServiceFixture{
		service:      srv,
		userRepo:     userRepo,
		videoRepo:    videoRepo,
		subRepo:      subRepo,
		tokenService: tokenService,
		media:        media,
	}
}

func (f *userServiceFixture) register(t *testing.T, username string) *usecase.RegisterOutput {
	t.Helper()

	out, err := f.service.RegisterUser(context.Background(), &usecase.RegisterUserInput{
		Username: username,
		Email:    username + "@example.com",
		FullName: "Test User",
		Password: "Str0ng!Pass",
		Avatar:   testUpload("avatar.png", "image/png", "avatar-bytes"),
	})
	require.NoError(t, err)

	return out
}

func (f *userServiceFixture) login(t *testing.T, identity string) *usecase.LoginOutput {
	t.Helper()

	out, err := f.service.Login(context.Background(), &usecase.LoginInput{
		Identity: identity,
		Password: "Str0ng!Pass",
	})
	require.NoError(t, err)

	return out
}

func TestUserService_RegisterUser_Success(t *testing.T) {
	f := newUserServiceFixture()

	out := f.register(t, "alice")

	require.NotNil(t, out.User)
	assert.NotEqual(t, uuid.Nil, out.User.ID)
	assert.Equal(t, "alice", out.User.Username)
	assert.NotEmpty(t, out.User.AvatarURL)
	assert.Empty(t, out.User.PasswordHash, "credential material must not leave the usecase layer")
	assert.Empty(t, out.User.RefreshTokenHash)

	stored := f.userRepo.get(out.User.ID)
	require.NotNil(t, stored)
	assert.NotEmpty(t, stored.PasswordHash)
	assert.NotEqual(t, "Str0ng!Pass", stored.PasswordHash)
	assert.Equal(t, 1, f.media.uploadCount())
}

func TestUserService_RegisterUser_RequiresAvatar(t *testing.T) {
	f := newUserServiceFixture()

	_, err := f.service.RegisterUser(context.Background(), &usecase.RegisterUserInput{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "Str0ng!Pass",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrMediaFileRequired)
}

func TestUserService_RegisterUser_DuplicateUsername(t *testing.T) {
	f := newUserServiceFixture()
	f.register(t, "alice")

	_, err := f.service.RegisterUser(context.Background(), &usecase.RegisterUserInput{
		Username: "alice",
		Email:    "other@example.com",
		Password: "Str0ng!Pass",
		Avatar:   testUpload("avatar.png", "image/png", "avatar-bytes"),
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrUserAlreadyExists)
}

func TestUserService_Login_Success(t *testing.T) {
	f := newUserServiceFixture()
	registered := f.register(t, "alice")

	out := f.login(t, "alice")

	assert.NotEmpty(t, out.AccessToken)
	assert.NotEmpty(t, out.RefreshToken)
	assert.Empty(t, out.User.PasswordHash)

	claims, err := f.tokenService.ValidateAccessToken(out.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)

	stored := f.userRepo.get(registered.User.ID)
	assert.Equal(t, f.tokenService.HashToken(out.RefreshToken), stored.RefreshTokenHash)
}

func TestUserService_Login_ByEmail(t *testing.T) {
	f := newUserServiceFixture()
	f.register(t, "alice")

	out := f.login(t, "alice@example.com")

	assert.Equal(t, "alice", out.User.Username)
}

func TestUserService_Login_ByMixedCaseEmail(t *testing.T) {
	f := newUserServiceFixture()
	f.register(t, "alice")

	// The stored email is lowercased; the identity a user types must match
	// regardless of casing or surrounding whitespace.
	out, err := f.service.Login(context.Background(), &usecase.LoginInput{
		Identity: " Alice@Example.com ",
		Password: "Str0ng!Pass",
	})

	require.NoError(t, err)
	assert.Equal(t, "alice", out.User.Username)
}

func TestUserService_Login_WrongPassword(t *testing.T) {
	f := newUserServiceFixture()
	registered := f.register(t, "alice")

	_, err := f.service.Login(context.Background(), &usecase.LoginInput{
		Identity: "alice",
		Password: "Wr0ng!Pass",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)

	// A failed login must not establish a session.
	stored := f.userRepo.get(registered.User.ID)
	assert.Empty(t, stored.RefreshTokenHash)
}

func TestUserService_Login_UnknownIdentity(t *testing.T) {
	f := newUserServiceFixture()

	_, err := f.service.Login(context.Background(), &usecase.LoginInput{
		Identity: "ghost",
		Password: "Str0ng!Pass",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}

func TestUserService_Login_OverwritesPreviousSession(t *testing.T) {
	f := newUserServiceFixture()
	f.register(t, "alice")

	first := f.login(t, "alice")
	second := f.login(t, "alice")

	// The first session's refresh token no longer matches the stored reference.
	_, err := f.service.RefreshSession(context.Background(), first.RefreshToken)
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrUnauthenticated)

	_, err = f.service.RefreshSession(context.Background(), second.RefreshToken)
	require.NoError(t, err)
}

func TestUserService_RefreshSession_RotatesCredential(t *testing.T) {
	f := newUserServiceFixture()
	registered := f.register(t, "alice")
	login := f.login(t, "alice")

	out, err := f.service.RefreshSession(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, out.AccessToken)
	assert.NotEmpty(t, out.RefreshToken)
	assert.NotEqual(t, login.RefreshToken, out.RefreshToken)

	stored := f.userRepo.get(registered.User.ID)
	assert.Equal(t, f.tokenService.HashToken(out.RefreshToken), stored.RefreshTokenHash)

	// Replaying the consumed token must fail.
	_, err = f.service.RefreshSession(context.Background(), login.RefreshToken)
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrUnauthenticated)

	// The rotated token keeps working.
	_, err = f.service.RefreshSession(context.Background(), out.RefreshToken)
	require.NoError(t, err)
}

func TestUserService_RefreshSession_RejectsForgedToken(t *testing.T) {
	f := newUserServiceFixture()
	f.register(t, "alice")
	f.login(t, "alice")

	_, err := f.service.RefreshSession(context.Background(), "not-a-jwt")
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrUnauthenticated)
}

func TestUserService_RefreshSession_RejectsAccessToken(t *testing.T) {
	f := newUserServiceFixture()
	f.register(t, "alice")
	login := f.login(t, "alice")

	// An access token must never be accepted as a refresh token.
	_, err := f.service.RefreshSession(context.Background(), login.AccessToken)
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrUnauthenticated)
}

func TestUserService_RefreshSession_ConcurrentRotationSingleWinner(t *testing.T) {
	f := newUserServiceFixture()
	f.register(t, "alice")
	login := f.login(t, "alice")

	const attempts = 8

	var wg sync.WaitGroup
	results := make([]error, attempts)
	start := make(chan struct{})

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			<-start
			_, err := f.service.RefreshSession(context.Background(), login.RefreshToken)
			results[idx] = err
		}(i)
	}

	close(start)
	wg.Wait()

	winners := 0
	for _, err := range results {
		if err == nil {
			winners++
		} else {
			assert.ErrorIs(t, err, domainerrors.ErrUnauthenticated)
		}
	}
	assert.Equal(t, 1, winners, "exactly one concurrent rotation may succeed")
}

func TestUserService_Logout_InvalidatesSession(t *testing.T) {
	f := newUserServiceFixture()
	registered := f.register(t, "alice")
	login := f.login(t, "alice")

	require.NoError(t, f.service.Logout(context.Background(), registered.User.ID))

	stored := f.userRepo.get(registered.User.ID)
	assert.Empty(t, stored.RefreshTokenHash)

	_, err := f.service.RefreshSession(context.Background(), login.RefreshToken)
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrUnauthenticated)

	// Logging out twice is harmless.
	require.NoError(t, f.service.Logout(context.Background(), registered.User.ID))
}

func TestUserService_ChangePassword_KeepsSession(t *testing.T) {
	f := newUserServiceFixture()
	registered := f.register(t, "alice")
	login := f.login(t, "alice")

	err := f.service.ChangePassword(context.Background(), &usecase.ChangePasswordInput{
		UserID:      registered.User.ID,
		OldPassword: "Str0ng!Pass",
		NewPassword: "N3w!Passw0rd",
	})
	require.NoError(t, err)

	// The active session survives the password change.
	_, err = f.service.RefreshSession(context.Background(), login.RefreshToken)
	require.NoError(t, err)

	// The old password stops working, the new one works.
	_, err = f.service.Login(context.Background(), &usecase.LoginInput{Identity: "alice", Password: "Str0ng!Pass"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)

	_, err = f.service.Login(context.Background(), &usecase.LoginInput{Identity: "alice", Password: "N3w!Passw0rd"})
	require.NoError(t, err)
}

func TestUserService_ChangePassword_WrongOldPassword(t *testing.T) {
	f := newUserServiceFixture()
	registered := f.register(t, "alice")

	err := f.service.ChangePassword(context.Background(), &usecase.ChangePasswordInput{
		UserID:      registered.User.ID,
		OldPassword: "Wr0ng!Pass",
		NewPassword: "N3w!Passw0rd",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestUserService_ChangePassword_UnknownUser(t *testing.T) {
	f := newUserServiceFixture()

	err := f.service.ChangePassword(context.Background(), &usecase.ChangePasswordInput{
		UserID:      uuid.New(),
		OldPassword: "Str0ng!Pass",
		NewPassword: "N3w!Passw0rd",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}

func TestUserService_GetChannelProfile(t *testing.T) {
	f := newUserServiceFixture()
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")

	require.NoError(t, f.service.Subscribe(context.Background(), bob.User.ID, "alice"))

	profile, err := f.service.GetChannelProfile(context.Background(), "alice", bob.User.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.User.ID, profile.User.ID)
	assert.Equal(t, int64(1), profile.SubscriberCount)
	assert.True(t, profile.IsSubscribed)
	assert.Empty(t, profile.User.PasswordHash)

	// Anonymous viewers see the same counts without a subscription flag.
	anon, err := f.service.GetChannelProfile(context.Background(), "alice", uuid.Nil)
	require.NoError(t, err)
	assert.False(t, anon.IsSubscribed)
}

func TestUserService_GetChannelProfile_UnknownChannel(t *testing.T) {
	f := newUserServiceFixture()

	_, err := f.service.GetChannelProfile(context.Background(), "ghost", uuid.Nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrChannelNotFound)
}

func TestUserService_Subscribe_SelfRejected(t *testing.T) {
	f := newUserServiceFixture()
	alice := f.register(t, "alice")

	err := f.service.Subscribe(context.Background(), alice.User.ID, "alice")

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrSelfSubscription)
}

func TestUserService_Subscribe_DuplicateRejected(t *testing.T) {
	f := newUserServiceFixture()
	f.register(t, "alice")
	bob := f.register(t, "bob")

	require.NoError(t, f.service.Subscribe(context.Background(), bob.User.ID, "alice"))

	err := f.service.Subscribe(context.Background(), bob.User.ID, "alice")
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrAlreadySubscribed)
}

func TestUserService_Unsubscribe_Idempotent(t *testing.T) {
	f := newUserServiceFixture()
	f.register(t, "alice")
	bob := f.register(t, "bob")

	require.NoError(t, f.service.Subscribe(context.Background(), bob.User.ID, "alice"))
	require.NoError(t, f.service.Unsubscribe(context.Background(), bob.User.ID, "alice"))

	// Unsubscribing again is not an error.
	require.NoError(t, f.service.Unsubscribe(context.Background(), bob.User.ID, "alice"))

	profile, err := f.service.GetChannelProfile(context.Background(), "alice", bob.User.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), profile.SubscriberCount)
	assert.False(t, profile.IsSubscribed)
}

func TestUserService_UpdateUserDetails(t *testing.T) {
	f := newUserServiceFixture()
	registered := f.register(t, "alice")

	updated, err := f.service.UpdateUserDetails(context.Background(), &usecase.UpdateUserDetailsInput{
		UserID:   registered.User.ID,
		FullName: "Alice Cooper",
		Email:    "Alice.Cooper@Example.com",
	})

	require.NoError(t, err)
	assert.Equal(t, "Alice Cooper", updated.FullName)
	assert.Equal(t, "alice.cooper@example.com", updated.Email)
}

func TestUserService_UpdateAvatar(t *testing.T) {
	f := newUserServiceFixture()
	registered := f.register(t, "alice")
	previousURL := registered.User.AvatarURL

	updated, err := f.service.UpdateAvatar(context.Background(), registered.User.ID, testUpload("new.png", "image/png", "new-bytes"))

	require.NoError(t, err)
	assert.NotEmpty(t, updated.AvatarURL)
	assert.NotEqual(t, previousURL, updated.AvatarURL)
}

func TestUserService_UpdateAvatar_RequiresFile(t *testing.T) {
	f := newUserServiceFixture()
	registered := f.register(t, "alice")

	_, err := f.service.UpdateAvatar(context.Background(), registered.User.ID, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrMediaFileRequired)
}
