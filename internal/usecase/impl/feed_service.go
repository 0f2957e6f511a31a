package impl

import (
	"context"
	"log/slog"

	deliverycontext "vidhub/internal/delivery/context"
	"vidhub/internal/domain/entity"
	"vidhub/internal/domain/repository"
	"vidhub/internal/domain/service"
	"vidhub/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const defaultFeedLimit = 50

// feedService implements the FeedUsecase interface.
type feedService struct {
	feedRepo         repository.FeedRepository
	subscriptionRepo repository.SubscriptionRepository
	logger           *slog.Logger
}

// FeedServiceParams holds dependencies for FeedService, injected by Fx.
type FeedServiceParams struct {
	fx.In

	FeedRepo         repository.FeedRepository
	SubscriptionRepo repository.SubscriptionRepository
	Logger           *slog.Logger
}

// NewFeedService is the constructor for feedService.
func NewFeedService(params FeedServiceParams) usecase.FeedUsecase {
	return &feedService{
		feedRepo:         params.FeedRepo,
		subscriptionRepo: params.SubscriptionRepo,
		logger:           params.Logger,
	}
}

func (srv *feedService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// BuildFeedEntries fans a published video out into subscriber feeds. The
// fan-out upserts, so a redelivered event is a no-op.
func (srv *feedService) BuildFeedEntries(ctx context.Context, event *service.VideoPublishedEvent) error {
	subscriberIDs, err := srv.subscriptionRepo.FindSubscriberIDs(ctx, event.OwnerID)
	if err != nil {
		return errors.Wrap(err, "failed to list subscribers for fan-out")
	}

	if len(subscriberIDs) == 0 {
		srv.log(ctx).Debug("No subscribers to fan out to", slog.Any("videoID", event.VideoID))

		return nil
	}

	if err := srv.feedRepo.FanOut(ctx, event.VideoID, event.PublishedAt, subscriberIDs); err != nil {
		return errors.Wrap(err, "failed to fan out feed entries")
	}

	srv.log(ctx).Info("Fanned out feed entries",
		slog.Any("videoID", event.VideoID),
		slog.Int("subscribers", len(subscriberIDs)))

	return nil
}

// GetFeed returns the videos in a user's feed, newest first.
func (srv *feedService) GetFeed(ctx context.Context, userID uuid.UUID, limit int) ([]*entity.Video, error) {
	if limit <= 0 {
		limit = defaultFeedLimit
	}

	videos, err := srv.feedRepo.FindByUser(ctx, userID, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read feed")
	}

	return videos, nil
}
