package main

import (
	"vidhub/internal/infra/persistence/model"

	"gorm.io/gen"
)

func main() {
	models := []any{
		model.UserModel{},
		model.VideoModel{},
		model.WatchHistoryModel{},
		model.PlaylistModel{},
		model.PlaylistVideoModel{},
		model.SubscriptionModel{},
		model.FeedEntryModel{},
	}

	gen := gen.NewGenerator(gen.Config{
		OutPath: "./internal/infra/persistence/postgres/query",
	})

	gen.ApplyBasic(models...)

	gen.Execute()
}
