package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/user/mysea-back/internal/cache"
	"github.com/user/mysea-back/internal/config"
	"github.com/user/mysea-back/internal/database"
	"github.com/user/mysea-back/internal/logging"
	"github.com/user/mysea-back/internal/models"
	"github.com/user/mysea-back/internal/species"
)

var starter = []*models.MarineSpecies{
	{
		NameKR:         "흰동가리",
		NameEN:         "Clownfish",
		ScientificName: "Amphiprioninae",
		Category:       models.CategoryFish,
		Description:    "말미잘과 공생하는 작고 귀여운 열대어입니다.",
		SizeRange:      "10-15cm",
		Season:         "연중",
		DepthRange:     "1-15m",
		Habitat:        "산호초, 말미잘",
		Rarity:         models.RarityCommon,
	},
	{
		NameKR:         "바다거북",
		NameEN:         "Sea Turtle",
		ScientificName: "Chelonioidea",
		Category:       models.CategoryReptile,
		Description:    "우아하게 헤엄치는 바다의 장수 동물입니다.",
		SizeRange:      "60-180cm",
		Season:         "5-10월",
		DepthRange:     "1-40m",
		Habitat:        "산호초, 해초지대",
		Rarity:         models.RarityRare,
	},
	{
		NameKR:         "문어",
		NameEN:         "Octopus",
		ScientificName: "Octopoda",
		Category:       models.CategoryMollusk,
		Description:    "8개의 다리와 뛰어난 지능을 가진 연체동물입니다.",
		SizeRange:      "30-100cm",
		Season:         "연중",
		DepthRange:     "5-50m",
		Habitat:        "암초, 동굴",
		Rarity:         models.RarityUncommon,
	},
	{
		NameKR:         "해파리",
		NameEN:         "Jellyfish",
		ScientificName: "Scyphozoa",
		Category:       models.CategoryOther,
		Description:    "투명한 몸체로 물속을 떠다니는 신비로운 생물입니다.",
		SizeRange:      "5-100cm",
		Season:         "여름",
		DepthRange:     "0-30m",
		Habitat:        "개방 수역",
		Rarity:         models.RarityCommon,
		IsDangerous:    true,
	},
}

// Seeds the species encyclopedia. An optional JSON file argument replaces the
// built-in starter catalogue; rows are upserted by scientific name.
func main() {
	ctx := context.Background()
	cfg := config.Load()
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	catalogue := starter
	if len(os.Args) > 1 {
		data, err := os.ReadFile(os.Args[1])
		if err != nil {
			logrus.WithError(err).Fatal("Failed to read species file")
		}
		catalogue = nil
		if err := json.Unmarshal(data, &catalogue); err != nil {
			logrus.WithError(err).Fatal("Failed to parse species file")
		}
	}

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		logrus.WithError(err).Fatal("Failed to run migrations")
	}

	repo := species.NewRepository(db.Pool)
	for _, s := range catalogue {
		if !species.ValidCategory(s.Category) || s.Category == models.CategoryAll {
			logrus.WithField("species", s.ScientificName).Warn("Skipping species with unknown category")
			continue
		}
		saved, err := repo.UpsertSpecies(ctx, s)
		if err != nil {
			logrus.WithError(err).WithField("species", s.ScientificName).Fatal("Failed to upsert species")
		}
		logrus.WithFields(logrus.Fields{
			"id":   saved.ID,
			"name": saved.NameKR,
		}).Info("Species saved")
	}

	// The API caches the whole list; drop it so the new rows show up.
	if cfg.RedisAddr != "" && cfg.RedisAddr != "disabled" {
		redisCache, err := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			logrus.WithError(err).Warn("Redis not available, species cache left as is")
		} else {
			defer redisCache.Close()
			if err := species.NewService(repo, redisCache).Invalidate(ctx); err != nil {
				logrus.WithError(err).Warn("Failed to invalidate species cache")
			}
		}
	}

	logrus.WithField("count", len(catalogue)).Info("Done")
}
