package testutil

import (
	"context"
	"time"

	"github.com/versestream/backend/config"
	"github.com/versestream/backend/internal/model"
	"github.com/versestream/backend/migration"
	"github.com/versestream/backend/pkg/authenticator"
	"github.com/versestream/backend/pkg/logger"
	"github.com/versestream/backend/pkg/session"
	"github.com/versestream/backend/pkg/xcontext"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func MockConfigs() config.Configs {
	return config.Configs{
		Env: "test",
		ApiServer: config.APIServerConfigs{
			PublicURL: "http://localhost:8080",
		},
		Auth: config.AuthConfigs{
			TokenSecret: "secret",
			AccessToken: config.TokenConfigs{
				Name:       "access_token",
				Expiration: time.Minute,
			},
		},
		Session: config.SessionConfigs{
			Secret: "session-secret",
			Name:   "versestream",
		},
		Rotation: config.RotationConfigs{
			DefaultInterval: 60,
			FetchTimeout:    time.Second,
			CurrentCacheTTL: 2 * time.Second,
			UserAgent:       "Mozilla/5.0",
			NodeID:          1,
		},
		Bible: config.BibleConfigs{
			APIBase:            "https://bible-api.com",
			DefaultTranslation: "web",
			Timeout:            time.Second,
		},
		Book: config.BookConfigs{
			APIBase:        "https://gutendex.com",
			SearchTimeout:  time.Second,
			ContentTimeout: time.Second,
			MaxTextLength:  800000,
		},
		LLM: config.LLMConfigs{
			APIBase: "https://api.openai.com/v1",
			Model:   "gpt-4o-mini",
			Timeout: time.Second,
		},
		RoleCodes: config.RoleCodeConfigs{
			Host:    "HOST123",
			Mod:     "MOD456",
			CoOwner: "COOWNER789",
			Owner:   "OWNER999",
		},
		Presence: config.PresenceConfigs{
			OnlineWindow: 3 * time.Minute,
			Retention:    24 * time.Hour,
		},
	}
}

func MockContext() context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		panic(err)
	}

	// Every connection to ":memory:" opens a fresh database.
	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxOpenConns(1)

	cfg := MockConfigs()

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, cfg)
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.SILENCE))
	ctx = xcontext.WithTokenEngine(ctx, authenticator.NewTokenEngine[model.AccessToken](
		cfg.Auth.TokenSecret, cfg.Auth.AccessToken.Expiration))
	ctx = xcontext.WithSessionStore(ctx, session.NewCookieStore(cfg.Session.Secret, time.Hour, false))
	ctx = xcontext.WithDB(ctx, db)

	if err := migration.Migrate(ctx); err != nil {
		panic(err)
	}

	return ctx
}

func MockContextWithUserID(userID int64) context.Context {
	return xcontext.WithRequestUserID(MockContext(), userID)
}
