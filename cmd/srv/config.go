package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/urfave/cli/v2"
	"github.com/versestream/backend/config"
	"github.com/versestream/backend/internal/model"
	"github.com/versestream/backend/pkg/authenticator"
	"github.com/versestream/backend/pkg/crypto"
	"github.com/versestream/backend/pkg/logger"
	"github.com/versestream/backend/pkg/session"
	"github.com/versestream/backend/pkg/xcontext"
)

const sessionMaxAge = 24 * time.Hour

func configFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "config", Usage: "TOML file decoded over the defaults", EnvVars: []string{"CONFIG_FILE"}},
		&cli.StringFlag{Name: "env", Value: "local", EnvVars: []string{"ENV"}},
		&cli.StringFlag{Name: "log-level", Value: "info", EnvVars: []string{"LOG_LEVEL"}},

		&cli.StringFlag{Name: "database-url", Value: "verses.db", EnvVars: []string{"DATABASE_URL"}},
		&cli.StringFlag{Name: "database-log-level", Value: "silent", EnvVars: []string{"DATABASE_LOG_LEVEL"}},

		&cli.StringFlag{Name: "api-host", Value: "0.0.0.0", EnvVars: []string{"API_HOST"}},
		&cli.StringFlag{Name: "api-port", Value: "5000", EnvVars: []string{"PORT"}},
		&cli.StringFlag{Name: "public-url", Value: "http://localhost:5000", EnvVars: []string{"PUBLIC_URL"}},
		&cli.StringSliceFlag{Name: "allowed-origins", EnvVars: []string{"ALLOWED_ORIGINS"}},
		&cli.StringFlag{Name: "static-dir", Value: "./web", EnvVars: []string{"STATIC_DIR"}},

		&cli.StringFlag{Name: "token-secret", EnvVars: []string{"SECRET_KEY"}},
		&cli.StringFlag{Name: "access-token-name", Value: "access_token", EnvVars: []string{"ACCESS_TOKEN_NAME"}},
		&cli.DurationFlag{Name: "access-token-expiration", Value: 30 * 24 * time.Hour, EnvVars: []string{"ACCESS_TOKEN_EXPIRATION"}},
		&cli.StringFlag{Name: "google-issuer", Value: "https://accounts.google.com", EnvVars: []string{"GOOGLE_ISSUER"}},
		&cli.StringFlag{Name: "google-client-id", EnvVars: []string{"GOOGLE_CLIENT_ID"}},
		&cli.StringFlag{Name: "google-client-secret", EnvVars: []string{"GOOGLE_CLIENT_SECRET"}},
		&cli.StringFlag{Name: "session-secret", EnvVars: []string{"SESSION_SECRET"}},
		&cli.StringFlag{Name: "session-name", Value: "versestream", EnvVars: []string{"SESSION_NAME"}},

		&cli.IntFlag{Name: "verse-interval", Value: 60, EnvVars: []string{"VERSE_INTERVAL"}},
		&cli.DurationFlag{Name: "fetch-timeout", Value: 10 * time.Second, EnvVars: []string{"FETCH_TIMEOUT"}},
		&cli.Float64Flag{Name: "current-cache-ttl", Value: 2, Usage: "Seconds", EnvVars: []string{"API_CURRENT_CACHE_TTL"}},
		&cli.StringFlag{Name: "user-agent", Value: "Mozilla/5.0", EnvVars: []string{"FETCH_USER_AGENT"}},
		&cli.Int64Flag{Name: "node-id", Value: 1, EnvVars: []string{"NODE_ID"}},

		&cli.StringFlag{Name: "bible-api-base", Value: "https://bible-api.com", EnvVars: []string{"BIBLE_API_BASE"}},
		&cli.StringFlag{Name: "bible-translation", Value: "web", EnvVars: []string{"BIBLE_API_TRANSLATION"}},
		&cli.DurationFlag{Name: "bible-timeout", Value: 12 * time.Second, EnvVars: []string{"BIBLE_API_TIMEOUT"}},

		&cli.StringFlag{Name: "book-api-base", Value: "https://gutendex.com", EnvVars: []string{"BOOK_API_BASE"}},
		&cli.DurationFlag{Name: "book-search-timeout", Value: 12 * time.Second, EnvVars: []string{"BOOK_SEARCH_TIMEOUT"}},
		&cli.DurationFlag{Name: "book-content-timeout", Value: 20 * time.Second, EnvVars: []string{"BOOK_CONTENT_TIMEOUT"}},
		&cli.IntFlag{Name: "book-max-text-length", Value: 800000, EnvVars: []string{"BOOK_MAX_TEXT_LENGTH"}},

		&cli.StringFlag{Name: "openai-api-base", Value: "https://api.openai.com/v1", EnvVars: []string{"OPENAI_API_BASE"}},
		&cli.StringFlag{Name: "openai-api-key", EnvVars: []string{"OPENAI_API_KEY"}},
		&cli.StringFlag{Name: "openai-model", Value: "gpt-4.1", EnvVars: []string{"OPENAI_MODEL"}},
		&cli.DurationFlag{Name: "openai-timeout", Value: 20 * time.Second, EnvVars: []string{"OPENAI_TIMEOUT"}},

		&cli.StringFlag{Name: "host-code", EnvVars: []string{"HOST_CODE"}},
		&cli.StringFlag{Name: "mod-code", EnvVars: []string{"MOD_CODE"}},
		&cli.StringFlag{Name: "co-owner-code", EnvVars: []string{"CO_OWNER_CODE"}},
		&cli.StringFlag{Name: "owner-code", EnvVars: []string{"OWNER_CODE"}},

		&cli.DurationFlag{Name: "presence-online-window", Value: 3 * time.Minute, EnvVars: []string{"PRESENCE_ONLINE_WINDOW"}},
		&cli.DurationFlag{Name: "presence-retention", Value: 24 * time.Hour, EnvVars: []string{"PRESENCE_RETENTION"}},

		&cli.StringFlag{Name: "search-index-dir", EnvVars: []string{"SEARCH_INDEX_DIR"}},
		&cli.StringFlag{Name: "redis-addr", EnvVars: []string{"REDIS_ADDR"}},
		&cli.StringSliceFlag{Name: "kafka-addrs", EnvVars: []string{"KAFKA_ADDRS"}},
		&cli.StringFlag{Name: "kafka-client-id", Value: "versestream", EnvVars: []string{"KAFKA_CLIENT_ID"}},
		&cli.StringFlag{Name: "kafka-topic", Value: "verse-rotated", EnvVars: []string{"KAFKA_TOPIC"}},
	}
}

// flagReader copies flag values into the configs. With onlySet, flags left
// to their default are skipped so values from the config file survive.
type flagReader struct {
	c       *cli.Context
	onlySet bool
}

func (r flagReader) skip(name string) bool {
	return r.onlySet && !r.c.IsSet(name)
}

func (r flagReader) str(name string, dst *string) {
	if !r.skip(name) {
		*dst = r.c.String(name)
	}
}

func (r flagReader) strs(name string, dst *[]string) {
	if !r.skip(name) {
		*dst = r.c.StringSlice(name)
	}
}

func (r flagReader) integer(name string, dst *int) {
	if !r.skip(name) {
		*dst = r.c.Int(name)
	}
}

func (r flagReader) int64(name string, dst *int64) {
	if !r.skip(name) {
		*dst = r.c.Int64(name)
	}
}

func (r flagReader) duration(name string, dst *time.Duration) {
	if !r.skip(name) {
		*dst = r.c.Duration(name)
	}
}

func (r flagReader) seconds(name string, dst *time.Duration) {
	if !r.skip(name) {
		*dst = time.Duration(r.c.Float64(name) * float64(time.Second))
	}
}

func readConfigs(r flagReader, cfg *config.Configs) {
	r.str("env", &cfg.Env)
	r.str("log-level", &cfg.LogLevel)

	r.str("database-url", &cfg.Database.URL)
	r.str("database-log-level", &cfg.Database.LogLevel)

	r.str("api-host", &cfg.ApiServer.Host)
	r.str("api-port", &cfg.ApiServer.Port)
	r.str("public-url", &cfg.ApiServer.PublicURL)
	r.strs("allowed-origins", &cfg.ApiServer.AllowedOrigins)
	r.str("static-dir", &cfg.ApiServer.StaticDir)

	r.str("token-secret", &cfg.Auth.TokenSecret)
	r.str("access-token-name", &cfg.Auth.AccessToken.Name)
	r.duration("access-token-expiration", &cfg.Auth.AccessToken.Expiration)
	r.str("google-issuer", &cfg.Auth.Google.Issuer)
	r.str("google-client-id", &cfg.Auth.Google.ClientID)
	r.str("google-client-secret", &cfg.Auth.Google.ClientSecret)
	r.str("session-secret", &cfg.Session.Secret)
	r.str("session-name", &cfg.Session.Name)

	r.integer("verse-interval", &cfg.Rotation.DefaultInterval)
	r.duration("fetch-timeout", &cfg.Rotation.FetchTimeout)
	r.seconds("current-cache-ttl", &cfg.Rotation.CurrentCacheTTL)
	r.str("user-agent", &cfg.Rotation.UserAgent)
	r.int64("node-id", &cfg.Rotation.NodeID)

	r.str("bible-api-base", &cfg.Bible.APIBase)
	r.str("bible-translation", &cfg.Bible.DefaultTranslation)
	r.duration("bible-timeout", &cfg.Bible.Timeout)

	r.str("book-api-base", &cfg.Book.APIBase)
	r.duration("book-search-timeout", &cfg.Book.SearchTimeout)
	r.duration("book-content-timeout", &cfg.Book.ContentTimeout)
	r.integer("book-max-text-length", &cfg.Book.MaxTextLength)

	r.str("openai-api-base", &cfg.LLM.APIBase)
	r.str("openai-api-key", &cfg.LLM.APIKey)
	r.str("openai-model", &cfg.LLM.Model)
	r.duration("openai-timeout", &cfg.LLM.Timeout)

	r.str("host-code", &cfg.RoleCodes.Host)
	r.str("mod-code", &cfg.RoleCodes.Mod)
	r.str("co-owner-code", &cfg.RoleCodes.CoOwner)
	r.str("owner-code", &cfg.RoleCodes.Owner)

	r.duration("presence-online-window", &cfg.Presence.OnlineWindow)
	r.duration("presence-retention", &cfg.Presence.Retention)

	r.str("search-index-dir", &cfg.Search.IndexDir)
	r.str("redis-addr", &cfg.Redis.Addr)
	r.strs("kafka-addrs", &cfg.Kafka.Addrs)
	r.str("kafka-client-id", &cfg.Kafka.ClientID)
	r.str("kafka-topic", &cfg.Kafka.Topic)
}

// loadConfig builds the process context: flag defaults, then the optional
// TOML file, then flags given explicitly or through the environment.
func (s *srv) loadConfig(c *cli.Context) error {
	cfg := config.Configs{}
	cfg.Auth.Google.Name = "google"
	readConfigs(flagReader{c: c}, &cfg)

	if path := c.String("config"); path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return err
		}

		readConfigs(flagReader{c: c, onlySet: true}, &cfg)
	}

	s.ctx = context.Background()
	s.ctx = xcontext.WithLogger(s.ctx, logger.NewLogger(logger.ParseLevel(cfg.LogLevel)))

	if err := fillSecret(s.ctx, "SECRET_KEY", &cfg.Auth.TokenSecret); err != nil {
		return err
	}

	if err := fillSecret(s.ctx, "SESSION_SECRET", &cfg.Session.Secret); err != nil {
		return err
	}

	warnMissingRoleCodes(s.ctx, cfg.RoleCodes)

	secure := cfg.Env != "local" && cfg.Env != "test"

	s.ctx = xcontext.WithConfigs(s.ctx, cfg)
	s.ctx = xcontext.WithHTTPClient(s.ctx, &http.Client{})
	s.ctx = xcontext.WithTokenEngine(s.ctx, authenticator.NewTokenEngine[model.AccessToken](
		cfg.Auth.TokenSecret, cfg.Auth.AccessToken.Expiration))
	s.ctx = xcontext.WithSessionStore(s.ctx, session.NewCookieStore(cfg.Session.Secret, sessionMaxAge, secure))

	return nil
}

func warnMissingRoleCodes(ctx context.Context, codes config.RoleCodeConfigs) {
	for _, c := range []struct{ name, value string }{
		{"HOST_CODE", codes.Host},
		{"MOD_CODE", codes.Mod},
		{"CO_OWNER_CODE", codes.CoOwner},
		{"OWNER_CODE", codes.Owner},
	} {
		if strings.TrimSpace(c.value) == "" {
			xcontext.Logger(ctx).Warnf("%s is not set, its role cannot be redeemed", c.name)
		}
	}
}

// fillSecret generates a random secret when none is configured. Tokens and
// sessions signed with it do not survive a restart.
func fillSecret(ctx context.Context, name string, secret *string) error {
	if *secret != "" {
		return nil
	}

	generated, err := crypto.GenerateRandomString()
	if err != nil {
		return err
	}

	xcontext.Logger(ctx).Warnf("%s is not set, using a random one", name)
	*secret = generated
	return nil
}
