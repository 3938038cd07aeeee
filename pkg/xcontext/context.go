package xcontext

import (
	"context"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/versestream/backend/config"
	"github.com/versestream/backend/internal/model"
	"github.com/versestream/backend/pkg/authenticator"
	"github.com/versestream/backend/pkg/logger"
	"gorm.io/gorm"
)

type (
	configsKey      struct{}
	loggerKey       struct{}
	dbKey           struct{}
	txKey           struct{}
	httpClientKey   struct{}
	tokenEngineKey  struct{}
	sessionStoreKey struct{}
)

func WithConfigs(ctx context.Context, cfg config.Configs) context.Context {
	return context.WithValue(ctx, configsKey{}, cfg)
}

func Configs(ctx context.Context) config.Configs {
	cfg, ok := ctx.Value(configsKey{}).(config.Configs)
	if !ok {
		return config.Configs{}
	}

	return cfg
}

func WithLogger(ctx context.Context, l logger.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

func Logger(ctx context.Context) logger.Logger {
	l, ok := ctx.Value(loggerKey{}).(logger.Logger)
	if !ok {
		return logger.NewLogger(logger.INFO)
	}

	return l
}

func WithDB(ctx context.Context, db *gorm.DB) context.Context {
	return context.WithValue(ctx, dbKey{}, db)
}

// DB returns the gorm.DB bound to the given context, so every statement is
// cancelled together with the request.
func DB(ctx context.Context) *gorm.DB {
	db, ok := ctx.Value(dbKey{}).(*gorm.DB)
	if !ok {
		return nil
	}

	return db.WithContext(ctx)
}

func WithHTTPClient(ctx context.Context, client *http.Client) context.Context {
	return context.WithValue(ctx, httpClientKey{}, client)
}

func HTTPClient(ctx context.Context) *http.Client {
	client, ok := ctx.Value(httpClientKey{}).(*http.Client)
	if !ok {
		return http.DefaultClient
	}

	return client
}

func WithTokenEngine(
	ctx context.Context, engine authenticator.TokenEngine[model.AccessToken],
) context.Context {
	return context.WithValue(ctx, tokenEngineKey{}, engine)
}

func TokenEngine(ctx context.Context) authenticator.TokenEngine[model.AccessToken] {
	engine, ok := ctx.Value(tokenEngineKey{}).(authenticator.TokenEngine[model.AccessToken])
	if !ok {
		return nil
	}

	return engine
}

func WithSessionStore(ctx context.Context, store sessions.Store) context.Context {
	return context.WithValue(ctx, sessionStoreKey{}, store)
}

func SessionStore(ctx context.Context) sessions.Store {
	store, ok := ctx.Value(sessionStoreKey{}).(sessions.Store)
	if !ok {
		return nil
	}

	return store
}

// WithDBTransaction begins a transaction and binds it to the returned context.
// Every repository call made with that context joins the transaction until
// WithCommitDBTransaction or WithRollbackDBTransaction is called.
func WithDBTransaction(ctx context.Context) context.Context {
	tx := DB(ctx).Begin()
	ctx = context.WithValue(ctx, dbKey{}, tx)
	return context.WithValue(ctx, txKey{}, tx)
}

func WithCommitDBTransaction(ctx context.Context) error {
	tx, ok := ctx.Value(txKey{}).(*gorm.DB)
	if !ok {
		return nil
	}

	return tx.Commit().Error
}

// WithRollbackDBTransaction does nothing once the transaction is committed.
func WithRollbackDBTransaction(ctx context.Context) {
	tx, ok := ctx.Value(txKey{}).(*gorm.DB)
	if !ok {
		return
	}

	tx.Rollback()
}
