package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"
	"github.com/versestream/backend/internal/common"
	"github.com/versestream/backend/internal/middleware"
	pkgprometheus "github.com/versestream/backend/pkg/prometheus"
	"github.com/versestream/backend/pkg/router"
	"github.com/versestream/backend/pkg/xcontext"
)

const shutdownTimeout = 10 * time.Second

func (s *srv) startApi(*cli.Context) error {
	s.loadDatabase()
	s.loadRedisClient()
	s.loadPublisher()
	s.loadOAuth2Service()
	s.loadRepos()
	s.loadSearchIndex()
	s.loadRotator()
	s.loadDomains()
	s.loadRouter()

	ctx, stop := signal.NotifyContext(s.ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go s.hub.Run(ctx)
	s.rotator.Start(ctx)

	cfg := xcontext.Configs(s.ctx)
	s.server = &http.Server{
		Addr:    cfg.ApiServer.Address(),
		Handler: s.router.Handler(cfg.ApiServer.AllowedOrigins),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := s.server.Shutdown(shutdownCtx); err != nil {
			xcontext.Logger(s.ctx).Errorf("Cannot shutdown server gracefully: %v", err)
		}
	}()

	xcontext.Logger(s.ctx).Infof("Starting server on %s", cfg.ApiServer.Address())
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	s.searchIndex.Close()
	if s.publisher != nil {
		if err := s.publisher.Stop(s.ctx); err != nil {
			xcontext.Logger(s.ctx).Warnf("Cannot stop publisher: %v", err)
		}
	}

	xcontext.Logger(s.ctx).Infof("Server stopped")
	return nil
}

func (s *srv) loadRouter() {
	cfg := xcontext.Configs(s.ctx)

	s.router = router.New(s.ctx)
	s.router.Before(middleware.WithStartTime())
	s.router.AddCloser(middleware.Logger())
	s.router.AddCloser(middleware.Prometheus())

	s.router.Handle(http.MethodGet, "/metrics", pkgprometheus.NewHandler(promCollectors()...))
	s.router.Handle(http.MethodGet, "/ws/verse", s.hub)
	if cfg.ApiServer.StaticDir != "" {
		s.router.Static(cfg.ApiServer.StaticDir)
	}

	router.GET(s.router, "/health", s.verseDomain.Health)

	// Login flow. Redirects must run last.
	authRouter := s.router.Branch()
	authRouter.After(middleware.HandleSaveSession())
	authRouter.After(middleware.HandleSetAccessToken())
	authRouter.After(middleware.HandleRedirect())
	{
		if s.oauth2Service != nil {
			router.GET(authRouter, "/google-login", s.authDomain.GoogleLogin)
			router.GET(authRouter, "/callback", s.authDomain.Callback)
		}
		router.GET(authRouter, "/logout", s.authDomain.Logout)
	}

	gate := middleware.NewGate(s.userRepo, s.banRepo, s.settingRepo)

	// A banned user must still be able to learn why.
	banRouter := s.router.Group("/api")
	banRouter.Before(middleware.NewAuthVerifier().Optional().Middleware())
	{
		router.GET(banRouter, "/check_ban", s.authDomain.CheckBan)
	}

	// These following APIs answer anonymous callers too.
	publicRouter := s.router.Group("/api")
	publicRouter.Before(middleware.NewAuthVerifier().Optional().Middleware())
	publicRouter.Before(gate.Maintenance())
	publicRouter.Before(gate.Ban())
	{
		router.GET(publicRouter, "/comments/:verse_id", s.commentDomain.GetComments)
		router.GET(publicRouter, "/community", s.commentDomain.GetCommunity)
		router.GET(publicRouter, "/check_like/:verse_id", s.socialDomain.CheckLike)
		router.GET(publicRouter, "/check_save/:verse_id", s.socialDomain.CheckSave)
		router.GET(publicRouter, "/library", s.socialDomain.GetLibrary)
		router.GET(publicRouter, "/verses/search", s.verseDomain.Search)
	}

	// These following APIs need a logged in user.
	userRouter := s.router.Group("/api")
	userRouter.Before(middleware.NewAuthVerifier().Middleware())
	userRouter.Before(gate.Maintenance())
	userRouter.Before(gate.Ban())
	userRouter.After(middleware.HandleSetAccessToken())
	{
		// Verse API
		router.GET(userRouter, "/current", s.verseDomain.GetCurrent)

		// User API
		router.GET(userRouter, "/user_info", s.userDomain.GetUserInfo)
		router.POST(userRouter, "/user/update-name", s.userDomain.UpdateName)
		router.POST(userRouter, "/verify_role_code", s.userDomain.VerifyRoleCode)
		router.GET(userRouter, "/stats", s.userDomain.GetStats)

		// Social API
		router.POST(userRouter, "/like", s.socialDomain.Like)
		router.POST(userRouter, "/save", s.socialDomain.Save)
		router.GET(userRouter, "/liked_verses", s.socialDomain.GetLikedVerses)
		router.GET(userRouter, "/saved_verses", s.socialDomain.GetSavedVerses)
		router.POST(userRouter, "/collections/create", s.socialDomain.CreateCollection)
		router.POST(userRouter, "/collections/add", s.socialDomain.AddToCollection)

		// Comment API
		router.POST(userRouter, "/comments", s.commentDomain.PostComment)
		router.POST(userRouter, "/community", s.commentDomain.PostCommunity)
		router.POST(userRouter, "/comments/reaction", s.commentDomain.React)
		router.POST(userRouter, "/comments/replies", s.commentDomain.PostReply)

		// Recommendation API
		router.GET(userRouter, "/recommendations", s.recommendationDomain.GetRecommendations)
		router.POST(userRouter, "/generate-recommendation", s.recommendationDomain.Generate)
		router.GET(userRouter, "/mood/:mood", s.recommendationDomain.GetMoodVerse)
		router.GET(userRouter, "/daily_challenge", s.recommendationDomain.GetDailyChallenge)

		// Reading API
		router.GET(userRouter, "/bible/books", s.bibleDomain.GetBooks)
		router.GET(userRouter, "/bible/chapter", s.bibleDomain.GetChapter)
		router.GET(userRouter, "/bible/picks", s.bibleDomain.GetPicks)
		router.GET(userRouter, "/books/search", s.bookDomain.Search)
		router.GET(userRouter, "/books/content/:id", s.bookDomain.GetContent)

		// Presence and notification API
		router.POST(userRouter, "/presence/ping", s.presenceDomain.Ping)
		router.GET(userRouter, "/presence/online", s.presenceDomain.Online)
		router.GET(userRouter, "/notifications", s.notificationDomain.GetNotifications)
		router.POST(userRouter, "/notifications/read", s.notificationDomain.ReadAll)
	}

	// Admin API.
	adminRouter := s.router.Group("/api")
	adminRouter.Before(middleware.NewAuthVerifier().Middleware())
	adminRouter.Before(middleware.NewOnlyAdmin(s.userRepo).Middleware())
	{
		router.POST(adminRouter, "/set_interval", s.verseDomain.SetInterval)
		router.DELETE(adminRouter, "/admin/delete_comment/:id", s.commentDomain.DeleteComment)
		router.DELETE(adminRouter, "/admin/delete_community/:id", s.commentDomain.DeleteCommunity)
	}
}

func promCollectors() []prometheus.Collector {
	collectors := []prometheus.Collector{}
	for _, counter := range common.PromCounters {
		collectors = append(collectors, counter)
	}

	for _, histogram := range common.PromHistograms {
		collectors = append(collectors, histogram)
	}

	return collectors
}
