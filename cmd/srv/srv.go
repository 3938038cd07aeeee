package main

import (
	"context"
	"net/http"

	"github.com/urfave/cli/v2"
	"github.com/versestream/backend/internal/client"
	"github.com/versestream/backend/internal/domain"
	"github.com/versestream/backend/internal/domain/rotation"
	"github.com/versestream/backend/internal/domain/search"
	"github.com/versestream/backend/internal/repository"
	"github.com/versestream/backend/migration"
	"github.com/versestream/backend/pkg/api"
	"github.com/versestream/backend/pkg/authenticator"
	"github.com/versestream/backend/pkg/dbutil"
	"github.com/versestream/backend/pkg/kafka"
	"github.com/versestream/backend/pkg/pubsub"
	"github.com/versestream/backend/pkg/router"
	"github.com/versestream/backend/pkg/ws"
	"github.com/versestream/backend/pkg/xcontext"
	"github.com/versestream/backend/pkg/xredis"
	"gorm.io/gorm"
)

// verseIndex is the search index, fed by the rotator.
type verseIndex interface {
	search.Index
	rotation.Subscriber
	IndexStoredVerses(ctx context.Context, verseRepo repository.VerseRepository) error
}

type srv struct {
	app *cli.App
	ctx context.Context

	redisClient   xredis.Client
	publisher     pubsub.Publisher
	oauth2Service authenticator.OAuth2Service
	searchIndex   verseIndex
	hub           *ws.Hub
	rotator       *rotation.Rotator

	userRepo         repository.UserRepository
	verseRepo        repository.VerseRepository
	likeRepo         repository.LikeRepository
	saveRepo         repository.SaveRepository
	collectionRepo   repository.CollectionRepository
	commentRepo      repository.CommentRepository
	communityRepo    repository.CommunityRepository
	replyRepo        repository.ReplyRepository
	reactionRepo     repository.ReactionRepository
	dailyActionRepo  repository.DailyActionRepository
	auditLogRepo     repository.AuditLogRepository
	banRepo          repository.BanRepository
	restrictionRepo  repository.CommentRestrictionRepository
	settingRepo      repository.SettingRepository
	presenceRepo     repository.PresenceRepository
	notificationRepo repository.NotificationRepository

	authDomain           domain.AuthDomain
	userDomain           domain.UserDomain
	verseDomain          domain.VerseDomain
	socialDomain         domain.SocialDomain
	commentDomain        domain.CommentDomain
	recommendationDomain domain.RecommendationDomain
	bibleDomain          domain.BibleDomain
	bookDomain           domain.BookDomain
	presenceDomain       domain.PresenceDomain
	notificationDomain   domain.NotificationDomain
	moderationDomain     domain.ModerationDomain

	router *router.Router
	server *http.Server
}

func (s *srv) newDatabase() *gorm.DB {
	cfg := xcontext.Configs(s.ctx).Database
	db, err := dbutil.Open(cfg.URL, cfg.LogLevel)
	if err != nil {
		panic(err)
	}

	xcontext.Logger(s.ctx).Infof("Connected to %s database", dbutil.Dialect(cfg.URL))
	return db
}

func (s *srv) migrateDB() {
	if err := migration.Migrate(s.ctx); err != nil {
		panic(err)
	}
}

func (s *srv) loadDatabase() {
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.migrateDB()
}

// loadRedisClient leaves the client nil when redis is not configured or not
// reachable, presence then only uses the database.
func (s *srv) loadRedisClient() {
	if !xcontext.Configs(s.ctx).Redis.Enabled() {
		return
	}

	redisClient, err := xredis.NewClient(s.ctx)
	if err != nil {
		xcontext.Logger(s.ctx).Warnf("Cannot connect to redis, presence falls back to the database: %v", err)
		return
	}

	s.redisClient = redisClient
}

func (s *srv) loadPublisher() {
	cfg := xcontext.Configs(s.ctx).Kafka
	if !cfg.Enabled() {
		return
	}

	publisher, err := kafka.NewPublisher(cfg.ClientID, cfg.Addrs)
	if err != nil {
		xcontext.Logger(s.ctx).Warnf("Cannot connect to kafka, rotations will not be published: %v", err)
		return
	}

	s.publisher = publisher
}

func (s *srv) loadOAuth2Service() {
	cfg := xcontext.Configs(s.ctx)
	if cfg.Auth.Google.ClientID == "" {
		xcontext.Logger(s.ctx).Warnf("GOOGLE_CLIENT_ID is not set, google login is disabled")
		return
	}

	oauth2Service, err := authenticator.NewOAuth2Config(
		s.ctx, cfg.Auth.Google, cfg.ApiServer.PublicURL+"/callback")
	if err != nil {
		xcontext.Logger(s.ctx).Errorf("Cannot discover google endpoints, google login is disabled: %v", err)
		return
	}

	s.oauth2Service = oauth2Service
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.verseRepo = repository.NewVerseRepository()
	s.likeRepo = repository.NewLikeRepository()
	s.saveRepo = repository.NewSaveRepository()
	s.collectionRepo = repository.NewCollectionRepository()
	s.commentRepo = repository.NewCommentRepository()
	s.communityRepo = repository.NewCommunityRepository()
	s.replyRepo = repository.NewReplyRepository()
	s.reactionRepo = repository.NewReactionRepository()
	s.dailyActionRepo = repository.NewDailyActionRepository()
	s.auditLogRepo = repository.NewAuditLogRepository()
	s.banRepo = repository.NewBanRepository()
	s.restrictionRepo = repository.NewCommentRestrictionRepository()
	s.settingRepo = repository.NewSettingRepository()
	s.presenceRepo = repository.NewPresenceRepository()
	s.notificationRepo = repository.NewNotificationRepository()
}

func (s *srv) loadSearchIndex() {
	s.searchIndex = search.NewBleveIndex(s.ctx)
	if err := s.searchIndex.IndexStoredVerses(s.ctx, s.verseRepo); err != nil {
		xcontext.Logger(s.ctx).Errorf("Cannot index stored verses: %v", err)
	}
}

func (s *srv) loadRotator() {
	cfg := xcontext.Configs(s.ctx)

	sourceCaller := client.NewVerseSourceCaller(api.NewGenerator(""))
	rotator, err := rotation.NewRotator(s.ctx, s.verseRepo, s.settingRepo, sourceCaller)
	if err != nil {
		panic(err)
	}

	s.hub = ws.NewHub(cfg.ApiServer.AllowedOrigins)
	rotator.Subscribe(rotation.NewHubSubscriber(s.hub))
	rotator.Subscribe(s.searchIndex)
	if s.publisher != nil {
		rotator.Subscribe(rotation.NewPublisherSubscriber(s.publisher, cfg.Kafka.Topic))
	}

	s.rotator = rotator
}

func (s *srv) loadDomains() {
	cfg := xcontext.Configs(s.ctx)

	llmCaller := client.NewLLMCaller(api.NewGenerator(cfg.LLM.APIBase))
	bibleCaller := client.NewBibleCaller(api.NewGenerator(cfg.Bible.APIBase))
	gutendexCaller := client.NewGutendexCaller(api.NewGenerator(cfg.Book.APIBase), api.NewGenerator(""))

	s.authDomain = domain.NewAuthDomain(s.userRepo, s.banRepo, s.oauth2Service)
	s.userDomain = domain.NewUserDomain(s.userRepo, s.verseRepo, s.likeRepo, s.saveRepo,
		s.commentRepo, s.communityRepo, s.replyRepo, s.auditLogRepo)
	s.verseDomain = domain.NewVerseDomain(s.ctx, s.rotator, s.searchIndex, s.verseRepo)
	s.socialDomain = domain.NewSocialDomain(s.verseRepo, s.likeRepo, s.saveRepo,
		s.collectionRepo, s.dailyActionRepo)
	s.commentDomain = domain.NewCommentDomain(s.userRepo, s.commentRepo, s.communityRepo,
		s.replyRepo, s.reactionRepo, s.restrictionRepo, s.auditLogRepo, s.dailyActionRepo)
	s.recommendationDomain = domain.NewRecommendationDomain(s.verseRepo, s.dailyActionRepo)
	s.bibleDomain = domain.NewBibleDomain(bibleCaller, llmCaller)
	s.bookDomain = domain.NewBookDomain(gutendexCaller, llmCaller)
	s.presenceDomain = domain.NewPresenceDomain(s.presenceRepo, s.redisClient)
	s.notificationDomain = domain.NewNotificationDomain(s.notificationRepo)
	s.loadModerationDomain()
}

func (s *srv) loadModerationDomain() {
	s.moderationDomain = domain.NewModerationDomain(s.userRepo, s.banRepo, s.restrictionRepo,
		s.notificationRepo, s.settingRepo, s.auditLogRepo)
}
