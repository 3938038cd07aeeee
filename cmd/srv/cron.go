package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	"github.com/versestream/backend/internal/domain/cron"
)

func (s *srv) startCron(*cli.Context) error {
	s.loadDatabase()
	s.loadRedisClient()
	s.loadRepos()

	ctx, stop := signal.NotifyContext(s.ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cronJobManager := cron.NewCronJobManager()
	cronJobManager.Register(cron.NewCleanupPresenceCronJob(s.presenceRepo, s.redisClient))
	cronJobManager.Start(ctx)

	return nil
}
