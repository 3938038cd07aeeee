package main

import (
	"github.com/urfave/cli/v2"
	"github.com/versestream/backend/migration"
	"github.com/versestream/backend/pkg/xcontext"
)

func (s *srv) startMigrate(c *cli.Context) error {
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())

	version := c.Int("version")
	if version < 0 {
		return migration.Migrate(s.ctx)
	}

	return migration.Run(s.ctx, version)
}
