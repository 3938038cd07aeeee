package main

import "github.com/urfave/cli/v2"

func (s *srv) loadApp() {
	app := cli.NewApp()
	app.Action = cli.ShowAppHelp
	app.Name = "versestream"
	app.Usage = "Rotating scripture, social reading and moderation backend"
	app.Flags = configFlags()
	app.Before = s.loadConfig
	app.Commands = []*cli.Command{
		{
			Action:      s.startApi,
			Name:        "api",
			Usage:       "Start service api",
			Category:    "Api",
			Description: `Serves the JSON api, the verse websocket and the static site, and runs the verse rotator.`,
		},
		{
			Action:   s.startMigrate,
			Name:     "migrate",
			Usage:    "Apply database migrations",
			Category: "Database",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "version",
					Usage: "Only apply this migration version, every pending one when omitted",
					Value: -1,
				},
			},
		},
		{
			Action:      s.startCron,
			Name:        "cron",
			Usage:       "Start cron jobs",
			Category:    "Worker",
			Description: `Runs the periodic cleanup jobs until interrupted.`,
		},
		{
			Name:        "admin",
			Usage:       "Moderate users and site settings",
			Category:    "Admin",
			Subcommands: adminCommands(s),
		},
	}

	s.app = app
}
