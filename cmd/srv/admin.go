package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"github.com/versestream/backend/internal/model"
)

var (
	userFlag = &cli.Int64Flag{Name: "user", Usage: "Target user id", Required: true}

	reasonFlag = &cli.StringFlag{Name: "reason", Value: "Violation of community guidelines"}
)

// adminCommands are run by operators on the server host. The actions are
// audited with admin id 0.
func adminCommands(s *srv) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "ban",
			Usage: "Ban a user, permanently when --hours is 0",
			Flags: []cli.Flag{userFlag, reasonFlag, &cli.IntFlag{Name: "hours"}},
			Action: s.adminAction(func(c *cli.Context) (string, error) {
				err := s.moderationDomain.BanUser(s.ctx, &model.BanUserRequest{
					UserID: c.Int64("user"),
					Reason: c.String("reason"),
					Hours:  c.Int("hours"),
				})
				return fmt.Sprintf("User %d banned", c.Int64("user")), err
			}),
		},
		{
			Name:  "unban",
			Usage: "Lift the ban of a user",
			Flags: []cli.Flag{userFlag},
			Action: s.adminAction(func(c *cli.Context) (string, error) {
				err := s.moderationDomain.UnbanUser(s.ctx, &model.UnbanUserRequest{UserID: c.Int64("user")})
				return fmt.Sprintf("User %d unbanned", c.Int64("user")), err
			}),
		},
		{
			Name:  "restrict",
			Usage: "Forbid a user to post for 1 to 24 hours",
			Flags: []cli.Flag{userFlag, reasonFlag, &cli.IntFlag{Name: "hours", Value: 24}},
			Action: s.adminAction(func(c *cli.Context) (string, error) {
				err := s.moderationDomain.RestrictUser(s.ctx, &model.RestrictUserRequest{
					UserID: c.Int64("user"),
					Reason: c.String("reason"),
					Hours:  c.Int("hours"),
				})
				return fmt.Sprintf("User %d restricted for %d hours", c.Int64("user"), c.Int("hours")), err
			}),
		},
		{
			Name:  "unrestrict",
			Usage: "Lift the comment restriction of a user",
			Flags: []cli.Flag{userFlag},
			Action: s.adminAction(func(c *cli.Context) (string, error) {
				err := s.moderationDomain.UnrestrictUser(s.ctx, &model.UnrestrictUserRequest{
					UserID: c.Int64("user"),
				})
				return fmt.Sprintf("User %d unrestricted", c.Int64("user")), err
			}),
		},
		{
			Name:  "notify",
			Usage: "Send a notification to a user, or to everyone without --user",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "title", Value: "Notification"},
				&cli.StringFlag{Name: "message", Required: true},
				&cli.Int64Flag{Name: "user"},
			},
			Action: s.adminAction(func(c *cli.Context) (string, error) {
				resp, err := s.moderationDomain.Notify(s.ctx, &model.NotifyRequest{
					UserID:  c.Int64("user"),
					Title:   c.String("title"),
					Message: c.String("message"),
				})
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("Sent %d notifications", resp.Sent), nil
			}),
		},
		{
			Name:  "maintenance",
			Usage: "Turn maintenance mode on or off",
			Flags: []cli.Flag{&cli.BoolFlag{Name: "on"}, &cli.BoolFlag{Name: "off"}},
			Action: s.adminAction(func(c *cli.Context) (string, error) {
				if c.Bool("on") == c.Bool("off") {
					return "", fmt.Errorf("exactly one of --on and --off is required")
				}

				err := s.moderationDomain.SetMaintenance(s.ctx, &model.SetMaintenanceRequest{Enabled: c.Bool("on")})
				return fmt.Sprintf("Maintenance mode on: %v", c.Bool("on")), err
			}),
		},
		{
			Name:  "interval",
			Usage: "Change the verse rotation interval, running servers pick it up after their next rotation",
			Flags: []cli.Flag{&cli.IntFlag{Name: "seconds", Required: true}},
			Action: s.adminAction(func(c *cli.Context) (string, error) {
				err := s.moderationDomain.SetInterval(s.ctx, c.Int("seconds"))
				return fmt.Sprintf("Interval set to %d seconds", c.Int("seconds")), err
			}),
		},
	}
}

func (s *srv) adminAction(action func(c *cli.Context) (string, error)) cli.ActionFunc {
	return func(c *cli.Context) error {
		s.loadDatabase()
		s.loadRepos()
		s.loadModerationDomain()

		msg, err := action(c)
		if err != nil {
			return err
		}

		fmt.Println(msg)
		return nil
	}
}
