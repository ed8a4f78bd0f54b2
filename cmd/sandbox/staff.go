package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/ieee-sb/thesandbox/app/modules/auth"
	authdomain "github.com/ieee-sb/thesandbox/app/modules/auth/domain"
	"github.com/ieee-sb/thesandbox/app/modules/user"
	userservice "github.com/ieee-sb/thesandbox/app/modules/user/application"
	"github.com/ieee-sb/thesandbox/pkg/clock"
	"github.com/urfave/cli/v2"
)

// cliActor is the identity staff commands act as. The shell has database
// access already, so it is treated as a super admin.
var cliActor = &authdomain.Claims{
	Subject: uuid.Nil,
	Kind:    authdomain.SubjectStaff,
	Email:   "cli@localhost",
	Role:    authdomain.RoleSuperAdmin,
}

func newStaffCommand() *cli.Command {
	return &cli.Command{
		Name:  "staff",
		Usage: "manage committee accounts",
		Subcommands: []*cli.Command{
			{
				Name:  "create",
				Usage: "create a committee account, typically the first super admin",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "name", Required: true},
					&cli.StringFlag{Name: "role", Value: string(authdomain.RoleReviewer), Usage: "reviewer, admin or superadmin"},
					&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"SANDBOX_STAFF_PASSWORD"}},
				},
				Action: func(c *cli.Context) error {
					cfg, obs, db, err := openDB(c)
					if err != nil {
						return err
					}
					defer db.Close()

					authModule, err := auth.NewModule(c.Context, cfg, obs, nil)
					if err != nil {
						return err
					}
					userModule, err := user.NewUserModule(c.Context, cfg, obs, db, nil, authModule, clock.RealClock{})
					if err != nil {
						return err
					}

					staff, err := userModule.UserService.CreateStaff(c.Context, cliActor, userservice.CreateStaffInput{
						Email:    c.String("email"),
						FullName: c.String("name"),
						Password: c.String("password"),
						Role:     authdomain.Role(c.String("role")),
					})
					if err != nil {
						return err
					}
					fmt.Printf("Created %s account %s (%s)\n", staff.Role, staff.Email, staff.ID)
					return nil
				},
			},
		},
	}
}
