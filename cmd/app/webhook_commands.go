package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/webhooks/cmd/app/commands"
	"github.com/allisson/webhooks/internal/app"
	"github.com/allisson/webhooks/internal/config"
	tenantDomain "github.com/allisson/webhooks/internal/tenant/domain"
)

func getWebhookCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "list-event-types",
			Usage: "List the event types subscriptions can match",
			Flags: []cli.Flag{formatFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				catalog, err := container.Catalog()
				if err != nil {
					return err
				}

				return commands.RunListEventTypes(catalog, commands.DefaultIO().Writer, cmd.String("format"))
			},
		},
		{
			Name:  "create-inbound-webhook",
			Usage: "Register an inbound webhook and print its one-time API key",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "user-id",
					Aliases:  []string{"u"},
					Required: true,
					Usage:    "Owning user id",
				},
				&cli.StringFlag{
					Name:    "company-id",
					Aliases: []string{"c"},
					Usage:   "Owning company id (omit for a user-scoped registration)",
				},
				&cli.StringFlag{
					Name:    "capability",
					Aliases: []string{"p"},
					Usage:   "Processor capability (defaults to event_forward)",
				},
				&cli.StringFlag{
					Name:    "description",
					Aliases: []string{"d"},
					Usage:   "Free-form description",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				registrationUseCase, err := container.RegistrationUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreateInboundWebhook(
					ctx,
					registrationUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					tenantDomain.Principal{
						UserID:    cmd.String("user-id"),
						CompanyID: cmd.String("company-id"),
					},
					cmd.String("capability"),
					cmd.String("description"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "add-company-member",
			Usage: "Record that a user belongs to a company",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "user-id",
					Aliases:  []string{"u"},
					Required: true,
					Usage:    "User id",
				},
				&cli.StringFlag{
					Name:     "company-id",
					Aliases:  []string{"c"},
					Required: true,
					Usage:    "Company id",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				membershipUseCase, err := container.MembershipUseCase()
				if err != nil {
					return err
				}

				return commands.RunAddCompanyMember(
					ctx,
					membershipUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("user-id"),
					cmd.String("company-id"),
					cmd.String("format"),
				)
			},
		},
	}
}
