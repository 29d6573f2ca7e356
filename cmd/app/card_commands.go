package main

import (
	"context"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/allisson/cardtoken/cmd/app/commands"
	"github.com/allisson/cardtoken/internal/app"
	"github.com/allisson/cardtoken/internal/card/usecase"
	"github.com/allisson/cardtoken/internal/config"
	"github.com/allisson/cardtoken/internal/threeds"
)

func cardFormFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "number",
			Aliases: []string{"n"},
			Usage:   "Card number, spaces allowed",
		},
		&cli.StringFlag{
			Name:    "expiration",
			Aliases: []string{"e"},
			Usage:   "Expiration as MM/YY",
		},
		&cli.StringFlag{
			Name:    "cvc",
			Aliases: []string{"c"},
			Usage:   "Card security code",
		},
		&cli.StringFlag{
			Name:  "holder-name",
			Usage: "Card holder name",
		},
		&cli.StringFlag{
			Name:  "email",
			Usage: "Holder email for 3-D Secure",
		},
		&cli.StringFlag{
			Name:  "phone",
			Usage: "Holder phone number for 3-D Secure",
		},
		formatFlag(),
	}
}

func formInputFromFlags(cmd *cli.Command) usecase.FormInput {
	return usecase.FormInput{
		Number:     cmd.String("number"),
		Expiration: cmd.String("expiration"),
		CVC:        cmd.String("cvc"),
		HolderName: cmd.String("holder-name"),
		Email:      cmd.String("email"),
		Phone:      cmd.String("phone"),
	}
}

func getCardCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "validate-card",
			Usage: "Validate a card form locally without contacting the gateway",
			Flags: cardFormFlags(),
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				useCaseConfig, err := app.UseCaseConfig(cfg, cfg.APIBaseURL)
				if err != nil {
					return err
				}

				vc := usecase.ValidationContext{
					Now:         time.Now(),
					PhoneRegion: useCaseConfig.PhoneRegion,
					Delimiter:   useCaseConfig.Delimiter,
					HolderName:  useCaseConfig.HolderName,
					Email:       useCaseConfig.Email,
					Phone:       useCaseConfig.Phone,
					TenantID:    useCaseConfig.TenantID,
				}

				return commands.RunValidateCard(
					formInputFromFlags(cmd),
					vc,
					container.PhoneNormalizer(),
					cmd.String("format"),
					commands.DefaultIO().Writer,
				)
			},
		},
		{
			Name:  "create-token",
			Usage: "Validate a card form and create a token through the gateway",
			Flags: cardFormFlags(),
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				tokenizationUseCase, err := container.TokenizationUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreateToken(
					ctx,
					tokenizationUseCase,
					container.Logger(),
					formInputFromFlags(cmd),
					cmd.String("format"),
					commands.DefaultIO().Writer,
				)
			},
		},
		{
			Name:  "create-token-tds",
			Usage: "Create a token from a completed 3-D Secure token",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "id",
					Aliases:  []string{"i"},
					Required: true,
					Usage:    "3-D Secure token ID (tds_...)",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				tokenizationUseCase, err := container.TokenizationUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreateTokenFromThreeDSecure(
					ctx,
					tokenizationUseCase,
					container.Logger(),
					cmd.String("id"),
					cmd.String("format"),
					commands.DefaultIO().Writer,
				)
			},
		},
		{
			Name:  "accepted-brands",
			Usage: "List the card brands accepted by the account",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "tenant",
					Aliases: []string{"t"},
					Usage:   "Tenant ID (defaults to API_TENANT_ID)",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				tokenizationUseCase, err := container.TokenizationUseCase()
				if err != nil {
					return err
				}

				return commands.RunAcceptedBrands(
					ctx,
					tokenizationUseCase,
					cmd.String("tenant"),
					cmd.String("format"),
					commands.DefaultIO().Writer,
				)
			},
		},
		{
			Name:  "tds-url",
			Usage: "Print the 3-D Secure challenge URLs of a token",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "id",
					Aliases:  []string{"i"},
					Required: true,
					Usage:    "3-D Secure token ID (tds_...)",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()

				return commands.RunTDSURL(
					cmd.String("id"),
					threeds.URLConfig{
						BaseURL:      cfg.APIBaseURL,
						PublicKey:    cfg.APIPublicKey,
						RedirectName: cfg.TDSRedirectName,
					},
					cmd.String("format"),
					commands.DefaultIO().Writer,
				)
			},
		},
	}
}
