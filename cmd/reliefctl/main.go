package main

import (
	"errors"
	"fmt"
	"os"

	"relief-exchange/internal/config"
	entity "relief-exchange/internal/domain"
	"relief-exchange/internal/logger"
	"relief-exchange/internal/repository"
	"relief-exchange/internal/service"
	"relief-exchange/internal/storage"
	utils "relief-exchange/pkg"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	app := &cli.App{
		Name:  "reliefctl",
		Usage: "Operator tasks for the relief exchange",
		Commands: []*cli.Command{
			expireCmd,
			reconcileCmd,
			tokenCmd,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Println("Error: ", err)
		os.Exit(1)
	}
}

// withStore opens the configured backend for the duration of fn.
func withStore(ctx *cli.Context, fn func(store repository.Store, log *zap.Logger) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Env)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if cfg.StorageDriver == config.DriverMemory {
		log.Warn("reliefctl is running against an empty in-memory store")
	}
	store, err := storage.Open(ctx.Context, cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close(ctx.Context) }()
	return fn(store, log)
}

var expireCmd = &cli.Command{
	Name:  "expire",
	Usage: "Mark offers whose availability window has closed as expired",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:  "batch",
			Value: 500,
			Usage: "specify the maximum number of offers to expire (0 for all)",
		},
	},
	Action: func(ctx *cli.Context) error {
		batch := ctx.Int("batch")
		if batch < 0 {
			return errors.New("invalid batch")
		}
		return withStore(ctx, func(store repository.Store, log *zap.Logger) error {
			n, err := service.NewOfferService(store.Offers, store.History, nil, log).ExpireOffers(ctx.Context, batch)
			if err != nil {
				return err
			}
			fmt.Printf("expired %d offer(s)\n", n)
			return nil
		})
	},
}

var reconcileCmd = &cli.Command{
	Name:  "reconcile",
	Usage: "Realign an offer's pairing with the request side after a partial failure",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "request",
			Required: true,
			Usage:    "specify the request id",
		},
		&cli.StringFlag{
			Name:     "offer",
			Required: true,
			Usage:    "specify the offer id",
		},
	},
	Action: func(ctx *cli.Context) error {
		requestID, err := uuid.Parse(ctx.String("request"))
		if err != nil {
			return errors.New("invalid request id")
		}
		offerID, err := uuid.Parse(ctx.String("offer"))
		if err != nil {
			return errors.New("invalid offer id")
		}
		return withStore(ctx, func(store repository.Store, log *zap.Logger) error {
			report, err := service.NewReconcileService(store, nil, log).ReconcilePair(ctx.Context, requestID, offerID)
			if err != nil {
				return err
			}
			fmt.Printf("request %s / offer %s: %s\n", report.RequestID, report.OfferID, report.Action)
			return nil
		})
	},
}

var tokenCmd = &cli.Command{
	Name:  "token",
	Usage: "Mint a development bearer token signed with JWT_SECRET",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "role",
			Required: true,
			Usage:    "specify the role (requester, provider, admin)",
		},
		&cli.StringFlag{
			Name:  "user",
			Usage: "specify the user id (random when omitted)",
		},
	},
	Action: func(ctx *cli.Context) error {
		userID := uuid.New()
		if raw := ctx.String("user"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				return errors.New("invalid user id")
			}
			userID = id
		}
		role := ctx.String("role")
		switch role {
		case entity.RoleRequester, entity.RoleProvider, entity.RoleAdmin:
		default:
			return errors.New("invalid role")
		}
		token, err := utils.GenerateToken(userID, role)
		if err != nil {
			return err
		}
		fmt.Printf("user: %s\ntoken: %s\n", userID, token)
		return nil
	},
}
