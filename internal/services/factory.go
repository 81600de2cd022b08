package services

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yusuketakei/tickets/internal/binary"
	"github.com/yusuketakei/tickets/internal/config"
	"github.com/yusuketakei/tickets/internal/directory"
	"github.com/yusuketakei/tickets/internal/interfaces"
	"github.com/yusuketakei/tickets/internal/models"
	"github.com/yusuketakei/tickets/internal/services/mock"
	"github.com/yusuketakei/tickets/internal/services/real"
)

// CreateContract creates the contract implementation the configuration asks for.
// seedAddresses receive demo tickets in standalone mode.
func CreateContract(ctx context.Context, cfg *config.ParsedConfig, codec *binary.Codec, seedAddresses []string) (interfaces.ContractService, func(), error) {
	if cfg.StandaloneMode {
		contract := mock.NewMockContract(codec, cfg.Server.Verbose)
		mock.SeedDemo(contract, seedAddresses)
		return contract, func() {}, nil
	}

	contract, err := real.NewRealContract(ctx, real.Options{
		RPCURL:          cfg.Ethereum.RPCURL,
		ContractAddress: cfg.Ethereum.ContractAddress,
		ABIPath:         cfg.Ethereum.ABIPath,
		FromAddress:     cfg.Ethereum.FromAddress,
		CallTimeout:     cfg.CallTimeout,
		Verbose:         cfg.Server.Verbose,
	})
	if err != nil {
		return nil, nil, err
	}
	return contract, contract.Close, nil
}

// CreateResolver creates the user directory named by directory.driver.
// The returned addresses are the ones known up front, for seeding.
func CreateResolver(ctx context.Context, cfg *config.ParsedConfig) (interfaces.UserResolver, []string, func(), error) {
	static := directory.NewStaticResolver(configuredUsers(cfg))

	switch cfg.Directory.Driver {
	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.Directory.DatabaseURL)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("db connect: %w", err)
		}
		resolver := directory.NewPostgresResolver(pool)
		if err := resolver.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, nil, err
		}
		if cfg.Server.Verbose {
			log.Printf("[DIRECTORY] Using PostgreSQL user directory")
		}
		return resolver, static.Addresses(), pool.Close, nil
	default:
		if cfg.Server.Verbose {
			log.Printf("[DIRECTORY] Using static user table")
		}
		return static, static.Addresses(), func() {}, nil
	}
}

func configuredUsers(cfg *config.ParsedConfig) []models.UserProfile {
	users := make([]models.UserProfile, 0, len(cfg.Directory.Users))
	for _, u := range cfg.Directory.Users {
		users = append(users, models.UserProfile{
			UserID:      u.ID,
			DisplayName: u.DisplayName,
			Address:     u.Address,
		})
	}
	return users
}
