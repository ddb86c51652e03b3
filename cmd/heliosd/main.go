// Package main provides the heliosd wallet CLI: key generation, addresses,
// balances and transfers across the supported chains.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/helioswallet/helios/internal/chain"
	"github.com/helioswallet/helios/internal/config"
	"github.com/helioswallet/helios/internal/keys"
	"github.com/helioswallet/helios/internal/provider"
	"github.com/helioswallet/helios/internal/wallet"
	"github.com/helioswallet/helios/pkg/helpers"
	"github.com/helioswallet/helios/pkg/logging"
)

var (
	version = "0.1.0-dev"
	commit  = "unknown"
)

const usage = `heliosd - multi-chain HD wallet

Usage:
  heliosd [flags] <command> [command flags]

Commands:
  generate                      Generate a new 24-word mnemonic
  create                        Create a wallet from a mnemonic
  wallets                       List stored wallets
  delete                        Delete a stored wallet
  address                       Derive an address
  balance                       Query an address balance
  send                          Build, sign and broadcast a transfer
  status                        Query transaction status
  receipt                       Query transaction receipt
  version                       Show version and exit

Global flags:
  -data-dir     Data directory (default ~/.helios)
  -testnet      Run on testnet
  -log-level    Log level (debug, info, warn, error)
`

func main() {
	var (
		dataDir  = flag.String("data-dir", "~/.helios", "Data directory")
		testnet  = flag.Bool("testnet", false, "Run on testnet (separate network and data)")
		logLevel = flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	)
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	log := logging.New(&logging.Config{
		Level:      *logLevel,
		TimeFormat: time.TimeOnly,
	})
	logging.SetDefault(log)

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	if args[0] == "version" {
		fmt.Printf("heliosd %s (commit: %s)\n", version, commit)
		return
	}

	// Testnet keeps its own config and keystore.
	effectiveDataDir := *dataDir
	if *testnet {
		effectiveDataDir = filepath.Join(*dataDir, "testnet")
	}

	cfg, err := config.LoadConfig(effectiveDataDir)
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}
	if *testnet {
		cfg.Network = chain.Testnet
	}
	cfg.Logging.Level = *logLevel

	if err := run(args, cfg, log); err != nil {
		log.Fatal("Command failed", "error", err)
	}
}

func run(args []string, cfg *config.Config, log *logging.Logger) error {
	ctx := context.Background()

	switch args[0] {
	case "generate":
		mnemonic, err := keys.GenerateMnemonic(256)
		if err != nil {
			return err
		}
		fmt.Println(mnemonic)
		return nil

	case "create":
		fs := flag.NewFlagSet("create", flag.ExitOnError)
		name := fs.String("name", "", "Wallet name")
		mnemonic := fs.String("mnemonic", "", "BIP39 mnemonic (generated when empty)")
		passphrase := fs.String("passphrase", "", "Optional BIP39 passphrase")
		password := fs.String("password", "", "Keystore password")
		fs.Parse(args[1:])

		svc, err := newService(cfg, log)
		if err != nil {
			return err
		}
		defer svc.Close()

		phrase := *mnemonic
		if phrase == "" {
			phrase, err = svc.GenerateMnemonic()
			if err != nil {
				return err
			}
			fmt.Println("Mnemonic (write it down, it is shown once):")
			fmt.Println(" ", phrase)
		}
		if err := svc.CreateWallet(*name, phrase, *passphrase, *password); err != nil {
			return err
		}
		fmt.Printf("Wallet %q created on %s\n", *name, cfg.Network)
		return nil

	case "wallets":
		svc, err := newService(cfg, log)
		if err != nil {
			return err
		}
		defer svc.Close()

		records, err := svc.ListWallets()
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("No wallets stored")
			return nil
		}
		for _, rec := range records {
			fmt.Printf("%s  %s  created %s\n",
				rec.ID, rec.Name, time.Unix(rec.CreatedAt, 0).Format(time.DateTime))
		}
		return nil

	case "delete":
		fs := flag.NewFlagSet("delete", flag.ExitOnError)
		name := fs.String("name", "", "Wallet name")
		fs.Parse(args[1:])

		svc, err := newService(cfg, log)
		if err != nil {
			return err
		}
		defer svc.Close()

		if err := svc.DeleteWallet(*name); err != nil {
			return err
		}
		fmt.Printf("Wallet %q deleted\n", *name)
		return nil

	case "address":
		fs := flag.NewFlagSet("address", flag.ExitOnError)
		name := fs.String("name", "", "Wallet name")
		password := fs.String("password", "", "Keystore password")
		passphrase := fs.String("passphrase", "", "Optional BIP39 passphrase")
		chainFlag := fs.String("chain", "ethereum", "Chain (ethereum, bitcoin, solana)")
		account := fs.Uint("account", 0, "Account number")
		index := fs.Uint("index", 0, "Address index")
		checksum := fs.Bool("checksum", false, "EIP-55 checksum casing (ethereum only)")
		fs.Parse(args[1:])

		svc, err := openService(cfg, log, *name, *password, *passphrase)
		if err != nil {
			return err
		}
		defer svc.Close()

		kt := chain.KeyType(*chainFlag)
		addr, err := svc.Address(kt, uint32(*account), uint32(*index))
		if err != nil {
			return err
		}
		if *checksum && kt == chain.KeyTypeEthereum {
			addr, err = keys.ChecksumAddress(addr)
			if err != nil {
				return err
			}
		}
		path, err := svc.DerivationPath(kt, uint32(*account), uint32(*index))
		if err != nil {
			return err
		}
		fmt.Printf("%s  (%s)\n", addr, path)
		return nil

	case "balance":
		fs := flag.NewFlagSet("balance", flag.ExitOnError)
		chainFlag := fs.String("chain", "ethereum", "Chain (ethereum, bitcoin, solana)")
		address := fs.String("address", "", "Address to query")
		fs.Parse(args[1:])

		kt := chain.KeyType(*chainFlag)
		svc, err := newOnlineService(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer svc.Close()

		raw, err := svc.Balance(ctx, kt, *address)
		if err != nil {
			return err
		}
		fmt.Println(formatBalance(raw, kt, cfg.Network))
		return nil

	case "send":
		fs := flag.NewFlagSet("send", flag.ExitOnError)
		name := fs.String("name", "", "Wallet name")
		password := fs.String("password", "", "Keystore password")
		passphrase := fs.String("passphrase", "", "Optional BIP39 passphrase")
		chainFlag := fs.String("chain", "ethereum", "Chain (ethereum, bitcoin, solana)")
		account := fs.Uint("account", 0, "Account number")
		index := fs.Uint("index", 0, "Address index")
		to := fs.String("to", "", "Recipient address")
		amount := fs.String("amount", "", "Amount in whole coins (e.g. 0.5)")
		tokenAddr := fs.String("token", "", "ERC-20 contract address (ethereum)")
		tokenMint := fs.String("mint", "", "SPL token mint (solana)")
		tokenDecimals := fs.Uint("mint-decimals", 0, "SPL token decimals")
		fs.Parse(args[1:])

		kt := chain.KeyType(*chainFlag)
		baseUnits, err := toBaseUnits(*amount, kt, cfg.Network, *tokenAddr != "" || *tokenMint != "", uint8(*tokenDecimals))
		if err != nil {
			return err
		}

		svc, err := openOnlineService(ctx, cfg, log, *name, *password, *passphrase)
		if err != nil {
			return err
		}
		defer svc.Close()

		hash, err := svc.Send(ctx, &wallet.SendRequest{
			KeyType:       kt,
			Account:       uint32(*account),
			Index:         uint32(*index),
			To:            *to,
			Amount:        baseUnits,
			TokenAddr:     *tokenAddr,
			TokenMint:     *tokenMint,
			TokenDecimals: uint8(*tokenDecimals),
		})
		if err != nil {
			return err
		}
		fmt.Println(hash)
		return nil

	case "status":
		fs := flag.NewFlagSet("status", flag.ExitOnError)
		chainFlag := fs.String("chain", "ethereum", "Chain (ethereum, bitcoin, solana)")
		hash := fs.String("hash", "", "Transaction hash")
		fs.Parse(args[1:])

		svc, err := newOnlineService(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer svc.Close()

		status, err := svc.TransactionStatus(ctx, chain.KeyType(*chainFlag), *hash)
		if err != nil {
			return err
		}
		fmt.Println(status)
		return nil

	case "receipt":
		fs := flag.NewFlagSet("receipt", flag.ExitOnError)
		chainFlag := fs.String("chain", "ethereum", "Chain (ethereum, bitcoin, solana)")
		hash := fs.String("hash", "", "Transaction hash")
		fs.Parse(args[1:])

		svc, err := newOnlineService(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer svc.Close()

		receipt, err := svc.TransactionReceipt(ctx, chain.KeyType(*chainFlag), *hash)
		if err != nil {
			return err
		}
		fmt.Printf("hash:   %s\nstatus: %s\nblock:  %d %s\nfee:    %d\n",
			receipt.Hash, receipt.Status, receipt.BlockNumber, receipt.BlockHash, receipt.Fee)
		return nil
	}

	flag.Usage()
	return fmt.Errorf("unknown command %q", args[0])
}

// newService builds an offline wallet service (keystore + derivation only).
func newService(cfg *config.Config, log *logging.Logger) (*wallet.Service, error) {
	return wallet.NewService(&wallet.ServiceConfig{
		DataDir: config.ExpandPath(cfg.Storage.DataDir),
		Network: cfg.Network,
		Log:     log,
	})
}

// newOnlineService builds a wallet service with the configured providers
// registered.
func newOnlineService(ctx context.Context, cfg *config.Config, log *logging.Logger) (*wallet.Service, error) {
	registry := provider.NewRegistry()

	eth, err := provider.NewEthereum(ctx, cfg.ProviderURL(chain.KeyTypeEthereum), log)
	if err != nil {
		return nil, err
	}
	registry.Register(chain.KeyTypeEthereum, eth)
	registry.Register(chain.KeyTypeBitcoin, provider.NewBitcoin(cfg.ProviderURL(chain.KeyTypeBitcoin), log))
	registry.Register(chain.KeyTypeSolana, provider.NewSolana(cfg.ProviderURL(chain.KeyTypeSolana), log))

	return wallet.NewService(&wallet.ServiceConfig{
		DataDir:   config.ExpandPath(cfg.Storage.DataDir),
		Network:   cfg.Network,
		Providers: registry,
		Log:       log,
	})
}

func openService(cfg *config.Config, log *logging.Logger, name, password, passphrase string) (*wallet.Service, error) {
	svc, err := newService(cfg, log)
	if err != nil {
		return nil, err
	}
	if err := svc.OpenWallet(name, password, passphrase); err != nil {
		svc.Close()
		return nil, err
	}
	return svc, nil
}

func openOnlineService(ctx context.Context, cfg *config.Config, log *logging.Logger, name, password, passphrase string) (*wallet.Service, error) {
	svc, err := newOnlineService(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	if err := svc.OpenWallet(name, password, passphrase); err != nil {
		svc.Close()
		return nil, err
	}
	return svc, nil
}

// toBaseUnits converts a whole-coin amount string into the chain's base unit.
// Token transfers use the token's own decimals.
func toBaseUnits(amount string, kt chain.KeyType, network chain.Network, token bool, tokenDecimals uint8) (string, error) {
	decimals := tokenDecimals
	if !token {
		params, ok := chain.Get(kt, network)
		if !ok {
			return "", fmt.Errorf("unsupported chain: %s on %s", kt, network)
		}
		decimals = params.Decimals
	}
	base, err := helpers.ParseAmount(amount, decimals)
	if err != nil {
		return "", fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	return fmt.Sprintf("%d", base), nil
}

// formatBalance renders a base-unit balance in whole coins with the symbol.
func formatBalance(raw string, kt chain.KeyType, network chain.Network) string {
	params, ok := chain.Get(kt, network)
	if !ok {
		return raw
	}
	base, err := helpers.ParseAmount(raw, 0)
	if err != nil {
		return raw + " " + params.Symbol
	}
	return helpers.FormatAmount(base, params.Decimals) + " " + params.Symbol
}
