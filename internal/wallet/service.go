package wallet

import (
	"context"
	"strconv"
	"sync"

	"github.com/helioswallet/helios/internal/chain"
	"github.com/helioswallet/helios/internal/keys"
	"github.com/helioswallet/helios/internal/keystore"
	"github.com/helioswallet/helios/internal/provider"
	"github.com/helioswallet/helios/internal/tx"
	"github.com/helioswallet/helios/internal/walleterr"
	"github.com/helioswallet/helios/pkg/logging"
)

// Service manages wallet lifecycle and ties the keystore, derivation engine,
// transaction builders and providers together.
type Service struct {
	store     *keystore.Store
	providers *provider.Registry
	network   chain.Network
	log       *logging.Logger

	mu     sync.RWMutex
	wallet *Wallet
}

// ServiceConfig holds configuration for the wallet service.
type ServiceConfig struct {
	DataDir   string
	Network   chain.Network
	Providers *provider.Registry
	Log       *logging.Logger
}

// NewService creates a wallet service. The keystore database is opened (or
// created) under cfg.DataDir.
func NewService(cfg *ServiceConfig) (*Service, error) {
	network := cfg.Network
	if network == "" {
		network = chain.Mainnet
	}
	log := cfg.Log
	if log == nil {
		log = logging.GetDefault()
	}
	providers := cfg.Providers
	if providers == nil {
		providers = provider.NewRegistry()
	}

	store, err := keystore.Open(cfg.DataDir)
	if err != nil {
		return nil, err
	}

	return &Service{
		store:     store,
		providers: providers,
		network:   network,
		log:       log.Component("wallet"),
	}, nil
}

// Close locks the wallet and closes the keystore.
func (s *Service) Close() error {
	s.Lock()
	return s.store.Close()
}

// Network returns the service network.
func (s *Service) Network() chain.Network {
	return s.network
}

// GenerateMnemonic generates a new 24-word BIP39 mnemonic.
func (s *Service) GenerateMnemonic() (string, error) {
	return keys.GenerateMnemonic(256)
}

// ValidateMnemonic checks a mnemonic's word count and checksum.
func (s *Service) ValidateMnemonic(mnemonic string) error {
	return keys.ValidateMnemonic(mnemonic)
}

// CreateWallet encrypts the mnemonic into the keystore under a unique name
// and unlocks the service with it. The passphrase is the BIP39 seed
// extension and is never persisted.
func (s *Service) CreateWallet(name, mnemonic, passphrase, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.store.Save(name, mnemonic, password); err != nil {
		return err
	}

	w, err := NewFromMnemonic(mnemonic, passphrase, s.network)
	if err != nil {
		return err
	}
	s.setWalletLocked(w)

	s.log.Info("wallet created", "name", name)
	return nil
}

// OpenWallet decrypts a stored mnemonic and unlocks the service with it.
func (s *Service) OpenWallet(name, password, passphrase string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	mnemonic, err := s.store.Load(name, password)
	if err != nil {
		return err
	}

	w, err := NewFromMnemonic(mnemonic, passphrase, s.network)
	if err != nil {
		return err
	}
	s.setWalletLocked(w)

	s.log.Info("wallet opened", "name", name)
	return nil
}

// UnlockWithMnemonic unlocks the service directly from a mnemonic without
// touching the keystore.
func (s *Service) UnlockWithMnemonic(mnemonic, passphrase string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := NewFromMnemonic(mnemonic, passphrase, s.network)
	if err != nil {
		return err
	}
	s.setWalletLocked(w)
	return nil
}

func (s *Service) setWalletLocked(w *Wallet) {
	if s.wallet != nil {
		s.wallet.Close()
	}
	s.wallet = w
}

// IsUnlocked returns true if a wallet is loaded in memory.
func (s *Service) IsUnlocked() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.wallet != nil
}

// Lock wipes the in-memory wallet.
func (s *Service) Lock() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.wallet != nil {
		s.wallet.Close()
		s.wallet = nil
	}
}

// ListWallets lists the stored wallet records.
func (s *Service) ListWallets() ([]keystore.Record, error) {
	return s.store.List()
}

// DeleteWallet removes a stored wallet by name. The in-memory wallet is
// untouched.
func (s *Service) DeleteWallet(name string) error {
	return s.store.Delete(name)
}

func (s *Service) unlocked() (*Wallet, error) {
	const op = "wallet.Service"

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.wallet == nil {
		return nil, walleterr.Errorf(walleterr.Signing, op, "wallet is locked")
	}
	return s.wallet, nil
}

// Address returns the address for a chain at the given account and index.
func (s *Service) Address(keyType chain.KeyType, account, index uint32) (string, error) {
	w, err := s.unlocked()
	if err != nil {
		return "", err
	}
	return w.DeriveAddress(keyType, account, index)
}

// DerivationPath returns the default derivation path for a chain at the
// given account and index.
func (s *Service) DerivationPath(keyType chain.KeyType, account, index uint32) (string, error) {
	w, err := s.unlocked()
	if err != nil {
		return "", err
	}
	return w.DerivationPath(keyType, account, index)
}

// ValidateAddress checks an address against the chain's rules on the
// service network.
func (s *Service) ValidateAddress(keyType chain.KeyType, address string) error {
	return keys.ValidateAddress(keyType, s.network, address)
}

// Balance returns the base-unit balance of an address as a decimal string
// (wei, satoshis, lamports).
func (s *Service) Balance(ctx context.Context, keyType chain.KeyType, address string) (string, error) {
	const op = "wallet.Service.Balance"

	p, err := s.providers.Get(keyType)
	if err != nil {
		return "", err
	}

	switch pv := p.(type) {
	case *provider.Ethereum:
		balance, err := pv.Balance(ctx, address)
		if err != nil {
			return "", err
		}
		return balance.String(), nil
	case *provider.Bitcoin:
		balance, err := pv.Balance(ctx, address)
		if err != nil {
			return "", err
		}
		return strconv.FormatUint(balance, 10), nil
	case *provider.Solana:
		balance, err := pv.Balance(ctx, address)
		if err != nil {
			return "", err
		}
		return strconv.FormatUint(balance, 10), nil
	}
	return "", walleterr.Errorf(walleterr.Network, op,
		"provider for %s does not support balance queries", keyType)
}

// SendRequest describes a transfer at the account level. Amount is a decimal
// string in the chain's base unit.
type SendRequest struct {
	KeyType chain.KeyType
	Account uint32
	Index   uint32
	To      string
	Amount  string

	// TokenAddr is an ERC-20 contract address (Ethereum only).
	TokenAddr string
	// TokenMint and TokenDecimals select an SPL token transfer (Solana only).
	TokenMint     string
	TokenDecimals uint8
}

// Send derives the sender key, fills in chain-specific transaction inputs
// from the provider, then builds, signs and broadcasts in one step. Returns
// the transaction hash.
func (s *Service) Send(ctx context.Context, req *SendRequest) (string, error) {
	w, err := s.unlocked()
	if err != nil {
		return "", err
	}

	kp, err := w.DeriveKeyPair(req.KeyType, req.Account, req.Index)
	if err != nil {
		return "", err
	}
	from, err := kp.Address(s.network)
	if err != nil {
		return "", err
	}

	p, err := s.providers.Get(req.KeyType)
	if err != nil {
		return "", err
	}

	txReq := &tx.Request{
		KeyType: req.KeyType,
		Network: s.network,
		From:    from,
		To:      req.To,
		Value:   req.Amount,
	}
	if err := s.fillChainInputs(ctx, p, req, txReq); err != nil {
		return "", err
	}

	unsigned, err := tx.Build(txReq)
	if err != nil {
		return "", err
	}
	signed, err := tx.Sign(unsigned, kp)
	if err != nil {
		return "", err
	}

	hash, err := p.Broadcast(ctx, signed)
	if err != nil {
		return "", err
	}

	s.log.Info("transaction sent",
		"chain", req.KeyType, "from", from, "to", req.To, "hash", hash)
	return hash, nil
}

// fillChainInputs queries the provider for the inputs each chain's builder
// needs: nonce and gas price for Ethereum, UTXOs and fee rate for Bitcoin, a
// recent blockhash for Solana.
func (s *Service) fillChainInputs(ctx context.Context, p provider.Provider, req *SendRequest, txReq *tx.Request) error {
	const op = "wallet.Service.Send"

	switch req.KeyType {
	case chain.KeyTypeEthereum:
		eth, ok := p.(*provider.Ethereum)
		if !ok {
			return walleterr.Errorf(walleterr.Network, op,
				"provider for %s does not support ethereum queries", req.KeyType)
		}
		nonce, err := eth.PendingNonce(ctx, txReq.From)
		if err != nil {
			return err
		}
		gasPrice, err := eth.SuggestGasPrice(ctx)
		if err != nil {
			return err
		}
		txReq.Nonce = nonce
		txReq.GasPrice = gasPrice.String()
		txReq.TokenAddr = req.TokenAddr

	case chain.KeyTypeBitcoin:
		btc, ok := p.(*provider.Bitcoin)
		if !ok {
			return walleterr.Errorf(walleterr.Network, op,
				"provider for %s does not support bitcoin queries", req.KeyType)
		}
		utxos, err := btc.ListUTXOs(ctx, txReq.From)
		if err != nil {
			return err
		}
		feeRate, err := btc.FeeRate(ctx)
		if err != nil {
			return err
		}
		txReq.UTXOs = utxos
		txReq.FeeRate = feeRate

	case chain.KeyTypeSolana:
		sol, ok := p.(*provider.Solana)
		if !ok {
			return walleterr.Errorf(walleterr.Network, op,
				"provider for %s does not support solana queries", req.KeyType)
		}
		blockhash, err := sol.RecentBlockhash(ctx)
		if err != nil {
			return err
		}
		txReq.Blockhash = blockhash
		txReq.TokenMint = req.TokenMint
		txReq.TokenDecimals = req.TokenDecimals
	}
	return nil
}

// TransactionStatus returns the lifecycle status of a broadcast transaction.
func (s *Service) TransactionStatus(ctx context.Context, keyType chain.KeyType, hash string) (provider.Status, error) {
	p, err := s.providers.Get(keyType)
	if err != nil {
		return "", err
	}
	return p.TransactionStatus(ctx, hash)
}

// TransactionReceipt returns the receipt of a confirmed transaction.
func (s *Service) TransactionReceipt(ctx context.Context, keyType chain.KeyType, hash string) (*provider.Receipt, error) {
	p, err := s.providers.Get(keyType)
	if err != nil {
		return nil, err
	}
	return p.TransactionReceipt(ctx, hash)
}
