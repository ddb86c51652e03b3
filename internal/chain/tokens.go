package chain

// TokenInfo contains information about an ERC-20 token on a specific chain.
type TokenInfo struct {
	Symbol   string // Token symbol (USDT, USDC, etc.)
	Name     string // Full name
	Decimals uint8  // Token decimals
	Address  string // Contract address on this chain
	ChainID  uint64 // EVM chain ID
}

// SPLTokenInfo contains information about an SPL token mint on Solana.
type SPLTokenInfo struct {
	Symbol   string  // Token symbol
	Name     string  // Full name
	Decimals uint8   // Token decimals
	Mint     string  // Mint address (Base58)
	Network  Network // mainnet or testnet (devnet)
}

// tokenRegistry maps chainID -> symbol -> TokenInfo
var tokenRegistry = make(map[uint64]map[string]*TokenInfo)

// splRegistry maps network -> symbol -> SPLTokenInfo
var splRegistry = make(map[Network]map[string]*SPLTokenInfo)

func init() {
	// ==========================================================================
	// Ethereum Mainnet (chainID 1)
	// ==========================================================================
	registerToken(1, &TokenInfo{
		Symbol:   "USDT",
		Name:     "Tether USD",
		Decimals: 6,
		Address:  "0xdAC17F958D2ee523a2206206994597C13D831ec7",
		ChainID:  1,
	})
	registerToken(1, &TokenInfo{
		Symbol:   "USDC",
		Name:     "USD Coin",
		Decimals: 6,
		Address:  "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48",
		ChainID:  1,
	})
	registerToken(1, &TokenInfo{
		Symbol:   "WETH",
		Name:     "Wrapped Ether",
		Decimals: 18,
		Address:  "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2",
		ChainID:  1,
	})
	registerToken(1, &TokenInfo{
		Symbol:   "WBTC",
		Name:     "Wrapped Bitcoin",
		Decimals: 8,
		Address:  "0x2260FAC5E5542a773Aa44fBCfeDf7C193bc2C599",
		ChainID:  1,
	})
	registerToken(1, &TokenInfo{
		Symbol:   "DAI",
		Name:     "Dai Stablecoin",
		Decimals: 18,
		Address:  "0x6B175474E89094C44Da98b954EedeAC495271d0F",
		ChainID:  1,
	})

	// ==========================================================================
	// Solana Mainnet
	// ==========================================================================
	registerSPLToken(&SPLTokenInfo{
		Symbol:   "USDC",
		Name:     "USD Coin",
		Decimals: 6,
		Mint:     "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
		Network:  Mainnet,
	})
	registerSPLToken(&SPLTokenInfo{
		Symbol:   "USDT",
		Name:     "Tether USD",
		Decimals: 6,
		Mint:     "Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB",
		Network:  Mainnet,
	})
}

func registerToken(chainID uint64, token *TokenInfo) {
	if tokenRegistry[chainID] == nil {
		tokenRegistry[chainID] = make(map[string]*TokenInfo)
	}
	tokenRegistry[chainID][token.Symbol] = token
}

func registerSPLToken(token *SPLTokenInfo) {
	if splRegistry[token.Network] == nil {
		splRegistry[token.Network] = make(map[string]*SPLTokenInfo)
	}
	splRegistry[token.Network][token.Symbol] = token
}

// GetToken returns ERC-20 token info for a symbol on a specific chain.
// Returns nil if the token is not registered on that chain.
func GetToken(chainID uint64, symbol string) *TokenInfo {
	if tokens, ok := tokenRegistry[chainID]; ok {
		return tokens[symbol]
	}
	return nil
}

// GetTokenAddress returns the contract address for a token on a specific chain.
// Returns empty string if not found.
func GetTokenAddress(chainID uint64, symbol string) string {
	if token := GetToken(chainID, symbol); token != nil {
		return token.Address
	}
	return ""
}

// GetSPLToken returns SPL token info for a symbol on a Solana network.
// Returns nil if the token is not registered.
func GetSPLToken(network Network, symbol string) *SPLTokenInfo {
	if tokens, ok := splRegistry[network]; ok {
		return tokens[symbol]
	}
	return nil
}

// ListTokens returns all registered ERC-20 tokens for a specific chain.
func ListTokens(chainID uint64) []*TokenInfo {
	tokens, ok := tokenRegistry[chainID]
	if !ok {
		return nil
	}
	result := make([]*TokenInfo, 0, len(tokens))
	for _, token := range tokens {
		result = append(result, token)
	}
	return result
}

// IsTokenSupported checks if an ERC-20 token is supported on a specific chain.
func IsTokenSupported(chainID uint64, symbol string) bool {
	return GetToken(chainID, symbol) != nil
}
