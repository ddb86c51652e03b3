package chain

func init() {
	// Ethereum Mainnet (chainID 1)
	Register(KeyTypeEthereum, Mainnet, &Params{
		Symbol:   "ETH",
		Name:     "Ethereum",
		KeyType:  KeyTypeEthereum,
		Decimals: 18,

		CoinType:       60,
		DefaultPurpose: 44,

		ChainID: 1,
	})

	// Ethereum Sepolia Testnet (chainID 11155111)
	Register(KeyTypeEthereum, Testnet, &Params{
		Symbol:   "ETH",
		Name:     "Ethereum Sepolia",
		KeyType:  KeyTypeEthereum,
		Decimals: 18,

		CoinType:       60,
		DefaultPurpose: 44,

		ChainID: 11155111,
	})
}
