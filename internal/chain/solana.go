package chain

func init() {
	// Solana Mainnet
	Register(KeyTypeSolana, Mainnet, &Params{
		Symbol:   "SOL",
		Name:     "Solana",
		KeyType:  KeyTypeSolana,
		Decimals: 9,

		// BIP44 coin type 501, hardened-only SLIP-10 derivation
		CoinType:       501,
		DefaultPurpose: 44,
		HardenedOnly:   true,
	})

	// Solana Devnet
	Register(KeyTypeSolana, Testnet, &Params{
		Symbol:   "SOL",
		Name:     "Solana Devnet",
		KeyType:  KeyTypeSolana,
		Decimals: 9,

		CoinType:       501,
		DefaultPurpose: 44,
		HardenedOnly:   true,
	})
}
