package chain

func init() {
	// Bitcoin Mainnet
	Register(KeyTypeBitcoin, Mainnet, &Params{
		Symbol:   "BTC",
		Name:     "Bitcoin",
		KeyType:  KeyTypeBitcoin,
		Decimals: 8,

		// BIP44 coin type 0, legacy P2PKH addresses
		CoinType:       0,
		DefaultPurpose: 44,

		// Mainnet address prefixes
		PubKeyHashAddrID: 0x00, // 1...
		ScriptHashAddrID: 0x05, // 3...
		Bech32HRP:        "bc",
		WIF:              0x80,
	})

	// Bitcoin Testnet (testnet3)
	Register(KeyTypeBitcoin, Testnet, &Params{
		Symbol:   "BTC",
		Name:     "Bitcoin Testnet",
		KeyType:  KeyTypeBitcoin,
		Decimals: 8,

		// Testnet uses coin type 1 for all coins
		CoinType:       1,
		DefaultPurpose: 44,

		// Testnet address prefixes
		PubKeyHashAddrID: 0x6F, // m or n
		ScriptHashAddrID: 0xC4, // 2...
		Bech32HRP:        "tb",
		WIF:              0xEF,
	})
}
