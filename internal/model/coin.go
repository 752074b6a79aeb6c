package model

// Coin labels the ledger a relay instance serves.
type Coin string

// Network labels the network of the ledger.
type Network string

var (
	BTC Coin = "BTC"
	LTC Coin = "LTC"
)

var (
	Mainnet Network = "mainnet"
	Testnet Network = "testnet"
	Signet  Network = "signet"
	Regtest Network = "regtest"
)
