package model

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Raw contract return shapes. Field names and order follow the contract's ABI
// tuples so the ABI decoder can fill them directly.

type RawProject struct {
	Id          *big.Int       `json:"id"`
	Owner       common.Address `json:"owner"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	ImageURL    string         `json:"imageURL"`
	Cost        *big.Int       `json:"cost"`
	Raised      *big.Int       `json:"raised"`
	Timestamp   *big.Int       `json:"timestamp"`
	ExpiresAt   *big.Int       `json:"expiresAt"`
	Backers     *big.Int       `json:"backers"`
	Status      uint8          `json:"status"`
}

type RawBacker struct {
	Owner        common.Address `json:"owner"`
	Contribution *big.Int       `json:"contribution"`
	Timestamp    *big.Int       `json:"timestamp"`
	Refunded     bool           `json:"refunded"`
}

// RawStats is the public stats getter; it returns three separate outputs
// rather than a tuple.
type RawStats struct {
	TotalProjects  *big.Int
	TotalBacking   *big.Int
	TotalDonations *big.Int
}
