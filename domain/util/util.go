package util

import (
	"crowdfund/domain"
	"fmt"
	"math/big"
	"strings"

	"github.com/dustin/go-humanize"
)

// EtherString renders an amount with grouped whole digits, e.g. "1,250.5 ETH".
func EtherString(amount domain.Ether) string {
	return WeiToEtherString(amount.Wei())
}

func WeiToEtherString(wei *big.Int) string {
	formatted := domain.FormatEther(wei)
	whole, frac, _ := strings.Cut(formatted, ".")

	sign := ""
	if strings.HasPrefix(whole, "-") {
		sign = "-"
		whole = whole[1:]
	}
	w, _ := new(big.Int).SetString(whole, 10)
	return fmt.Sprintf("%v%v.%v ETH", sign, humanize.BigComma(w), frac)
}

func WeiString(wei *big.Int) string {
	return fmt.Sprintf("%v Wei", humanize.BigComma(wei))
}

// ShortAddress abbreviates a hex address to its first and last four digits.
func ShortAddress(addr string) string {
	if len(addr) <= 12 {
		return addr
	}
	return addr[:6] + "…" + addr[len(addr)-4:]
}
