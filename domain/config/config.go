package config

import (
	"crypto/ecdsa"
	"fmt"
	"log"
	"math/big"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/viper"
)

const (
	SepoliaNetwork = "sepolia"
	SepoliaChainID = 11155111

	EnvPrefix = "CROWDFUND"
)

var (
	ErrorInvalidChainID  = fmt.Errorf("network.chain_id must be a positive integer")
	ErrorInvalidEndpoint = fmt.Errorf("network.endpoints keys must be chain ids")
	ErrorNoEndpoint      = fmt.Errorf("no endpoint is defined for the required chain id")

	ErrorKeyConflict     = fmt.Errorf("only one of wallet.private_key or wallet.private_key_file must be defined")
	ErrorReadingKeyFile  = fmt.Errorf("error in reading private key file")
	ErrorInvalidKey      = fmt.Errorf("invalid wallet private key")
	ErrorAddressConflict = fmt.Errorf("only one of contract.address or contract.address_file must be defined")

	ErrorInvalidConfirmTimeout = fmt.Errorf("invalid time interval for confirm_timeout")
	ErrorInvalidPollInterval   = fmt.Errorf("invalid time interval for confirm_poll_interval")
	ErrorInvalidReloadInterval = fmt.Errorf("invalid time interval for watch.reload_interval")
)

var (
	TrailingSlashRE = regexp.MustCompile("/+$")
	HexPrefixRE     = regexp.MustCompile("^0[xX]")
)

var (
	dbUri          string
	metricsAddress string

	networkName string
	chainID     *big.Int
	endpoints   map[uint64]string

	contractAddress     string
	contractAddressFile string
	contractAbiFile     string

	privateKey    *ecdsa.PrivateKey
	preauthorized bool
	confirmPrompt bool

	confirmTimeout      time.Duration
	confirmPollInterval time.Duration
	reloadInterval      time.Duration
)

func setDefaults() {
	viper.SetDefault("network.name", SepoliaNetwork)
	viper.SetDefault("network.chain_id", SepoliaChainID)
	viper.SetDefault("wallet.preauthorized", true)
	viper.SetDefault("wallet.confirm", false)
	viper.SetDefault("contract.address_file", "")
	viper.SetDefault("contract.abi_file", "")
	viper.SetDefault("confirm_timeout", "5m")
	viper.SetDefault("confirm_poll_interval", "1s")
	viper.SetDefault("watch.reload_interval", "30s")
}

// ReadConfig loads the configuration file (if any) and environment overrides,
// then validates and caches the processed values.
func ReadConfig(filePath string) error {
	setDefaults()

	if filePath != "" {
		viper.SetConfigFile(filePath)
		if err := viper.ReadInConfig(); err != nil {
			log.Printf("⚠️ Failed reading config file: %v\n", err.Error())
		}
	}

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := initializeVariables(); err != nil {
		return fmt.Errorf("configuration error - %w", err)
	}
	return nil
}

// Reload re-processes the values after the watched file changed. The previous
// values are kept when the new ones are invalid.
func Reload() error {
	return initializeVariables()
}

// This method processes the configuration parameters and keeps the processed values
// in some variables for later accesses rapidly.
func initializeVariables() error {
	// Database stuff
	newDbUri := TrailingSlashRE.ReplaceAllString(strings.TrimSpace(viper.GetString("service_db_uri")), "")
	newMetricsAddress := strings.TrimSpace(viper.GetString("metrics_address"))

	// Network stuff
	newNetworkName := strings.TrimSpace(strings.ToLower(viper.GetString("network.name")))
	id := viper.GetInt64("network.chain_id")
	if id <= 0 {
		return ErrorInvalidChainID
	}
	newChainID := big.NewInt(id)

	newEndpoints := make(map[uint64]string)
	for key, url := range viper.GetStringMapString("network.endpoints") {
		chain, err := strconv.ParseUint(key, 10, 64)
		if err != nil {
			return ErrorInvalidEndpoint
		}
		newEndpoints[chain] = TrailingSlashRE.ReplaceAllString(strings.TrimSpace(url), "")
	}

	// Contract stuff
	newAddress := strings.TrimSpace(viper.GetString("contract.address"))
	newAddressFile := strings.TrimSpace(viper.GetString("contract.address_file"))
	if newAddress != "" && newAddressFile != "" {
		return ErrorAddressConflict
	}
	if newAddress != "" && !common.IsHexAddress(newAddress) {
		return fmt.Errorf("invalid contract address %q", newAddress)
	}
	newAbiFile := strings.TrimSpace(viper.GetString("contract.abi_file"))

	// Wallet stuff
	key := strings.TrimSpace(viper.GetString("wallet.private_key"))
	keyFile := strings.TrimSpace(viper.GetString("wallet.private_key_file"))
	if key != "" && keyFile != "" {
		return ErrorKeyConflict
	}

	if keyFile != "" {
		content, err := readKeyFile(keyFile)
		if err != nil {
			return ErrorReadingKeyFile
		}
		key = content
	}

	var newKey *ecdsa.PrivateKey
	if key != "" {
		var err error
		newKey, err = crypto.HexToECDSA(HexPrefixRE.ReplaceAllString(key, ""))
		if err != nil {
			log.Printf("Failed to parse private key - %v\n", err.Error())
			return ErrorInvalidKey
		}
		if _, ok := newEndpoints[newChainID.Uint64()]; !ok {
			return ErrorNoEndpoint
		}
	}

	//---------------------------------------------------------------
	// confirm timeout
	newConfirmTimeout, err := time.ParseDuration(viper.GetString("confirm_timeout"))
	if err != nil || newConfirmTimeout <= 0 {
		return ErrorInvalidConfirmTimeout
	}

	//---------------------------------------------------------------
	// confirm poll interval
	newPollInterval, err := time.ParseDuration(viper.GetString("confirm_poll_interval"))
	if err != nil || newPollInterval <= 0 {
		return ErrorInvalidPollInterval
	}

	//---------------------------------------------------------------
	// reload interval
	newReloadInterval, err := time.ParseDuration(viper.GetString("watch.reload_interval"))
	if err != nil || newReloadInterval <= 0 {
		return ErrorInvalidReloadInterval
	}

	dbUri = newDbUri
	metricsAddress = newMetricsAddress
	networkName = newNetworkName
	chainID = newChainID
	endpoints = newEndpoints
	contractAddress = newAddress
	contractAddressFile = newAddressFile
	contractAbiFile = newAbiFile
	privateKey = newKey
	preauthorized = viper.GetBool("wallet.preauthorized")
	confirmPrompt = viper.GetBool("wallet.confirm")
	confirmTimeout = newConfirmTimeout
	confirmPollInterval = newPollInterval
	reloadInterval = newReloadInterval

	return nil
}

func readKeyFile(filePath string) (string, error) {
	fileContent, err := os.ReadFile(filePath)
	if err != nil {
		log.Printf("Failed to read private key file - %v\n", err.Error())
		return "", err
	}
	return strings.TrimSpace(string(fileContent)), nil
}

//-------------------------------------------------------------------
// Normal configuration values

func GetDbUri() string {
	return dbUri
}

func GetMetricsAddress() string {
	return metricsAddress
}

func GetNetworkName() string {
	return networkName
}

func GetChainID() *big.Int {
	if chainID == nil {
		return big.NewInt(SepoliaChainID)
	}
	return new(big.Int).Set(chainID)
}

func GetEndpoints() map[uint64]string {
	result := make(map[uint64]string, len(endpoints))
	for k, v := range endpoints {
		result[k] = v
	}
	return result
}

func GetContractAddress() string {
	return contractAddress
}

func GetContractAddressFile() string {
	return contractAddressFile
}

func GetContractAbiFile() string {
	return contractAbiFile
}

// GetWalletPrivateKey returns nil when no wallet is configured.
func GetWalletPrivateKey() *ecdsa.PrivateKey {
	return privateKey
}

func IsPreauthorized() bool {
	return preauthorized
}

func IsConfirmPrompt() bool {
	return confirmPrompt
}

func GetConfirmTimeout() time.Duration {
	return confirmTimeout
}

func GetConfirmPollInterval() time.Duration {
	return confirmPollInterval
}

func GetReloadInterval() time.Duration {
	return reloadInterval
}

// -------------------------------------------------------------------
// Evaluating values

func HasWallet() bool {
	return privateKey != nil
}
