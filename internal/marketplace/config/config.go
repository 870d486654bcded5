package config

import (
	"log"
	"sync"
	"time"

	"github.com/joho/godotenv"

	"github.com/linguoexchange/linguo-backend/pkg/env"
	pkgtypes "github.com/linguoexchange/linguo-backend/pkg/types"
)

var (
	ethRPCURL         string
	escrowAddress     string
	arbitratorAddress string

	ipfsGateway string
	ipfsAPIURL  string

	pollingInterval time.Duration
	startBlock      int
	apiPort         string

	devMode bool

	initOnce sync.Once
)

func Init() {
	initOnce.Do(func() {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found, relying on environment")
		}

		ethRPCURL = env.GetEnvString("ETH_RPC_URL", "")
		if ethRPCURL == "" {
			log.Fatal("Invalid EthRPCURL")
		}

		escrowAddress = env.GetEnvString("ESCROW_CONTRACT_ADDRESS", "")
		if !pkgtypes.IsValidEthAddress(escrowAddress) {
			log.Fatal("Invalid EscrowContractAddress")
		}

		arbitratorAddress = env.GetEnvString("ARBITRATOR_CONTRACT_ADDRESS", "")
		if !pkgtypes.IsValidEthAddress(arbitratorAddress) {
			log.Fatal("Invalid ArbitratorContractAddress")
		}

		ipfsGateway = env.GetEnvString("IPFS_GATEWAY", "ipfs.io")
		ipfsAPIURL = env.GetEnvString("IPFS_API_URL", "")

		pollingInterval = env.GetEnvDuration("POLLING_INTERVAL", time.Minute)
		startBlock = env.GetEnvInt("START_BLOCK", 0)
		apiPort = env.GetEnvString("API_PORT", "8080")

		devMode = env.GetEnvBool("DEV_MODE", false)
	})
}

func GetEthRPCURL() string         { return ethRPCURL }
func GetEscrowAddress() string     { return escrowAddress }
func GetArbitratorAddress() string { return arbitratorAddress }
func GetIPFSGateway() string       { return ipfsGateway }
func GetIPFSAPIURL() string        { return ipfsAPIURL }

// GetTextGateway returns the base URL used to turn content pointers into
// retrievable text URLs.
func GetTextGateway() string {
	return "https://" + ipfsGateway + "/ipfs"
}

func GetPollingInterval() time.Duration { return pollingInterval }
func GetStartBlock() uint64             { return uint64(startBlock) }
func GetAPIPort() string                { return apiPort }
func IsDevMode() bool                   { return devMode }
