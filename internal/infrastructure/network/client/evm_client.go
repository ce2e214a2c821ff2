package client

import (
	"context"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"sync"
	"time"

	"nest_dashboard/internal/app/port"
	"nest_dashboard/internal/domain/entity"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// ERC20 ABI minimal part for balanceOf and decimals
const erc20ABI = `[{"constant":true,"inputs":[{"name":"_owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"balance","type":"uint256"}],"payable":false,"stateMutability":"view","type":"function"},{"constant":true,"inputs":[],"name":"decimals","outputs":[{"name":"","type":"uint8"}],"payable":false,"stateMutability":"view","type":"function"}]`

var (
	parsedERC20ABI  abi.ABI
	parsedERC20Once sync.Once
	transferTopic   common.Hash
)

func initParsedERC20ABI() {
	parsedERC20Once.Do(func() {
		var err error
		parsedERC20ABI, err = abi.JSON(strings.NewReader(erc20ABI))
		if err != nil {
			// This is a critical error during initialization, panic is appropriate
			panic(fmt.Sprintf("failed to parse ERC20 ABI: %v", err))
		}
		transferTopic = crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)"))
	})
}

// EVMClient implements the port.ChainReader interface for EVM-compatible chains.
type EVMClient struct {
	ethClient      *ethclient.Client
	rpcCallTimeout time.Duration
	limiter        *rate.Limiter
	tsCache        *gocache.Cache
}

// NewEVMClient dials the RPC endpoint and returns a chain reader.
func NewEVMClient(rpcURL string, connectionTimeout time.Duration, rpcCallTimeout time.Duration, rateLimitPerSecond float64) (port.ChainReader, error) {
	initParsedERC20ABI()

	ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
	defer cancel()

	ethClient, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC %s: %w", rpcURL, err)
	}

	return &EVMClient{
		ethClient:      ethClient,
		rpcCallTimeout: rpcCallTimeout,
		limiter:        rate.NewLimiter(rate.Limit(rateLimitPerSecond), 1),
		// Block timestamps are immutable, cache them indefinitely.
		tsCache: gocache.New(gocache.NoExpiration, 0),
	}, nil
}

// ReadDecimals fetches the decimals() value of a token contract.
func (c *EVMClient) ReadDecimals(ctx context.Context, tokenAddress string) (uint8, error) {
	data, err := parsedERC20ABI.Pack("decimals")
	if err != nil {
		return 0, fmt.Errorf("failed to pack decimals call: %w", err)
	}

	result, err := c.call(ctx, tokenAddress, data)
	if err != nil {
		return 0, fmt.Errorf("decimals call failed for %s: %w", tokenAddress, err)
	}

	unpacked, err := parsedERC20ABI.Unpack("decimals", result)
	if err != nil {
		return 0, fmt.Errorf("failed to unpack decimals result for %s: %w", tokenAddress, err)
	}
	if len(unpacked) == 0 {
		return 0, fmt.Errorf("decimals unpack returned no data for %s", tokenAddress)
	}
	decimals, ok := unpacked[0].(uint8)
	if !ok {
		return 0, fmt.Errorf("failed to assert unpacked decimals result to uint8 for %s. Got: %T", tokenAddress, unpacked[0])
	}
	return decimals, nil
}

// ReadBalance fetches balanceOf(owner) of a token contract in raw units.
func (c *EVMClient) ReadBalance(ctx context.Context, tokenAddress string, ownerAddress string) (*big.Int, error) {
	data, err := parsedERC20ABI.Pack("balanceOf", common.HexToAddress(ownerAddress))
	if err != nil {
		return nil, fmt.Errorf("failed to pack balanceOf call: %w", err)
	}

	result, err := c.call(ctx, tokenAddress, data)
	if err != nil {
		return nil, fmt.Errorf("balanceOf call failed for %s (owner %s): %w", tokenAddress, ownerAddress, err)
	}
	if len(result) == 0 {
		return big.NewInt(0), nil
	}

	unpacked, err := parsedERC20ABI.Unpack("balanceOf", result)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack balanceOf result for %s: %w", tokenAddress, err)
	}
	if len(unpacked) == 0 {
		return nil, fmt.Errorf("balanceOf unpack returned no data for %s", tokenAddress)
	}
	balance, ok := unpacked[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("failed to assert unpacked balanceOf result to *big.Int for %s. Got: %T", tokenAddress, unpacked[0])
	}
	return balance, nil
}

// TransferLogs queries Transfer events emitted by tokenAddress from the
// earliest block to the current head, optionally constrained on the indexed
// from or to argument.
func (c *EVMClient) TransferLogs(ctx context.Context, tokenAddress string, from string, to string) ([]entity.TransferLog, error) {
	topics := [][]common.Hash{{transferTopic}, nil, nil}
	if from != "" {
		topics[1] = []common.Hash{addressTopic(from)}
	}
	if to != "" {
		topics[2] = []common.Hash{addressTopic(to)}
	}

	query := ethereum.FilterQuery{
		FromBlock: big.NewInt(0),
		Addresses: []common.Address{common.HexToAddress(tokenAddress)},
		Topics:    topics,
	}

	callCtx, cancel := context.WithTimeout(ctx, c.rpcCallTimeout)
	defer cancel()

	if err := c.limiter.Wait(callCtx); err != nil {
		return nil, err
	}
	logs, err := c.ethClient.FilterLogs(callCtx, query)
	if err != nil {
		return nil, fmt.Errorf("filter logs failed for %s: %w", tokenAddress, err)
	}

	out := make([]entity.TransferLog, 0, len(logs))
	for _, lg := range logs {
		transfer, ok := decodeTransferLog(lg)
		if !ok {
			continue
		}
		out = append(out, transfer)
	}
	return out, nil
}

// BlockTime returns the block timestamp, using an in-memory cache.
func (c *EVMClient) BlockTime(ctx context.Context, blockNumber uint64) (uint64, error) {
	key := strconv.FormatUint(blockNumber, 10)
	if ts, found := c.tsCache.Get(key); found {
		return ts.(uint64), nil
	}

	callCtx, cancel := context.WithTimeout(ctx, c.rpcCallTimeout)
	defer cancel()

	if err := c.limiter.Wait(callCtx); err != nil {
		return 0, err
	}
	header, err := c.ethClient.HeaderByNumber(callCtx, new(big.Int).SetUint64(blockNumber))
	if err != nil {
		return 0, fmt.Errorf("failed to fetch header for block %d: %w", blockNumber, err)
	}

	c.tsCache.Set(key, header.Time, gocache.NoExpiration)
	return header.Time, nil
}

// Close releases the underlying RPC connection.
func (c *EVMClient) Close() {
	c.ethClient.Close()
}

func (c *EVMClient) call(ctx context.Context, contractAddress string, data []byte) ([]byte, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.rpcCallTimeout)
	defer cancel()

	if err := c.limiter.Wait(callCtx); err != nil {
		return nil, err
	}

	contract := common.HexToAddress(contractAddress)
	msg := ethereum.CallMsg{To: &contract, Data: data}
	return c.ethClient.CallContract(callCtx, msg, nil)
}

func addressTopic(address string) common.Hash {
	return common.BytesToHash(common.HexToAddress(address).Bytes())
}

func decodeTransferLog(lg types.Log) (entity.TransferLog, bool) {
	if len(lg.Topics) < 3 || lg.Removed {
		return entity.TransferLog{}, false
	}
	value := new(big.Int)
	if len(lg.Data) > 0 {
		value.SetBytes(lg.Data)
	}
	return entity.TransferLog{
		TxHash:      lg.TxHash.Hex(),
		From:        common.BytesToAddress(lg.Topics[1].Bytes()).Hex(),
		To:          common.BytesToAddress(lg.Topics[2].Bytes()).Hex(),
		Value:       value,
		BlockNumber: lg.BlockNumber,
	}, true
}
