// Package chainio implements the chain-reader collaborators: thin adapters
// that collect raw contract state and event logs for the pure core. All
// numeric values leave this package as decimal strings; retry policy lives
// here, never in the core.
package chainio

import (
	"context"
	"fmt"
	"math/big"
	"sort"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	marketevents "github.com/linguoexchange/linguo-backend/internal/marketplace/events"
	"github.com/linguoexchange/linguo-backend/internal/marketplace/task"
	"github.com/linguoexchange/linguo-backend/pkg/logging"
	"github.com/linguoexchange/linguo-backend/pkg/retry"
)

// TaskReader exposes the escrow contract reads the refresher needs.
type TaskReader interface {
	TaskCount(ctx context.Context) (uint64, error)
	TaskState(ctx context.Context, taskID uint64) (task.ChainState, error)
	TaskEvents(ctx context.Context, taskID uint64, disputeID *big.Int, fromBlock uint64) ([]marketevents.RawOccurrence, error)
	TranslatorDeposit(ctx context.Context, taskID uint64) (string, error)
}

// EscrowReader reads the translation escrow contract over JSON-RPC.
type EscrowReader struct {
	client   *ethclient.Client
	address  common.Address
	abi      abi.ABI
	logger   logging.Logger
	retryCfg *retry.RetryConfig
}

var _ TaskReader = (*EscrowReader)(nil)

func NewEscrowReader(rpcURL, contractAddress string, logger logging.Logger) (*EscrowReader, error) {
	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Ethereum client: %w", err)
	}
	parsed, err := abi.JSON(strings.NewReader(escrowABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse escrow ABI: %w", err)
	}
	return &EscrowReader{
		client:   client,
		address:  common.HexToAddress(contractAddress),
		abi:      parsed,
		logger:   logger,
		retryCfg: retry.DefaultRetryConfig(),
	}, nil
}

// Address returns the escrow contract address in lowercase hex.
func (r *EscrowReader) Address() string {
	return strings.ToLower(r.address.Hex())
}

func (r *EscrowReader) call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	data, err := r.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s call: %w", method, err)
	}
	output, err := retry.Retry(ctx, func() ([]byte, error) {
		return r.client.CallContract(ctx, ethereum.CallMsg{To: &r.address, Data: data}, nil)
	}, r.retryCfg, r.logger)
	if err != nil {
		return nil, fmt.Errorf("%s call failed: %w", method, err)
	}
	out, err := r.abi.Unpack(method, output)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack %s output: %w", method, err)
	}
	return out, nil
}

func (r *EscrowReader) TaskCount(ctx context.Context) (uint64, error) {
	out, err := r.call(ctx, "getTaskCount")
	if err != nil {
		return 0, err
	}
	count, ok := out[0].(*big.Int)
	if !ok {
		return 0, fmt.Errorf("unexpected getTaskCount output type %T", out[0])
	}
	return count.Uint64(), nil
}

func (r *EscrowReader) TaskState(ctx context.Context, taskID uint64) (task.ChainState, error) {
	id := new(big.Int).SetUint64(taskID)

	out, err := r.call(ctx, "tasks", id)
	if err != nil {
		return task.ChainState{}, err
	}
	if len(out) < 8 {
		return task.ChainState{}, fmt.Errorf("unexpected tasks output arity %d", len(out))
	}

	partiesOut, err := r.call(ctx, "getTaskParties", id)
	if err != nil {
		return task.ChainState{}, err
	}
	reviewOut, err := r.call(ctx, "reviewTimeout")
	if err != nil {
		return task.ChainState{}, err
	}

	var parties [3]string
	if tuple, ok := partiesOut[0].([3]common.Address); ok {
		for i, addr := range tuple {
			parties[i] = strings.ToLower(addr.Hex())
		}
	}

	return task.ChainState{
		SubmissionTimeout: stringify(out[0]),
		MinPrice:          stringify(out[1]),
		MaxPrice:          stringify(out[2]),
		Status:            stringify(out[3]),
		Deadline:          stringify(out[4]),
		LastInteraction:   stringify(out[5]),
		Requester:         stringify(out[6]),
		DisputeID:         stringify(out[7]),
		Parties:           parties,
		ReviewTimeout:     stringify(reviewOut[0]),
	}, nil
}

func (r *EscrowReader) TranslatorDeposit(ctx context.Context, taskID uint64) (string, error) {
	out, err := r.call(ctx, "getDepositValue", new(big.Int).SetUint64(taskID))
	if err != nil {
		return "", err
	}
	return stringify(out[0]), nil
}

// TaskEvents fetches the task's lifecycle events from fromBlock on. Most
// escrow events index the task id directly; Dispute events index the
// dispute id instead, so they need a second query when the task has one.
func (r *EscrowReader) TaskEvents(ctx context.Context, taskID uint64, disputeID *big.Int, fromBlock uint64) ([]marketevents.RawOccurrence, error) {
	taskTopic := common.BigToHash(new(big.Int).SetUint64(taskID))

	var taskEventIDs []common.Hash
	for name, ev := range r.abi.Events {
		if name == "Dispute" {
			continue
		}
		taskEventIDs = append(taskEventIDs, ev.ID)
	}

	logs, err := r.filterLogs(ctx, fromBlock, [][]common.Hash{taskEventIDs, {taskTopic}})
	if err != nil {
		return nil, err
	}

	if disputeID != nil && disputeID.Sign() > 0 {
		disputeLogs, err := r.filterLogs(ctx, fromBlock, [][]common.Hash{
			{r.abi.Events["Dispute"].ID},
			nil,
			{common.BigToHash(disputeID)},
		})
		if err != nil {
			return nil, err
		}
		logs = append(logs, disputeLogs...)
	}

	sort.Slice(logs, func(i, j int) bool {
		if logs[i].BlockNumber != logs[j].BlockNumber {
			return logs[i].BlockNumber < logs[j].BlockNumber
		}
		return logs[i].Index < logs[j].Index
	})

	occurrences := make([]marketevents.RawOccurrence, 0, len(logs))
	for _, lg := range logs {
		occ, err := r.decodeLog(lg)
		if err != nil {
			// An undecodable log is a data defect worth surfacing, not
			// silently dropping.
			r.logger.Error("Failed to decode escrow event log",
				"task_id", taskID,
				"tx_hash", lg.TxHash.Hex(),
				"block", lg.BlockNumber,
				"error", err,
			)
			continue
		}
		occurrences = append(occurrences, occ)
	}
	return occurrences, nil
}

func (r *EscrowReader) filterLogs(ctx context.Context, fromBlock uint64, topics [][]common.Hash) ([]gethtypes.Log, error) {
	query := ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(fromBlock),
		Addresses: []common.Address{r.address},
		Topics:    topics,
	}
	logs, err := retry.Retry(ctx, func() ([]gethtypes.Log, error) {
		return r.client.FilterLogs(ctx, query)
	}, r.retryCfg, r.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to filter logs: %w", err)
	}
	return logs, nil
}

func (r *EscrowReader) decodeLog(lg gethtypes.Log) (marketevents.RawOccurrence, error) {
	ev, err := r.abi.EventByID(lg.Topics[0])
	if err != nil {
		return marketevents.RawOccurrence{}, fmt.Errorf("unknown event topic %s: %w", lg.Topics[0].Hex(), err)
	}

	values := make(map[string]interface{})
	if err := r.abi.UnpackIntoMap(values, ev.Name, lg.Data); err != nil {
		return marketevents.RawOccurrence{}, fmt.Errorf("failed to unpack %s data: %w", ev.Name, err)
	}

	var indexed abi.Arguments
	for _, input := range ev.Inputs {
		if input.Indexed {
			indexed = append(indexed, input)
		}
	}
	if err := abi.ParseTopicsIntoMap(values, indexed, lg.Topics[1:]); err != nil {
		return marketevents.RawOccurrence{}, fmt.Errorf("failed to parse %s topics: %w", ev.Name, err)
	}

	stringValues := make(map[string]string, len(values))
	for key, value := range values {
		stringValues[key] = stringify(value)
	}

	return marketevents.RawOccurrence{
		Name:        ev.Name,
		BlockNumber: lg.BlockNumber,
		TxHash:      lg.TxHash.Hex(),
		Values:      stringValues,
	}, nil
}

func stringify(v interface{}) string {
	switch value := v.(type) {
	case *big.Int:
		return value.String()
	case common.Address:
		return strings.ToLower(value.Hex())
	case common.Hash:
		return value.Hex()
	case uint8:
		return strconv.FormatUint(uint64(value), 10)
	case bool:
		return strconv.FormatBool(value)
	case string:
		return value
	default:
		return fmt.Sprintf("%v", value)
	}
}
