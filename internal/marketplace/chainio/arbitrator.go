package chainio

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/linguoexchange/linguo-backend/internal/marketplace/dispute"
	markettypes "github.com/linguoexchange/linguo-backend/internal/marketplace/types"
	"github.com/linguoexchange/linguo-backend/pkg/logging"
	"github.com/linguoexchange/linguo-backend/pkg/retry"
)

// ArbitrationReader exposes the arbitrator-side reads the refresher needs.
type ArbitrationReader interface {
	DisputeState(ctx context.Context, t markettypes.Task) (dispute.ChainDispute, error)
}

// ArbitratorReader reads dispute state from the arbitrator contract and
// the appeal-round bookkeeping the escrow contract keeps alongside it.
type ArbitratorReader struct {
	client   *ethclient.Client
	address  common.Address
	abi      abi.ABI
	escrow   *EscrowReader
	logger   logging.Logger
	retryCfg *retry.RetryConfig
}

var _ ArbitrationReader = (*ArbitratorReader)(nil)

func NewArbitratorReader(rpcURL, contractAddress string, escrow *EscrowReader, logger logging.Logger) (*ArbitratorReader, error) {
	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Ethereum client: %w", err)
	}
	parsed, err := abi.JSON(strings.NewReader(arbitratorABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse arbitrator ABI: %w", err)
	}
	return &ArbitratorReader{
		client:   client,
		address:  common.HexToAddress(contractAddress),
		abi:      parsed,
		escrow:   escrow,
		logger:   logger,
		retryCfg: retry.DefaultRetryConfig(),
	}, nil
}

func (r *ArbitratorReader) call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
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

// DisputeState collects the raw dispute record for a task that has one.
func (r *ArbitratorReader) DisputeState(ctx context.Context, t markettypes.Task) (dispute.ChainDispute, error) {
	if t.DisputeID == nil {
		return dispute.ChainDispute{}, fmt.Errorf("%w: task %d has no dispute id", markettypes.ErrMalformedDisputeData, t.ID)
	}
	disputeID := t.DisputeID.Int

	statusOut, err := r.call(ctx, "disputeStatus", disputeID)
	if err != nil {
		return dispute.ChainDispute{}, err
	}
	rulingOut, err := r.call(ctx, "currentRuling", disputeID)
	if err != nil {
		return dispute.ChainDispute{}, err
	}
	periodOut, err := r.call(ctx, "appealPeriod", disputeID)
	if err != nil {
		return dispute.ChainDispute{}, err
	}
	costOut, err := r.call(ctx, "appealCost", disputeID, []byte{})
	if err != nil {
		return dispute.ChainDispute{}, err
	}

	raw := dispute.ChainDispute{
		ID:                t.DisputeID.String(),
		Status:            stringify(statusOut[0]),
		Ruling:            stringify(rulingOut[0]),
		AppealPeriodStart: stringify(periodOut[0]),
		AppealPeriodEnd:   stringify(periodOut[1]),
		AppealCost:        stringify(costOut[0]),
	}

	if err := r.fillLatestRound(ctx, t.ID, &raw); err != nil {
		return dispute.ChainDispute{}, err
	}
	if err := r.fillMultipliers(ctx, &raw); err != nil {
		return dispute.ChainDispute{}, err
	}
	return raw, nil
}

func (r *ArbitratorReader) fillLatestRound(ctx context.Context, taskID uint64, raw *dispute.ChainDispute) error {
	id := new(big.Int).SetUint64(taskID)

	roundsOut, err := r.escrow.call(ctx, "getNumberOfRounds", id)
	if err != nil {
		return err
	}
	rounds, ok := roundsOut[0].(*big.Int)
	if !ok || rounds.Sign() == 0 {
		return fmt.Errorf("%w: task %d has no appeal rounds", markettypes.ErrMalformedDisputeData, taskID)
	}
	latest := new(big.Int).Sub(rounds, big.NewInt(1))

	roundOut, err := r.escrow.call(ctx, "getRoundInfo", id, latest)
	if err != nil {
		return err
	}
	paidFees, ok := roundOut[0].([3]*big.Int)
	if !ok {
		return fmt.Errorf("unexpected getRoundInfo paidFees type %T", roundOut[0])
	}
	hasPaid, ok := roundOut[1].([3]bool)
	if !ok {
		return fmt.Errorf("unexpected getRoundInfo hasPaid type %T", roundOut[1])
	}

	// Round arrays are indexed by the contract's party enum:
	// 1=Translator, 2=Challenger.
	raw.PaidFeesTranslator = paidFees[1].String()
	raw.PaidFeesChallenger = paidFees[2].String()
	raw.HasPaidTranslator = hasPaid[1]
	raw.HasPaidChallenger = hasPaid[2]
	raw.FeeRewards = stringify(roundOut[2])
	return nil
}

func (r *ArbitratorReader) fillMultipliers(ctx context.Context, raw *dispute.ChainDispute) error {
	winner, err := r.escrow.call(ctx, "winnerStakeMultiplier")
	if err != nil {
		return err
	}
	loser, err := r.escrow.call(ctx, "loserStakeMultiplier")
	if err != nil {
		return err
	}
	shared, err := r.escrow.call(ctx, "sharedStakeMultiplier")
	if err != nil {
		return err
	}
	divisor, err := r.escrow.call(ctx, "MULTIPLIER_DIVISOR")
	if err != nil {
		return err
	}
	raw.WinnerStakeMultiplier = stringify(winner[0])
	raw.LoserStakeMultiplier = stringify(loser[0])
	raw.SharedStakeMultiplier = stringify(shared[0])
	raw.MultiplierDivisor = stringify(divisor[0])
	return nil
}
