package real

import (
	"context"
	"fmt"
	"log"
	"math/big"
	"os"
	"time"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/yusuketakei/tickets/internal/binary"
	"github.com/yusuketakei/tickets/internal/models"
)

const (
	methodTokensOfOwner      = "tokensOfOwner"
	methodGetTicketInfoByID  = "getTicketInfoById"
	methodGetTransactionInfo = "getTransactionInfo"
	methodTransfer           = "transfer"
)

// Options configures the JSON-RPC contract client
type Options struct {
	RPCURL          string
	ContractAddress string
	ABIPath         string
	FromAddress     string
	CallTimeout     time.Duration
	Verbose         bool
}

// RealContract talks to the ticket contract through an Ethereum node.
// The node must hold the sender account unlocked; this client never signs.
type RealContract struct {
	rpcClient   *rpc.Client
	eth         *ethclient.Client
	contractABI abi.ABI
	address     common.Address
	from        common.Address
	callTimeout time.Duration
	verbose     bool
}

// NewRealContract dials the node and loads the contract ABI
func NewRealContract(ctx context.Context, opts Options) (*RealContract, error) {
	if !common.IsHexAddress(opts.ContractAddress) {
		return nil, fmt.Errorf("invalid contract address %q", opts.ContractAddress)
	}

	f, err := os.Open(opts.ABIPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open contract ABI: %w", err)
	}
	defer f.Close()

	contractABI, err := abi.JSON(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse contract ABI: %w", err)
	}
	for _, name := range []string{methodTokensOfOwner, methodGetTicketInfoByID, methodGetTransactionInfo, methodTransfer} {
		if _, ok := contractABI.Methods[name]; !ok {
			return nil, fmt.Errorf("contract ABI has no %s method", name)
		}
	}

	client, err := rpc.DialContext(ctx, opts.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", opts.RPCURL, err)
	}

	if opts.Verbose {
		log.Printf("[CONTRACT] Connected to %s, contract %s", opts.RPCURL, opts.ContractAddress)
	}

	return &RealContract{
		rpcClient:   client,
		eth:         ethclient.NewClient(client),
		contractABI: contractABI,
		address:     common.HexToAddress(opts.ContractAddress),
		from:        common.HexToAddress(opts.FromAddress),
		callTimeout: opts.CallTimeout,
		verbose:     opts.Verbose,
	}, nil
}

// Close releases the RPC connection
func (r *RealContract) Close() {
	r.rpcClient.Close()
}

func (r *RealContract) TokensOfOwner(ctx context.Context, owner string) ([]uint64, error) {
	if !common.IsHexAddress(owner) {
		return nil, fmt.Errorf("invalid owner address %q", owner)
	}
	out, err := r.call(ctx, methodTokensOfOwner, common.HexToAddress(owner))
	if err != nil {
		return nil, err
	}

	values, err := r.contractABI.Unpack(methodTokensOfOwner, out)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack %s: %w", methodTokensOfOwner, err)
	}
	if len(values) != 1 {
		return nil, fmt.Errorf("%s returned %d values, expected 1", methodTokensOfOwner, len(values))
	}
	raw, ok := values[0].([]*big.Int)
	if !ok {
		return nil, fmt.Errorf("%s returned %T, expected uint256[]", methodTokensOfOwner, values[0])
	}

	ids := make([]uint64, 0, len(raw))
	for _, v := range raw {
		if !v.IsUint64() {
			return nil, fmt.Errorf("ticket id %s does not fit in 64 bits", v)
		}
		ids = append(ids, v.Uint64())
	}

	if r.verbose {
		log.Printf("[CONTRACT] tokensOfOwner(%s) -> %d tickets", owner, len(ids))
	}
	return ids, nil
}

func (r *RealContract) GetTicketInfoByID(ctx context.Context, ticketID uint64) (models.RawTuple, error) {
	out, err := r.call(ctx, methodGetTicketInfoByID, new(big.Int).SetUint64(ticketID))
	if err != nil {
		return nil, err
	}
	return SplitWords(out)
}

func (r *RealContract) GetTransactionInfo(ctx context.Context, transactionID uint64) (models.RawTuple, error) {
	out, err := r.call(ctx, methodGetTransactionInfo, new(big.Int).SetUint64(transactionID))
	if err != nil {
		return nil, err
	}
	return SplitWords(out)
}

// Transfer sends transfer(to, ticketId) with eth_sendTransaction and returns the hash
func (r *RealContract) Transfer(ctx context.Context, call models.TransferCall) (string, error) {
	data, err := r.contractABI.Pack(methodTransfer, common.HexToAddress(call.To), new(big.Int).SetUint64(call.TicketID))
	if err != nil {
		return "", fmt.Errorf("failed to pack %s: %w", methodTransfer, err)
	}

	from := r.from
	if call.From != "" {
		from = common.HexToAddress(call.From)
	}
	tx := map[string]interface{}{
		"from": from,
		"to":   r.address,
		"gas":  hexutil.Uint64(call.Gas),
		"data": hexutil.Bytes(data),
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var hash common.Hash
	if err := r.rpcClient.CallContext(ctx, &hash, "eth_sendTransaction", tx); err != nil {
		return "", fmt.Errorf("eth_sendTransaction: %w", err)
	}

	if r.verbose {
		log.Printf("[CONTRACT] transfer(%s, %d) submitted: %s", call.To, call.TicketID, hash.Hex())
	}
	return hash.Hex(), nil
}

func (r *RealContract) call(ctx context.Context, method string, args ...interface{}) ([]byte, error) {
	data, err := r.contractABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s: %w", method, err)
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	msg := ethereum.CallMsg{
		From: r.from,
		To:   &r.address,
		Data: data,
	}
	out, err := r.eth.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, fmt.Errorf("%s call failed: %w", method, err)
	}
	return out, nil
}

func (r *RealContract) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.callTimeout)
}

// SplitWords cuts ABI output into 32 byte words, each as a 0x hex string
func SplitWords(out []byte) (models.RawTuple, error) {
	if len(out)%binary.WordSize != 0 {
		return nil, fmt.Errorf("output length %d is not a multiple of %d", len(out), binary.WordSize)
	}
	tuple := make(models.RawTuple, 0, len(out)/binary.WordSize)
	for i := 0; i < len(out); i += binary.WordSize {
		tuple = append(tuple, hexutil.Encode(out[i:i+binary.WordSize]))
	}
	return tuple, nil
}
