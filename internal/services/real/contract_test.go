package real

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/yusuketakei/tickets/internal/binary"
	"github.com/yusuketakei/tickets/internal/models"
)

const (
	abiPath      = "../../../contracts/ticket.abi.json"
	contractAddr = "0x5a0b54d5dc17e0aadc383d2db43b0a0d3e029c4c"
	owner        = "0x2ece2166f3232a49345bb99e8481121a448661f9"
	recipient    = "0xd39884029517d044d03c5e0889832b41c60e19d4"
	txHash       = "0x00000000000000000000000000000000000000000000000000000000deadbeef"
)

type rpcRequest struct {
	ID     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

// fakeNode answers eth_call and eth_sendTransaction for the ticket contract
type fakeNode struct {
	t        *testing.T
	abi      abi.ABI
	ticket   models.RawTuple
	mu       sync.Mutex
	lastSend map[string]string
}

func (n *fakeNode) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req rpcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var result interface{}
	switch req.Method {
	case "eth_call":
		result = n.call(req.Params[0])
	case "eth_sendTransaction":
		var tx map[string]string
		if err := json.Unmarshal(req.Params[0], &tx); err != nil {
			n.t.Errorf("Failed to decode transaction: %v", err)
		}
		n.mu.Lock()
		n.lastSend = tx
		n.mu.Unlock()
		result = txHash
	default:
		n.t.Errorf("unexpected method %s", req.Method)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      req.ID,
		"result":  result,
	})
}

func (n *fakeNode) call(raw json.RawMessage) string {
	var msg map[string]string
	if err := json.Unmarshal(raw, &msg); err != nil {
		n.t.Errorf("Failed to decode call: %v", err)
		return "0x"
	}
	input := msg["input"]
	if input == "" {
		input = msg["data"]
	}
	data, err := hexutil.Decode(input)
	if err != nil || len(data) < 4 {
		n.t.Errorf("bad call data %q", input)
		return "0x"
	}
	method, err := n.abi.MethodById(data[:4])
	if err != nil {
		n.t.Errorf("unknown selector: %v", err)
		return "0x"
	}

	switch method.Name {
	case methodTokensOfOwner:
		out, err := method.Outputs.Pack([]*big.Int{big.NewInt(1), big.NewInt(3)})
		if err != nil {
			n.t.Errorf("Failed to pack ids: %v", err)
		}
		return hexutil.Encode(out)
	case methodGetTicketInfoByID:
		var out []byte
		for _, word := range n.ticket {
			out = append(out, hexutil.MustDecode(word)...)
		}
		return hexutil.Encode(out)
	}
	n.t.Errorf("unexpected call to %s", method.Name)
	return "0x"
}

func setupNode(t *testing.T) (*RealContract, *fakeNode) {
	t.Helper()

	f, err := os.Open(abiPath)
	if err != nil {
		t.Fatalf("Failed to open ABI: %v", err)
	}
	defer f.Close()
	contractABI, err := abi.JSON(f)
	if err != nil {
		t.Fatalf("Failed to parse ABI: %v", err)
	}

	node := &fakeNode{
		t:   t,
		abi: contractABI,
		ticket: models.RawTuple{
			binary.UintToHex(3),
			binary.UintToHex(103),
			binary.TextToHex("concert"),
			binary.TextToHex("QmFirst"),
			binary.TextToHex("QmSecond"),
			binary.AddressToHex(contractAddr),
			binary.UintToHex(1609459200123),
		},
	}
	server := httptest.NewServer(node)
	t.Cleanup(server.Close)

	contract, err := NewRealContract(context.Background(), Options{
		RPCURL:          server.URL,
		ContractAddress: contractAddr,
		ABIPath:         abiPath,
		FromAddress:     owner,
		CallTimeout:     5 * time.Second,
	})
	if err != nil {
		t.Fatalf("Failed to create contract client: %v", err)
	}
	t.Cleanup(contract.Close)
	return contract, node
}

func TestTokensOfOwner(t *testing.T) {
	contract, _ := setupNode(t)

	ids, err := contract.TokensOfOwner(context.Background(), owner)
	if err != nil {
		t.Fatalf("TokensOfOwner error: %v", err)
	}
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 3 {
		t.Errorf("ids = %v, want [1 3]", ids)
	}

	if _, err := contract.TokensOfOwner(context.Background(), "nobody"); err == nil {
		t.Error("expected error for an invalid owner address")
	}
}

func TestGetTicketInfoByID(t *testing.T) {
	contract, node := setupNode(t)

	tuple, err := contract.GetTicketInfoByID(context.Background(), 3)
	if err != nil {
		t.Fatalf("GetTicketInfoByID error: %v", err)
	}
	if len(tuple) != binary.TicketFields {
		t.Fatalf("got %d words, want %d", len(tuple), binary.TicketFields)
	}
	for i := range tuple {
		if !strings.EqualFold(tuple[i], node.ticket[i]) {
			t.Errorf("word %d = %s, want %s", i, tuple[i], node.ticket[i])
		}
	}

	info, err := binary.NewCodec("_", 6).DecodeTicket(tuple)
	if err != nil {
		t.Fatalf("Failed to decode ticket: %v", err)
	}
	if info.TicketCategoryName != "concert" || info.TicketIssuer != contractAddr {
		t.Errorf("unexpected ticket: %+v", info)
	}
}

func TestTransfer(t *testing.T) {
	contract, node := setupNode(t)

	hash, err := contract.Transfer(context.Background(), models.TransferCall{
		From:     owner,
		Gas:      3000000,
		To:       recipient,
		TicketID: 3,
	})
	if err != nil {
		t.Fatalf("Transfer error: %v", err)
	}
	if hash != txHash {
		t.Errorf("hash = %s, want %s", hash, txHash)
	}

	node.mu.Lock()
	sent := node.lastSend
	node.mu.Unlock()
	if !strings.EqualFold(sent["from"], owner) || !strings.EqualFold(sent["to"], contractAddr) {
		t.Errorf("unexpected sender or target: %v", sent)
	}
	if sent["gas"] != "0x2dc6c0" {
		t.Errorf("gas = %s, want 0x2dc6c0", sent["gas"])
	}

	data := hexutil.MustDecode(sent["data"])
	args, err := contract.contractABI.Methods[methodTransfer].Inputs.Unpack(data[4:])
	if err != nil {
		t.Fatalf("Failed to unpack transfer args: %v", err)
	}
	if args[1].(*big.Int).Uint64() != 3 || args[0].(common.Address) != common.HexToAddress(recipient) {
		t.Errorf("transfer args = %v", args)
	}
}

func TestNewRealContractErrors(t *testing.T) {
	if _, err := NewRealContract(context.Background(), Options{ContractAddress: "nope", ABIPath: abiPath}); err == nil {
		t.Error("expected error for an invalid contract address")
	}
	if _, err := NewRealContract(context.Background(), Options{ContractAddress: contractAddr, ABIPath: "missing.json"}); err == nil {
		t.Error("expected error for a missing ABI file")
	}
}

func TestSplitWords(t *testing.T) {
	out := make([]byte, 2*binary.WordSize)
	out[binary.WordSize-1] = 7
	out[2*binary.WordSize-1] = 9

	tuple, err := SplitWords(out)
	if err != nil {
		t.Fatalf("SplitWords error: %v", err)
	}
	if len(tuple) != 2 {
		t.Fatalf("got %d words, want 2", len(tuple))
	}
	if v, _ := binary.HexToUint(tuple[0]); v != 7 {
		t.Errorf("word 0 = %d, want 7", v)
	}
	if v, _ := binary.HexToUint(tuple[1]); v != 9 {
		t.Errorf("word 1 = %d, want 9", v)
	}

	if _, err := SplitWords(make([]byte, 33)); err == nil {
		t.Error("expected error for a partial word")
	}
}
