package abi

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/fatih/color"
	"github.com/trebuchet-org/treb-dao/internal/adapters/abi/bindings"
	"github.com/trebuchet-org/treb-dao/internal/domain/config"
	"github.com/trebuchet-org/treb-dao/internal/domain/models"
	"github.com/trebuchet-org/treb-dao/pkg/multisend"
)

// TransactionDecoder turns calldata back into labelled, nested calls.
// multiSend payloads and Safe execTransaction data are decoded recursively.
type TransactionDecoder struct {
	contracts *bindings.ContractSet
	labels    map[common.Address]string
	kinds     map[common.Address]string
}

// NewTransactionDecoder creates a decoder over a contract set
func NewTransactionDecoder(contracts *bindings.ContractSet) *TransactionDecoder {
	return &TransactionDecoder{
		contracts: contracts,
		labels:    make(map[common.Address]string),
		kinds:     make(map[common.Address]string),
	}
}

// Register associates an address with a contract ABI and a display label
func (td *TransactionDecoder) Register(addr common.Address, contract, label string) {
	td.kinds[addr] = contract
	if label == "" {
		label = contract
	}
	td.labels[addr] = label
}

// RegisterPlan registers every address a deployment plan touches
func (td *TransactionDecoder) RegisterPlan(plan *models.DeploymentPlan, contracts map[string]common.Address) {
	for name, addr := range contracts {
		td.Register(addr, name, "")
	}
	td.Register(plan.Forwarder, bindings.MultiSend, "MultiSend")
	td.Register(plan.Safe.Address(), bindings.GnosisSafe, "Safe")
	td.Register(plan.Strategy.Address(), bindings.LinearERC20Voting, "")
	td.Register(plan.Azorius.Address(), bindings.Azorius, "")
}

// RegisterContracts registers the factories and singletons of a network
func (td *TransactionDecoder) RegisterContracts(c config.Contracts) {
	td.Register(c.SafeSingleton, bindings.GnosisSafe, "SafeSingleton")
	td.Register(c.SafeProxyFactory, bindings.GnosisSafeProxyFactory, "")
	td.Register(c.ModuleProxyFactory, bindings.ModuleProxyFactory, "")
	td.Register(c.FractalRegistry, bindings.FractalRegistry, "")
	td.Register(c.KeyValuePairs, bindings.KeyValuePairs, "")
	td.Register(c.Azorius, bindings.Azorius, "AzoriusMasterCopy")
	td.Register(c.LinearERC20Voting, bindings.LinearERC20Voting, "LinearERC20VotingMasterCopy")
	td.Register(c.MultiSend, bindings.MultiSend, "MultiSend")
}

// DecodedTransaction represents a human-readable call
type DecodedTransaction struct {
	To        common.Address
	Label     string
	Contract  string
	Method    string
	Operation models.Operation
	Inputs    []DecodedInput
	Value     *big.Int
	Inner     []*DecodedTransaction
	RawData   string
}

// DecodedInput represents a decoded function input
type DecodedInput struct {
	Name  string
	Type  string
	Value any
}

// DecodeCall decodes an EncodedCall
func (td *TransactionDecoder) DecodeCall(call *models.EncodedCall) *DecodedTransaction {
	return td.DecodeTransaction(call.Target, call.Data, call.Value, call.Operation)
}

// DecodeTransaction decodes calldata sent to `to`
func (td *TransactionDecoder) DecodeTransaction(to common.Address, data []byte, value *big.Int, op models.Operation) *DecodedTransaction {
	decoded := &DecodedTransaction{
		To:        to,
		Label:     td.labels[to],
		Operation: op,
		Value:     value,
		RawData:   hexutil.Encode(data),
		Method:    "unknown",
	}

	if len(data) < 4 {
		if len(data) == 0 {
			decoded.Method = "transfer"
		}
		return decoded
	}

	contract, method := td.lookupMethod(to, data[:4])
	if method == nil {
		return decoded
	}
	decoded.Contract = contract
	decoded.Method = method.RawName
	if decoded.Label == "" {
		decoded.Label = contract
	}

	values, err := method.Inputs.Unpack(data[4:])
	if err != nil {
		return decoded
	}
	for i, input := range method.Inputs {
		if i < len(values) {
			decoded.Inputs = append(decoded.Inputs, DecodedInput{
				Name:  input.Name,
				Type:  input.Type.String(),
				Value: values[i],
			})
		}
	}

	switch {
	case contract == bindings.MultiSend && method.RawName == "multiSend":
		if packed, ok := values[0].([]byte); ok {
			if calls, err := multisend.Unpack(packed); err == nil {
				for _, c := range calls {
					decoded.Inner = append(decoded.Inner, td.DecodeTransaction(c.To, c.Data, c.Value, models.Operation(c.Operation)))
				}
			}
		}
	case contract == bindings.GnosisSafe && method.RawName == "execTransaction":
		innerTo, _ := values[0].(common.Address)
		innerValue, _ := values[1].(*big.Int)
		innerData, _ := values[2].([]byte)
		innerOp, _ := values[3].(uint8)
		decoded.Inner = append(decoded.Inner, td.DecodeTransaction(innerTo, innerData, innerValue, models.Operation(innerOp)))
	}

	return decoded
}

// lookupMethod prefers the ABI registered for the address and falls back to
// a selector search across every known contract
func (td *TransactionDecoder) lookupMethod(to common.Address, selector []byte) (string, *abi.Method) {
	if contract, ok := td.kinds[to]; ok {
		if parsed, err := td.contracts.ABI(contract); err == nil {
			if method, err := parsed.MethodById(selector); err == nil {
				return contract, method
			}
		}
	}
	for _, name := range bindings.Names() {
		parsed, err := td.contracts.ABI(name)
		if err != nil {
			continue
		}
		if method, err := parsed.MethodById(selector); err == nil {
			return name, method
		}
	}
	return "", nil
}

// Flatten returns the call and all nested calls depth first
func (dt *DecodedTransaction) Flatten() []*DecodedTransaction {
	out := []*DecodedTransaction{dt}
	for _, inner := range dt.Inner {
		out = append(out, inner.Flatten()...)
	}
	return out
}

// FormatValue formats a decoded value for human display
func FormatValue(value any, valueType string) string {
	switch v := value.(type) {
	case common.Address:
		return v.Hex()
	case *big.Int:
		return v.String()
	case []byte:
		if len(v) == 0 {
			return "0x"
		}
		if len(v) <= 32 {
			return hexutil.Encode(v)
		}
		// Truncate long byte arrays
		return fmt.Sprintf("%s...(%d bytes)", hexutil.Encode(v[:16]), len(v))
	case string:
		if len(v) > 50 {
			return fmt.Sprintf("%.50s...(%d chars)", v, len(v))
		}
		return fmt.Sprintf(`"%s"`, v)
	case bool:
		return fmt.Sprintf("%t", v)
	case [32]byte:
		return hexutil.Encode(v[:])
	default:
		if jsonBytes, err := json.Marshal(v); err == nil {
			jsonStr := string(jsonBytes)
			if len(jsonStr) > 100 {
				return fmt.Sprintf("%.100s...(%d chars)", jsonStr, len(jsonStr))
			}
			return jsonStr
		}
		return fmt.Sprintf("%v", v)
	}
}

// FormatCompact formats a call as Label.method(args), marking delegatecalls
func (dt *DecodedTransaction) FormatCompact() string {
	var b strings.Builder

	if dt.Operation == models.OperationDelegateCall {
		b.WriteString(color.New(color.FgMagenta).Sprint("delegatecall "))
	}

	if dt.Label != "" {
		b.WriteString(color.New(color.FgCyan).Sprint(dt.Label))
	} else {
		b.WriteString(color.New(color.FgHiBlack).Sprint(dt.To.Hex()[:10] + "..."))
	}
	b.WriteString(".")

	if dt.Method != "unknown" {
		b.WriteString(color.New(color.FgYellow).Sprint(dt.Method))
	} else {
		b.WriteString(color.New(color.FgHiBlack).Sprint("unknown"))
	}

	args := make([]string, 0, len(dt.Inputs))
	for _, input := range dt.Inputs {
		val := FormatValue(input.Value, input.Type)
		if len(val) > 40 {
			val = val[:37] + "..."
		}
		args = append(args, val)
	}
	b.WriteString("(" + strings.Join(args, ", ") + ")")

	if dt.Value != nil && dt.Value.Sign() > 0 {
		ethValue := new(big.Float).SetInt(dt.Value)
		ethValue.Quo(ethValue, big.NewFloat(1e18))
		b.WriteString(color.New(color.FgHiBlack).Sprintf(" {value: %s ETH}", ethValue.Text('f', 6)))
	}

	return b.String()
}
