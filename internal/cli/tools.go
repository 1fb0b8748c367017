package cli

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-dao/internal/adapters/abi"
	"github.com/trebuchet-org/treb-dao/internal/adapters/abi/bindings"
	"github.com/trebuchet-org/treb-dao/internal/cli/render"
	"github.com/trebuchet-org/treb-dao/internal/domain/config"
	"github.com/trebuchet-org/treb-dao/internal/domain/models"
	"github.com/trebuchet-org/treb-dao/pkg/create2"
)

// NewRandomBytesCmd creates the random-bytes command
func NewRandomBytesCmd() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:         "random-bytes",
		Short:       "Generate random 32-byte salts",
		Long:        `Print cryptographically random 32-byte values, e.g. for a network's safe_salt.`,
		Annotations: standalone,
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return fmt.Errorf("--count must be at least 1")
			}
			for i := 0; i < count; i++ {
				nonce, err := create2.RandomNonce()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), common.Hash(nonce).Hex())
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "c", 1, "Number of values to generate")
	return cmd
}

// NewDecodeCmd creates the decode command
func NewDecodeCmd() *cobra.Command {
	var (
		to       string
		contract string
	)

	cmd := &cobra.Command{
		Use:   "decode <calldata>",
		Short: "Decode calldata of the DAO contracts",
		Long: `Decode calldata against the Safe, multisend, factory, Azorius, strategy,
token and keyper set ABIs. multiSend payloads and execTransaction data are
decoded recursively.`,
		Example: `  treb-dao decode 0x8d80ff0a...
  treb-dao plan --json | jq -r .calldata | xargs treb-dao decode`,
		Annotations: standalone,
		Args:        cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := hexutil.Decode(strings.TrimSpace(args[0]))
			if err != nil {
				return fmt.Errorf("invalid calldata: %w", err)
			}

			decoder := abi.NewTransactionDecoder(bindings.ForNetwork(config.NetworkKindLocal))
			var target common.Address
			if to != "" {
				if !common.IsHexAddress(to) {
					return fmt.Errorf("invalid address: %q", to)
				}
				target = common.HexToAddress(to)
				if contract != "" {
					decoder.Register(target, contract, "")
				}
			}

			decoded := decoder.DecodeTransaction(target, data, big.NewInt(0), models.OperationCall)
			asJSON, _ := cmd.Flags().GetBool("json")
			return render.NewDecodeRenderer(cmd.OutOrStdout(), asJSON).Render(decoded)
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Address the calldata is sent to")
	cmd.Flags().StringVar(&contract, "contract", "", fmt.Sprintf("ABI to decode with (one of %s)", strings.Join(bindings.Names(), ", ")))
	return cmd
}
