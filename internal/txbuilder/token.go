package txbuilder

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treb-dao/internal/adapters/abi"
	"github.com/trebuchet-org/treb-dao/internal/adapters/abi/bindings"
	"github.com/trebuchet-org/treb-dao/internal/domain/models"
)

// BuildTokenInitializeTx mints the token supply to the DAO Safe, the SPT
// conversion contract and the airdrop contract. Without a conversion
// contract its share goes to the Safe.
func BuildTokenInitializeTx(enc *abi.Encoder, token, safe common.Address, sptConversion *common.Address, airdrop common.Address) (*models.EncodedCall, error) {
	spt := safe
	if sptConversion != nil {
		spt = *sptConversion
	}
	return enc.EncodeCall(bindings.ShutterToken, token, "initialize", safe, spt, airdrop)
}
