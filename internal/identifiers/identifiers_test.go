package identifiers

import (
	"math/big"
	"testing"

	"github.com/raiden-go/core/internal/primitives"
)

func TestValidateAcceptsZeroChannelIdentifier(t *testing.T) {
	ci := CanonicalIdentifier{ChainID: big.NewInt(1), ChannelIdentifier: big.NewInt(0)}
	if err := ci.Validate(); err != nil {
		t.Errorf("channel id 0 should be a valid value at this layer: %v", err)
	}
}

func TestValidateRejectsNegativeChainID(t *testing.T) {
	ci := CanonicalIdentifier{ChainID: big.NewInt(-1), ChannelIdentifier: big.NewInt(1)}
	if err := ci.Validate(); err == nil {
		t.Error("negative chain id should be rejected")
	}
}

func TestValidateRejectsOversizedChannelIdentifier(t *testing.T) {
	tooBig := new(big.Int).Add(primitives.UINT256Max, big.NewInt(1))
	ci := CanonicalIdentifier{ChainID: big.NewInt(1), ChannelIdentifier: tooBig}
	if err := ci.Validate(); err == nil {
		t.Error("channel id above 2^256-1 should be rejected")
	}
}
