// Package identifiers holds CanonicalIdentifier, the (chain, token
// network, channel) tuple every balance proof is bound to.
package identifiers

import (
	"github.com/raiden-go/core/internal/primitives"
)

// CanonicalIdentifier uniquely names an on-chain channel.
type CanonicalIdentifier struct {
	ChainID             primitives.ChainID
	TokenNetworkAddress primitives.Address
	ChannelIdentifier   primitives.ChannelID
}

// Validate enforces the range constraints on chain id and channel id:
// both are uint256. Channel id 0 is reserved for the global queue but is
// otherwise a valid value here — the reservation is enforced by the
// transport layer, a collaborator out of this module's scope.
func (c CanonicalIdentifier) Validate() error {
	if err := primitives.CheckUint256("chain_id", c.ChainID); err != nil {
		return err
	}
	if err := primitives.CheckUint256("channel_identifier", c.ChannelIdentifier); err != nil {
		return err
	}
	return nil
}
