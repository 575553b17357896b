package kvstore

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/ictalent/talent-network/common/errs"
)

// Partition is the stable numeric tag that binds a logical map to its region of the backing store.
//
// NOTE: tags are persisted. Never reuse, renumber or repurpose a tag; there is no migration
// path and a drifted tag silently decodes one map's data as another's. Append new tags only.
type Partition uint8

const (
	PartitionTokens          Partition = 0
	PartitionFaucetRequests  Partition = 1
	PartitionUserTokenIndex  Partition = 2
	PartitionPurchaseHistory Partition = 3
	PartitionAdminState      Partition = 4

	numPartitions = 5
)

// partitionNames is the partition registry, indexed by tag.
var partitionNames = [numPartitions]string{
	PartitionTokens:          "tokens",
	PartitionFaucetRequests:  "faucet_requests",
	PartitionUserTokenIndex:  "user_token_index",
	PartitionPurchaseHistory: "purchase_history",
	PartitionAdminState:      "admin_state",
}

// Partitions returns every registered partition in tag order.
func Partitions() []Partition {
	partitions := make([]Partition, 0, numPartitions)
	for i := range partitionNames {
		partitions = append(partitions, Partition(i))
	}
	return partitions
}

func (p Partition) Validate() error {
	if int(p) >= numPartitions {
		return errors.Wrapf(errs.InvalidArgument, "unknown partition tag %d", uint8(p))
	}
	return nil
}

func (p Partition) String() string {
	if p.Validate() != nil {
		return fmt.Sprintf("partition(%d)", uint8(p))
	}
	return partitionNames[p]
}
