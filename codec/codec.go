// Package codec implements the MessagePack action encoding (C1) used to
// compute the connection-id hash for L1 actions and the multi-sig action
// hash for multi-sig envelopes.
package codec

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// MarshalAction encodes an action (an ordered map or a tagged struct) with
// MessagePack, matching the venue's byte-for-byte encoding requirements:
// map keys in construction order, no trailing metadata.
func MarshalAction(action any) ([]byte, error) {
	data, err := msgpack.Marshal(action)
	if err != nil {
		return nil, fmt.Errorf("codec: marshal action: %w", err)
	}
	return data, nil
}
