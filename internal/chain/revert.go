package chain

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
)

// RevertError is a contract execution failure with whatever reason the node
// surfaced. Reason is empty when the revert carried no data.
type RevertError struct {
	Reason string
	Data   []byte
}

func (e *RevertError) Error() string {
	if e.Reason == "" {
		return "execution reverted"
	}
	return fmt.Sprintf("execution reverted: %s", e.Reason)
}

// WrapCallError turns an eth_call failure into a RevertError when the node
// attached revert data; other errors pass through unchanged.
func WrapCallError(err error) error {
	if err == nil {
		return nil
	}
	var dataErr rpc.DataError
	if !errors.As(err, &dataErr) {
		return err
	}
	revert := &RevertError{}
	if raw, ok := dataErr.ErrorData().(string); ok {
		if data, decodeErr := hexutil.Decode(raw); decodeErr == nil {
			revert.Data = data
			if reason, unpackErr := abi.UnpackRevert(data); unpackErr == nil {
				revert.Reason = reason
			}
		}
	}
	return revert
}
