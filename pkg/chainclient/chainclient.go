package chainclient

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const rpcTimeout = 15 * time.Second

// Client wraps the chain RPC used to confirm that an off-ramp deposit
// actually landed before we trust the provider's status.
type Client struct {
	eth *ethclient.Client
}

func Dial(rpcURL string) (*Client, error) {
	eth, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to chain RPC")
	}
	logrus.Infof("chain RPC connected: %s", rpcURL)
	return &Client{eth: eth}, nil
}

// ReceiptConfirmed reports whether the transaction is mined and succeeded.
// A not-yet-mined hash returns (false, nil) so the caller can try again later.
func (c *Client) ReceiptConfirmed(ctx context.Context, txHash string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, rpcTimeout)
	defer cancel()

	receipt, err := c.eth.TransactionReceipt(ctx, common.HexToHash(txHash))
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return false, nil
		}
		return false, errors.Wrap(err, "failed to fetch receipt")
	}
	return receipt.Status == types.ReceiptStatusSuccessful, nil
}
