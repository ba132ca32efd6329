package seaport

import (
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"
)

const (
	// Default gas limit for fulfillment transactions
	FulfillGasLimit = 500000
)

// Seaport fulfillOrder ABI
const fulfillOrderABI = `[{
	"inputs": [
		{"internalType": "tuple", "name": "order", "type": "tuple", "components": [
			{"internalType": "tuple", "name": "parameters", "type": "tuple", "components": [
				{"internalType": "address", "name": "offerer", "type": "address"},
				{"internalType": "address", "name": "zone", "type": "address"},
				{"internalType": "tuple[]", "name": "offer", "type": "tuple[]", "components": [
					{"internalType": "uint8", "name": "itemType", "type": "uint8"},
					{"internalType": "address", "name": "token", "type": "address"},
					{"internalType": "uint256", "name": "identifierOrCriteria", "type": "uint256"},
					{"internalType": "uint256", "name": "startAmount", "type": "uint256"},
					{"internalType": "uint256", "name": "endAmount", "type": "uint256"}
				]},
				{"internalType": "tuple[]", "name": "consideration", "type": "tuple[]", "components": [
					{"internalType": "uint8", "name": "itemType", "type": "uint8"},
					{"internalType": "address", "name": "token", "type": "address"},
					{"internalType": "uint256", "name": "identifierOrCriteria", "type": "uint256"},
					{"internalType": "uint256", "name": "startAmount", "type": "uint256"},
					{"internalType": "uint256", "name": "endAmount", "type": "uint256"},
					{"internalType": "address", "name": "recipient", "type": "address"}
				]},
				{"internalType": "uint8", "name": "orderType", "type": "uint8"},
				{"internalType": "uint256", "name": "startTime", "type": "uint256"},
				{"internalType": "uint256", "name": "endTime", "type": "uint256"},
				{"internalType": "bytes32", "name": "zoneHash", "type": "bytes32"},
				{"internalType": "uint256", "name": "salt", "type": "uint256"},
				{"internalType": "bytes32", "name": "conduitKey", "type": "bytes32"},
				{"internalType": "uint256", "name": "totalOriginalConsiderationItems", "type": "uint256"}
			]},
			{"internalType": "bytes", "name": "signature", "type": "bytes"}
		]},
		{"internalType": "bytes32", "name": "fulfillerConduitKey", "type": "bytes32"}
	],
	"name": "fulfillOrder",
	"outputs": [
		{"internalType": "bool", "name": "fulfilled", "type": "bool"}
	],
	"stateMutability": "payable",
	"type": "function"
}]`

// Client fulfills settlement orders against the marketplace proxy contract.
type Client struct {
	eth      *ethclient.Client
	key      *ecdsa.PrivateKey
	contract common.Address
	chainID  *big.Int
	abi      abi.ABI
	logger   *zap.Logger
}

func NewClient(rpcURL, privateKeyHex, contractAddress string, chainID int64, logger *zap.Logger) (*Client, error) {
	parsedABI, err := abi.JSON(strings.NewReader(fulfillOrderABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse fulfillOrder ABI: %w", err)
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid wallet private key: %w", err)
	}

	eth, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC node: %w", err)
	}

	return &Client{
		eth:      eth,
		key:      key,
		contract: common.HexToAddress(contractAddress),
		chainID:  big.NewInt(chainID),
		abi:      parsedABI,
		logger:   logger,
	}, nil
}

// BuyerAddress returns the address of the signing wallet.
func (c *Client) BuyerAddress() common.Address {
	return crypto.PubkeyToAddress(c.key.PublicKey)
}

// CreateFulfillment prepares a fulfillment intent for the given settlement
// order. The order payload is decoded here and nowhere else.
func (c *Client) CreateFulfillment(ctx context.Context, order json.RawMessage, buyer common.Address) (Fulfillment, error) {
	data, err := parseProtocolData(order)
	if err != nil {
		return nil, err
	}

	packed, err := c.packFulfillOrder(data)
	if err != nil {
		return nil, err
	}

	value := nativeValue(data.Parameters)

	c.logger.Info("Prepared fulfillment intent",
		zap.String("buyer", buyer.Hex()),
		zap.String("offerer", data.Parameters.Offerer),
		zap.String("value", value.String()))

	return &fulfillment{
		client: c,
		buyer:  buyer,
		data:   packed,
		value:  value,
	}, nil
}

func (c *Client) packFulfillOrder(data *protocolData) ([]byte, error) {
	order, err := data.toABIOrder()
	if err != nil {
		return nil, err
	}

	// No fulfiller conduit: approvals live on the Seaport contract itself
	packed, err := c.abi.Pack("fulfillOrder", order, [32]byte{})
	if err != nil {
		return nil, fmt.Errorf("failed to pack fulfillOrder: %w", err)
	}
	return packed, nil
}

// fulfillment is the intent returned by CreateFulfillment. It exposes the
// ActionRunner capability.
type fulfillment struct {
	client *Client
	buyer  common.Address
	data   []byte
	value  *big.Int
}

// ExecuteAllActions signs and submits the fulfillment transaction.
func (f *fulfillment) ExecuteAllActions(ctx context.Context) (SubmittedTx, error) {
	c := f.client

	nonce, err := c.eth.PendingNonceAt(ctx, f.buyer)
	if err != nil {
		return nil, fmt.Errorf("failed to get nonce: %w", err)
	}

	gasPrice, err := c.eth.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get gas price: %w", err)
	}

	tx := types.NewTransaction(nonce, c.contract, f.value, FulfillGasLimit, gasPrice, f.data)

	signedTx, err := types.SignTx(tx, types.LatestSignerForChainID(c.chainID), c.key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := c.eth.SendTransaction(ctx, signedTx); err != nil {
		return nil, fmt.Errorf("failed to send transaction: %w", err)
	}

	c.logger.Info("Submitted fulfillment transaction",
		zap.String("tx_hash", signedTx.Hash().Hex()),
		zap.String("buyer", f.buyer.Hex()))

	return &submittedTx{eth: c.eth, tx: signedTx}, nil
}

// submittedTx supports both the hash and wait-for-confirmation capabilities.
type submittedTx struct {
	eth *ethclient.Client
	tx  *types.Transaction
}

func (t *submittedTx) Hash() string {
	return t.tx.Hash().Hex()
}

func (t *submittedTx) Wait(ctx context.Context) error {
	receipt, err := bind.WaitMined(ctx, t.eth, t.tx)
	if err != nil {
		return fmt.Errorf("failed waiting for confirmation: %w", err)
	}
	if receipt.Status == types.ReceiptStatusFailed {
		return fmt.Errorf("fulfillment transaction reverted: %s", t.tx.Hash().Hex())
	}
	return nil
}

func (c *Client) Close() {
	if c.eth != nil {
		c.eth.Close()
	}
}
