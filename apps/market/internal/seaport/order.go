package seaport

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// itemTypeNative is Seaport's item type for the chain's native currency.
const itemTypeNative = 0

// protocolData is the settlement protocol's order payload. It is decoded
// only here, at the SDK boundary; everywhere else the payload stays opaque.
type protocolData struct {
	Parameters orderParameters `json:"parameters"`
	Signature  string          `json:"signature"`
}

type orderParameters struct {
	Offerer                         string              `json:"offerer"`
	Zone                            string              `json:"zone"`
	Offer                           []offerItem         `json:"offer"`
	Consideration                   []considerationItem `json:"consideration"`
	OrderType                       json.Number         `json:"orderType"`
	StartTime                       json.Number         `json:"startTime"`
	EndTime                         json.Number         `json:"endTime"`
	ZoneHash                        string              `json:"zoneHash"`
	Salt                            string              `json:"salt"`
	ConduitKey                      string              `json:"conduitKey"`
	TotalOriginalConsiderationItems json.Number         `json:"totalOriginalConsiderationItems"`
}

type offerItem struct {
	ItemType             json.Number `json:"itemType"`
	Token                string      `json:"token"`
	IdentifierOrCriteria string      `json:"identifierOrCriteria"`
	StartAmount          string      `json:"startAmount"`
	EndAmount            string      `json:"endAmount"`
}

type considerationItem struct {
	ItemType             json.Number `json:"itemType"`
	Token                string      `json:"token"`
	IdentifierOrCriteria string      `json:"identifierOrCriteria"`
	StartAmount          string      `json:"startAmount"`
	EndAmount            string      `json:"endAmount"`
	Recipient            string      `json:"recipient"`
}

func parseProtocolData(raw json.RawMessage) (*protocolData, error) {
	var data protocolData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to decode protocol order: %w", err)
	}
	if len(data.Parameters.Offer) == 0 {
		return nil, fmt.Errorf("protocol order has no offer items")
	}
	return &data, nil
}

// nativeValue sums the native-currency consideration amounts; the buyer
// must send this value with the fulfillment transaction.
func nativeValue(params orderParameters) *big.Int {
	total := new(big.Int)
	for _, item := range params.Consideration {
		itemType, err := item.ItemType.Int64()
		if err != nil || itemType != itemTypeNative {
			continue
		}
		amount, err := parseBig(item.StartAmount)
		if err != nil {
			continue
		}
		total.Add(total, amount)
	}
	return total
}

// ABI-side mirror structs. Field order must match the tuple components in
// seaportFulfillOrderABI.

type abiOfferItem struct {
	ItemType             uint8
	Token                common.Address
	IdentifierOrCriteria *big.Int
	StartAmount          *big.Int
	EndAmount            *big.Int
}

type abiConsiderationItem struct {
	ItemType             uint8
	Token                common.Address
	IdentifierOrCriteria *big.Int
	StartAmount          *big.Int
	EndAmount            *big.Int
	Recipient            common.Address
}

type abiOrderParameters struct {
	Offerer                         common.Address
	Zone                            common.Address
	Offer                           []abiOfferItem
	Consideration                   []abiConsiderationItem
	OrderType                       uint8
	StartTime                       *big.Int
	EndTime                         *big.Int
	ZoneHash                        [32]byte
	Salt                            *big.Int
	ConduitKey                      [32]byte
	TotalOriginalConsiderationItems *big.Int
}

type abiOrder struct {
	Parameters abiOrderParameters
	Signature  []byte
}

func (d *protocolData) toABIOrder() (abiOrder, error) {
	params := d.Parameters

	abiParams := abiOrderParameters{
		Offerer: common.HexToAddress(params.Offerer),
		Zone:    common.HexToAddress(params.Zone),
	}

	for _, item := range params.Offer {
		converted, err := toABIOfferItem(item)
		if err != nil {
			return abiOrder{}, err
		}
		abiParams.Offer = append(abiParams.Offer, converted)
	}

	for _, item := range params.Consideration {
		converted, err := toABIConsiderationItem(item)
		if err != nil {
			return abiOrder{}, err
		}
		abiParams.Consideration = append(abiParams.Consideration, converted)
	}

	orderType, err := params.OrderType.Int64()
	if err != nil {
		return abiOrder{}, fmt.Errorf("invalid orderType: %w", err)
	}
	abiParams.OrderType = uint8(orderType)

	if abiParams.StartTime, err = parseBig(params.StartTime.String()); err != nil {
		return abiOrder{}, fmt.Errorf("invalid startTime: %w", err)
	}
	if abiParams.EndTime, err = parseBig(params.EndTime.String()); err != nil {
		return abiOrder{}, fmt.Errorf("invalid endTime: %w", err)
	}
	if abiParams.ZoneHash, err = parseBytes32(params.ZoneHash); err != nil {
		return abiOrder{}, fmt.Errorf("invalid zoneHash: %w", err)
	}
	if abiParams.Salt, err = parseBig(params.Salt); err != nil {
		return abiOrder{}, fmt.Errorf("invalid salt: %w", err)
	}
	if abiParams.ConduitKey, err = parseBytes32(params.ConduitKey); err != nil {
		return abiOrder{}, fmt.Errorf("invalid conduitKey: %w", err)
	}

	totalItems, err := parseBig(params.TotalOriginalConsiderationItems.String())
	if err != nil {
		return abiOrder{}, fmt.Errorf("invalid totalOriginalConsiderationItems: %w", err)
	}
	abiParams.TotalOriginalConsiderationItems = totalItems

	signature, err := hexutil.Decode(d.Signature)
	if err != nil {
		return abiOrder{}, fmt.Errorf("invalid signature: %w", err)
	}

	return abiOrder{Parameters: abiParams, Signature: signature}, nil
}

func toABIOfferItem(item offerItem) (abiOfferItem, error) {
	itemType, err := item.ItemType.Int64()
	if err != nil {
		return abiOfferItem{}, fmt.Errorf("invalid offer itemType: %w", err)
	}

	identifier, err := parseBig(item.IdentifierOrCriteria)
	if err != nil {
		return abiOfferItem{}, fmt.Errorf("invalid offer identifier: %w", err)
	}
	startAmount, err := parseBig(item.StartAmount)
	if err != nil {
		return abiOfferItem{}, fmt.Errorf("invalid offer startAmount: %w", err)
	}
	endAmount, err := parseBig(item.EndAmount)
	if err != nil {
		return abiOfferItem{}, fmt.Errorf("invalid offer endAmount: %w", err)
	}

	return abiOfferItem{
		ItemType:             uint8(itemType),
		Token:                common.HexToAddress(item.Token),
		IdentifierOrCriteria: identifier,
		StartAmount:          startAmount,
		EndAmount:            endAmount,
	}, nil
}

func toABIConsiderationItem(item considerationItem) (abiConsiderationItem, error) {
	base, err := toABIOfferItem(offerItem{
		ItemType:             item.ItemType,
		Token:                item.Token,
		IdentifierOrCriteria: item.IdentifierOrCriteria,
		StartAmount:          item.StartAmount,
		EndAmount:            item.EndAmount,
	})
	if err != nil {
		return abiConsiderationItem{}, err
	}

	return abiConsiderationItem{
		ItemType:             base.ItemType,
		Token:                base.Token,
		IdentifierOrCriteria: base.IdentifierOrCriteria,
		StartAmount:          base.StartAmount,
		EndAmount:            base.EndAmount,
		Recipient:            common.HexToAddress(item.Recipient),
	}, nil
}

// parseBig accepts the protocol's amount encodings: decimal strings and
// 0x-prefixed hex strings. Empty means zero.
func parseBig(value string) (*big.Int, error) {
	if value == "" {
		return new(big.Int), nil
	}
	if strings.HasPrefix(value, "0x") || strings.HasPrefix(value, "0X") {
		parsed, ok := new(big.Int).SetString(value[2:], 16)
		if !ok {
			return nil, fmt.Errorf("not a hex integer: %s", value)
		}
		return parsed, nil
	}
	parsed, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return nil, fmt.Errorf("not a decimal integer: %s", value)
	}
	return parsed, nil
}

func parseBytes32(value string) ([32]byte, error) {
	var out [32]byte
	if value == "" {
		return out, nil
	}
	decoded, err := hexutil.Decode(value)
	if err != nil {
		return out, err
	}
	if len(decoded) != 32 {
		return out, fmt.Errorf("expected 32 bytes, got %d", len(decoded))
	}
	copy(out[:], decoded)
	return out, nil
}
