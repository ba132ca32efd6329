package opensea

import "encoding/json"

// Asset is one collectible as returned by the marketplace assets API. Only
// the fields the synchronizer consumes are modeled; everything else is
// ignored on decode.
type Asset struct {
	TokenID    string         `json:"token_id"`
	ImageURL   string         `json:"image_url"`
	Metadata   *AssetMetadata `json:"metadata"`
	SellOrders []SellOrder    `json:"sell_orders"`
}

type AssetMetadata struct {
	Image string `json:"image"`
}

// SellOrder is an active listing attached to an asset. ProtocolData is the
// full settlement protocol payload and is carried through untouched.
type SellOrder struct {
	CurrentPrice string          `json:"current_price"`
	Maker        *Maker          `json:"maker"`
	ProtocolData json.RawMessage `json:"protocol_data"`
	OrderHash    string          `json:"order_hash"`
}

type Maker struct {
	Address string `json:"address"`
}

type assetsResponse struct {
	Assets []Asset `json:"assets"`
}
