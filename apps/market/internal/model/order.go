package model

import (
	"encoding/json"
	"time"
)

type Order struct {
	ID                  string          `db:"id"`
	TokenID             string          `db:"token_id"`
	Price               string          `db:"price"` // informational; authoritative price lives in SeaportOrder
	NFTContract         string          `db:"nft_contract"`
	MarketplaceContract string          `db:"marketplace_contract"`
	Seller              string          `db:"seller"` // lower-cased
	SeaportOrder        json.RawMessage `db:"seaport_order"`
	OrderHash           *string         `db:"order_hash"` // nullable field
	Image               *string         `db:"image"`      // nullable field
	OnChain             bool            `db:"on_chain"`
	CreatedAt           time.Time       `db:"created_at"`
}
