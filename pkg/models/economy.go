package models

import "time"

// EconomyAccount holds the coin balance and purchased items of a user
type EconomyAccount struct {
	UserID    string   `bson:"_id" json:"userId"`
	Coins     int64    `bson:"coins" json:"coins"`
	Inventory []string `bson:"inventory" json:"inventory"`
}

// Clone returns a copy that does not share the inventory slice
func (a EconomyAccount) Clone() EconomyAccount {
	inv := make([]string, len(a.Inventory))
	copy(inv, a.Inventory)
	a.Inventory = inv
	return a
}

// DailyClaim records the last time a user claimed the daily reward
type DailyClaim struct {
	UserID    string    `bson:"_id" json:"userId"`
	ClaimedAt time.Time `bson:"claimedAt" json:"claimedAt"`
}
