package models

// ShopItemType distinguishes role items from plain inventory items
type ShopItemType string

const (
	ShopItemRole ShopItemType = "role"
	ShopItemItem ShopItemType = "item"
)

// ShopItem is a static catalog entry
type ShopItem struct {
	ID     string       `yaml:"id" json:"id"`
	Name   string       `yaml:"name" json:"name"`
	Price  int64        `yaml:"price" json:"price"`
	Type   ShopItemType `yaml:"type" json:"type"`
	RoleID string       `yaml:"role_id,omitempty" json:"roleId,omitempty"`
}

// GrantsRole reports whether buying the item should add a role
func (i ShopItem) GrantsRole() bool {
	return i.Type == ShopItemRole && i.RoleID != ""
}
