package models

// LevelRecord is the leveling progress of a user. Level starts at 1.
type LevelRecord struct {
	UserID string `bson:"_id" json:"userId"`
	XP     int    `bson:"xp" json:"xp"`
	Level  int    `bson:"level" json:"level"`
}

// LevelReward maps a level to the role granted when a user reaches it
type LevelReward struct {
	Level  int    `bson:"_id" json:"level"`
	RoleID string `bson:"roleId" json:"roleId"`
}
