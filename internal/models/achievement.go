package models

import "time"

type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// Achievement is a per-user unlock record. Once IsUnlocked is true it stays
// true (only an administrative wipe clears it), and Progress never exceeds
// Requirement.
type Achievement struct {
	ID          string     `bson:"id" json:"id"`
	Category    string     `bson:"category" json:"category"`
	Requirement int        `bson:"requirement" json:"requirement"`
	Rarity      Rarity     `bson:"rarity" json:"rarity"`
	IsUnlocked  bool       `bson:"is_unlocked" json:"is_unlocked"`
	Progress    int        `bson:"progress" json:"progress"`
	UnlockedAt  *time.Time `bson:"unlocked_at,omitempty" json:"unlocked_at,omitempty"`
}
