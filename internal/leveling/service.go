// Package leveling awards experience for chat activity and tracks levels.
package leveling

import (
	"errors"
	"math/rand"

	"github.com/PancyStudios/PancyCommunityGo/pkg/models"
	"github.com/PancyStudios/PancyCommunityGo/pkg/store"
)

const (
	XPMin = 7
	XPMax = 14
)

// ErrInvalidLevel is returned when a reward targets a level below 1
var ErrInvalidLevel = errors.New("el nivel debe ser 1 o mayor")

// Rand is the randomness source for XP rolls
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.Intn(n) }

// XPNeeded is the experience required to leave level
func XPNeeded(level int) int {
	return level * 100
}

// Progress is a user's standing
type Progress struct {
	UserID string `json:"userId"`
	XP     int    `json:"xp"`
	Level  int    `json:"level"`
	Needed int    `json:"needed"`
}

// Result describes what a single message did to a user's level
type Result struct {
	Gained       int
	LeveledUp    bool
	Level        int
	XP           int
	RewardRoleID string
}

// Service applies XP gains and manages level rewards
type Service struct {
	store *store.Store
	rng   Rand
}

// NewService creates a Service. A nil rng uses math/rand/v2.
func NewService(st *store.Store, rng Rand) *Service {
	if rng == nil {
		rng = globalRand{}
	}
	return &Service{store: st, rng: rng}
}

// AddMessageXP grants a random amount in [XPMin, XPMax]. Reaching the
// threshold resets XP to 0 and raises the level by exactly one, whatever the
// overflow. The reward role for the new level, if any, is returned for the
// caller to grant.
func (s *Service) AddMessageXP(userID string) Result {
	gained := XPMin + s.rng.IntN(XPMax-XPMin+1)
	var res Result
	rec, _ := s.store.UpdateLevel(userID, func(rec *models.LevelRecord) error {
		rec.XP += gained
		res.LeveledUp = false
		if rec.XP >= XPNeeded(rec.Level) {
			rec.XP = 0
			rec.Level++
			res.LeveledUp = true
		}
		return nil
	})

	res.Gained = gained
	res.Level = rec.Level
	res.XP = rec.XP
	if res.LeveledUp {
		res.RewardRoleID, _ = s.store.LevelReward(rec.Level)
	}
	return res
}

// Get returns the user's progress without creating a record
func (s *Service) Get(userID string) Progress {
	rec, _ := s.store.Level(userID)
	return Progress{UserID: userID, XP: rec.XP, Level: rec.Level, Needed: XPNeeded(rec.Level)}
}

// SetReward maps a level to a role, replacing any previous mapping
func (s *Service) SetReward(level int, roleID string) error {
	if level < 1 {
		return ErrInvalidLevel
	}
	s.store.SetLevelReward(level, roleID)
	return nil
}

// Rewards returns every configured reward ordered by level
func (s *Service) Rewards() []models.LevelReward {
	return s.store.LevelRewards()
}
