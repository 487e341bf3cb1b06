package database

import (
	"fmt"

	"github.com/PancyStudios/PancyCommunityGo/pkg/logger"
	"github.com/PancyStudios/PancyCommunityGo/pkg/models"
	"github.com/PancyStudios/PancyCommunityGo/pkg/store"
	"go.mongodb.org/mongo-driver/bson"
)

// Collection names
const (
	EconomyCollection      = "economy"
	DailyClaimsCollection  = "daily_claims"
	LevelsCollection       = "levels"
	LevelRewardsCollection = "level_rewards"
)

// Repository mirrors the store into MongoDB. Every record is keyed by _id.
type Repository struct {
	db       *Database
	accounts *DataManager[models.EconomyAccount]
	claims   *DataManager[models.DailyClaim]
	levels   *DataManager[models.LevelRecord]
	rewards  *DataManager[models.LevelReward]
}

var _ store.Persister = (*Repository)(nil)

// NewRepository creates the data managers of every collection
func NewRepository(db *Database) *Repository {
	return &Repository{
		db:       db,
		accounts: NewDataManager[models.EconomyAccount](EconomyCollection, db),
		claims:   NewDataManager[models.DailyClaim](DailyClaimsCollection, db),
		levels:   NewDataManager[models.LevelRecord](LevelsCollection, db),
		rewards:  NewDataManager[models.LevelReward](LevelRewardsCollection, db),
	}
}

// SaveAccount upserts an economy account
func (r *Repository) SaveAccount(acc models.EconomyAccount) {
	r.save(r.accounts.Set(bson.M{"_id": acc.UserID}, acc), EconomyCollection)
}

// SaveDailyClaim upserts a daily claim
func (r *Repository) SaveDailyClaim(claim models.DailyClaim) {
	r.save(r.claims.Set(bson.M{"_id": claim.UserID}, claim), DailyClaimsCollection)
}

// SaveLevel upserts a level record
func (r *Repository) SaveLevel(rec models.LevelRecord) {
	r.save(r.levels.Set(bson.M{"_id": rec.UserID}, rec), LevelsCollection)
}

// SaveLevelReward upserts a level reward
func (r *Repository) SaveLevelReward(reward models.LevelReward) {
	r.save(r.rewards.Set(bson.M{"_id": reward.Level}, reward), LevelRewardsCollection)
}

// save logs a failed write. The write stays queued and the in-memory state
// remains authoritative.
func (r *Repository) save(err error, collection string) {
	if err != nil {
		logger.Warn(fmt.Sprintf("Escritura en '%s' encolada: %v", collection, err), "Repository")
	}
}

// LoadSnapshot reads every collection to hydrate the store at startup
func (r *Repository) LoadSnapshot() (store.Snapshot, error) {
	var snap store.Snapshot
	var err error

	if snap.Accounts, err = r.accounts.GetAll(bson.M{}); err != nil {
		return snap, fmt.Errorf("error cargando %s: %w", EconomyCollection, err)
	}
	if snap.DailyClaims, err = r.claims.GetAll(bson.M{}); err != nil {
		return snap, fmt.Errorf("error cargando %s: %w", DailyClaimsCollection, err)
	}
	if snap.Levels, err = r.levels.GetAll(bson.M{}); err != nil {
		return snap, fmt.Errorf("error cargando %s: %w", LevelsCollection, err)
	}
	if snap.Rewards, err = r.rewards.GetAll(bson.M{}); err != nil {
		return snap, fmt.Errorf("error cargando %s: %w", LevelRewardsCollection, err)
	}

	logger.Success(fmt.Sprintf("Estado cargado: %d cuentas, %d niveles, %d recompensas",
		len(snap.Accounts), len(snap.Levels), len(snap.Rewards)), "Repository")
	return snap, nil
}

// PendingWrites returns how many writes wait for the connection
func (r *Repository) PendingWrites() int {
	return r.db.QueueLength()
}

// Status returns the connection status shown by /status
func (r *Repository) Status() string {
	status, _ := r.db.GetStatus()
	return status
}
