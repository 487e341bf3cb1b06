// Package store provides the in-memory state of the bot.
// State is sharded by user ID; every mutation of a user's data runs under
// the lock of that user's shard, so concurrent handlers never interleave a
// read-modify-write on the same key.
package store

import (
	"hash/fnv"
	"sort"
	"sync"
	"time"

	"github.com/PancyStudios/PancyCommunityGo/pkg/models"
)

const shardCount = 32

// Persister receives a copy of every record after a successful mutation.
// It is called while the key is still locked, so writes for one user reach
// it in commit order. Implementations must not call back into the Store.
type Persister interface {
	SaveAccount(acc models.EconomyAccount)
	SaveDailyClaim(claim models.DailyClaim)
	SaveLevel(rec models.LevelRecord)
	SaveLevelReward(reward models.LevelReward)
}

// Snapshot is the full state used to hydrate a Store
type Snapshot struct {
	Accounts    []models.EconomyAccount
	DailyClaims []models.DailyClaim
	Levels      []models.LevelRecord
	Rewards     []models.LevelReward
}

// Stats summarizes how many records the store holds
type Stats struct {
	Accounts int `json:"accounts"`
	Levels   int `json:"levels"`
	Rewards  int `json:"rewards"`
}

type shard struct {
	mu       sync.Mutex
	accounts map[string]*models.EconomyAccount
	daily    map[string]time.Time
	levels   map[string]*models.LevelRecord
}

// Store holds accounts, daily claims, levels and level rewards
type Store struct {
	shards [shardCount]*shard

	rewardsMu sync.RWMutex
	rewards   map[int]string

	persister Persister
}

// New creates an empty Store
func New() *Store {
	s := &Store{rewards: make(map[int]string)}
	for i := range s.shards {
		s.shards[i] = &shard{
			accounts: make(map[string]*models.EconomyAccount),
			daily:    make(map[string]time.Time),
			levels:   make(map[string]*models.LevelRecord),
		}
	}
	return s
}

// SetPersister installs a write-through persister. It must be called before
// the store is shared between goroutines.
func (s *Store) SetPersister(p Persister) {
	s.persister = p
}

func shardIndex(userID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return int(h.Sum32() % shardCount)
}

func (s *Store) shardFor(userID string) *shard {
	return s.shards[shardIndex(userID)]
}

// account returns the account for userID, creating it. Caller holds sh.mu.
func (sh *shard) account(userID string) *models.EconomyAccount {
	acc, ok := sh.accounts[userID]
	if !ok {
		acc = &models.EconomyAccount{UserID: userID, Inventory: []string{}}
		sh.accounts[userID] = acc
	}
	return acc
}

// Wallet is the mutable economy view handed to update callbacks.
// Changes are applied only when the callback returns nil.
type Wallet struct {
	Account   *models.EconomyAccount
	LastDaily time.Time

	dailyTouched bool
}

// MarkDaily records a daily claim at t
func (w *Wallet) MarkDaily(t time.Time) {
	w.LastDaily = t
	w.dailyTouched = true
}

type walletTx struct {
	sh     *shard
	userID string
	wallet *Wallet
}

func (s *Store) begin(sh *shard, userID string) *walletTx {
	acc := sh.account(userID).Clone()
	return &walletTx{
		sh:     sh,
		userID: userID,
		wallet: &Wallet{Account: &acc, LastDaily: sh.daily[userID]},
	}
}

func (tx *walletTx) commit() {
	acc := *tx.wallet.Account
	tx.sh.accounts[tx.userID] = &acc
	if tx.wallet.dailyTouched {
		tx.sh.daily[tx.userID] = tx.wallet.LastDaily
	}
}

func (s *Store) persistWallet(userID string, w *Wallet) {
	if s.persister == nil {
		return
	}
	s.persister.SaveAccount(w.Account.Clone())
	if w.dailyTouched {
		s.persister.SaveDailyClaim(models.DailyClaim{UserID: userID, ClaimedAt: w.LastDaily})
	}
}

// UpdateWallet runs fn against a copy of the user's wallet and commits the
// copy only if fn returns nil. It returns the resulting account.
func (s *Store) UpdateWallet(userID string, fn func(w *Wallet) error) (models.EconomyAccount, error) {
	sh := s.shardFor(userID)
	sh.mu.Lock()
	tx := s.begin(sh, userID)
	if err := fn(tx.wallet); err != nil {
		before := sh.account(userID).Clone()
		sh.mu.Unlock()
		return before, err
	}
	tx.commit()
	s.persistWallet(userID, tx.wallet)
	result := tx.wallet.Account.Clone()
	sh.mu.Unlock()
	return result, nil
}

// UpdateWallets runs fn against two wallets locked together. Either both
// wallets are committed or neither is. When a and b are the same user the
// same wallet is passed twice.
func (s *Store) UpdateWallets(a, b string, fn func(wa, wb *Wallet) error) (models.EconomyAccount, models.EconomyAccount, error) {
	ia, ib := shardIndex(a), shardIndex(b)
	first, second := ia, ib
	if first > second {
		first, second = second, first
	}
	s.shards[first].mu.Lock()
	if second != first {
		s.shards[second].mu.Lock()
	}
	unlock := func() {
		if second != first {
			s.shards[second].mu.Unlock()
		}
		s.shards[first].mu.Unlock()
	}

	txA := s.begin(s.shards[ia], a)
	txB := txA
	if a != b {
		txB = s.begin(s.shards[ib], b)
	}

	if err := fn(txA.wallet, txB.wallet); err != nil {
		accA := s.shards[ia].account(a).Clone()
		accB := s.shards[ib].account(b).Clone()
		unlock()
		return accA, accB, err
	}
	txA.commit()
	if a != b {
		txB.commit()
	}
	s.persistWallet(a, txA.wallet)
	if a != b {
		s.persistWallet(b, txB.wallet)
	}
	accA := txA.wallet.Account.Clone()
	accB := txB.wallet.Account.Clone()
	unlock()
	return accA, accB, nil
}

// Account returns a copy of the user's account, creating it on first access
func (s *Store) Account(userID string) models.EconomyAccount {
	sh := s.shardFor(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	return sh.account(userID).Clone()
}

// Accounts returns a copy of every account
func (s *Store) Accounts() []models.EconomyAccount {
	result := make([]models.EconomyAccount, 0)
	for _, sh := range s.shards {
		sh.mu.Lock()
		for _, acc := range sh.accounts {
			result = append(result, acc.Clone())
		}
		sh.mu.Unlock()
	}
	return result
}

// LastDaily returns the last daily claim of a user, zero if none
func (s *Store) LastDaily(userID string) time.Time {
	sh := s.shardFor(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	return sh.daily[userID]
}

// UpdateLevel runs fn against a copy of the user's level record, creating
// it at level 1 on first access, and commits only if fn returns nil.
func (s *Store) UpdateLevel(userID string, fn func(rec *models.LevelRecord) error) (models.LevelRecord, error) {
	sh := s.shardFor(userID)
	sh.mu.Lock()
	current, ok := sh.levels[userID]
	if !ok {
		current = &models.LevelRecord{UserID: userID, XP: 0, Level: 1}
	}
	rec := *current
	if err := fn(&rec); err != nil {
		sh.mu.Unlock()
		return *current, err
	}
	sh.levels[userID] = &rec
	if s.persister != nil {
		s.persister.SaveLevel(rec)
	}
	sh.mu.Unlock()
	return rec, nil
}

// Level returns the user's level record without creating it
func (s *Store) Level(userID string) (models.LevelRecord, bool) {
	sh := s.shardFor(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	rec, ok := sh.levels[userID]
	if !ok {
		return models.LevelRecord{UserID: userID, XP: 0, Level: 1}, false
	}
	return *rec, true
}

// SetLevelReward maps level to roleID, replacing any previous mapping
func (s *Store) SetLevelReward(level int, roleID string) {
	s.rewardsMu.Lock()
	defer s.rewardsMu.Unlock()
	s.rewards[level] = roleID
	if s.persister != nil {
		s.persister.SaveLevelReward(models.LevelReward{Level: level, RoleID: roleID})
	}
}

// LevelReward returns the role configured for level
func (s *Store) LevelReward(level int) (string, bool) {
	s.rewardsMu.RLock()
	defer s.rewardsMu.RUnlock()
	roleID, ok := s.rewards[level]
	return roleID, ok
}

// LevelRewards returns every reward ordered by level
func (s *Store) LevelRewards() []models.LevelReward {
	s.rewardsMu.RLock()
	result := make([]models.LevelReward, 0, len(s.rewards))
	for level, roleID := range s.rewards {
		result = append(result, models.LevelReward{Level: level, RoleID: roleID})
	}
	s.rewardsMu.RUnlock()

	sort.Slice(result, func(i, j int) bool { return result[i].Level < result[j].Level })
	return result
}

// Load replaces the store contents with snap. Persister is not called.
func (s *Store) Load(snap Snapshot) {
	for _, sh := range s.shards {
		sh.mu.Lock()
		sh.accounts = make(map[string]*models.EconomyAccount)
		sh.daily = make(map[string]time.Time)
		sh.levels = make(map[string]*models.LevelRecord)
		sh.mu.Unlock()
	}

	for _, acc := range snap.Accounts {
		acc := acc.Clone()
		if acc.Coins < 0 {
			acc.Coins = 0
		}
		sh := s.shardFor(acc.UserID)
		sh.mu.Lock()
		sh.accounts[acc.UserID] = &acc
		sh.mu.Unlock()
	}
	for _, claim := range snap.DailyClaims {
		sh := s.shardFor(claim.UserID)
		sh.mu.Lock()
		sh.daily[claim.UserID] = claim.ClaimedAt
		sh.mu.Unlock()
	}
	for _, rec := range snap.Levels {
		rec := rec
		if rec.Level < 1 {
			rec.Level = 1
		}
		sh := s.shardFor(rec.UserID)
		sh.mu.Lock()
		sh.levels[rec.UserID] = &rec
		sh.mu.Unlock()
	}

	s.rewardsMu.Lock()
	s.rewards = make(map[int]string, len(snap.Rewards))
	for _, r := range snap.Rewards {
		s.rewards[r.Level] = r.RoleID
	}
	s.rewardsMu.Unlock()
}

// Stats returns record counts
func (s *Store) Stats() Stats {
	var st Stats
	for _, sh := range s.shards {
		sh.mu.Lock()
		st.Accounts += len(sh.accounts)
		st.Levels += len(sh.levels)
		sh.mu.Unlock()
	}
	s.rewardsMu.RLock()
	st.Rewards = len(s.rewards)
	s.rewardsMu.RUnlock()
	return st
}
