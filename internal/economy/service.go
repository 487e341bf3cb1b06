// Package economy implements the virtual currency: balances, daily and work
// rewards, transfers, the shop and the coin flip.
package economy

import (
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/PancyStudios/PancyCommunityGo/pkg/models"
	"github.com/PancyStudios/PancyCommunityGo/pkg/store"
)

const (
	DefaultDailyReward = 300
	DailyCooldown      = 24 * time.Hour
	WorkMin            = 50
	WorkMax            = 199
	LeaderboardSize    = 10
)

// Rand is the randomness source used by work and gamble
type Rand interface {
	IntN(n int) int
}

// globalRand uses the math/rand top-level source, which is safe for
// concurrent use.
type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.Intn(n) }

// Service runs economy operations on top of the store
type Service struct {
	store       *store.Store
	catalog     []models.ShopItem
	dailyReward int64
	rng         Rand
	now         func() time.Time
}

// Option configures a Service
type Option func(*Service)

// WithCatalog replaces the shop catalog
func WithCatalog(items []models.ShopItem) Option {
	return func(s *Service) {
		s.catalog = append([]models.ShopItem(nil), items...)
	}
}

// WithDailyReward sets the coins granted by /daily
func WithDailyReward(amount int64) Option {
	return func(s *Service) {
		if amount > 0 {
			s.dailyReward = amount
		}
	}
}

// WithRand injects the randomness source
func WithRand(r Rand) Option {
	return func(s *Service) { s.rng = r }
}

// WithClock injects the clock
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a Service
func NewService(st *store.Store, opts ...Option) *Service {
	s := &Service{
		store:       st,
		dailyReward: DefaultDailyReward,
		rng:         globalRand{},
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Credit adds amount to the user's balance and returns the new balance
func (s *Service) Credit(userID string, amount int64) (int64, error) {
	if amount <= 0 {
		return s.Balance(userID), ErrInvalidAmount
	}
	acc, err := s.store.UpdateWallet(userID, func(w *store.Wallet) error {
		w.Account.Coins += amount
		return nil
	})
	return acc.Coins, err
}

// debit is the checked subtraction used by every spending operation
func debit(w *store.Wallet, amount int64) error {
	if w.Account.Coins < amount {
		return ErrInsufficientFunds
	}
	w.Account.Coins -= amount
	return nil
}

// Debit removes amount only if the balance covers it
func (s *Service) Debit(userID string, amount int64) (int64, error) {
	if amount <= 0 {
		return s.Balance(userID), ErrInvalidAmount
	}
	acc, err := s.store.UpdateWallet(userID, func(w *store.Wallet) error {
		return debit(w, amount)
	})
	return acc.Coins, err
}

// Balance returns the user's coins
func (s *Service) Balance(userID string) int64 {
	return s.store.Account(userID).Coins
}

// Inventory returns the items the user bought, in purchase order
func (s *Service) Inventory(userID string) []string {
	return s.store.Account(userID).Inventory
}

// ClaimDaily grants the daily reward once every 24 hours. The cooldown check,
// the credit and the timestamp are applied together.
func (s *Service) ClaimDaily(userID string) (reward int64, balance int64, err error) {
	now := s.now()
	acc, err := s.store.UpdateWallet(userID, func(w *store.Wallet) error {
		if !w.LastDaily.IsZero() {
			if elapsed := now.Sub(w.LastDaily); elapsed < DailyCooldown {
				return &CooldownError{Remaining: DailyCooldown - elapsed}
			}
		}
		w.Account.Coins += s.dailyReward
		w.MarkDaily(now)
		return nil
	})
	if err != nil {
		return 0, acc.Coins, err
	}
	return s.dailyReward, acc.Coins, nil
}

// Work credits a random amount in [WorkMin, WorkMax]
func (s *Service) Work(userID string) (earned int64, balance int64) {
	earned = int64(WorkMin + s.rng.IntN(WorkMax-WorkMin+1))
	balance, _ = s.Credit(userID, earned)
	return earned, balance
}

// Pay moves amount from sender to recipient. Both balances change or neither does.
func (s *Service) Pay(senderID, recipientID string, amount int64) (senderBalance int64, err error) {
	if amount <= 0 {
		return s.Balance(senderID), ErrInvalidAmount
	}
	from, _, err := s.store.UpdateWallets(senderID, recipientID, func(sender, recipient *store.Wallet) error {
		if err := debit(sender, amount); err != nil {
			return err
		}
		recipient.Account.Coins += amount
		return nil
	})
	return from.Coins, err
}

// Shop returns the catalog
func (s *Service) Shop() []models.ShopItem {
	return append([]models.ShopItem(nil), s.catalog...)
}

// Item looks up a catalog entry by ID
func (s *Service) Item(itemID string) (models.ShopItem, bool) {
	for _, item := range s.catalog {
		if item.ID == itemID {
			return item, true
		}
	}
	return models.ShopItem{}, false
}

// SearchItems returns catalog entries whose ID or name contains query
func (s *Service) SearchItems(query string) []models.ShopItem {
	query = strings.ToLower(query)
	result := make([]models.ShopItem, 0, len(s.catalog))
	for _, item := range s.catalog {
		if query == "" || strings.Contains(item.ID, query) || strings.Contains(strings.ToLower(item.Name), query) {
			result = append(result, item)
		}
	}
	return result
}

// Buy debits the item price and appends it to the inventory. Granting the
// role of role items is left to the caller.
func (s *Service) Buy(userID, itemID string) (models.ShopItem, int64, error) {
	item, ok := s.Item(itemID)
	if !ok {
		return models.ShopItem{}, s.Balance(userID), ErrUnknownItem
	}
	acc, err := s.store.UpdateWallet(userID, func(w *store.Wallet) error {
		if err := debit(w, item.Price); err != nil {
			return err
		}
		w.Account.Inventory = append(w.Account.Inventory, item.ID)
		return nil
	})
	if err != nil {
		return models.ShopItem{}, acc.Coins, err
	}
	return item, acc.Coins, nil
}

// GambleResult is the outcome of a coin flip
type GambleResult struct {
	Won     bool
	Amount  int64
	Balance int64
}

// Gamble flips a fair coin: a win credits amount, a loss debits it
func (s *Service) Gamble(userID string, amount int64) (GambleResult, error) {
	if amount <= 0 {
		return GambleResult{Balance: s.Balance(userID)}, ErrInvalidAmount
	}
	var won bool
	acc, err := s.store.UpdateWallet(userID, func(w *store.Wallet) error {
		if w.Account.Coins < amount {
			return ErrInsufficientFunds
		}
		won = s.rng.IntN(2) == 0
		if won {
			w.Account.Coins += amount
		} else {
			w.Account.Coins -= amount
		}
		return nil
	})
	if err != nil {
		return GambleResult{Balance: acc.Coins}, err
	}
	return GambleResult{Won: won, Amount: amount, Balance: acc.Coins}, nil
}

// Leaderboard returns the richest accounts, at most LeaderboardSize
func (s *Service) Leaderboard() []models.EconomyAccount {
	return s.Top(LeaderboardSize)
}

// Top returns up to n accounts ordered by coins, ties broken by user ID
func (s *Service) Top(n int) []models.EconomyAccount {
	accounts := s.store.Accounts()
	sort.Slice(accounts, func(i, j int) bool {
		if accounts[i].Coins != accounts[j].Coins {
			return accounts[i].Coins > accounts[j].Coins
		}
		return accounts[i].UserID < accounts[j].UserID
	})
	if n >= 0 && len(accounts) > n {
		accounts = accounts[:n]
	}
	return accounts
}
