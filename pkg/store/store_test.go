package store

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/PancyStudios/PancyCommunityGo/pkg/models"
)

type recordingPersister struct {
	mu       sync.Mutex
	accounts []models.EconomyAccount
	claims   []models.DailyClaim
	levels   []models.LevelRecord
	rewards  []models.LevelReward
}

func (p *recordingPersister) SaveAccount(acc models.EconomyAccount) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.accounts = append(p.accounts, acc)
}

func (p *recordingPersister) SaveDailyClaim(claim models.DailyClaim) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.claims = append(p.claims, claim)
}

func (p *recordingPersister) SaveLevel(rec models.LevelRecord) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.levels = append(p.levels, rec)
}

func (p *recordingPersister) SaveLevelReward(reward models.LevelReward) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rewards = append(p.rewards, reward)
}

// gatedPersister blocks the first SaveAccount until release is closed
type gatedPersister struct {
	recordingPersister
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (p *gatedPersister) SaveAccount(acc models.EconomyAccount) {
	first := false
	p.once.Do(func() { first = true })
	if first {
		close(p.entered)
		<-p.release
	}
	p.recordingPersister.SaveAccount(acc)
}

func TestPersistOrderMatchesCommitOrder(t *testing.T) {
	s := New()
	p := &gatedPersister{entered: make(chan struct{}), release: make(chan struct{})}
	s.SetPersister(p)

	add := func() {
		_, _ = s.UpdateWallet("u1", func(w *Wallet) error {
			w.Account.Coins += 100
			return nil
		})
	}

	firstDone := make(chan struct{})
	go func() {
		add()
		close(firstDone)
	}()
	<-p.entered

	secondDone := make(chan struct{})
	go func() {
		add()
		close(secondDone)
	}()

	select {
	case <-secondDone:
		t.Fatal("second update committed while the first was still being persisted")
	case <-time.After(50 * time.Millisecond):
	}

	close(p.release)
	<-firstDone
	<-secondDone

	if got := s.Account("u1").Coins; got != 200 {
		t.Fatalf("memory = %d, want 200", got)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.accounts) != 2 || p.accounts[1].Coins != 200 {
		t.Fatalf("persisted %+v, want last write at 200", p.accounts)
	}
}

func TestAccountCreatedLazily(t *testing.T) {
	s := New()
	acc := s.Account("u1")
	if acc.UserID != "u1" || acc.Coins != 0 || len(acc.Inventory) != 0 {
		t.Fatalf("unexpected account: %+v", acc)
	}
	if got := len(s.Accounts()); got != 1 {
		t.Fatalf("Accounts() length = %d, want 1", got)
	}
}

func TestUpdateWalletDiscardsOnError(t *testing.T) {
	s := New()
	p := &recordingPersister{}
	s.SetPersister(p)

	if _, err := s.UpdateWallet("u1", func(w *Wallet) error {
		w.Account.Coins = 100
		return nil
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	boom := errors.New("boom")
	acc, err := s.UpdateWallet("u1", func(w *Wallet) error {
		w.Account.Coins = 5
		w.Account.Inventory = append(w.Account.Inventory, "x")
		w.MarkDaily(time.Now())
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if acc.Coins != 100 || len(acc.Inventory) != 0 {
		t.Fatalf("failed update leaked: %+v", acc)
	}
	if !s.LastDaily("u1").IsZero() {
		t.Fatal("failed update recorded a daily claim")
	}
	if len(p.accounts) != 1 {
		t.Fatalf("persisted %d accounts, want 1", len(p.accounts))
	}
}

func TestUpdateWalletsBothOrNothing(t *testing.T) {
	s := New()
	_, _ = s.UpdateWallet("a", func(w *Wallet) error { w.Account.Coins = 50; return nil })

	_, _, err := s.UpdateWallets("a", "b", func(wa, wb *Wallet) error {
		wb.Account.Coins += 80
		if wa.Account.Coins < 80 {
			return errors.New("insufficient")
		}
		wa.Account.Coins -= 80
		return nil
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if got := s.Account("a").Coins; got != 50 {
		t.Errorf("a = %d, want 50", got)
	}
	if got := s.Account("b").Coins; got != 0 {
		t.Errorf("b = %d, want 0", got)
	}

	accA, accB, err := s.UpdateWallets("a", "b", func(wa, wb *Wallet) error {
		wa.Account.Coins -= 30
		wb.Account.Coins += 30
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if accA.Coins != 20 || accB.Coins != 30 {
		t.Fatalf("got a=%d b=%d, want 20/30", accA.Coins, accB.Coins)
	}
}

func TestUpdateWalletsSameUser(t *testing.T) {
	s := New()
	_, _ = s.UpdateWallet("a", func(w *Wallet) error { w.Account.Coins = 10; return nil })

	accA, accB, err := s.UpdateWallets("a", "a", func(wa, wb *Wallet) error {
		if wa != wb {
			t.Error("expected the same wallet for the same user")
		}
		wa.Account.Coins -= 10
		wb.Account.Coins += 10
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if accA.Coins != 10 || accB.Coins != 10 {
		t.Fatalf("self transfer changed balance: %d/%d", accA.Coins, accB.Coins)
	}
}

func TestConcurrentTransfersConserveCoins(t *testing.T) {
	s := New()
	users := []string{"a", "b", "c", "d"}
	for _, u := range users {
		_, _ = s.UpdateWallet(u, func(w *Wallet) error { w.Account.Coins = 1000; return nil })
	}

	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		from := users[i%len(users)]
		to := users[(i+1)%len(users)]
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, _ = s.UpdateWallets(from, to, func(wa, wb *Wallet) error {
				if wa.Account.Coins < 7 {
					return errors.New("insufficient")
				}
				wa.Account.Coins -= 7
				wb.Account.Coins += 7
				return nil
			})
		}()
	}
	wg.Wait()

	var total int64
	for _, acc := range s.Accounts() {
		if acc.Coins < 0 {
			t.Fatalf("negative balance for %s", acc.UserID)
		}
		total += acc.Coins
	}
	if total != 4000 {
		t.Fatalf("total = %d, want 4000", total)
	}
}

func TestLevelDefaultsAndUpdate(t *testing.T) {
	s := New()
	rec, ok := s.Level("u1")
	if ok || rec.Level != 1 || rec.XP != 0 {
		t.Fatalf("unexpected default level: %+v ok=%v", rec, ok)
	}
	if s.Stats().Levels != 0 {
		t.Fatal("Level() must not create a record")
	}

	rec, err := s.UpdateLevel("u1", func(r *models.LevelRecord) error {
		r.XP += 10
		return nil
	})
	if err != nil || rec.XP != 10 || rec.Level != 1 {
		t.Fatalf("UpdateLevel = %+v, %v", rec, err)
	}
}

func TestLevelRewards(t *testing.T) {
	s := New()
	p := &recordingPersister{}
	s.SetPersister(p)

	s.SetLevelReward(5, "r5")
	s.SetLevelReward(2, "r2")
	s.SetLevelReward(5, "r5b")

	if roleID, ok := s.LevelReward(5); !ok || roleID != "r5b" {
		t.Fatalf("LevelReward(5) = %q, %v", roleID, ok)
	}
	rewards := s.LevelRewards()
	if len(rewards) != 2 || rewards[0].Level != 2 || rewards[1].Level != 5 {
		t.Fatalf("unexpected rewards: %+v", rewards)
	}
	if len(p.rewards) != 3 {
		t.Fatalf("persisted %d rewards, want 3", len(p.rewards))
	}
}

func TestLoadSnapshot(t *testing.T) {
	s := New()
	now := time.Now()
	s.Load(Snapshot{
		Accounts:    []models.EconomyAccount{{UserID: "u1", Coins: 40, Inventory: []string{"custom_name"}}},
		DailyClaims: []models.DailyClaim{{UserID: "u1", ClaimedAt: now}},
		Levels:      []models.LevelRecord{{UserID: "u1", XP: 3, Level: 0}},
		Rewards:     []models.LevelReward{{Level: 3, RoleID: "r3"}},
	})

	if acc := s.Account("u1"); acc.Coins != 40 || len(acc.Inventory) != 1 {
		t.Fatalf("unexpected account: %+v", acc)
	}
	if !s.LastDaily("u1").Equal(now) {
		t.Fatal("daily claim not loaded")
	}
	if rec, _ := s.Level("u1"); rec.Level != 1 {
		t.Fatalf("level = %d, want clamped to 1", rec.Level)
	}
	st := s.Stats()
	if st.Accounts != 1 || st.Levels != 1 || st.Rewards != 1 {
		t.Fatalf("unexpected stats: %+v", st)
	}
}
