package leveling

import (
	"errors"
	"testing"

	"github.com/PancyStudios/PancyCommunityGo/pkg/models"
	"github.com/PancyStudios/PancyCommunityGo/pkg/store"
)

type fixedRand int

func (r fixedRand) IntN(n int) int { return int(r) % n }

func TestAddMessageXPRange(t *testing.T) {
	tests := []struct {
		roll fixedRand
		want int
	}{
		{0, 7},
		{7, 14},
		{3, 10},
	}
	for _, tt := range tests {
		s := NewService(store.New(), tt.roll)
		res := s.AddMessageXP("u1")
		if res.Gained != tt.want || res.XP != tt.want || res.LeveledUp {
			t.Errorf("roll %d: %+v, want gained %d", tt.roll, res, tt.want)
		}
	}
}

func TestLevelUpResetsXP(t *testing.T) {
	st := store.New()
	_, _ = st.UpdateLevel("u1", func(r *models.LevelRecord) error {
		r.XP = 95
		return nil
	})
	s := NewService(st, fixedRand(7))

	res := s.AddMessageXP("u1")
	if !res.LeveledUp || res.Level != 2 || res.XP != 0 {
		t.Fatalf("level up = %+v", res)
	}
	if p := s.Get("u1"); p.Level != 2 || p.XP != 0 || p.Needed != 200 {
		t.Errorf("progress = %+v", p)
	}
}

func TestSingleLevelUpPerMessage(t *testing.T) {
	st := store.New()
	_, _ = st.UpdateLevel("u1", func(r *models.LevelRecord) error {
		r.XP = 1000
		return nil
	})
	s := NewService(st, fixedRand(0))

	res := s.AddMessageXP("u1")
	if res.Level != 2 {
		t.Errorf("level = %d, want exactly one level up", res.Level)
	}
}

func TestLevelMonotonic(t *testing.T) {
	s := NewService(store.New(), fixedRand(7))
	prev := 1
	for i := 0; i < 100; i++ {
		res := s.AddMessageXP("u1")
		if res.Level < prev || res.Level > prev+1 {
			t.Fatalf("message %d: level %d after %d", i, res.Level, prev)
		}
		prev = res.Level
	}
	if prev < 2 {
		t.Errorf("expected at least one level up in 100 messages, got level %d", prev)
	}
}

func TestRewardOnLevelUp(t *testing.T) {
	st := store.New()
	s := NewService(st, fixedRand(7))
	if err := s.SetReward(2, "r2"); err != nil {
		t.Fatal(err)
	}

	var res Result
	for i := 0; i < 10 && !res.LeveledUp; i++ {
		res = s.AddMessageXP("u1")
	}
	if !res.LeveledUp || res.RewardRoleID != "r2" {
		t.Errorf("result = %+v, want reward r2", res)
	}
}

func TestSetRewardValidation(t *testing.T) {
	s := NewService(store.New(), nil)
	if err := s.SetReward(0, "r"); !errors.Is(err, ErrInvalidLevel) {
		t.Errorf("SetReward(0) = %v", err)
	}
	if err := s.SetReward(3, "r3"); err != nil {
		t.Errorf("SetReward(3) = %v", err)
	}
	if rewards := s.Rewards(); len(rewards) != 1 || rewards[0].RoleID != "r3" {
		t.Errorf("rewards = %+v", rewards)
	}
}

func TestGetDoesNotCreate(t *testing.T) {
	st := store.New()
	s := NewService(st, nil)
	if p := s.Get("ghost"); p.Level != 1 || p.XP != 0 || p.Needed != 100 {
		t.Errorf("progress = %+v", p)
	}
	if st.Stats().Levels != 0 {
		t.Error("Get created a level record")
	}
}
