package database

import (
	"errors"
	"testing"

	"github.com/PancyStudios/PancyCommunityGo/pkg/models"
	"go.mongodb.org/mongo-driver/bson"
)

func TestLRUCacheEvictsOldest(t *testing.T) {
	c := newLRUCache[int](2)
	c.put("a", 1)
	c.put("b", 2)
	if _, ok := c.get("a"); !ok {
		t.Fatal("a missing")
	}
	c.put("c", 3)

	if _, ok := c.get("b"); ok {
		t.Error("b should have been evicted")
	}
	if v, ok := c.get("a"); !ok || v != 1 {
		t.Errorf("a = %d, %v", v, ok)
	}
	if c.len() != 2 {
		t.Errorf("len = %d, want 2", c.len())
	}

	c.put("a", 10)
	if v, _ := c.get("a"); v != 10 {
		t.Errorf("a = %d, want 10", v)
	}
	c.remove("a")
	c.clear()
	if c.len() != 0 {
		t.Errorf("len = %d after clear", c.len())
	}
}

func TestGenerateCacheKeyIsDeterministic(t *testing.T) {
	dm := NewDataManager[models.LevelRecord]("levels", NewDatabase())
	k1 := dm.generateCacheKey(bson.M{"a": 1, "b": "x", "c": true})
	for i := 0; i < 20; i++ {
		if k := dm.generateCacheKey(bson.M{"c": true, "b": "x", "a": 1}); k != k1 {
			t.Fatalf("key changed: %q vs %q", k, k1)
		}
	}
	if k1 != "levels:{a=1,b=x,c=true}" {
		t.Fatalf("key = %q", k1)
	}
}

func TestOfflineWritesAreQueued(t *testing.T) {
	db := NewDatabase()
	repo := NewRepository(db)

	repo.SaveAccount(models.EconomyAccount{UserID: "u1", Coins: 10})
	repo.SaveLevel(models.LevelRecord{UserID: "u1", XP: 3, Level: 1})
	repo.SaveLevelReward(models.LevelReward{Level: 5, RoleID: "r5"})

	if got := repo.PendingWrites(); got != 3 {
		t.Fatalf("pending = %d, want 3", got)
	}
	if db.Connected() {
		t.Fatal("database should be offline")
	}
}

func TestOfflineReads(t *testing.T) {
	db := NewDatabase()
	dm := NewDataManager[models.EconomyAccount]("economy", db)

	if _, err := dm.GetAll(bson.M{}); !errors.Is(err, ErrOffline) {
		t.Fatalf("GetAll err = %v, want ErrOffline", err)
	}

	// written documents are served from the cache
	_ = dm.Set(bson.M{"_id": "u1"}, models.EconomyAccount{UserID: "u1", Coins: 7})
	acc, err := dm.Get(bson.M{"_id": "u1"})
	if err != nil || acc == nil || acc.Coins != 7 {
		t.Fatalf("Get = %+v, %v", acc, err)
	}
	if _, err := dm.Get(bson.M{"_id": "u2"}); !errors.Is(err, ErrOffline) {
		t.Fatalf("uncached Get err = %v, want ErrOffline", err)
	}

	if _, err := NewRepository(db).LoadSnapshot(); !errors.Is(err, ErrOffline) {
		t.Fatalf("LoadSnapshot err = %v, want ErrOffline", err)
	}
}

func TestStatusOffline(t *testing.T) {
	status, ok := NewDatabase().GetStatus()
	if ok || status != "🔴 | Desconectado" {
		t.Fatalf("status = %q, %v", status, ok)
	}
	if _, err := NewDatabase().Ping(); err == nil {
		t.Fatal("Ping should fail while offline")
	}
}
