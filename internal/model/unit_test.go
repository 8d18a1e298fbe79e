package model

import (
	"sync"
	"testing"
)

func testTemplate() *UnitTemplate {
	return NewUnitTemplate(TemplateParams{
		TemplateID:  1000,
		Name:        "Grey Wolf",
		Faction:     "beasts",
		MaxHP:       100,
		BoundsWidth: 16,
		AggroRange:  300,
		AttackRange: 40,
		MoveSpeed:   120,
		AttackDelay: 1200,
		AttackPower: 35,
	})
}

func TestNewUnitTemplate_ChaseRangeDefault(t *testing.T) {
	if got := testTemplate().ChaseRange(); got != 600 {
		t.Errorf("ChaseRange() = %v, want 600", got)
	}

	explicit := NewUnitTemplate(TemplateParams{AggroRange: 300, ChaseRange: 450})
	if got := explicit.ChaseRange(); got != 450 {
		t.Errorf("ChaseRange() = %v, want 450", got)
	}
}

func TestNewUnit(t *testing.T) {
	loc := NewLocation(17000, 170000, -3500, 0)
	u := NewUnit(42, testTemplate(), loc)

	if u.ObjectID() != 42 {
		t.Errorf("ObjectID() = %d, want 42", u.ObjectID())
	}
	if u.Name() != "Grey Wolf" || u.Faction() != "beasts" {
		t.Errorf("Name(), Faction() = %q, %q", u.Name(), u.Faction())
	}
	if u.Location() != loc {
		t.Errorf("Location() = %+v, want %+v", u.Location(), loc)
	}
	if u.CurrentHP() != 100 {
		t.Errorf("CurrentHP() = %d, want 100", u.CurrentHP())
	}
	if !u.IsTargetable() {
		t.Error("new unit should be targetable")
	}
	if u.TargetID() != NoTarget || u.OwnerID() != NoTarget {
		t.Errorf("TargetID(), OwnerID() = %d, %d, want NoTarget", u.TargetID(), u.OwnerID())
	}
	if u.Intention() != IntentionIdle {
		t.Errorf("Intention() = %v, want IDLE", u.Intention())
	}
	if u.Spawn() != nil {
		t.Error("Spawn() should be nil")
	}
	if u.AggroList() == nil || !u.AggroList().IsEmpty() {
		t.Error("AggroList() should be empty")
	}
}

func TestUnit_HP(t *testing.T) {
	u := NewUnit(1, testTemplate(), Location{})

	tests := []struct {
		name   string
		apply  func()
		wantHP int32
		dead   bool
	}{
		{"damage", func() { u.ReduceHP(30) }, 70, false},
		{"clamped to max", func() { u.SetCurrentHP(500) }, 100, false},
		{"overkill clamps to zero", func() { u.ReduceHP(1000) }, 0, true},
		{"negative set clamps to zero", func() { u.SetCurrentHP(-5) }, 0, true},
		{"revive", func() { u.SetCurrentHP(1) }, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.apply()
			if u.CurrentHP() != tt.wantHP {
				t.Errorf("CurrentHP() = %d, want %d", u.CurrentHP(), tt.wantHP)
			}
			if u.IsDead() != tt.dead {
				t.Errorf("IsDead() = %v, want %v", u.IsDead(), tt.dead)
			}
		})
	}
}

func TestUnit_AttackCooldown(t *testing.T) {
	u := NewUnit(1, testTemplate(), Location{})

	if !u.IsAttackReady(0) {
		t.Fatal("new unit should be ready to attack")
	}

	u.StartAttackCooldown(5000)
	if u.IsAttackReady(6199) {
		t.Error("IsAttackReady(6199) = true during cooldown")
	}
	if !u.IsAttackReady(6200) {
		t.Error("IsAttackReady(6200) = false after cooldown")
	}
}

func TestUnit_Target(t *testing.T) {
	u := NewUnit(1, testTemplate(), Location{})

	u.SetTarget(7)
	if u.TargetID() != 7 {
		t.Errorf("TargetID() = %d, want 7", u.TargetID())
	}
	u.ClearTarget()
	if u.TargetID() != NoTarget {
		t.Errorf("TargetID() = %d after ClearTarget", u.TargetID())
	}
}

func TestUnit_ConcurrentAccess(t *testing.T) {
	u := NewUnit(1, testTemplate(), Location{})
	var wg sync.WaitGroup

	for i := range 10 {
		wg.Add(2)
		go func(n int32) {
			defer wg.Done()
			for range 100 {
				u.SetLocation(NewLocation(n, n, 0, 0))
				u.SetIntention(IntentionWander)
				u.ReduceHP(0)
			}
		}(int32(i))
		go func() {
			defer wg.Done()
			for range 100 {
				_ = u.Location()
				_ = u.Intention()
				_ = u.IsDead()
			}
		}()
	}

	wg.Wait()
}

func TestRegionFilter_Matches(t *testing.T) {
	alive := NewUnit(1, testTemplate(), Location{})
	dead := NewUnit(2, testTemplate(), Location{})
	dead.SetCurrentHP(0)

	tests := []struct {
		name   string
		filter RegionFilter
		unit   *Unit
		want   bool
	}{
		{"active alive", RegionActiveUnit, alive, true},
		{"active dead", RegionActiveUnit, dead, false},
		{"any alive", RegionAnyUnit, alive, true},
		{"any dead", RegionAnyUnit, dead, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Matches(tt.unit); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIntentionString(t *testing.T) {
	tests := []struct {
		intention Intention
		want      string
	}{
		{IntentionIdle, "IDLE"},
		{IntentionWander, "WANDER"},
		{IntentionAttack, "ATTACK"},
		{Intention(999), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.intention.String(); got != tt.want {
				t.Errorf("Intention.String() = %q, want %q", got, tt.want)
			}
		})
	}
}
