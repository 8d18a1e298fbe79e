package model

import "sync"

// Hostility is what one attacker has done to a unit.
type Hostility struct {
	Hate   int64
	Damage int64
}

// AggroList is a unit's hate table: how much each other unit has
// provoked it. The threat scorer reads it; strikes and help calls write it.
type AggroList struct {
	mu      sync.RWMutex
	entries map[uint32]Hostility
}

// NewAggroList creates an empty hate table.
func NewAggroList() *AggroList {
	return &AggroList{entries: make(map[uint32]Hostility)}
}

// AddHate raises hate toward objectID without recording damage.
func (l *AggroList) AddHate(objectID uint32, hate int64) {
	l.mu.Lock()
	h := l.entries[objectID]
	h.Hate += hate
	l.entries[objectID] = h
	l.mu.Unlock()
}

// AddDamage records damage taken from objectID. Every point of damage is
// also a point of hate.
func (l *AggroList) AddDamage(objectID uint32, damage int64) {
	l.mu.Lock()
	h := l.entries[objectID]
	h.Damage += damage
	h.Hate += damage
	l.entries[objectID] = h
	l.mu.Unlock()
}

// Hate returns hate toward objectID, 0 when unknown.
func (l *AggroList) Hate(objectID uint32) int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.entries[objectID].Hate
}

// Get returns the entry for objectID.
func (l *AggroList) Get(objectID uint32) (Hostility, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	h, ok := l.entries[objectID]
	return h, ok
}

// Remove forgets objectID, typically once it has left the world.
func (l *AggroList) Remove(objectID uint32) {
	l.mu.Lock()
	delete(l.entries, objectID)
	l.mu.Unlock()
}

// Len returns the number of tracked attackers.
func (l *AggroList) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// IsEmpty reports whether nobody has provoked the unit yet.
func (l *AggroList) IsEmpty() bool {
	return l.Len() == 0
}
