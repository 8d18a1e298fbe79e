package world

import "sync/atomic"

// IDKind selects which object ID range an identity is drawn from.
type IDKind uint8

const (
	IDPlayer IDKind = iota // 0x10000001 - 0x1FFFFFFF
	IDNpc                  // 0x20000001 - 0x2FFFFFFF
)

const idSpan = 0x0FFFFFFF

var idBase = [...]uint32{
	IDPlayer: 0x10000000,
	IDNpc:    0x20000000,
}

// ObjectIDGenerator hands out unit identities. 0 is never issued; it is
// model.NoTarget. A range that runs out wraps to its first ID.
type ObjectIDGenerator struct {
	issued [len(idBase)]atomic.Uint32
}

// NewObjectIDGenerator creates a generator with every range unused.
func NewObjectIDGenerator() *ObjectIDGenerator {
	return &ObjectIDGenerator{}
}

// Next issues the next ID of kind.
func (g *ObjectIDGenerator) Next(kind IDKind) uint32 {
	n := g.issued[kind].Add(1)
	return idBase[kind] + (n-1)%idSpan + 1
}

// NextPlayerID issues an ID for a brainless player-side unit.
func (g *ObjectIDGenerator) NextPlayerID() uint32 {
	return g.Next(IDPlayer)
}

// NextNpcID issues an ID for a spawned NPC.
func (g *ObjectIDGenerator) NextNpcID() uint32 {
	return g.Next(IDNpc)
}
