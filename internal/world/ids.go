package world

import (
	"sync/atomic"

	"github.com/udisondev/fpscore/internal/model"
)

// IDGenerator hands out entity IDs from disjoint ranges per role.
//
// ID ranges (convention):
//
//	0x00000000 - 0x0FFFFFFF: Reserved (0 = NoEntity)
//	0x10000000 - 0x1FFFFFFF: Players
//	0x20000000 - 0x2FFFFFFF: Enemies
//	0x30000000 - 0x3FFFFFFF: Props
type IDGenerator struct {
	nextPlayer atomic.Uint32
	nextEnemy  atomic.Uint32
	nextProp   atomic.Uint32
}

// NewIDGenerator creates a generator at the start of every range.
func NewIDGenerator() *IDGenerator {
	g := &IDGenerator{}
	g.nextPlayer.Store(0x10000000)
	g.nextEnemy.Store(0x20000000)
	g.nextProp.Store(0x30000000)
	return g
}

// Next returns the next ID for role. Unknown roles share the prop range.
func (g *IDGenerator) Next(role model.Role) model.EntityID {
	switch role {
	case model.RolePlayer:
		return model.EntityID(g.nextPlayer.Add(1))
	case model.RoleEnemy:
		return model.EntityID(g.nextEnemy.Add(1))
	default:
		return model.EntityID(g.nextProp.Add(1))
	}
}
