package model

// UnitTemplate holds static stats and AI parameters of a unit type
// (row of the unit_templates table).
type UnitTemplate struct {
	templateID   int32
	name         string
	faction      string
	aiType       string
	maxHP        int32
	boundsWidth  float64
	aggroRange   float64
	chaseRange   float64
	attackRange  float64
	moveSpeed    float64 // units per second
	attackDelay  int64   // ms between swings
	attackPower  int32
	respawnDelay int32 // seconds
}

// TemplateParams groups the UnitTemplate constructor inputs.
type TemplateParams struct {
	TemplateID   int32
	Name         string
	Faction      string
	AIType       string
	MaxHP        int32
	BoundsWidth  float64
	AggroRange   float64
	ChaseRange   float64
	AttackRange  float64
	MoveSpeed    float64
	AttackDelay  int64
	AttackPower  int32
	RespawnDelay int32
}

// NewUnitTemplate creates a template from p.
// A zero chase range defaults to twice the aggro range.
func NewUnitTemplate(p TemplateParams) *UnitTemplate {
	chase := p.ChaseRange
	if chase <= 0 {
		chase = p.AggroRange * 2
	}
	return &UnitTemplate{
		templateID:   p.TemplateID,
		name:         p.Name,
		faction:      p.Faction,
		aiType:       p.AIType,
		maxHP:        p.MaxHP,
		boundsWidth:  p.BoundsWidth,
		aggroRange:   p.AggroRange,
		chaseRange:   chase,
		attackRange:  p.AttackRange,
		moveSpeed:    p.MoveSpeed,
		attackDelay:  p.AttackDelay,
		attackPower:  p.AttackPower,
		respawnDelay: p.RespawnDelay,
	}
}

func (t *UnitTemplate) TemplateID() int32 { return t.templateID }
func (t *UnitTemplate) Name() string { return t.name }
func (t *UnitTemplate) Faction() string { return t.faction }
func (t *UnitTemplate) AIType() string { return t.aiType }
func (t *UnitTemplate) MaxHP() int32 { return t.maxHP }
func (t *UnitTemplate) BoundsWidth() float64 { return t.boundsWidth }
func (t *UnitTemplate) AggroRange() float64 { return t.aggroRange }
func (t *UnitTemplate) ChaseRange() float64 { return t.chaseRange }
func (t *UnitTemplate) AttackRange() float64 { return t.attackRange }
func (t *UnitTemplate) MoveSpeed() float64 { return t.moveSpeed }
func (t *UnitTemplate) AttackDelay() int64 { return t.attackDelay }
func (t *UnitTemplate) AttackPower() int32 { return t.attackPower }
func (t *UnitTemplate) RespawnDelay() int32 { return t.respawnDelay }
