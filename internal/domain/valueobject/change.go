package valueobject

type ChangeType int

const (
	ChangeTypeNoop ChangeType = iota
	ChangeTypeCreate
	ChangeTypeUpdate
	ChangeTypeDelete
)

func (ct ChangeType) String() string {
	switch ct {
	case ChangeTypeNoop:
		return "NOOP"
	case ChangeTypeCreate:
		return "CREATE"
	case ChangeTypeUpdate:
		return "UPDATE"
	case ChangeTypeDelete:
		return "DELETE"
	default:
		return "UNKNOWN"
	}
}

// Change describes what the provisioning engine is expected to do with one
// graph node when it reconciles the new assembly against the previous one.
type Change struct {
	changeType ChangeType
	stage      string
	kind       string
	name       string
	oldState   interface{}
	newState   interface{}
	actions    []string
}

func NewChange(changeType ChangeType, stage, kind, name string) *Change {
	return &Change{
		changeType: changeType,
		stage:      stage,
		kind:       kind,
		name:       name,
	}
}

func (c *Change) Type() ChangeType      { return c.changeType }
func (c *Change) Stage() string         { return c.stage }
func (c *Change) Kind() string          { return c.kind }
func (c *Change) Name() string          { return c.name }
func (c *Change) OldState() interface{} { return c.oldState }
func (c *Change) NewState() interface{} { return c.newState }
func (c *Change) Actions() []string     { return c.actions }

func (c *Change) WithOldState(state interface{}) *Change {
	cp := c.Clone()
	cp.oldState = state
	return cp
}

func (c *Change) WithNewState(state interface{}) *Change {
	cp := c.Clone()
	cp.newState = state
	return cp
}

func (c *Change) WithActions(actions ...string) *Change {
	cp := c.Clone()
	cp.actions = make([]string, len(actions))
	copy(cp.actions, actions)
	return cp
}

func (c *Change) Equals(other *Change) bool {
	if other == nil {
		return false
	}
	if c.changeType != other.changeType || c.stage != other.stage || c.kind != other.kind || c.name != other.name {
		return false
	}
	if len(c.actions) != len(other.actions) {
		return false
	}
	for i, a := range c.actions {
		if a != other.actions[i] {
			return false
		}
	}
	return true
}

func (c *Change) Clone() *Change {
	newActions := make([]string, len(c.actions))
	copy(newActions, c.actions)
	return &Change{
		changeType: c.changeType,
		stage:      c.stage,
		kind:       c.kind,
		name:       c.name,
		oldState:   c.oldState,
		newState:   c.newState,
		actions:    newActions,
	}
}
