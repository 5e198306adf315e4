package inspector

import (
	"fmt"
	"time"

	"github.com/mabhi256/gripview/internal/grip"
	"github.com/mabhi256/gripview/internal/node"
)

type ActionType int

const (
	ActionNodeExpand ActionType = iota
	ActionNodeCollapse
	ActionNodeFocus
	ActionNodePropertiesLoaded
	ActionGetterInvoked
	ActionRootsChanged
	ActionResume
	ActionNavigate
)

func (t ActionType) String() string {
	switch t {
	case ActionNodeExpand:
		return "NODE_EXPAND"
	case ActionNodeCollapse:
		return "NODE_COLLAPSE"
	case ActionNodeFocus:
		return "NODE_FOCUS"
	case ActionNodePropertiesLoaded:
		return "NODE_PROPERTIES_LOADED"
	case ActionGetterInvoked:
		return "GETTER_INVOKED"
	case ActionRootsChanged:
		return "ROOTS_CHANGED"
	case ActionResume:
		return "RESUME"
	case ActionNavigate:
		return "NAVIGATE"
	default:
		return fmt.Sprintf("ActionType(%d)", int(t))
	}
}

// Action is a state transition request.
type Action interface {
	Type() ActionType
}

type NodeExpand struct {
	Node *node.Node
}

type NodeCollapse struct {
	Node *node.Node
}

type NodeFocus struct {
	Node *node.Node
}

// NodePropertiesLoaded carries a completed fetch. Actor is the remote object
// the fetch discovered, empty for roots and synthetic nodes.
type NodePropertiesLoaded struct {
	Node       *node.Node
	Actor      string
	Properties *grip.Properties
}

type GetterInvoked struct {
	Node      *node.Node
	Value     *grip.Value
	Timestamp time.Time
}

type RootsChanged struct {
	Old []*node.Node
	New []*node.Node
}

type Resume struct{}

type Navigate struct{}

func (NodeExpand) Type() ActionType           { return ActionNodeExpand }
func (NodeCollapse) Type() ActionType         { return ActionNodeCollapse }
func (NodeFocus) Type() ActionType            { return ActionNodeFocus }
func (NodePropertiesLoaded) Type() ActionType { return ActionNodePropertiesLoaded }
func (GetterInvoked) Type() ActionType        { return ActionGetterInvoked }
func (RootsChanged) Type() ActionType         { return ActionRootsChanged }
func (Resume) Type() ActionType               { return ActionResume }
func (Navigate) Type() ActionType             { return ActionNavigate }
