package model

import "fmt"

type ResourceType uint8

const (
	ResourceIron ResourceType = iota + 1
	ResourceCopper
)

func (r ResourceType) Valid() bool { return r == ResourceIron || r == ResourceCopper }

func (r ResourceType) String() string {
	switch r {
	case ResourceIron:
		return ItemIron
	case ResourceCopper:
		return ItemCopper
	default:
		return ""
	}
}

// Color is the display color handed to renderers.
func (r ResourceType) Color() string {
	switch r {
	case ResourceIron:
		return "#7f8c8d"
	case ResourceCopper:
		return "#e67e22"
	default:
		return ""
	}
}

func ParseResourceType(s string) (ResourceType, error) {
	switch s {
	case ItemIron:
		return ResourceIron, nil
	case ItemCopper:
		return ResourceCopper, nil
	default:
		return 0, fmt.Errorf("unknown resource type %q", s)
	}
}

// ResourceNode is a minable deposit placed by chunk generation.
type ResourceNode struct {
	Type  ResourceType
	Color string
}

func NewResourceNode(t ResourceType) ResourceNode {
	return ResourceNode{Type: t, Color: t.Color()}
}
