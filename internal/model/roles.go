package model

// Accessibility role and subrole values that identify menu bar status items.
const (
	RoleMenuExtra    = "AXMenuExtra"
	RoleMenuBarItem  = "AXMenuBarItem"
	SubroleMenuExtra = "AXMenuExtra"
)

// IsStatusItem reports whether a node with the given role and subrole is a
// status item. Regular application menus (File, Edit, ...) are AXMenuBarItem
// without the AXMenuExtra subrole and do not qualify.
func IsStatusItem(role, subrole string) bool {
	switch role {
	case RoleMenuExtra:
		return true
	case RoleMenuBarItem:
		return subrole == SubroleMenuExtra
	default:
		return false
	}
}
