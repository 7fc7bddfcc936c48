package gamepad

// ButtonRole is the semantic meaning of a button index under the standard
// mapping.
type ButtonRole string

const (
	RolePrimary      ButtonRole = "primary"    // A / Cross
	RoleSecondary    ButtonRole = "secondary"  // B / Circle
	RoleTertiary     ButtonRole = "tertiary"   // X / Square
	RoleQuaternary   ButtonRole = "quaternary" // Y / Triangle
	RoleLeftBumper   ButtonRole = "left_bumper"
	RoleRightBumper  ButtonRole = "right_bumper"
	RoleLeftTrigger  ButtonRole = "left_trigger"
	RoleRightTrigger ButtonRole = "right_trigger"
	RoleBack         ButtonRole = "back"
	RoleStart        ButtonRole = "start"
	RoleLeftStick    ButtonRole = "left_stick"
	RoleRightStick   ButtonRole = "right_stick"
	RoleDpadUp       ButtonRole = "dpad_up"
	RoleDpadDown     ButtonRole = "dpad_down"
	RoleDpadLeft     ButtonRole = "dpad_left"
	RoleDpadRight    ButtonRole = "dpad_right"
	RoleGuide        ButtonRole = "guide"
	RoleShare        ButtonRole = "share"
	RoleOverflow     ButtonRole = "overflow"
)

// Standard button indices.
const (
	ButtonPrimary = iota
	ButtonSecondary
	ButtonTertiary
	ButtonQuaternary
	ButtonLeftBumper
	ButtonRightBumper
	ButtonLeftTrigger
	ButtonRightTrigger
	ButtonBack
	ButtonStart
	ButtonLeftStick
	ButtonRightStick
	ButtonDpadUp
	ButtonDpadDown
	ButtonDpadLeft
	ButtonDpadRight
	ButtonGuide
	ButtonShare

	// StandardButtonCount covers the standard 17-button layout; Share is the
	// one extension indexed past it.
	StandardButtonCount = ButtonGuide + 1
)

// Standard axis indices. Y axes grow downwards.
const (
	AxisLeftX = iota
	AxisLeftY
	AxisRightX
	AxisRightY

	StandardAxisCount
)

var buttonLayout = [...]ButtonRole{
	ButtonPrimary:      RolePrimary,
	ButtonSecondary:    RoleSecondary,
	ButtonTertiary:     RoleTertiary,
	ButtonQuaternary:   RoleQuaternary,
	ButtonLeftBumper:   RoleLeftBumper,
	ButtonRightBumper:  RoleRightBumper,
	ButtonLeftTrigger:  RoleLeftTrigger,
	ButtonRightTrigger: RoleRightTrigger,
	ButtonBack:         RoleBack,
	ButtonStart:        RoleStart,
	ButtonLeftStick:    RoleLeftStick,
	ButtonRightStick:   RoleRightStick,
	ButtonDpadUp:       RoleDpadUp,
	ButtonDpadDown:     RoleDpadDown,
	ButtonDpadLeft:     RoleDpadLeft,
	ButtonDpadRight:    RoleDpadRight,
	ButtonGuide:        RoleGuide,
	ButtonShare:        RoleShare,
}

// RoleOf returns the role of a standard-layout button index. Indices past the
// table, and negative ones, fall into RoleOverflow.
func RoleOf(index int) ButtonRole {
	if index < 0 || index >= len(buttonLayout) {
		return RoleOverflow
	}
	return buttonLayout[index]
}
