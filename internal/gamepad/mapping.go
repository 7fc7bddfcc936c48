package gamepad

// AxisMapping defines how a raw axis index maps onto the standard layout.
// Sticks land in Axes[Target]; triggers land in Buttons[Target] as an analog
// button value.
type AxisMapping struct {
	Index     int32
	Target    int
	IsTrigger bool
	// For triggers: raw range. Some devices use -32768..32767, others 0..32767.
	RawMin int16
	RawMax int16
}

// ButtonMapping defines how a raw button index maps to a standard button.
type ButtonMapping struct {
	Index  int32
	Target int
}

// DeviceMapping holds the complete mapping for a specific device type.
type DeviceMapping struct {
	Name    string
	Axes    []AxisMapping
	Buttons []ButtonMapping
	HasHat  bool
}

// RawInput is one reading of a joystick in driver order.
type RawInput struct {
	Axes    []int16
	Buttons []bool
	Hats    []uint8
}

// Hat bits as reported by SDL.
const (
	HatUp    uint8 = 0x01
	HatRight uint8 = 0x02
	HatDown  uint8 = 0x04
	HatLeft  uint8 = 0x08
)

// triggerPressThreshold is the analog value at which a trigger counts as pressed.
const triggerPressThreshold = 0.1

func digital(pressed bool) ButtonState {
	b := ButtonState{Pressed: pressed, Touched: pressed}
	if pressed {
		b.Value = 1
	}
	return b
}

// Apply converts a raw reading into standard-layout buttons and axes.
// A nil mapping passes the reading through in driver order, with hat
// directions appended to the buttons as up, down, left, right.
func (m *DeviceMapping) Apply(raw RawInput) ([]ButtonState, []float64) {
	if m == nil {
		return passthrough(raw)
	}

	buttons := make([]ButtonState, StandardButtonCount+1)
	axes := make([]float64, StandardAxisCount)

	for _, am := range m.Axes {
		if int(am.Index) >= len(raw.Axes) {
			continue
		}
		v := raw.Axes[am.Index]
		if am.IsTrigger {
			val := NormalizeTrigger(v, am.RawMin, am.RawMax)
			buttons[am.Target] = ButtonState{
				Pressed: val > triggerPressThreshold,
				Touched: val > 0,
				Value:   val,
			}
			continue
		}
		axes[am.Target] = NormalizeAxis(v)
	}

	for _, bm := range m.Buttons {
		if int(bm.Index) >= len(raw.Buttons) {
			continue
		}
		buttons[bm.Target] = digital(raw.Buttons[bm.Index])
	}

	if m.HasHat && len(raw.Hats) > 0 {
		hat := raw.Hats[0]
		buttons[ButtonDpadUp] = digital(hat&HatUp != 0)
		buttons[ButtonDpadDown] = digital(hat&HatDown != 0)
		buttons[ButtonDpadLeft] = digital(hat&HatLeft != 0)
		buttons[ButtonDpadRight] = digital(hat&HatRight != 0)
	}

	for i := range buttons {
		buttons[i].Index = i
	}
	return buttons, axes
}

func passthrough(raw RawInput) ([]ButtonState, []float64) {
	buttons := make([]ButtonState, 0, len(raw.Buttons)+4*len(raw.Hats))
	for _, p := range raw.Buttons {
		buttons = append(buttons, digital(p))
	}
	for _, hat := range raw.Hats {
		buttons = append(buttons,
			digital(hat&HatUp != 0),
			digital(hat&HatDown != 0),
			digital(hat&HatLeft != 0),
			digital(hat&HatRight != 0),
		)
	}
	for i := range buttons {
		buttons[i].Index = i
	}

	axes := make([]float64, len(raw.Axes))
	for i, v := range raw.Axes {
		axes[i] = NormalizeAxis(v)
	}
	return buttons, axes
}

// Built-in mappings for common controllers.

var xboxMapping = &DeviceMapping{
	Name: "xbox",
	Axes: []AxisMapping{
		{Index: 0, Target: AxisLeftX},
		{Index: 1, Target: AxisLeftY},
		{Index: 2, Target: AxisRightX},
		{Index: 3, Target: AxisRightY},
		{Index: 4, Target: ButtonLeftTrigger, IsTrigger: true, RawMin: -32768, RawMax: 32767},
		{Index: 5, Target: ButtonRightTrigger, IsTrigger: true, RawMin: -32768, RawMax: 32767},
	},
	Buttons: []ButtonMapping{
		{Index: 0, Target: ButtonPrimary},
		{Index: 1, Target: ButtonSecondary},
		{Index: 2, Target: ButtonTertiary},
		{Index: 3, Target: ButtonQuaternary},
		{Index: 4, Target: ButtonLeftBumper},
		{Index: 5, Target: ButtonRightBumper},
		{Index: 6, Target: ButtonBack},
		{Index: 7, Target: ButtonStart},
		{Index: 8, Target: ButtonLeftStick},
		{Index: 9, Target: ButtonRightStick},
		{Index: 10, Target: ButtonGuide},
		{Index: 11, Target: ButtonShare}, // Series X|S share button
	},
	HasHat: true,
}

var playstationMapping = &DeviceMapping{
	Name: "playstation",
	Axes: []AxisMapping{
		{Index: 0, Target: AxisLeftX},
		{Index: 1, Target: AxisLeftY},
		{Index: 2, Target: AxisRightX},
		{Index: 3, Target: AxisRightY},
		{Index: 4, Target: ButtonLeftTrigger, IsTrigger: true, RawMin: -32768, RawMax: 32767},
		{Index: 5, Target: ButtonRightTrigger, IsTrigger: true, RawMin: -32768, RawMax: 32767},
	},
	Buttons: []ButtonMapping{
		{Index: 0, Target: ButtonPrimary},    // Cross (×)
		{Index: 1, Target: ButtonSecondary},  // Circle (○)
		{Index: 2, Target: ButtonTertiary},   // Square (□)
		{Index: 3, Target: ButtonQuaternary}, // Triangle (△)
		{Index: 4, Target: ButtonShare},      // Share / Create
		{Index: 5, Target: ButtonGuide},      // PS button
		{Index: 6, Target: ButtonStart},      // Options
		{Index: 7, Target: ButtonLeftStick},
		{Index: 8, Target: ButtonRightStick},
		{Index: 9, Target: ButtonLeftBumper},   // L1
		{Index: 10, Target: ButtonRightBumper}, // R1
	},
	HasHat: true,
}

var switchProMapping = &DeviceMapping{
	Name: "switch_pro",
	Axes: []AxisMapping{
		{Index: 0, Target: AxisLeftX},
		{Index: 1, Target: AxisLeftY},
		{Index: 2, Target: AxisRightX},
		{Index: 3, Target: AxisRightY},
	},
	Buttons: []ButtonMapping{
		{Index: 0, Target: ButtonPrimary},
		{Index: 1, Target: ButtonSecondary},
		{Index: 2, Target: ButtonTertiary},
		{Index: 3, Target: ButtonQuaternary},
		{Index: 4, Target: ButtonLeftBumper},
		{Index: 5, Target: ButtonRightBumper},
		{Index: 6, Target: ButtonBack},
		{Index: 7, Target: ButtonStart},
		{Index: 8, Target: ButtonLeftStick},
		{Index: 9, Target: ButtonRightStick},
		{Index: 10, Target: ButtonGuide},
		{Index: 11, Target: ButtonShare}, // Capture
		// ZL / ZR are digital on this pad.
		{Index: 12, Target: ButtonLeftTrigger},
		{Index: 13, Target: ButtonRightTrigger},
	},
	HasHat: true,
}

// Known vendor/product IDs.
type deviceKey struct {
	VendorID  uint16
	ProductID uint16
}

var knownDevices = map[deviceKey]*DeviceMapping{
	// Microsoft Xbox controllers
	{0x045E, 0x028E}: xboxMapping, // Xbox 360
	{0x045E, 0x02FF}: xboxMapping, // Xbox One
	{0x045E, 0x0B12}: xboxMapping, // Xbox Series X|S
	{0x045E, 0x0B13}: xboxMapping, // Xbox Series X|S (wireless)
	// Sony PlayStation controllers
	{0x054C, 0x0CE6}: playstationMapping, // DualSense
	{0x054C, 0x09CC}: playstationMapping, // DualShock 4 v2
	{0x054C, 0x05C4}: playstationMapping, // DualShock 4 v1
	// Nintendo Switch Pro Controller
	{0x057E, 0x2009}: switchProMapping,
}

// GetMapping returns the standard mapping for a device identified by
// vendor/product ID, or nil when the device is not known. A nil mapping is
// still usable: Apply passes readings through unchanged.
func GetMapping(vendorID, productID uint16) *DeviceMapping {
	return knownDevices[deviceKey{VendorID: vendorID, ProductID: productID}]
}

// Profile reports the mapping profile snapshots produced by m carry.
func (m *DeviceMapping) Profile() MappingProfile {
	if m == nil {
		return MappingUnknown
	}
	return MappingStandard
}

// MappingName is the mapping name for logs, "raw" for unknown devices.
func (m *DeviceMapping) MappingName() string {
	if m == nil {
		return "raw"
	}
	return m.Name
}
