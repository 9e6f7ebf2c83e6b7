package semantic

// Classification axes. Each axis has its own curated exemplar set and its
// own reference store.
const (
	AxisEquipment        = "equipment"
	AxisModificationType = "modification-type"
)

// Exemplar is one curated reference entry before embedding: the label the
// classifier reports, the coarser category it belongs to, and the text that
// gets embedded.
type Exemplar struct {
	Label    string
	Category string
	Text     string
}

// EquipmentExemplars is the curated equipment-category reference set. The
// exemplar text deliberately includes the vocabulary maintenance planners
// actually write, not just the label.
var EquipmentExemplars = []Exemplar{
	{
		Label:    "Centrifugal Pump",
		Category: "rotating equipment",
		Text:     "centrifugal pump impeller bearing seal coupling motor-driven process flow transfer pump",
	},
	{
		Label:    "Positive Displacement Pump",
		Category: "rotating equipment",
		Text:     "positive displacement pump diaphragm metering gear pump chemical injection",
	},
	{
		Label:    "Containment Isolation Valve",
		Category: "isolation valve",
		Text:     "containment isolation valve emergency cooling reactor coolant boundary isolation safety valve closure",
	},
	{
		Label:    "Motor-Operated Valve",
		Category: "valve",
		Text:     "motor-operated valve actuator gate globe throttling remote operation limit switch",
	},
	{
		Label:    "Safety Relief Valve",
		Category: "valve",
		Text:     "safety relief valve overpressure protection setpoint lift pressure vessel code",
	},
	{
		Label:    "Heat Exchanger",
		Category: "heat transfer",
		Text:     "heat exchanger shell tube bundle fouling cooling water plate and frame",
	},
	{
		Label:    "Emergency Diesel Generator",
		Category: "electrical power",
		Text:     "emergency diesel generator standby power load sequencing fuel oil day tank",
	},
	{
		Label:    "Electrical Switchgear",
		Category: "electrical power",
		Text:     "electrical switchgear breaker bus relay protection motor control center distribution panel",
	},
	{
		Label:    "Pressure Transmitter",
		Category: "instrumentation",
		Text:     "pressure transmitter sensing line indication setpoint calibration loop instrument",
	},
	{
		Label:    "Process Control System",
		Category: "instrumentation",
		Text:     "process control system plc distributed control software logic digital upgrade hmi",
	},
	{
		Label:    "HVAC Air Handler",
		Category: "hvac",
		Text:     "hvac air handling unit fan damper filter ventilation confinement exhaust",
	},
	{
		Label:    "Piping and Supports",
		Category: "mechanical",
		Text:     "piping spool support hanger snubber weld pipe routing stress analysis",
	},
	{
		Label:    "Crane and Hoisting Equipment",
		Category: "material handling",
		Text:     "crane hoist rigging lift bridge trolley below-the-hook load path",
	},
}

// ModificationTypeExemplars is the curated modification-type reference set.
var ModificationTypeExemplars = []Exemplar{
	{
		Label:    "New Installation",
		Category: "new installation",
		Text:     "install new equipment system where none existed new capability first installation",
	},
	{
		Label:    "Identical Replacement",
		Category: "identical replacement",
		Text:     "identical replacement like-for-like same manufacturer same model same part number in kind",
	},
	{
		Label:    "Non-Identical Replacement",
		Category: "non-identical replacement",
		Text:     "replacement different manufacturer different model equivalent substitute obsolete upgrade replacement",
	},
	{
		Label:    "Temporary Modification",
		Category: "temporary modification",
		Text:     "temporary modification interim configuration jumper bypass short-term removal restoration",
	},
	{
		Label:    "Design Change",
		Category: "design change",
		Text:     "modify existing design configuration change reroute resize setpoint change rework",
	},
	{
		Label:    "Digital Upgrade",
		Category: "design change",
		Text:     "digital upgrade analog to digital software plc firmware control system replacement",
	},
}
