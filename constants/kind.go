package constants

// MaxKindTag bounds the structurally valid diagnostic address range. Addresses
// above this are treated as corrupt rather than merely unknown.
const MaxKindTag = 0x7FF

// KnownKinds maps the diagnostic addresses the VCP transcoder understands to a
// display name. Raw mode ignores this table; decoded mode skips records whose
// address is not listed.
var KnownKinds = map[int]string{
	0x01: "Engine",
	0x02: "Transmission",
	0x03: "Brakes",
	0x05: "Security Access",
	0x08: "Climate Control",
	0x09: "Central Electrics",
	0x10: "Park/Steering Assist",
	0x13: "Distance Regulation",
	0x15: "Airbag",
	0x16: "Steering Wheel",
	0x17: "Dash Board",
	0x19: "Gateway",
	0x42: "Door Electronics Driver",
	0x44: "Steering Assist",
	0x46: "Comfort System",
	0x52: "Door Electronics Passenger",
	0x55: "Headlight Range",
	0x5F: "Information Electronics",
	0x6C: "Rear View Camera",
	0x76: "Park Assist",
}

// KindName returns the display name for a diagnostic address, or "" when the
// address is not in the known table.
func KindName(tag int) string {
	return KnownKinds[tag]
}
