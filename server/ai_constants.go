package server

// AI constants for controller behavior.
// Per-class tuning (ranges, speeds, cooldowns) lives in game.UnitData; the
// values here are shared by every controller.

const (
	// Re-acquisition band used when a class leaves ReacquireMin/Max unset
	DefaultReacquireMin = 0.3
	DefaultReacquireMax = 1.0

	// Flee point selection
	FleeAngleMinDeg = 90.0  // smallest turn away from the target
	FleeAngleMaxDeg = 180.0 // directly away from the target

	// Rotation below this many radians is not applied
	MinRotateStep = 1e-6

	// Translation below this many units is not applied
	MinMoveStep = 1e-6
)
