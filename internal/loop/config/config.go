// Package config centralizes all tunable game parameters.
package config

import "time"

// Max render resolution. Larger terminals get a centered, bordered play area.
const (
	MaxTermWidth  = 160
	MaxTermHeight = 50
)

// Input
const (
	KeyboardPointerStep = 30.0 // Field units the pointer target moves per frame while a key is held
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Point banner
const (
	PointBannerSeconds = 1.0
)

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
)

// Server tick rate. One simulation step per tick, independent of how often
// clients render.
const (
	ServerTickRate = 60
	ServerTickTime = time.Second / ServerTickRate
)
