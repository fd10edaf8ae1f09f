package core

// RuntimeConfig contains configuration passed to the game at initialization.
type RuntimeConfig struct {
	ScreenW  int // Screen width in characters
	ScreenH  int // Screen height in characters
	TickRate int // Simulation ticks per second
}

// DefaultConfig returns a RuntimeConfig sized for the board plus the
// block canvas, ticking at the gameplay rate.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  100,
		ScreenH:  32,
		TickRate: 120,
	}
}

// GameState represents the current state of a level session.
type GameState struct {
	Score     int  // Points of the last solved run (unlocked blocks, lower is better)
	Ticks     int  // Ticks the last solved run took
	Solved    bool // The bot reached the goal at least once
	Running   bool // A program is executing
	GameOver  bool // The player asked to leave the level
	RunFaults int  // Faulted runs in this session
}

// StepResult is returned by Game.Step() after each simulation tick.
type StepResult struct {
	State GameState
	// Solved is set only on the tick the goal was reached.
	Solved bool
}
