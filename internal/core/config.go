package core

// RuntimeConfig contains configuration passed to the game at initialization.
type RuntimeConfig struct {
	ScreenW  int    // screen width in characters
	ScreenH  int    // screen height in characters
	TickRate int    // simulation ticks per second (default 30)
	Level    int    // level index to generate, starting at 1
	Seed     uint32 // generation seed; 0 means pick one in the platform layer
	Hammers  int    // hammer charges granted at level start
	Shuffles int    // shuffle charges granted at level start
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 30,
		Level:    1,
		Hammers:  1,
		Shuffles: 1,
	}
}

// GameState is the platform-facing snapshot of a round, returned by
// Game.State after every tick.
type GameState struct {
	Level      int
	Moves      int
	Remaining  int // pieces still on the board
	Hammers    int // charges left
	Shuffles   int
	Won        bool
	Deadlocked bool
	Paused     bool
	Generating bool // level generation still in progress
}

// Over reports whether the round ended, in victory or deadlock.
func (s GameState) Over() bool { return s.Won || s.Deadlocked }

// StepResult is returned by Game.Step after each simulation tick.
type StepResult struct {
	State GameState
}
