package dungeon

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidSize     = errors.New("dungeon: invalid grid size")
	ErrInvalidModifier = errors.New("dungeon: modifier must be within [0, 1]")
	ErrInvalidRoomSize = errors.New("dungeon: invalid room size")
	ErrInvalidPassage  = errors.New("dungeon: invalid passage settings")
	ErrInvalidLimits   = errors.New("dungeon: invalid room limits")
)

const (
	DefaultMinWidth      = 40
	DefaultMaxWidth      = 100
	DefaultMinHeight     = 20
	DefaultMaxHeight     = 100
	DefaultModifier      = 0.8
	DefaultMinRoomWidth  = 5
	DefaultMinRoomHeight = 5
	DefaultPassageWidth  = 3
	DefaultMinimumGap    = 1
	DefaultRoomAttempts  = 100
	DefaultMaxRooms      = 10
)

// Config contains parameters for dungeon generation
type Config struct {
	MinWidth  int `yaml:"min_width" json:"min_width" jsonschema:"minimum=1,description=Lower bound for the randomly chosen grid width"`
	MaxWidth  int `yaml:"max_width" json:"max_width" jsonschema:"minimum=1,description=Upper bound for the randomly chosen grid width"`
	MinHeight int `yaml:"min_height" json:"min_height" jsonschema:"minimum=1,description=Lower bound for the randomly chosen grid height"`
	MaxHeight int `yaml:"max_height" json:"max_height" jsonschema:"minimum=1,description=Upper bound for the randomly chosen grid height"`

	// Modifier raises the effective minimum size to Modifier*Max and caps
	// room dimensions at Modifier*(size/5).
	Modifier float64 `yaml:"modifier" json:"modifier" jsonschema:"minimum=0,maximum=1,description=Scales minimum grid size and room ceiling"`

	MinRoomWidth  int `yaml:"min_room_width" json:"min_room_width" jsonschema:"minimum=1"`
	MinRoomHeight int `yaml:"min_room_height" json:"min_room_height" jsonschema:"minimum=1"`

	PassageWidth int `yaml:"passage_width" json:"passage_width" jsonschema:"minimum=1,description=Corridor thickness in cells"`
	MinimumGap   int `yaml:"minimum_gap" json:"minimum_gap" jsonschema:"minimum=0,description=Untouched wall cells kept between separately carved structures"`

	RoomAttempts int `yaml:"room_attempts" json:"room_attempts" jsonschema:"minimum=0"`
	MaxRooms     int `yaml:"max_rooms" json:"max_rooms" jsonschema:"minimum=0"`
}

// DefaultConfig returns the stock generation parameters
func DefaultConfig() Config {
	return Config{
		MinWidth:      DefaultMinWidth,
		MaxWidth:      DefaultMaxWidth,
		MinHeight:     DefaultMinHeight,
		MaxHeight:     DefaultMaxHeight,
		Modifier:      DefaultModifier,
		MinRoomWidth:  DefaultMinRoomWidth,
		MinRoomHeight: DefaultMinRoomHeight,
		PassageWidth:  DefaultPassageWidth,
		MinimumGap:    DefaultMinimumGap,
		RoomAttempts:  DefaultRoomAttempts,
		MaxRooms:      DefaultMaxRooms,
	}
}

// Validate checks the configuration and returns the first problem found.
func (c Config) Validate() error {
	if c.MinWidth <= 0 || c.MinHeight <= 0 {
		return fmt.Errorf("%w: minimum %dx%d must be positive", ErrInvalidSize, c.MinWidth, c.MinHeight)
	}
	if c.MinWidth > c.MaxWidth {
		return fmt.Errorf("%w: min_width %d > max_width %d", ErrInvalidSize, c.MinWidth, c.MaxWidth)
	}
	if c.MinHeight > c.MaxHeight {
		return fmt.Errorf("%w: min_height %d > max_height %d", ErrInvalidSize, c.MinHeight, c.MaxHeight)
	}
	if c.Modifier < 0 || c.Modifier > 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidModifier, c.Modifier)
	}
	if c.MinRoomWidth <= 0 || c.MinRoomHeight <= 0 {
		return fmt.Errorf("%w: minimum room %dx%d must be positive", ErrInvalidRoomSize, c.MinRoomWidth, c.MinRoomHeight)
	}
	if c.PassageWidth <= 0 {
		return fmt.Errorf("%w: passage_width %d must be positive", ErrInvalidPassage, c.PassageWidth)
	}
	if c.MinimumGap < 0 {
		return fmt.Errorf("%w: minimum_gap %d must not be negative", ErrInvalidPassage, c.MinimumGap)
	}
	if c.RoomAttempts < 0 || c.MaxRooms < 0 {
		return fmt.Errorf("%w: attempts %d, max rooms %d", ErrInvalidLimits, c.RoomAttempts, c.MaxRooms)
	}
	return nil
}

// Radius converts the passage width into the carving brush radius.
func (c Config) Radius() int {
	return (c.PassageWidth - c.PassageWidth%2) / 2
}
