package adafruitio

import (
	"fmt"
	"strconv"
)

// ToRed extracts the red channel from a hex color string of the form
// "#RRGGBB", as published by Adafruit IO color feeds.
func ToRed(color string) (int, error) {
	return colorChannel(color, 1)
}

// ToGreen extracts the green channel from a "#RRGGBB" hex color string.
func ToGreen(color string) (int, error) {
	return colorChannel(color, 3)
}

// ToBlue extracts the blue channel from a "#RRGGBB" hex color string.
func ToBlue(color string) (int, error) {
	return colorChannel(color, 5)
}

func colorChannel(color string, offset int) (int, error) {
	if len(color) != 7 || color[0] != '#' {
		return 0, fmt.Errorf("adafruitio: malformed hex color %q", color)
	}
	channel, err := strconv.ParseUint(color[offset:offset+2], 16, 8)
	if err != nil {
		return 0, fmt.Errorf("adafruitio: malformed hex color %q: %w", color, err)
	}
	return int(channel), nil
}
