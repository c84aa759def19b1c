package orders

import (
	"fmt"
	"strings"
)

// MapError takes a raw input and a participle error, and returns a
// human-friendly guidance message.
func MapError(input string, err error) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return fmt.Errorf("I wasn't able to understand your order")
	}

	cmd := strings.ToLower(strings.Fields(input)[0])
	switch cmd {
	case "roll":
		return fmt.Errorf("The order roll must be: roll <dice>")
	case "shoot":
		return fmt.Errorf("The order shoot must be: shoot by: Unit with: Weapon [and: Weapon]* at: Target")
	case "fight":
		return fmt.Errorf("The order fight must be: fight by: Unit with: Weapon [and: Weapon]* at: Target")
	}

	return fmt.Errorf("I wasn't able to understand your order")
}
