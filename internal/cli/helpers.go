package cli

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tracklite/tracklite/internal/models"
)

// ValidateColorHex validates that a color string is in valid hex format #RRGGBB
func ValidateColorHex(color string) error {
	matched, err := regexp.MatchString(`^#[0-9A-Fa-f]{6}$`, color)
	if err != nil {
		return fmt.Errorf("error validating color: %w", err)
	}
	if !matched {
		return fmt.Errorf("color must be in hex format #RRGGBB (e.g., #FF0000), got: %s", color)
	}
	return nil
}

// ParseStatus maps a status string to its canonical form
func ParseStatus(s string) (models.Status, error) {
	switch strings.ToLower(strings.ReplaceAll(s, "-", "_")) {
	case "todo":
		return models.StatusTodo, nil
	case "in_progress", "inprogress":
		return models.StatusInProgress, nil
	case "done":
		return models.StatusDone, nil
	}
	return "", fmt.Errorf("invalid status '%s' (must be: todo, in-progress, done)", s)
}

// ParsePriority maps a priority string to its canonical form
func ParsePriority(s string) (models.Priority, error) {
	switch strings.ToLower(s) {
	case "low":
		return models.PriorityLow, nil
	case "medium":
		return models.PriorityMedium, nil
	case "high":
		return models.PriorityHigh, nil
	}
	return "", fmt.Errorf("invalid priority '%s' (must be: low, medium, high)", s)
}

// GetProjectID resolves the project from the --project flag or the
// TRACKLITE_PROJECT environment variable
func GetProjectID(cmd *cobra.Command) (int, error) {
	if id, err := cmd.Flags().GetInt("project"); err == nil && id > 0 {
		return id, nil
	}
	if env := os.Getenv("TRACKLITE_PROJECT"); env != "" {
		id, err := strconv.Atoi(env)
		if err != nil || id <= 0 {
			return 0, fmt.Errorf("invalid TRACKLITE_PROJECT value: %s", env)
		}
		return id, nil
	}
	return 0, fmt.Errorf("no project specified")
}

// ParseIDArg reads a positive integer ID from a positional argument
func ParseIDArg(args []string, name string) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%s ID is required", name)
	}
	id, err := strconv.Atoi(args[0])
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s ID must be a positive integer, got: %s", name, args[0])
	}
	return id, nil
}

// Confirm asks the user a y/N question on the terminal. A --yes flag
// on the command skips the prompt.
func Confirm(cmd *cobra.Command) func(prompt string) bool {
	return func(prompt string) bool {
		if yes, _ := cmd.Flags().GetBool("yes"); yes {
			return true
		}
		fmt.Fprintf(os.Stderr, "%s [y/N] ", prompt)
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return false
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		return answer == "y" || answer == "yes"
	}
}
