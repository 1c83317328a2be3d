// Package command parses ":"-prefixed commands typed into either front end.
package command

import "strings"

// Names of the recognised commands. Aliases map onto these.
const (
	New    = "new"
	Rename = "rename"
	Delete = "delete"
	Select = "select"
	List   = "list"
	Show   = "show"
	Help   = "help"
	Quit   = "quit"
)

var aliases = map[string]string{
	"n":  New,
	"r":  Rename,
	"d":  Delete,
	"rm": Delete,
	"s":  Select,
	"ls": List,
	"h":  Help,
	"q":  Quit,
}

// Command represents a parsed command.
type Command struct {
	Name string
	Args string
}

// Parse parses a command string, with or without the leading ':'.
// The name is lower-cased and aliases are resolved.
func Parse(input string) Command {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, ":")
	parts := strings.SplitN(strings.TrimSpace(input), " ", 2)
	cmd := Command{Name: strings.ToLower(parts[0])}
	if full, ok := aliases[cmd.Name]; ok {
		cmd.Name = full
	}
	if len(parts) > 1 {
		cmd.Args = strings.TrimSpace(parts[1])
	}
	return cmd
}

// IsCommand reports whether a line should be treated as a command rather
// than message text.
func IsCommand(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), ":")
}
