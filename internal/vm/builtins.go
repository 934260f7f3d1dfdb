package vm

import (
	"fmt"

	"luast/internal/object"
)

var builtins = []*object.Builtin{
	{Name: "print", Fn: builtinPrint},
}

// Builtins lists the native functions every VM starts with.
func Builtins() []string {
	names := make([]string, 0, len(builtins))
	for _, b := range builtins {
		names = append(names, b.Name)
	}
	return names
}

func builtinPrint(s object.State) int {
	if _, err := fmt.Fprintln(s.Stdout(), s.Arg(1).Inspect()); err != nil {
		return 1
	}
	return 0
}
