package state

import (
	"fmt"
	"sort"
	"strings"
)

// InvalidStateError reports a structured state with fields the encoder
// could not account for.
type InvalidStateError struct {
	Leftover map[string]string // field name -> unconsumed value
}

func (e *InvalidStateError) Error() string {
	fields := make([]string, 0, len(e.Leftover))
	for name, value := range e.Leftover {
		fields = append(fields, fmt.Sprintf("%s=%q", name, value))
	}
	sort.Strings(fields)
	return "state information cannot be interpreted: " + strings.Join(fields, ", ")
}

// UnknownQueryError reports an unrecognized category query name.
type UnknownQueryError struct {
	Query string
}

func (e *UnknownQueryError) Error() string {
	return fmt.Sprintf("unknown state query %q", e.Query)
}
