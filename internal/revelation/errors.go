// v0
// internal/revelation/errors.go
package revelation

import "fmt"

// UnknownTeamError: the heap held a Score whose login no longer resolves
// to a team. On a well-formed contest this never happens; RevealStep
// surfaces it rather than panic or silently drop the entry.
type UnknownTeamError struct {
	TeamLogin string
}

func (e *UnknownTeamError) Error() string {
	return fmt.Sprintf("revelation: unknown team %q referenced by heap entry", e.TeamLogin)
}
