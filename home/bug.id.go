package home

import (
	"fmt"
	"strconv"
	"strings"
)

// bugAction is one of the operations a bug card button can trigger.
type bugAction int

const (
	actionNew bugAction = iota
	actionClose
	actionOpen
	actionEdit
	actionDelete
)

func (a bugAction) String() string {
	switch a {
	case actionNew:
		return "new"
	case actionClose:
		return "close"
	case actionOpen:
		return "open"
	case actionEdit:
		return "edit"
	case actionDelete:
		return "delete"
	}
	return "unknown"
}

const bugIDPrefix = "bug:"

// bugActionID builds the custom id for a bug card button. actionNew
// carries no report id, everything else does.
func bugActionID(action bugAction, bugID int64) string {
	if action == actionNew {
		return bugIDPrefix + "new"
	}
	return fmt.Sprintf("%s%s:%d", bugIDPrefix, action, bugID)
}

// parseBugActionID parses a bug card custom id back into its action and
// report id. Parsing is strict: wrong arity, unknown verbs, and
// non-positive ids are all rejected rather than guessed at.
func parseBugActionID(customID string) (bugAction, int64, error) {
	rest, ok := strings.CutPrefix(customID, bugIDPrefix)
	if !ok {
		return 0, 0, fmt.Errorf("not a bug action id: %q", customID)
	}

	parts := strings.Split(rest, ":")
	if parts[0] == "new" {
		if len(parts) != 1 {
			return 0, 0, fmt.Errorf("malformed bug action id: %q", customID)
		}
		return actionNew, 0, nil
	}

	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed bug action id: %q", customID)
	}

	var action bugAction
	switch parts[0] {
	case "close":
		action = actionClose
	case "open":
		action = actionOpen
	case "edit":
		action = actionEdit
	case "delete":
		action = actionDelete
	default:
		return 0, 0, fmt.Errorf("unknown bug action %q in %q", parts[0], customID)
	}

	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || id <= 0 {
		return 0, 0, fmt.Errorf("bad report id in %q", customID)
	}

	return action, id, nil
}
