package accessrequest

import (
	"math"
	"strconv"
	"time"

	"github.com/dmitrijs2005/guestwifi/internal/common"
	"github.com/dmitrijs2005/guestwifi/internal/server/clients/webex"
)

// Action is a host's answer to an approval card.
type Action struct {
	RequestID string
	RoomID    string
	Approved  bool
	Duration  time.Duration
}

// maxGrantMinutes bounds a requested grant to one year.
const maxGrantMinutes = 366 * 24 * 60

// ParseAction reads the submit data of an approval card. A missing,
// non-positive or out-of-range duration falls back to def.
func ParseAction(a *webex.AttachmentAction, def time.Duration) (Action, error) {
	id, _ := a.Inputs["id"].(string)
	if id == "" {
		return Action{}, common.BadRequest("", common.InvalidParam{Param: "id", Msg: "Missing access request id"})
	}

	out := Action{RequestID: id, RoomID: a.RoomID, Approved: asBool(a.Inputs["action"]), Duration: def}
	if minutes, ok := asMinutes(a.Inputs["duration"]); ok {
		out.Duration = time.Duration(minutes) * time.Minute
	}
	return out, nil
}

func asBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		ok, _ := strconv.ParseBool(b)
		return ok
	default:
		return false
	}
}

// asMinutes accepts whole minutes in (0, maxGrantMinutes].
func asMinutes(v any) (int64, bool) {
	var n int64
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || x <= 0 || x > maxGrantMinutes {
			return 0, false
		}
		n = int64(x)
	case int:
		n = int64(x)
	case string:
		i, err := strconv.ParseInt(x, 10, 64)
		if err != nil {
			return 0, false
		}
		n = i
	default:
		return 0, false
	}
	if n <= 0 || n > maxGrantMinutes {
		return 0, false
	}
	return n, true
}
