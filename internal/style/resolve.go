package style

import "github.com/CDTO-DENKART/app-visualizer/internal/model"

// StatusKey maps run state and probe result to a color key. A running
// record with no probe result is treated as healthy.
func StatusKey(running bool, check model.Availability, nested bool) string {
	switch {
	case !running:
		return KeyStopped
	case check == model.Unavailable:
		return KeyDegraded
	case nested:
		return KeyNested
	default:
		return KeyRunning
	}
}

// Resolve returns the color of a node. Host, LXD container and host
// service nodes use fixed colors; docker and LXD app nodes follow their
// record's state.
func Resolve(t *Theme, group model.Group, r *model.ServiceRecord) model.Color {
	switch group {
	case model.GroupHost:
		return t.Color(KeyHost)
	case model.GroupLXD:
		return t.Color(KeyContainer)
	case model.GroupHostService:
		return t.Color(KeyHostService)
	}
	if r == nil {
		return t.Color(KeyStopped)
	}
	return t.Color(StatusKey(r.Running(), r.CheckAvailability(), group == model.GroupLXDApp))
}
