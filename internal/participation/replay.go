package participation

import (
	"sort"

	"github.com/modukick/matchledger/internal/apperr"
)

// replayTimeline replays substitution events in event-time order and returns
// the resulting on-pitch set, failing on the first event that contradicts the
// roster state built so far:
//
//   - an event with no out-player is an initial entry and must sit at the
//     start of the quarter (event time 0), and its in-player must not already
//     be on pitch;
//   - an event with an out-player requires that player to be on pitch at that
//     moment, and swaps them for the in-player.
//
// The input is not mutated; ordering within the same minute follows the given
// slice order.
func replayTimeline(events []Event) (map[int64]bool, error) {
	ordered := make([]Event, len(events))
	copy(ordered, events)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].EventTime < ordered[j].EventTime
	})

	onPitch := make(map[int64]bool)
	for _, e := range ordered {
		if e.OutUserID == nil {
			if e.EventTime != 0 {
				return nil, apperr.InvalidParam(
					"player %d has no out player, so the event must be at the quarter start", e.InUserID)
			}
			if onPitch[e.InUserID] {
				return nil, apperr.InvalidParam("player %d is already on pitch", e.InUserID)
			}
			onPitch[e.InUserID] = true
			continue
		}

		if !onPitch[*e.OutUserID] {
			return nil, apperr.InvalidParam("out player %d is not on pitch", *e.OutUserID)
		}
		if onPitch[e.InUserID] {
			return nil, apperr.InvalidParam("player %d is already on pitch", e.InUserID)
		}
		delete(onPitch, *e.OutUserID)
		onPitch[e.InUserID] = true
	}
	return onPitch, nil
}
