package engine

import "errors"

// Engine errors are returned, never panicked; every operation is
// recoverable by retrying with corrected input.
var (
	// ErrNotReady: a computation was requested over a pod with no
	// entered results. Callers get an explicit signal, not zero-filled
	// guesses.
	ErrNotReady = errors.New("pod has no entered results")

	// ErrUnresolvedTie: seeding attempted while a pod place is still
	// tied without a human selection.
	ErrUnresolvedTie = errors.New("unresolved tie for pod place")

	// ErrFieldIncomplete: the seeded field would not contain exactly
	// the configured number of entrants.
	ErrFieldIncomplete = errors.New("bracket field incomplete")

	// ErrDuplicateEntrant: the same player name would occupy two seeds.
	ErrDuplicateEntrant = errors.New("duplicate entrant in bracket field")

	// ErrInconsistentState: persisted bracket slots contradict each
	// other, such as a decided match whose feeders are undecided.
	ErrInconsistentState = errors.New("stored bracket state is inconsistent")

	ErrUnknownRound      = errors.New("unknown bracket round")
	ErrSlotOutOfRange    = errors.New("bracket slot out of range")
	ErrFeedersIncomplete = errors.New("feeder matches not decided")
	ErrAlreadyDecided    = errors.New("match already decided; unlock it first")
	ErrTieNotAllowed     = errors.New("tie is not a valid knockout result")
	ErrUnknownEntrant    = errors.New("winner is not an entrant of this match")
	ErrFinalNotDecided   = errors.New("final has not been decided")
	ErrUnknownPairing    = errors.New("unknown pairing policy")
)
