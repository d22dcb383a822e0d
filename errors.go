package notegrid

import (
	"errors"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
)

// Error kinds attached to every error returned by the grid and the editor.
// Use ftag.Get(err) or the Is* helpers to branch on them.
const (
	KindNotFound       ftag.Kind = "NOT_FOUND"
	KindOccupied       ftag.Kind = "OCCUPIED"
	KindInvalid        ftag.Kind = "INVALID"
	KindCorruptHistory ftag.Kind = "CORRUPT_HISTORY"
)

var (
	ErrNotFound       = errors.New("note not found")
	ErrOccupied       = errors.New("cell occupied")
	ErrInvalid        = errors.New("invalid value")
	ErrCorruptHistory = errors.New("corrupt history")
)

// NotFound, Occupied and Invalid return errors of the respective kind,
// wrapping the sentinel so that errors.Is works as well.
func NotFound(msg string) error {
	return fault.Wrap(ErrNotFound, ftag.With(KindNotFound), fmsg.With(msg))
}

func Occupied(msg string) error {
	return fault.Wrap(ErrOccupied, ftag.With(KindOccupied), fmsg.With(msg))
}

func Invalid(msg string) error {
	return fault.Wrap(ErrInvalid, ftag.With(KindInvalid), fmsg.With(msg))
}

// Corrupt wraps err as a CorruptHistory error. It signals that an inverse
// operation could not be applied, i.e. a structural invariant is broken.
func Corrupt(err error, msg string) error {
	if err == nil {
		err = ErrCorruptHistory
	}
	return fault.Wrap(err, ftag.With(KindCorruptHistory), fmsg.WithDesc(msg, "The edit history is inconsistent with the pattern"))
}

func IsNotFound(err error) bool { return is(err, KindNotFound, ErrNotFound) }
func IsOccupied(err error) bool { return is(err, KindOccupied, ErrOccupied) }
func IsInvalid(err error) bool  { return is(err, KindInvalid, ErrInvalid) }

// IsCorrupt only looks at the outermost kind: a corrupt history error usually
// wraps the error that made the replay fail.
func IsCorrupt(err error) bool {
	return ftag.Get(err) == KindCorruptHistory || errors.Is(err, ErrCorruptHistory)
}

// is reports if err has the kind, or wraps the sentinel without a more
// specific kind attached.
func is(err error, kind ftag.Kind, sentinel error) bool {
	switch ftag.Get(err) {
	case kind:
		return true
	case "":
		return errors.Is(err, sentinel)
	}
	return false
}
