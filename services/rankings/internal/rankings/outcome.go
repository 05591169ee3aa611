package rankings

import (
	"fmt"

	"github.com/MaheshSharan/FlixPatrol-API/services/rankings/internal/model"
)

type Kind int

const (
	KindFound Kind = iota + 1
	KindAbsent
	KindFailed
)

func (k Kind) String() string {
	switch k {
	case KindFound:
		return "found"
	case KindAbsent:
		return "absent"
	case KindFailed:
		return "failed"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Outcome is the result of resolving one pair: items were found, the
// upstream had nothing, or the attempt failed with Err.
type Outcome struct {
	Kind      Kind
	Items     []model.RankedItem
	Err       error
	FromCache bool
}

func Found(items []model.RankedItem, fromCache bool) Outcome {
	return Outcome{Kind: KindFound, Items: items, FromCache: fromCache}
}

func Absent() Outcome { return Outcome{Kind: KindAbsent} }

func Failed(err error) Outcome { return Outcome{Kind: KindFailed, Err: err} }

// HasData reports whether the outcome carries at least one item.
func (o Outcome) HasData() bool { return o.Kind == KindFound && len(o.Items) > 0 }
