package models

import "fmt"

// Category is the result class of a plate appearance
type Category string

const (
	CategoryHit           Category = "hit"
	CategoryWalk          Category = "walk"
	CategoryStrikeout     Category = "strikeout"
	CategoryHitByPitch    Category = "hit_by_pitch"
	CategorySacrificeFly  Category = "sacrifice_fly"
	CategorySacrificeBunt Category = "sacrifice_bunt"
	CategoryOut           Category = "out"
	CategoryErrorReach    Category = "error_reach"
)

// HitKind is the number of bases on a hit. Empty when the outcome is not a hit.
type HitKind string

const (
	HitNone    HitKind = ""
	HitSingle  HitKind = "single"
	HitDouble  HitKind = "double"
	HitTriple  HitKind = "triple"
	HitHomeRun HitKind = "home_run"
)

// Outcome is the immutable result of one plate appearance
type Outcome struct {
	Category Category `json:"category"`
	HitKind  HitKind  `json:"hit_kind,omitempty"`
}

// Hit returns a hit outcome of the given kind
func Hit(kind HitKind) Outcome {
	return Outcome{Category: CategoryHit, HitKind: kind}
}

// Of returns a non-hit outcome
func Of(category Category) Outcome {
	return Outcome{Category: category}
}

// Validate checks that the category is known and that a hit kind is present
// exactly when the category is a hit.
func (o Outcome) Validate() error {
	switch o.Category {
	case CategoryHit:
		switch o.HitKind {
		case HitSingle, HitDouble, HitTriple, HitHomeRun:
			return nil
		default:
			return fmt.Errorf("%w: hit requires a hit kind, got %q", ErrInvalidParameter, o.HitKind)
		}
	case CategoryWalk, CategoryStrikeout, CategoryHitByPitch, CategorySacrificeFly,
		CategorySacrificeBunt, CategoryOut, CategoryErrorReach:
		if o.HitKind != HitNone {
			return fmt.Errorf("%w: %s cannot carry hit kind %q", ErrInvalidParameter, o.Category, o.HitKind)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown outcome category %q", ErrInvalidParameter, o.Category)
	}
}

// Bases returns the bases credited to the batter: 1-4 for hits, 0 otherwise
func (o Outcome) Bases() int {
	if o.Category != CategoryHit {
		return 0
	}
	switch o.HitKind {
	case HitSingle:
		return 1
	case HitDouble:
		return 2
	case HitTriple:
		return 3
	case HitHomeRun:
		return 4
	}
	return 0
}

// CallerCredited reports whether RBIs and batter runs for this outcome are
// declared by the caller instead of derived from base occupancy.
func (o Outcome) CallerCredited() bool {
	switch o.Category {
	case CategorySacrificeFly, CategorySacrificeBunt, CategoryErrorReach:
		return true
	}
	return false
}

func (o Outcome) String() string {
	if o.Category == CategoryHit {
		return string(o.HitKind)
	}
	return string(o.Category)
}
