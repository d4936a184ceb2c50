// Package distribution provides the population families of the sampling demo and the
// functions that turn a family into bar heights.
//
// A family is selected once, at configuration time, as a Kind. For evaluates the Kind into an
// Evaluator whose value at a point is used directly as a bar's pixel height: there is no
// separate scaling step beyond the configured Scale.
package distribution

import (
	"strings"

	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/sampledist/internal/constants"
	"github.com/hyp3rd/sampledist/internal/sentinel"
)

// Kind is a population family.
type Kind string

// Constants for the supported population families.
const (
	Normal       Kind = "normal"        // Normal population, mean 100 and sd 10
	NormalNarrow Kind = "normal-narrow" // Normal population, mean 100 and sd 2
	Uniform      Kind = "uniform"       // Uniform population with mean 100 and sd 10
	Bounded      Kind = "bounded"       // Binomial proportions with p = 0.10
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	return string(k)
}

// IsBounded reports whether the family lives on the fixed proportion domain.
func (k Kind) IsBounded() bool {
	return k == Bounded
}

// SupportsSDM reports whether the sampling distribution curve can be displayed for the family.
func (k Kind) SupportsSDM() bool {
	return k == Normal || k == NormalNarrow
}

// Kinds returns every supported family, in the order they are offered to users.
func Kinds() []Kind {
	return []Kind{Normal, NormalNarrow, Uniform, Bounded}
}

// ParseKind parses a family name. The legacy names "normal3" and "binomial" are accepted.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "normal":
		return Normal, nil
	case "normal-narrow", "normal3":
		return NormalNarrow, nil
	case "uniform":
		return Uniform, nil
	case "bounded", "binomial":
		return Bounded, nil
	case "":
		return "", ewrap.Wrap(sentinel.ErrParamCannotBeEmpty, "distribution")
	default:
		return "", ewrap.Wrap(sentinel.ErrUnknownDistribution, name)
	}
}

// Parameters are the population parameters a family starts with.
type Parameters struct {
	Mean float64 `json:"mean" msgpack:"mean" codec:"mean"`
	SD   float64 `json:"sd" msgpack:"sd" codec:"sd"`
}

// Family returns the population parameters of a family.
func Family(kind Kind) Parameters {
	switch kind {
	case NormalNarrow:
		return Parameters{Mean: constants.DefaultPopulationMean, SD: constants.NarrowPopulationSD}
	case Bounded:
		return Parameters{Mean: constants.BoundedMean, SD: constants.BoundedSD}
	case Normal, Uniform:
		return Parameters{Mean: constants.DefaultPopulationMean, SD: constants.DefaultPopulationSD}
	default:
		return Parameters{Mean: constants.DefaultPopulationMean, SD: constants.DefaultPopulationSD}
	}
}
