// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package compiler

import (
	"strings"

	"github.com/qolzam/hybridq/qlerrors"
)

// Direction is an ORDER BY direction.
type Direction int

const (
	// DirectionNone marks an entry the caller left unset; such entries are
	// dropped, never defaulted.
	DirectionNone Direction = iota
	Asc
	Desc
)

func (d Direction) String() string {
	switch d {
	case Asc:
		return "ASC"
	case Desc:
		return "DESC"
	}
	return ""
}

// ParseDirection accepts direction tokens case-insensitively. An
// unrecognized token is a hard error, never a defaulted direction.
func ParseDirection(token string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(token)) {
	case "ASC":
		return Asc, nil
	case "DESC":
		return Desc, nil
	}
	return DirectionNone, &qlerrors.InvalidDirectionError{Token: token}
}

// OrderEntry pairs a field path with its direction.
type OrderEntry struct {
	Path      FieldPath
	Direction Direction
}

// OrderNode is the canonical ORDER BY representation: entries in declaration
// order. Ties between equal keys are broken by declaration order, not by
// resolved column name.
type OrderNode struct {
	Entries []OrderEntry
}

// Empty reports whether no entry carries a direction.
func (n OrderNode) Empty() bool {
	for _, e := range n.Entries {
		if e.Direction != DirectionNone {
			return false
		}
	}
	return true
}
