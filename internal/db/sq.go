package db

import (
	"errors"

	"github.com/Masterminds/squirrel"
)

// SqBuilder builds statements with Postgres-style $n placeholders.
var SqBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// ErrBadQuery indicates a statement could not be built.
var ErrBadQuery = errors.New("bad query")
