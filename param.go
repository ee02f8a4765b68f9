package batis

import (
	"github.com/go-batisdev/batis/eval"
)

// Params is an alias of eval.Params.
type Params = eval.Params

// H is an alias of eval.H.
type H = eval.H

// Collections is an alias of eval.Collections.
type Collections = eval.Collections
