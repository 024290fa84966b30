package board

import "errors"

// ErrNotDense indicates a column whose positions are not exactly 0..n-1
var ErrNotDense = errors.New("column positions are not dense")
