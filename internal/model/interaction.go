package model

import "errors"

// Like and save edges are (user, item) pairs with a uniqueness constraint,
// toggled by explicit actions. They are positive interaction signals: the
// recommendation engine derives tag affinity from them.

var (
	ErrAlreadyLiked = errors.New("already liked this item")
	ErrNotLiked     = errors.New("item is not liked")
	ErrAlreadySaved = errors.New("already saved this item")
	ErrNotSaved     = errors.New("item is not saved")
)
