package view

import "errors"

var errAvatarTooLarge = errors.New("avatar is larger than 5 MB")
