package jwtx_test

import (
	"strings"
	"time"

	"github.com/dchubs/hub/pkg/jwtx"
)

var testKeys = jwtx.Keys{
	Access:  []byte(strings.Repeat("a", 32) + "-access"),
	Refresh: []byte(strings.Repeat("r", 32) + "-refresh"),
	Session: []byte(strings.Repeat("s", 32) + "-session"),
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
