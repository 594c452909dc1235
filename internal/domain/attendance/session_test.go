package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusOf(t *testing.T) {
	cases := []struct {
		entry, exit bool
		want        SessionStatus
	}{
		{false, false, StatusNotStarted},
		{false, true, StatusNotStarted},
		{true, false, StatusInProgress},
		{true, true, StatusFinished},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, StatusOf(c.entry, c.exit))
	}
}
