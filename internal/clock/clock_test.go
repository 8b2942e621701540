package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSystem_Now(t *testing.T) {
	before := time.Now().UnixMilli()
	got := System{}.Now()
	after := time.Now().UnixMilli()

	assert.GreaterOrEqual(t, got, before)
	assert.LessOrEqual(t, got, after)
}

func TestFunc(t *testing.T) {
	var c Clock = Func(func() int64 { return 42 })
	assert.Equal(t, int64(42), c.Now())
}

func TestTimeConversion(t *testing.T) {
	ts := time.Date(2024, 6, 10, 6, 13, 20, 0, time.UTC)
	ms := FromTime(ts)

	assert.Equal(t, int64(1_718_000_000_000), ms)
	assert.Equal(t, ts, ToTime(ms))
}
