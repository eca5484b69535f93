package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldFilterDisabledWhenEmpty(t *testing.T) {
	f := NewFieldFilter(nil, 3)
	assert.False(t, f.Enabled())
	assert.True(t, f.Accept(Record{"anything": 1}))
	assert.True(t, f.Accept(Record{}))
}

func TestFieldFilterAccept(t *testing.T) {
	f := NewFieldFilter([]string{"moisture", "temp", "humidity", "pump"}, 3)
	assert.True(t, f.Enabled())

	assert.True(t, f.Accept(Record{"moisture": 512, "temp": 23.5, "humidity": 40}))
	assert.True(t, f.Accept(Record{"moisture": 512, "temp": 23.5, "humidity": 40, "pump": "on"}))
}

func TestFieldFilterReject(t *testing.T) {
	f := NewFieldFilter([]string{"moisture", "temp", "humidity", "pump"}, 3)

	assert.False(t, f.Accept(Record{"moisture": 512, "temp": 23.5}))
	assert.False(t, f.Accept(Record{"debug": true, "version": "1.2"}))
	assert.False(t, f.Accept(Record{}))
}
