package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasAnyPrefix(t *testing.T) {
	assert.True(t, HasAnyPrefix("unnamed: 4", "unnamed"))
	assert.True(t, HasAnyPrefix("x", "a", "x"))
	assert.False(t, HasAnyPrefix("sensor_unnamed", "unnamed"))
	assert.False(t, HasAnyPrefix("anything"))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SplitList(" a, b,,c ,"))
	assert.Nil(t, SplitList(""))
	assert.Nil(t, SplitList(" , "))
}
