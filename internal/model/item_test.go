package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemJSONLayout(t *testing.T) {
	b, err := json.Marshal(List{{ID: 1, Text: "Buy milk", Complete: false}})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1,"text":"Buy milk","complete":false}]`, string(b))
}

func TestCloneNilEncodesAsEmptyArray(t *testing.T) {
	var l List
	b, err := json.Marshal(l.Clone())
	require.NoError(t, err)
	assert.Equal(t, "[]", string(b))
}

func TestCloneDoesNotAlias(t *testing.T) {
	l := List{{ID: 1, Text: "a"}}
	c := l.Clone()
	c[0].Complete = true
	assert.False(t, l[0].Complete)
}

func TestIndexAndMaxID(t *testing.T) {
	l := List{{ID: 3}, {ID: 7}, {ID: 5}}
	assert.Equal(t, 1, l.Index(7))
	assert.Equal(t, -1, l.Index(4))
	assert.Equal(t, 7, l.MaxID())
	assert.Equal(t, 0, List{}.MaxID())
}

func TestStats(t *testing.T) {
	l := List{{ID: 1, Complete: true}, {ID: 2}, {ID: 3}}
	done, pending := l.Stats()
	assert.Equal(t, 1, done)
	assert.Equal(t, 2, pending)
}
