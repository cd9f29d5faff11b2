package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackEntityID(t *testing.T) {
	id := PackEntityID(KindEnemy, 12, 345)
	assert.Equal(t, KindEnemy, id.Kind())
	assert.Equal(t, 12, id.Progress())
	assert.Equal(t, uint64(345), id.Index())
	assert.False(t, id.IsNil())
	assert.Equal(t, "[enemy:12:345]", id.String())
}

func TestEntityID_JSONAsString(t *testing.T) {
	id := PackEntityID(KindPlayer, 1, 1)
	raw, err := json.Marshal(id)
	require.NoError(t, err)
	assert.Equal(t, byte('"'), raw[0], "ID уходит в JSON строкой")

	var back EntityID
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, id, back)

	require.NoError(t, json.Unmarshal([]byte("42"), &back), "число тоже принимаем")
	assert.Equal(t, EntityID(42), back)

	assert.Error(t, json.Unmarshal([]byte(`"abc"`), &back))
}
