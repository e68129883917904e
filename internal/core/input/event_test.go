package input

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventJSON(t *testing.T) {
	var e Event
	require.NoError(t, json.Unmarshal([]byte(`{"kind":"key","key":"W","pressed":true}`), &e))
	assert.Equal(t, KeyPress(KeyW), e)

	var m Event
	require.NoError(t, json.Unmarshal([]byte(`{"kind":"mouse_motion","dx":3,"dy":-1.5}`), &m))
	assert.Equal(t, MouseMotion(3, -1.5), m)

	b, err := json.Marshal(KeyRelease(KeySpace))
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"key","key":"space"}`, string(b))
}

func TestEventJSONErrors(t *testing.T) {
	var e Event
	require.Error(t, json.Unmarshal([]byte(`{"kind":"scroll"}`), &e))

	var k Event
	require.NoError(t, json.Unmarshal([]byte(`{"kind":"key","key":"f13"}`), &k))
	assert.Equal(t, KeyUnknown, k.Key)

	_, err := json.Marshal(Event{})
	require.Error(t, err, "zero kind cannot be encoded")
}

func TestEventString(t *testing.T) {
	assert.Equal(t, "key w pressed", KeyPress(KeyW).String())
	assert.Equal(t, "key d released", KeyRelease(KeyD).String())
	assert.Equal(t, "mouse motion (1, 2)", MouseMotion(1, 2).String())
	assert.Equal(t, "key(99)", Key(99).String())
}
