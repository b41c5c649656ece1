package universe

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeSnapshotLayout(t *testing.T) {
	st := defaultState()
	st.Souls = []Soul{{
		ID:          "a",
		Color:       "#ef4444",
		Message:     "hi",
		Position:    Vec3{1, 2, 3},
		Size:        0.5,
		Speed:       1,
		Connections: []string{"b"},
		CreatedAt:   1700000000000,
	}}
	st.TotalSouls = 1
	st.TotalInteractions = 7
	st.Connections = []Connection{{ID: "c"}}

	b, err := EncodeSnapshot(st)
	require.NoError(t, err)
	doc := string(b)

	assert.Contains(t, doc, "souls:")
	assert.Contains(t, doc, "mySoulId: null")
	assert.Contains(t, doc, "totalSouls: 1")
	assert.Contains(t, doc, "showOnboarding: true")
	assert.Contains(t, doc, "position: [1, 2, 3]")
	assert.Contains(t, doc, "isStarred: false")
	assert.NotContains(t, doc, "country")
	assert.False(t, strings.Contains(doc, "Interactions") || strings.Contains(doc, "expiresAt"))
}

func TestDecodeSnapshotMergesPresentFields(t *testing.T) {
	sn, err := DecodeSnapshot([]byte("mySoulId: abc\ntotalSouls: 4\n"))
	require.NoError(t, err)

	st := defaultState()
	sn.mergeInto(&st)

	assert.Equal(t, "abc", st.MySoulID)
	assert.Equal(t, 4, st.TotalSouls)
	assert.True(t, st.ShowOnboarding)
	assert.NotNil(t, st.Souls)
	assert.Empty(t, st.Souls)
}

func TestDecodeSnapshotRejectsGarbage(t *testing.T) {
	_, err := DecodeSnapshot([]byte("souls: {"))
	assert.Error(t, err)
}

func TestDecodeSnapshotFillsMissingConnections(t *testing.T) {
	sn, err := DecodeSnapshot([]byte("souls:\n  - id: a\n    size: 0.5\n"))
	require.NoError(t, err)

	st := defaultState()
	sn.mergeInto(&st)

	require.Len(t, st.Souls, 1)
	assert.NotNil(t, st.Souls[0].Connections)
}
