package room

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakshamg567/blockfall/internal/game"
	"github.com/sakshamg567/blockfall/logger"
)

type zeroRand struct{}

func (zeroRand) IntN(int) int { return 0 }

func newDirectory() *Directory {
	logger.EnableLogging(false)
	return NewDirectory(WithRandSource(func(string) game.Rand { return zeroRand{} }))
}

func names(players []PlayerSummary) []string {
	out := make([]string, 0, len(players))
	for _, p := range players {
		out = append(out, p.PlayerName)
	}
	return out
}

func TestJoinCreatesRoomAndAssignsHost(t *testing.T) {
	d := newDirectory()

	res, err := d.Join("c1", "  lobby ", "alice")
	require.NoError(t, err)
	assert.Equal(t, "lobby", res.Room)
	assert.True(t, res.IsHost)
	assert.True(t, res.Created)
	assert.True(t, d.Has("lobby"))

	res, err = d.Join("c2", "lobby", "bob")
	require.NoError(t, err)
	assert.False(t, res.IsHost)
	assert.False(t, res.Created)
	assert.Equal(t, []string{"alice", "bob"}, names(res.Players))
	assert.True(t, res.Players[0].IsHost)

	room, ok := d.RoomOf("c2")
	assert.True(t, ok)
	assert.Equal(t, "lobby", room)
}

func TestJoinValidation(t *testing.T) {
	d := newDirectory()

	_, err := d.Join("c1", "   ", "alice")
	assert.ErrorIs(t, err, ErrMissingFields)
	_, err = d.Join("c1", "lobby", "")
	assert.ErrorIs(t, err, ErrMissingFields)
	assert.False(t, d.Has("lobby"))

	_, err = d.Join("c1", "lobby", "alice")
	require.NoError(t, err)
	_, err = d.Join("c1", "other", "alice")
	assert.ErrorIs(t, err, ErrAlreadyJoined)

	_, err = d.Join("c2", "lobby", "alice")
	assert.ErrorIs(t, err, ErrNameTaken)
	_, err = d.Join("c2", "lobby", "Alice")
	assert.NoError(t, err, "names are case-sensitive")

	// the same name is fine in another room
	_, err = d.Join("c3", "other", "alice")
	assert.NoError(t, err)
}

func TestJoinFullRoom(t *testing.T) {
	d := newDirectory()
	for i, n := range []string{"a", "b", "c", "d"} {
		_, err := d.Join(string(rune('1'+i)), "lobby", n)
		require.NoError(t, err)
	}
	_, err := d.Join("5", "lobby", "e")
	assert.ErrorIs(t, err, ErrRoomFull)
	assert.Len(t, d.Members("lobby"), MaxPlayers)
	_, ok := d.RoomOf("5")
	assert.False(t, ok)
}

func TestJoinStartedRoomIsRejected(t *testing.T) {
	d := newDirectory()
	_, err := d.Join("c1", "lobby", "alice")
	require.NoError(t, err)
	_, err = d.Start("c1", "lobby")
	require.NoError(t, err)

	_, err = d.Join("c2", "lobby", "bob")
	assert.ErrorIs(t, err, ErrMatchAlreadyStarted)

	st, ok := d.State("lobby")
	require.True(t, ok)
	assert.Equal(t, []string{"alice"}, names(st.Players))
	require.NotNil(t, st.GameState)
}

func TestCreateRoomRejectsTakenID(t *testing.T) {
	d := newDirectory()
	res, err := d.CreateRoom("c1", "lobby", "alice")
	require.NoError(t, err)
	assert.True(t, res.IsHost)

	_, err = d.CreateRoom("c2", "lobby", "bob")
	assert.ErrorIs(t, err, ErrRoomIDTaken)
	assert.Len(t, d.Members("lobby"), 1)
}

func TestStartAndRestartRequireHost(t *testing.T) {
	d := newDirectory()
	_, err := d.Start("c1", "nowhere")
	assert.ErrorIs(t, err, ErrRoomNotFound)

	d.Join("c1", "lobby", "alice")
	d.Join("c2", "lobby", "bob")
	d.Join("c3", "other", "carol")

	_, err = d.Start("c3", "lobby")
	assert.ErrorIs(t, err, ErrPlayerNotFound)
	_, err = d.Start("c2", "lobby")
	assert.ErrorIs(t, err, ErrNotHost)
	_, err = d.Restart("c2", "lobby")
	assert.ErrorIs(t, err, ErrNotHost)

	snap, err := d.Start("c1", "lobby")
	require.NoError(t, err)
	assert.True(t, snap.IsStarted)
	assert.Len(t, snap.Players, 2)

	_, err = d.Start("c1", "lobby")
	assert.ErrorIs(t, err, game.ErrAlreadyStarted)

	snap, err = d.Restart("c1", "lobby")
	require.NoError(t, err)
	assert.True(t, snap.IsActive)
}

func TestActionForwarding(t *testing.T) {
	d := newDirectory()
	d.Join("c1", "lobby", "alice")
	d.Join("c2", "lobby", "bob")

	_, err := d.Action("c1", "nowhere", "move-left")
	assert.ErrorIs(t, err, ErrRoomNotFound)
	_, err = d.Action("c1", "lobby", "move-left")
	assert.ErrorIs(t, err, game.ErrMatchNotActive)

	d.Start("c1", "lobby")
	res, err := d.Action("c1", "lobby", "move-left")
	require.NoError(t, err)
	assert.True(t, res.Outcome.Applied)
	assert.Equal(t, "alice", res.PlayerName)
	assert.Nil(t, res.Snapshot, "a move needs no full snapshot")
	assert.Len(t, res.Spectra, 2)
	assert.Equal(t, 2, res.Spectra[0].CurrentPiece.X)

	_, err = d.Action("c1", "lobby", "moonwalk")
	assert.ErrorIs(t, err, game.ErrUnknownAction)

	for i := 0; i < 2; i++ {
		d.Action("c1", "lobby", "move-left")
	}
	res, err = d.Action("c1", "lobby", "move-left")
	require.NoError(t, err)
	assert.False(t, res.Outcome.Applied)
	assert.Nil(t, res.Snapshot)
	assert.Nil(t, res.Spectra)

	res, err = d.Action("c1", "lobby", "hard-drop")
	require.NoError(t, err)
	require.NotNil(t, res.Snapshot)
	assert.Equal(t, "lobby", res.Snapshot.Room)
}

func TestDisconnectTransfersHost(t *testing.T) {
	d := newDirectory()
	d.Join("c1", "lobby", "alice")
	d.Join("c2", "lobby", "bob")

	res, ok := d.Disconnect("c1")
	require.True(t, ok)
	assert.Equal(t, "alice", res.PlayerName)
	assert.Equal(t, "bob", res.NewHost)
	assert.False(t, res.Closed)
	require.Len(t, res.Players, 1)
	assert.True(t, res.Players[0].IsHost)

	// bob can now start
	_, err := d.Start("c2", "lobby")
	assert.NoError(t, err)
}

func TestDisconnectPicksEarliestRemaining(t *testing.T) {
	d := newDirectory()
	d.Join("c1", "lobby", "alice")
	d.Join("c2", "lobby", "bob")
	d.Join("c3", "lobby", "carol")

	res, _ := d.Disconnect("c2")
	assert.Empty(t, res.NewHost, "a guest leaving keeps the host")

	res, _ = d.Disconnect("c1")
	assert.Equal(t, "carol", res.NewHost)
}

func TestDisconnectMidMatchDecidesWinner(t *testing.T) {
	d := newDirectory()
	d.Join("a", "lobby", "alice")
	d.Join("b", "lobby", "bob")
	d.Join("c", "lobby", "carol")
	_, err := d.Start("a", "lobby")
	require.NoError(t, err)

	// zeroRand deals only I pieces, and stacking them never clears a row
	for i := 0; i < 40; i++ {
		if _, err := d.Action("b", "lobby", "hard-drop"); err != nil {
			require.ErrorIs(t, err, game.ErrMatchNotActive)
			break
		}
	}
	st, _ := d.State("lobby")
	require.True(t, st.Players[1].GameOver)
	require.True(t, st.IsActive)

	res, ok := d.Disconnect("c")
	require.True(t, ok)
	assert.True(t, res.Ended)
	assert.Equal(t, "alice", res.Winner)
	require.NotNil(t, res.Snapshot)
	assert.False(t, res.Snapshot.IsActive)
	assert.Equal(t, []string{"alice", "bob"}, names(res.Standings))

	st, _ = d.State("lobby")
	assert.False(t, st.IsActive)
	_, err = d.Action("a", "lobby", "move-left")
	assert.ErrorIs(t, err, game.ErrMatchNotActive)
}

func TestDisconnectLobbyDoesNotEndAnything(t *testing.T) {
	d := newDirectory()
	d.Join("a", "lobby", "alice")
	d.Join("b", "lobby", "bob")

	res, _ := d.Disconnect("b")
	assert.False(t, res.Ended)
	assert.Nil(t, res.Snapshot)
}

func TestDisconnectLastPlayerDeletesRoom(t *testing.T) {
	d := newDirectory()
	d.Join("c1", "lobby", "alice")

	res, ok := d.Disconnect("c1")
	require.True(t, ok)
	assert.True(t, res.Closed)
	assert.Empty(t, res.Players)
	assert.False(t, d.Has("lobby"))

	_, ok = d.Disconnect("c1")
	assert.False(t, ok)
	_, ok = d.Disconnect("never-seen")
	assert.False(t, ok)

	// the id is free again
	_, err := d.CreateRoom("c9", "lobby", "zed")
	assert.NoError(t, err)
}

func TestRoomsListing(t *testing.T) {
	d := newDirectory()
	d.Join("c1", "zeta", "alice")
	d.Join("c2", "alpha", "bob")
	d.Join("c3", "alpha", "carol")
	d.Start("c2", "alpha")

	rooms := d.Rooms()
	require.Len(t, rooms, 2)
	assert.Equal(t, Info{Room: "alpha", Host: "bob", Players: 2, IsStarted: true, IsActive: true}, rooms[0])
	assert.Equal(t, "zeta", rooms[1].Room)
}
