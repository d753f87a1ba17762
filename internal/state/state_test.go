package state

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTest(t *testing.T) *Manager {
	t.Helper()
	m, err := OpenPath(MemoryPath)
	if err != nil {
		t.Fatalf("failed to open state: %v", err)
	}
	t.Cleanup(func() { m.Close() })
	return m
}

func sampleChart(listener string, at time.Time) ChartRecord {
	return ChartRecord{
		Listener:   listener,
		RunID:      "run-1",
		Kind:       "tags",
		Sign:       "Jazz",
		ComputedAt: at,
		Positions: []PositionRecord{
			{Position: "sun", Rank: 0, Genre: "Jazz", Pass: 1, Artists: []string{"Miles Davis", "Bill Evans"}},
			{Position: "moon", Rank: 1, Genre: "Soul", Pass: 2, Artists: []string{"Al Green"}},
		},
		Payload: []byte(`{"listener":"` + listener + `"}`),
	}
}

func TestOpenPath_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "starchart.db")

	m, err := OpenPath(path)
	require.NoError(t, err)
	require.NoError(t, m.LinkAccount("alice", "sk"))
	require.NoError(t, m.Close())

	m, err = OpenPath(path)
	require.NoError(t, err)
	defer m.Close()

	acct, err := m.Account("alice")
	require.NoError(t, err)
	require.NotNil(t, acct)
	assert.Equal(t, "sk", acct.SessionKey)
}

func TestAccounts(t *testing.T) {
	m := openTest(t)

	accounts, err := m.Accounts()
	require.NoError(t, err)
	assert.Empty(t, accounts)

	acct, err := m.Account("alice")
	require.NoError(t, err)
	assert.Nil(t, acct)

	require.NoError(t, m.LinkAccount("alice", "key1"))
	require.NoError(t, m.LinkAccount("bob", "key2"))

	accounts, err = m.Accounts()
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "bob", accounts[0].Username)
	assert.Equal(t, "alice", accounts[1].Username)
	assert.WithinDuration(t, time.Now(), accounts[0].LinkedAt, 5*time.Second)

	// Relinking replaces the session and moves the account to the front.
	require.NoError(t, m.LinkAccount("ALICE", "key3"))
	acct, err = m.Account("Alice")
	require.NoError(t, err)
	require.NotNil(t, acct)
	assert.Equal(t, "alice", acct.Username)
	assert.Equal(t, "key3", acct.SessionKey)

	accounts, err = m.Accounts()
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "alice", accounts[0].Username)

	removed, err := m.UnlinkAccount("bob")
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = m.UnlinkAccount("bob")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestLinkAccount_EmptyUsername(t *testing.T) {
	m := openTest(t)
	assert.Error(t, m.LinkAccount("  ", "key"))
}

func TestMock_Accounts(t *testing.T) {
	m := NewMock()
	require.NoError(t, m.LinkAccount("alice", "k1"))
	require.NoError(t, m.LinkAccount("bob", "k2"))
	require.NoError(t, m.LinkAccount("Alice", "k3"))

	accounts, err := m.Accounts()
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "k3", accounts[0].SessionKey)

	removed, err := m.UnlinkAccount("ALICE")
	require.NoError(t, err)
	assert.True(t, removed)
	acct, err := m.Account("alice")
	require.NoError(t, err)
	assert.Nil(t, acct)
}

func TestGetChart_Missing(t *testing.T) {
	m := openTest(t)

	rec, err := m.GetChart("nobody")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestSaveAndGetChart(t *testing.T) {
	m := openTest(t)
	at := time.Unix(1_700_000_000, 0)

	require.NoError(t, m.SaveChart(sampleChart("alice", at)))

	rec, err := m.GetChart("alice")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "run-1", rec.RunID)
	assert.Equal(t, "Jazz", rec.Sign)
	assert.True(t, at.Equal(rec.ComputedAt))
	assert.JSONEq(t, `{"listener":"alice"}`, string(rec.Payload))
	require.Len(t, rec.Positions, 2)
	assert.Equal(t, "sun", rec.Positions[0].Position)
	assert.Equal(t, []string{"Miles Davis", "Bill Evans"}, rec.Positions[0].Artists)
	assert.Equal(t, 2, rec.Positions[1].Pass)
}

func TestSaveChart_Replaces(t *testing.T) {
	m := openTest(t)

	require.NoError(t, m.SaveChart(sampleChart("alice", time.Unix(100, 0))))

	next := sampleChart("alice", time.Unix(200, 0))
	next.RunID = "run-2"
	next.Positions = next.Positions[:1]
	require.NoError(t, m.SaveChart(next))

	rec, err := m.GetChart("alice")
	require.NoError(t, err)
	assert.Equal(t, "run-2", rec.RunID)
	assert.Len(t, rec.Positions, 1)
}

func TestSaveChart_RollsBackOnFailure(t *testing.T) {
	m := openTest(t)
	require.NoError(t, m.SaveChart(sampleChart("alice", time.Unix(100, 0))))

	bad := sampleChart("alice", time.Unix(200, 0))
	bad.RunID = "run-bad"
	bad.Positions = append(bad.Positions, bad.Positions[0]) // duplicate key
	require.Error(t, m.SaveChart(bad))

	rec, err := m.GetChart("alice")
	require.NoError(t, err)
	assert.Equal(t, "run-1", rec.RunID)
	assert.Len(t, rec.Positions, 2)
}

func TestSaveChart_EmptyListener(t *testing.T) {
	m := openTest(t)
	assert.Error(t, m.SaveChart(ChartRecord{}))
}

func TestListAndDeleteCharts(t *testing.T) {
	m := openTest(t)

	require.NoError(t, m.SaveChart(sampleChart("alice", time.Unix(100, 0))))
	require.NoError(t, m.SaveChart(sampleChart("bob", time.Unix(300, 0))))

	charts, err := m.ListCharts()
	require.NoError(t, err)
	require.Len(t, charts, 2)
	assert.Equal(t, "bob", charts[0].Listener)
	assert.Equal(t, 2, charts[0].Filled)

	require.NoError(t, m.DeleteChart("bob"))

	charts, err = m.ListCharts()
	require.NoError(t, err)
	require.Len(t, charts, 1)

	var positions int
	require.NoError(t, m.DB().QueryRow(`SELECT COUNT(*) FROM chart_positions WHERE listener = 'bob'`).Scan(&positions))
	assert.Zero(t, positions)
}

func TestMock(t *testing.T) {
	m := NewMock()

	require.NoError(t, m.SaveChart(sampleChart("alice", time.Unix(1, 0))))
	rec, err := m.GetChart("alice")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 1, m.Saves())

	rec, err = m.GetChart("bob")
	require.NoError(t, err)
	assert.Nil(t, rec)
}
