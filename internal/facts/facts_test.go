package facts

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Lookup(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		want   string
		wantOK bool
	}{
		{name: "exact", query: "capital of france", want: "The capital of France is Paris.", wantOK: true},
		{name: "case insensitive", query: "What is the Capital Of France?", want: "The capital of France is Paris.", wantOK: true},
		{name: "mountain", query: "tallest mountain in the world", want: "Mount Everest is the tallest mountain.", wantOK: true},
		{name: "population", query: "population of New York City", want: "The Population of New York City is approximately 8.5 million.", wantOK: true},
		{name: "miss", query: "capital of Mars", wantOK: false},
		{name: "empty", query: "", wantOK: false},
	}

	p := Default()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := p.Lookup(context.Background(), tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatic_FirstMatchWins(t *testing.T) {
	s, err := NewStatic(
		Entry{Trigger: "Paris", Fact: "first"},
		Entry{Trigger: "capital", Fact: "second"},
	)
	require.NoError(t, err)

	got, ok, err := s.Lookup(context.Background(), "capital Paris")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "first", got)
}

func TestNewStatic_Invalid(t *testing.T) {
	_, err := NewStatic(Entry{Trigger: " ", Fact: "x"})
	assert.ErrorIs(t, err, ErrEmptyTrigger)

	_, err = NewStatic(Entry{Trigger: "x"})
	assert.ErrorIs(t, err, ErrEmptyFact)
}

func TestStatic_EntriesIsCopy(t *testing.T) {
	s := Default()
	entries := s.Entries()
	entries[0].Fact = "changed"
	assert.Equal(t, "The capital of France is Paris.", s.Entries()[0].Fact)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "facts.yaml")
	doc := "facts:\n  - trigger: Speed of Light\n    fact: About 299,792 km/s.\n  - trigger: boiling point\n    fact: Water boils at 100 C at sea level.\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	s, err := LoadYAML(path)
	require.NoError(t, err)
	require.Len(t, s.Entries(), 2)

	got, ok, err := s.Lookup(context.Background(), "what is the speed of light?")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "About 299,792 km/s.", got)
}

func TestParseYAML_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "not yaml", doc: "facts: [unterminated"},
		{name: "no entries", doc: "facts: []\n"},
		{name: "missing fact", doc: "facts:\n  - trigger: x\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseYAML([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestEncodeYAML(t *testing.T) {
	data, err := EncodeYAML(Default().Entries())
	require.NoError(t, err)
	assert.Contains(t, string(data), "trigger: capital of france")

	s, err := ParseYAML(data)
	require.NoError(t, err)
	assert.Equal(t, Default().Entries(), s.Entries())
}

func TestLoadYAML_MissingFile(t *testing.T) {
	_, err := LoadYAML(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func redisAddr() string {
	if addr := os.Getenv("REDIS_URL"); addr != "" {
		return addr
	}
	return "localhost:6379"
}

func getRedis(t *testing.T) *Redis {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	key := "reactchat:test:facts:" + t.Name()
	r, err := DialRedis(ctx, redisAddr(), key)
	if err != nil {
		t.Skipf("redis not available: %v", err)
	}
	require.NoError(t, r.client.Del(ctx, key).Err())
	t.Cleanup(func() {
		_ = r.client.Del(context.Background(), key).Err()
		_ = r.Close()
	})
	return r
}

func TestRedis_Lookup(t *testing.T) {
	r := getRedis(t)
	ctx := context.Background()

	require.NoError(t, r.Append(ctx, Default().Entries()...))

	got, ok, err := r.Lookup(ctx, "What is the capital of France?")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "The capital of France is Paris.", got)

	_, ok, err = r.Lookup(ctx, "who won the cup")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedis_MalformedEntry(t *testing.T) {
	r := getRedis(t)
	ctx := context.Background()

	require.NoError(t, r.client.RPush(ctx, r.key, "not json").Err())

	_, _, err := r.Lookup(ctx, "anything")
	assert.Error(t, err)
}

func TestRedis_AppendRejectsInvalid(t *testing.T) {
	r := NewRedis(redis.NewClient(&redis.Options{Addr: "localhost:0"}), "")
	defer r.Close()

	assert.Equal(t, DefaultRedisKey, r.key)
	assert.ErrorIs(t, r.Append(context.Background(), Entry{Fact: "x"}), ErrEmptyTrigger)
	assert.NoError(t, r.Append(context.Background()))
}

func TestEntry_Normalize(t *testing.T) {
	e := Entry{Trigger: "  Capital of FRANCE ", Fact: "The capital of France is Paris."}.normalize()
	assert.Equal(t, "capital of france", e.Trigger)

	fact, ok := match([]Entry{e}, "What is the capital of France?")
	assert.True(t, ok)
	assert.Equal(t, "The capital of France is Paris.", fact)
}

func TestRedis_UntrimmedTrigger(t *testing.T) {
	r := getRedis(t)
	ctx := context.Background()

	require.NoError(t, r.client.RPush(ctx, r.key, `{"trigger":" Capital of France ","fact":"Paris."}`).Err())

	got, ok, err := r.Lookup(ctx, "What is the capital of France?")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Paris.", got)

	entries, err := r.Entries(ctx)
	require.NoError(t, err)
	assert.Equal(t, "capital of france", entries[0].Trigger)
}
