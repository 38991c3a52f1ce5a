package catalog

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate(t *testing.T) {
	tests := []struct {
		name    string
		records []Record
		want    []Package
	}{
		{
			name: "groups in first-seen order",
			records: []Record{
				{Name: "A", Version: "1"},
				{Name: "B", Version: "7"},
				{Name: "A", Version: "2"},
			},
			want: []Package{
				{Name: "A", Versions: []string{"1", "2"}},
				{Name: "B", Versions: []string{"7"}},
			},
		},
		{
			name:    "missing name becomes Unknown",
			records: []Record{{Version: "5"}},
			want:    []Package{{Name: Unknown, Versions: []string{"5"}}},
		},
		{
			name:    "no versions yields placeholder",
			records: []Record{{Name: "A"}, {Name: "A"}},
			want:    []Package{{Name: "A", Versions: []string{NotAvailable}}},
		},
		{
			name: "duplicate versions collapse",
			records: []Record{
				{Name: "A", Version: "1"},
				{Name: "A", Version: "1"},
				{Name: "A", Version: "0"},
			},
			want: []Package{{Name: "A", Versions: []string{"1", "0"}}},
		},
		{
			name:    "empty input",
			records: nil,
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Aggregate(tt.records))
		})
	}
}

func TestAggregateNeverEmptyVersions(t *testing.T) {
	records := []Record{{Name: "x"}, {Name: ""}, {Name: "y", Version: "1"}, {Name: "x"}}
	for _, p := range Aggregate(records) {
		assert.NotEmpty(t, p.Versions, p.Name)
	}
}

func TestAggregateUniqueNames(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	names := []string{"git", "vim", "", "Git", "curl"}
	versions := []string{"", "1.0", "1.0", "2.0", "10"}

	for round := 0; round < 50; round++ {
		records := make([]Record, rng.Intn(40))
		for i := range records {
			records[i] = Record{
				Name:    names[rng.Intn(len(names))],
				Version: versions[rng.Intn(len(versions))],
			}
		}

		seen := make(map[string]bool)
		for _, p := range Aggregate(records) {
			require.False(t, seen[p.Name], "round %d: duplicate package %q", round, p.Name)
			seen[p.Name] = true

			vs := make(map[string]bool)
			for _, v := range p.Versions {
				require.False(t, vs[v], "round %d: %s lists %q twice", round, p.Name, v)
				vs[v] = true
			}
		}
	}
}

func TestFilter(t *testing.T) {
	pkgs := []Package{
		{Name: "Apple", Versions: []string{"1"}},
		{Name: "grape", Versions: []string{"1"}},
		{Name: "Banana", Versions: []string{"1"}},
	}

	tests := []struct {
		substr string
		want   []string
	}{
		{"ap", []string{"Apple", "grape"}},
		{"AP", []string{"Apple", "grape"}},
		{"", []string{"Apple", "grape", "Banana"}},
		{"zzz", nil},
	}

	for _, tt := range tests {
		t.Run(tt.substr, func(t *testing.T) {
			got := Filter(pkgs, tt.substr)
			assert.Equal(t, got, Filter(got, tt.substr), "filtering twice changed the result")
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, Names(got))
		})
	}
}

func TestFilterDoesNotAlias(t *testing.T) {
	pkgs := []Package{{Name: "a", Versions: []string{"1"}}}
	got := Filter(pkgs, "")
	got[0].Name = "changed"
	assert.Equal(t, "a", pkgs[0].Name)
}

func TestPackageHelpers(t *testing.T) {
	p := Package{Name: "git", Versions: []string{"2.40.0", "2.41.0"}}

	assert.True(t, p.HasVersion("2.40.0"))
	assert.False(t, p.HasVersion("2.39.0"))
	assert.Equal(t, "2.41.0", p.Latest())

	c := p.Clone()
	c.Versions[0] = "x"
	assert.Equal(t, "2.40.0", p.Versions[0])

	found, ok := Find([]Package{p}, "git")
	require.True(t, ok)
	assert.Equal(t, p, found)

	_, ok = Find([]Package{p}, "svn")
	assert.False(t, ok)
}
