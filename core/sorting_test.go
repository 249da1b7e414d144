package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	id    int
	title string
	date  string
}

var itemKeys = map[string]Compare[item]{
	"title": ByString(func(i item) string { return i.title }),
	"id":    ByInt(func(i item) int { return i.id }),
	"date":  ByDate(func(i item) string { return i.date }),
}

func ids(items []item) []int {
	out := make([]int, 0, len(items))
	for _, i := range items {
		out = append(out, i.id)
	}
	return out
}

func TestSort(t *testing.T) {
	items := []item{
		{id: 1, title: "B", date: "2024-10-1"},
		{id: 2, title: "A", date: "2024-2-1"},
		{id: 3, title: "A", date: "2024-02-01"},
	}

	tests := []struct {
		name  string
		key   string
		order Order
		want  []int
	}{
		{name: "stable ascending", key: "title", order: Ascending, want: []int{2, 3, 1}},
		{name: "stable descending", key: "title", order: Descending, want: []int{1, 2, 3}},
		{name: "by calendar date", key: "date", order: Ascending, want: []int{2, 3, 1}},
		{name: "by date descending", key: "date", order: Descending, want: []int{1, 2, 3}},
		{name: "numeric descending", key: "id", order: Descending, want: []int{3, 2, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Sort(items, itemKeys, tt.key, tt.order)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}

	// input untouched
	assert.Equal(t, []int{1, 2, 3}, ids(items))
}

func TestSort_unknownKey(t *testing.T) {
	_, err := Sort([]item{{id: 1}}, itemKeys, "titel", Ascending)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), `did you mean "title"?`)
}

func TestSort_empty(t *testing.T) {
	got, err := Sort(nil, itemKeys, "id", Ascending)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestParseOrder(t *testing.T) {
	tests := []struct {
		in      string
		want    Order
		wantErr bool
	}{
		{in: "", want: Ascending},
		{in: "asc", want: Ascending},
		{in: " DESC ", want: Descending},
		{in: "descending", want: Descending},
		{in: "up", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseOrder(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseOrder(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseOrder(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	assert.Equal(t, []string{"date", "id", "title"}, SortKeys(itemKeys))
}
