package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRow(t *testing.T) {
	t.Run("Complete", func(t *testing.T) {
		r := NewRow([]string{"Card#", "URL"}, []string{"1", "https://youtu.be/abc"})
		assert.Equal(t, "1", r.Get("Card#"))
		assert.Equal(t, "https://youtu.be/abc", r.Get("URL"))
		assert.Equal(t, []string{"Card#", "URL"}, r.Columns())
	})

	t.Run("ShortRecord", func(t *testing.T) {
		r := NewRow([]string{"Card#", "URL", "Notes"}, []string{"7"})
		v, ok := r.Lookup("URL")
		assert.True(t, ok)
		assert.Equal(t, "", v)
		assert.Equal(t, []string{"7", "", ""}, r.Record([]string{"Card#", "URL", "Notes"}))
	})

	t.Run("LongRecord", func(t *testing.T) {
		r := NewRow([]string{"Card#"}, []string{"7", "surplus"})
		assert.Equal(t, []string{"Card#"}, r.Columns())
	})
}

func TestRow_Set(t *testing.T) {
	r := NewRow([]string{"Card#", "URL"}, []string{"1", "u"})

	r.Set("URL", "v")
	r.Set("Youtube-Title", "Title")

	assert.Equal(t, []string{"Card#", "URL", "Youtube-Title"}, r.Columns())
	assert.Equal(t, "v", r.Get("URL"))
	assert.Equal(t, "Title", r.Get("Youtube-Title"))

	_, ok := r.Lookup("Hashed Info")
	assert.False(t, ok)
	assert.Equal(t, "", r.Get("Hashed Info"))
}

func TestRow_ZeroValueSet(t *testing.T) {
	var r Row
	r.Set("a", "1")
	assert.Equal(t, "1", r.Get("a"))
}

func TestRow_Clone(t *testing.T) {
	r := NewRow([]string{"a"}, []string{"1"})
	c := r.Clone()
	c.Set("a", "2")
	c.Set("b", "3")

	assert.Equal(t, "1", r.Get("a"))
	assert.Equal(t, []string{"a"}, r.Columns())
	assert.Equal(t, []string{"a", "b"}, c.Columns())
}

func TestAppendMissing(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
		extra   []string
		want    []string
	}{
		{"BothMissing", []string{"Card#", "URL"}, []string{"T", "H"}, []string{"Card#", "URL", "T", "H"}},
		{"OnePresent", []string{"Card#", "T", "URL"}, []string{"T", "H"}, []string{"Card#", "T", "URL", "H"}},
		{"AllPresent", []string{"H", "T"}, []string{"T", "H"}, []string{"H", "T"}},
		{"DuplicateExtra", []string{"a"}, []string{"b", "b"}, []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := append([]string(nil), tt.columns...)
			assert.Equal(t, tt.want, AppendMissing(in, tt.extra...))
			assert.Equal(t, tt.columns, in, "input must not be modified")
		})
	}
}
