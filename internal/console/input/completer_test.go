package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComplete(t *testing.T) {
	c := NewCompleter([]string{"echo", "env", "docker", "date", "ls", "ls"})

	tests := []struct {
		name   string
		line   string
		want   string
		wantOK bool
	}{
		{name: "unique prefix", line: "ech", want: "o", wantOK: true},
		{name: "already complete", line: "echo", want: "", wantOK: true},
		{name: "ambiguous", line: "d", wantOK: false},
		{name: "ambiguous e", line: "e", wantOK: false},
		{name: "no match", line: "zz", wantOK: false},
		{name: "empty line", line: "", wantOK: false},
		{name: "case sensitive", line: "ECH", wantOK: false},
		{name: "has argument", line: "ls ", wantOK: false},
		{name: "second word", line: "echo ec", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := c.Complete(tt.line)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchesSortedAndDeduplicated(t *testing.T) {
	c := NewCompleter([]string{"docker", "date", "df", "docker", ""})
	assert.Equal(t, []string{"date", "df", "docker"}, c.Matches("d"))
}

func TestNilCompleter(t *testing.T) {
	var c *Completer
	_, ok := c.Complete("ls")
	assert.False(t, ok)
}
