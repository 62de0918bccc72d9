package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractAttendees(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "empty", in: "", want: []string{}},
		{name: "blanks only", in: " , ,, ", want: []string{}},
		{name: "single address", in: "awa@test.cd", want: []string{"awa@test.cd"}},
		{
			name: "comma separated",
			in:   "awa@test.cd, jo@test.cd ,lea@test.cd",
			want: []string{"awa@test.cd", "jo@test.cd", "lea@test.cd"},
		},
		{
			name: "angle brackets win",
			in:   "Awa Ndiaye <awa@test.cd>, Jo Doe <jo@test.cd>",
			want: []string{"awa@test.cd", "jo@test.cd"},
		},
		{
			name: "duplicates dropped, order preserved",
			in:   "jo@test.cd, awa@test.cd, jo@test.cd",
			want: []string{"jo@test.cd", "awa@test.cd"},
		},
		{
			name: "mixed text without brackets splits on commas",
			in:   "send to awa@test.cd",
			want: []string{"send to awa@test.cd"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractAttendees(tt.in))
		})
	}
}
