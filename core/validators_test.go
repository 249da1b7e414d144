package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type validated struct {
	Name string `json:"name" validate:"notblank"`
	Day  string `json:"day" validate:"notblank,caldate"`
	Opt  string `json:"opt" validate:"caldate"`
	Ref  ID     `json:"ref" validate:"required"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name       string
		in         validated
		wantFields map[string]string
	}{
		{name: "valid", in: validated{Name: "CS101", Day: "2024-1-5", Ref: "1"}},
		{
			name: "blank",
			in:   validated{Name: "   ", Day: ""},
			wantFields: map[string]string{
				"name": notBlankText,
				"day":  notBlankText,
				"ref":  requiredText,
			},
		},
		{
			name:       "bad dates",
			in:         validated{Name: "x", Day: "2024-13-01", Opt: "soon", Ref: "2"},
			wantFields: map[string]string{"day": calDateText, "opt": calDateText},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.in)
			if tt.wantFields == nil {
				require.NoError(t, err)
				return
			}
			require.True(t, IsValidation(err), "got %v", err)
			assert.Equal(t, tt.wantFields, FieldMessages(err))
		})
	}
}
