package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcademicLevels_Normalization(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want AcademicLevels
	}{
		{"array of objects", `[{"id":1,"name":"Primary"},{"id":2,"label":"Secondary"}]`, AcademicLevels{{ID: 1, Label: "Primary"}, {ID: 2, Label: "Secondary"}}},
		{"array of ids", `[3, 4]`, AcademicLevels{{ID: 3}, {ID: 4}}},
		{"single object", `{"id":5,"level":"University"}`, AcademicLevels{{ID: 5, Label: "University"}}},
		{"bare number", `7`, AcademicLevels{{ID: 7}}},
		{"numeric string", `"8"`, AcademicLevels{{ID: 8}}},
		{"plain label", `"A-Level"`, AcademicLevels{{Label: "A-Level"}}},
		{"json encoded array", `"[{\"id\":9,\"name\":\"GCSE\"}]"`, AcademicLevels{{ID: 9, Label: "GCSE"}}},
		{"json encoded object", `"{\"id\":10}"`, AcademicLevels{{ID: 10}}},
		{"null", `null`, AcademicLevels{}},
		{"empty string", `""`, AcademicLevels{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got AcademicLevels
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStudent_DecodesAcademicLevelField(t *testing.T) {
	raw := `{"id":12,"first_name":"Ann","preferred_subjects":[1,2],"academic_level":"[1,2]"}`

	var s Student
	require.NoError(t, json.Unmarshal([]byte(raw), &s))
	assert.Equal(t, []int64{1, 2}, s.AcademicLevel.IDs())
	assert.Equal(t, "Ann", s.DisplayName())
}

func TestAcademicLevels_RejectsGarbage(t *testing.T) {
	var got AcademicLevels
	assert.Error(t, json.Unmarshal([]byte(`[{"id":"x"}]`), &got))
}
