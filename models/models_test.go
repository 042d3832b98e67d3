package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestPasswordRoundTrip(t *testing.T) {
	var u User
	require.NoError(t, u.SetPassword("s3cret-pass"))

	assert.NotEqual(t, "s3cret-pass", u.PasswordHash)
	assert.True(t, u.CheckPassword("s3cret-pass"))
	assert.False(t, u.CheckPassword("s3cret-pasS"))
	assert.False(t, u.CheckPassword(""))
}

func TestCheckPasswordWithoutHash(t *testing.T) {
	var u User
	assert.False(t, u.CheckPassword("anything"))
}

func TestSplitSkills(t *testing.T) {
	tests := []struct {
		name string
		in   *string
		want []string
	}{
		{"nil", nil, []string{}},
		{"empty", strPtr(""), []string{}},
		{"trimmed", strPtr(" C ,Python,  Go"), []string{"C", "Python", "Go"}},
		{"blank tokens dropped", strPtr("C,, ,Rust,"), []string{"C", "Rust"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitSkills(tt.in)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJoinSkills(t *testing.T) {
	assert.Equal(t, "C, Other, VHDL", JoinSkills([]string{"C", "Other"}, " VHDL "))
	assert.Equal(t, "C, Python", JoinSkills([]string{"C", "Python"}, "VHDL"))
	assert.Equal(t, "Other", JoinSkills([]string{"Other"}, "  "))
	assert.Equal(t, "", JoinSkills(nil, ""))
}

func TestProjectView(t *testing.T) {
	creator := uint(7)
	p := Project{ID: 3, Name: "Robotics Club", Sector: "embedded", PeopleCount: 4, Skills: strPtr("C, VHDL"), CreatorID: &creator}

	v := p.View()
	assert.Equal(t, []string{"C", "VHDL"}, v.Skills)
	assert.True(t, p.IsCreator(7))
	assert.False(t, p.IsCreator(8))
	assert.False(t, Project{}.IsCreator(0))
}

func TestComputeProgress(t *testing.T) {
	assert.Equal(t, Progress{}, ComputeProgress(nil))

	tasks := []Task{{IsDone: true}, {IsDone: true}, {IsDone: false}}
	assert.Equal(t, Progress{Done: 2, Total: 3, Percent: 66}, ComputeProgress(tasks))

	tasks = append(tasks, Task{IsDone: true})
	assert.Equal(t, 75, ComputeProgress(tasks).Percent)
}

func TestIsValidSkillLevel(t *testing.T) {
	for _, l := range SkillLevels {
		assert.True(t, IsValidSkillLevel(l))
	}
	assert.False(t, IsValidSkillLevel("beginner"))
	assert.False(t, IsValidSkillLevel("Guru"))
}
