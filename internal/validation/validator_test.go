package validation

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tagPayload struct {
	Name  string `json:"name" binding:"required,max=200" validate:"required,max=200"`
	Color string `json:"color" validate:"required,color"`
	Slug  string `json:"slug" validate:"required,slug"`
}

type userPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,max=150,username"`
}

func TestValidate_UsesJSONNames(t *testing.T) {
	v := New()

	err := v.Validate(tagPayload{Name: "", Color: "green", Slug: "bad slug"})
	require.Error(t, err)

	fields, ok := FieldErrors(err)
	require.True(t, ok)
	assert.Equal(t, []string{"This field is required."}, fields["name"])
	assert.Contains(t, fields, "color")
	assert.Contains(t, fields, "slug")
}

func TestValidate_Valid(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(tagPayload{Name: "Breakfast", Color: "#E26C2D", Slug: "breakfast"}))
	assert.NoError(t, v.Validate(userPayload{Email: "cook@example.com", Username: "chef.ivan+1"}))
}

func TestValidate_Username(t *testing.T) {
	v := New()

	tests := []struct {
		name     string
		username string
		valid    bool
	}{
		{name: "Plain", username: "vasya", valid: true},
		{name: "Symbols", username: "a.b@c+d-e_f", valid: true},
		{name: "Space", username: "va sya", valid: false},
		{name: "Reserved", username: "me", valid: false},
		{name: "Reserved upper", username: "ME", valid: false},
		{name: "Too long", username: strings.Repeat("a", 151), valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(userPayload{Email: "cook@example.com", Username: tt.username})
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			fields, ok := FieldErrors(err)
			require.True(t, ok)
			assert.Contains(t, fields, "username")
		})
	}
}

func TestFieldErrors_JSONErrors(t *testing.T) {
	var payload struct {
		CookingTime int `json:"cooking_time"`
	}

	err := json.Unmarshal([]byte(`{"cooking_time": "soon"}`), &payload)
	fields, ok := FieldErrors(err)
	require.True(t, ok)
	assert.Contains(t, fields, "cooking_time")

	err = json.Unmarshal([]byte(`{"cooking_time": `), &payload)
	fields, ok = FieldErrors(err)
	require.True(t, ok)
	assert.Contains(t, fields, NonFieldErrors)
}

func TestFieldErrors_Unrelated(t *testing.T) {
	_, ok := FieldErrors(assert.AnError)
	assert.False(t, ok)
}

func TestSetup(t *testing.T) {
	assert.NoError(t, Setup())
}

func TestCapitalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "  bORSCHT soup ", want: "Borscht soup"},
		{in: "ПЕЛЬМЕНИ", want: "Пельмени"},
		{in: "éclair", want: "Éclair"},
		{in: "", want: ""},
		{in: "   ", want: ""},
		{in: "1 minute eggs", want: "1 minute eggs"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Capitalize(tt.in))
		})
	}
}

func TestPatterns(t *testing.T) {
	assert.True(t, IsSlug("quick_lunch-2"))
	assert.False(t, IsSlug("quick lunch"))
	assert.True(t, IsColor("#49b64e"))
	assert.False(t, IsColor("#fff"))
	assert.Equal(t, 5, RuneLen("борщ!"))
}
